package repositories

import (
	"errors"
	"time"

	"hiring_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrRoleAssignmentNotFound = errors.New("role assignment not found")
	ErrRoleAssignmentExists   = errors.New("role assignment already exists")
)

type RoleAssignmentRepository interface {
	Create(db *gorm.DB, ra *models.RoleAssignment) error
	FindByEmailAndRole(db *gorm.DB, email string, role models.Designation) (*models.RoleAssignment, error)
	// FindActiveByEmail возвращает последнее активное приглашение для email
	FindActiveByEmail(db *gorm.DB, email string) (*models.RoleAssignment, error)
	CountActiveByRole(db *gorm.DB, role models.Designation) (int64, error)
	CountActiveGrouped(db *gorm.DB) (map[models.Designation]int64, error)
	MarkRegistered(db *gorm.DB, id string, at time.Time) error
	UpdateLastLogin(db *gorm.DB, email string, role models.Designation, at time.Time) error
}

type RoleAssignmentRepositoryImpl struct{}

func NewRoleAssignmentRepository() RoleAssignmentRepository {
	return &RoleAssignmentRepositoryImpl{}
}

func (r *RoleAssignmentRepositoryImpl) Create(db *gorm.DB, ra *models.RoleAssignment) error {
	ra.Email = normalizeEmail(ra.Email)
	if err := db.Create(ra).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrRoleAssignmentExists
		}
		return err
	}
	return nil
}

func (r *RoleAssignmentRepositoryImpl) FindByEmailAndRole(db *gorm.DB, email string, role models.Designation) (*models.RoleAssignment, error) {
	var ra models.RoleAssignment
	err := db.Where("email = ? AND role = ?", normalizeEmail(email), role).First(&ra).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleAssignmentNotFound
		}
		return nil, err
	}
	return &ra, nil
}

func (r *RoleAssignmentRepositoryImpl) FindActiveByEmail(db *gorm.DB, email string) (*models.RoleAssignment, error) {
	var ra models.RoleAssignment
	err := db.
		Where("email = ? AND status = ? AND is_active = ?", normalizeEmail(email), models.RoleAssignmentActive, true).
		Order("invited_at DESC").
		First(&ra).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleAssignmentNotFound
		}
		return nil, err
	}
	return &ra, nil
}

func (r *RoleAssignmentRepositoryImpl) CountActiveByRole(db *gorm.DB, role models.Designation) (int64, error) {
	var count int64
	err := db.Model(&models.RoleAssignment{}).
		Where("role = ? AND status = ? AND is_active = ?", role, models.RoleAssignmentActive, true).
		Count(&count).Error
	return count, err
}

func (r *RoleAssignmentRepositoryImpl) CountActiveGrouped(db *gorm.DB) (map[models.Designation]int64, error) {
	var rows []struct {
		Role  models.Designation
		Count int64
	}
	err := db.Model(&models.RoleAssignment{}).
		Select("role, COUNT(*) AS count").
		Where("status = ? AND is_active = ?", models.RoleAssignmentActive, true).
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[models.Designation]int64, len(rows))
	for _, row := range rows {
		result[row.Role] = row.Count
	}
	return result, nil
}

func (r *RoleAssignmentRepositoryImpl) MarkRegistered(db *gorm.DB, id string, at time.Time) error {
	return db.Model(&models.RoleAssignment{}).Where("id = ?", id).Updates(map[string]interface{}{
		"registered_at": at,
		"last_login":    at,
	}).Error
}

func (r *RoleAssignmentRepositoryImpl) UpdateLastLogin(db *gorm.DB, email string, role models.Designation, at time.Time) error {
	return db.Model(&models.RoleAssignment{}).
		Where("email = ? AND role = ?", normalizeEmail(email), role).
		Update("last_login", at).Error
}
