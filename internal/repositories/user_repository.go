package repositories

import (
	"errors"
	"strings"
	"time"

	"hiring_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	// FindActiveByEmailAndDesignation - поиск менеджера для назначения
	FindActiveByEmailAndDesignation(db *gorm.DB, email string, designation models.Designation) (*models.User, error)
	UpdateLastLogin(db *gorm.DB, userID string, at time.Time) error
	CountByDesignation(db *gorm.DB) (map[models.Designation]int64, error)
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	user.Email = normalizeEmail(user.Email)

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUserAlreadyExists
	}

	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "email = ?", normalizeEmail(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindActiveByEmailAndDesignation(db *gorm.DB, email string, designation models.Designation) (*models.User, error) {
	var user models.User
	err := db.
		Where("email = ? AND designation = ? AND is_active = ?", normalizeEmail(email), designation, true).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) UpdateLastLogin(db *gorm.DB, userID string, at time.Time) error {
	return db.Model(&models.User{}).Where("id = ?", userID).Update("last_login", at).Error
}

func (r *UserRepositoryImpl) CountByDesignation(db *gorm.DB) (map[models.Designation]int64, error) {
	var rows []struct {
		Designation models.Designation
		Count       int64
	}
	err := db.Model(&models.User{}).
		Select("designation, COUNT(*) AS count").
		Group("designation").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[models.Designation]int64, len(rows))
	for _, row := range rows {
		result[row.Designation] = row.Count
	}
	return result, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
