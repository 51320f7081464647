package repositories

import (
	"errors"
	"time"

	"hiring_backend/internal/models"

	"gorm.io/gorm"
)

var ErrAdminNotFound = errors.New("admin not found")

type AdminRepository interface {
	Create(db *gorm.DB, admin *models.Admin) error
	FindByID(db *gorm.DB, id string) (*models.Admin, error)
	FindByEmail(db *gorm.DB, email string) (*models.Admin, error)
	UpdateLastLogin(db *gorm.DB, adminID string, at time.Time) error
}

type AdminRepositoryImpl struct{}

func NewAdminRepository() AdminRepository {
	return &AdminRepositoryImpl{}
}

func (r *AdminRepositoryImpl) Create(db *gorm.DB, admin *models.Admin) error {
	admin.Email = normalizeEmail(admin.Email)
	if err := db.Create(admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *AdminRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Admin, error) {
	var admin models.Admin
	if err := db.First(&admin, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.Admin, error) {
	var admin models.Admin
	if err := db.First(&admin, "email = ?", normalizeEmail(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepositoryImpl) UpdateLastLogin(db *gorm.DB, adminID string, at time.Time) error {
	return db.Model(&models.Admin{}).Where("id = ?", adminID).Update("last_login", at).Error
}
