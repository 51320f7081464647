package repositories

import (
	"errors"
	"time"

	"hiring_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrCandidateNotFound  = errors.New("candidate not found")
	ErrDuplicateReference = errors.New("duplicate candidate reference number")
)

type CandidateRepository interface {
	Create(db *gorm.DB, candidate *models.Candidate) error
	FindByID(db *gorm.DB, id string) (*models.Candidate, error)
	// FindAll - все кандидаты, новые первыми
	FindAll(db *gorm.DB) ([]models.Candidate, error)
	FindRecent(db *gorm.DB, limit int) ([]models.Candidate, error)
	// UpdateProfile сохраняет редактируемые поля (номер, автор, статус не трогаются)
	UpdateProfile(db *gorm.DB, candidate *models.Candidate) error
	UpdateStatus(db *gorm.DB, id string, status models.CandidateStatus) error
	// UpdateStatusFrom меняет статус только если он все еще равен from; false - строка не изменена
	UpdateStatusFrom(db *gorm.DB, id string, from, to models.CandidateStatus) (bool, error)
	Delete(db *gorm.DB, id string) error

	CountAll(db *gorm.DB) (int64, error)
	CountByStatus(db *gorm.DB) (map[models.CandidateStatus]int64, error)
	GetRatingStats(db *gorm.DB) (*CandidateRatingStats, error)
}

type CandidateRatingStats struct {
	WithTechnicalRating int64
	WithHRRating        int64
	WithHRReview        int64
}

type CandidateRepositoryImpl struct{}

func NewCandidateRepository() CandidateRepository {
	return &CandidateRepositoryImpl{}
}

func (r *CandidateRepositoryImpl) Create(db *gorm.DB, candidate *models.Candidate) error {
	candidate.Email = normalizeEmail(candidate.Email)
	if err := db.Create(candidate).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateReference
		}
		return err
	}
	return nil
}

func (r *CandidateRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := db.Preload("CreatedBy").First(&candidate, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, err
	}
	return &candidate, nil
}

func (r *CandidateRepositoryImpl) FindAll(db *gorm.DB) ([]models.Candidate, error) {
	var candidates []models.Candidate
	err := db.Preload("CreatedBy").Order("created_at DESC").Find(&candidates).Error
	return candidates, err
}

func (r *CandidateRepositoryImpl) FindRecent(db *gorm.DB, limit int) ([]models.Candidate, error) {
	var candidates []models.Candidate
	err := db.Preload("CreatedBy").Order("created_at DESC").Limit(limit).Find(&candidates).Error
	return candidates, err
}

func (r *CandidateRepositoryImpl) UpdateProfile(db *gorm.DB, candidate *models.Candidate) error {
	result := db.Model(&models.Candidate{}).Where("id = ?", candidate.ID).Updates(map[string]interface{}{
		"first_name":            candidate.FirstName,
		"last_name":             candidate.LastName,
		"phone_number":          candidate.PhoneNumber,
		"email":                 normalizeEmail(candidate.Email),
		"gender":                candidate.Gender,
		"date_of_birth":         candidate.DateOfBirth,
		"education":             candidate.Education,
		"experience":            candidate.Experience,
		"technical_test_rating": candidate.TechnicalTestRating,
		"hr_interview_rating":   candidate.HRInterviewRating,
		"hr_review":             candidate.HRReview,
		"updated_at":            time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCandidateNotFound
	}
	return nil
}

func (r *CandidateRepositoryImpl) UpdateStatus(db *gorm.DB, id string, status models.CandidateStatus) error {
	result := db.Model(&models.Candidate{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCandidateNotFound
	}
	return nil
}

func (r *CandidateRepositoryImpl) UpdateStatusFrom(db *gorm.DB, id string, from, to models.CandidateStatus) (bool, error) {
	result := db.Model(&models.Candidate{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *CandidateRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.Candidate{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCandidateNotFound
	}
	return nil
}

func (r *CandidateRepositoryImpl) CountAll(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.Candidate{}).Count(&count).Error
	return count, err
}

func (r *CandidateRepositoryImpl) CountByStatus(db *gorm.DB) (map[models.CandidateStatus]int64, error) {
	var rows []struct {
		Status models.CandidateStatus
		Count  int64
	}
	err := db.Model(&models.Candidate{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[models.CandidateStatus]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}

func (r *CandidateRepositoryImpl) GetRatingStats(db *gorm.DB) (*CandidateRatingStats, error) {
	stats := &CandidateRatingStats{}

	if err := db.Model(&models.Candidate{}).
		Where("technical_test_rating IS NOT NULL").
		Count(&stats.WithTechnicalRating).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Candidate{}).
		Where("hr_interview_rating IS NOT NULL").
		Count(&stats.WithHRRating).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Candidate{}).
		Where("hr_review IS NOT NULL AND hr_review <> ''").
		Count(&stats.WithHRReview).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
