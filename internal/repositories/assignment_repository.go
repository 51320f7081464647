package repositories

import (
	"errors"
	"time"

	"hiring_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrAssignmentNotFound      = errors.New("assignment not found")
	ErrCandidateAlreadyHasLink = errors.New("candidate already has an assignment")
)

type AssignmentRepository interface {
	Create(db *gorm.DB, assignment *models.Assignment) error
	FindByID(db *gorm.DB, id string) (*models.Assignment, error)
	FindByCandidateID(db *gorm.DB, candidateID string) (*models.Assignment, error)
	ExistsForCandidate(db *gorm.DB, candidateID string) (bool, error)
	// FindByCandidateIDs - назначения по списку кандидатов (ключ - candidate_id)
	FindByCandidateIDs(db *gorm.DB, candidateIDs []string) (map[string]*models.Assignment, error)
	FindAll(db *gorm.DB) ([]models.Assignment, error)
	FindByManager(db *gorm.DB, managerID string) ([]models.Assignment, error)
	// SaveReview сохраняет поля, которые меняет менеджер
	SaveReview(db *gorm.DB, assignment *models.Assignment) error
	UpdateHRComments(db *gorm.DB, id, comments string) error
	DeleteByCandidate(db *gorm.DB, candidateID string) (int64, error)

	CountAll(db *gorm.DB, managerID string) (int64, error)
	// CountByStatus; пустой managerID - по всем менеджерам
	CountByStatus(db *gorm.DB, managerID string) (map[models.AssignmentStatus]int64, error)
	CountWithFeedback(db *gorm.DB) (int64, error)
	FindRecentAssigned(db *gorm.DB, limit int) ([]models.Assignment, error)
	FindRecentReviewed(db *gorm.DB, limit int) ([]models.Assignment, error)
	FindStatusPairs(db *gorm.DB) ([]StatusPair, error)
}

// StatusPair - статус назначения рядом со статусом его кандидата
type StatusPair struct {
	AssignmentID     string
	CandidateID      string
	AssignmentStatus models.AssignmentStatus
	CandidateStatus  models.CandidateStatus
}

type AssignmentRepositoryImpl struct{}

func NewAssignmentRepository() AssignmentRepository {
	return &AssignmentRepositoryImpl{}
}

func (r *AssignmentRepositoryImpl) Create(db *gorm.DB, assignment *models.Assignment) error {
	assignment.ManagerEmail = normalizeEmail(assignment.ManagerEmail)
	if err := db.Create(assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrCandidateAlreadyHasLink
		}
		return err
	}
	return nil
}

func (r *AssignmentRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Assignment, error) {
	var assignment models.Assignment
	err := db.
		Preload("Candidate").
		Preload("AssignedBy").
		Preload("AssignedTo").
		First(&assignment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *AssignmentRepositoryImpl) FindByCandidateID(db *gorm.DB, candidateID string) (*models.Assignment, error) {
	var assignment models.Assignment
	err := db.
		Preload("AssignedBy").
		Preload("AssignedTo").
		First(&assignment, "candidate_id = ?", candidateID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *AssignmentRepositoryImpl) ExistsForCandidate(db *gorm.DB, candidateID string) (bool, error) {
	var count int64
	err := db.Model(&models.Assignment{}).Where("candidate_id = ?", candidateID).Count(&count).Error
	return count > 0, err
}

func (r *AssignmentRepositoryImpl) FindByCandidateIDs(db *gorm.DB, candidateIDs []string) (map[string]*models.Assignment, error) {
	result := make(map[string]*models.Assignment, len(candidateIDs))
	if len(candidateIDs) == 0 {
		return result, nil
	}

	var assignments []models.Assignment
	err := db.
		Preload("AssignedBy").
		Preload("AssignedTo").
		Where("candidate_id IN ?", candidateIDs).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}

	for i := range assignments {
		result[assignments[i].CandidateID] = &assignments[i]
	}
	return result, nil
}

func (r *AssignmentRepositoryImpl) FindAll(db *gorm.DB) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := db.
		Preload("Candidate").
		Preload("AssignedBy").
		Preload("AssignedTo").
		Order("assigned_at DESC").
		Find(&assignments).Error
	return assignments, err
}

func (r *AssignmentRepositoryImpl) FindByManager(db *gorm.DB, managerID string) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := db.
		Preload("Candidate").
		Preload("AssignedBy").
		Preload("AssignedTo").
		Where("assigned_to_id = ?", managerID).
		Order("assigned_at DESC").
		Find(&assignments).Error
	return assignments, err
}

func (r *AssignmentRepositoryImpl) SaveReview(db *gorm.DB, assignment *models.Assignment) error {
	result := db.Model(&models.Assignment{}).Where("id = ?", assignment.ID).Updates(map[string]interface{}{
		"status":             assignment.Status,
		"feedback":           assignment.Feedback,
		"interview_date":     assignment.InterviewDate,
		"interview_notes":    assignment.InterviewNotes,
		"manager_comments":   assignment.ManagerComments,
		"feedback_submitted": assignment.FeedbackSubmitted,
		"reviewed_at":        assignment.ReviewedAt,
		"updated_at":         time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}

func (r *AssignmentRepositoryImpl) UpdateHRComments(db *gorm.DB, id, comments string) error {
	result := db.Model(&models.Assignment{}).Where("id = ?", id).Updates(map[string]interface{}{
		"hr_comments": comments,
		"updated_at":  time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}

func (r *AssignmentRepositoryImpl) DeleteByCandidate(db *gorm.DB, candidateID string) (int64, error) {
	result := db.Where("candidate_id = ?", candidateID).Delete(&models.Assignment{})
	return result.RowsAffected, result.Error
}

func (r *AssignmentRepositoryImpl) CountAll(db *gorm.DB, managerID string) (int64, error) {
	var count int64
	query := db.Model(&models.Assignment{})
	if managerID != "" {
		query = query.Where("assigned_to_id = ?", managerID)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *AssignmentRepositoryImpl) CountByStatus(db *gorm.DB, managerID string) (map[models.AssignmentStatus]int64, error) {
	var rows []struct {
		Status models.AssignmentStatus
		Count  int64
	}
	query := db.Model(&models.Assignment{}).Select("status, COUNT(*) AS count")
	if managerID != "" {
		query = query.Where("assigned_to_id = ?", managerID)
	}
	if err := query.Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make(map[models.AssignmentStatus]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}

func (r *AssignmentRepositoryImpl) CountWithFeedback(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.Assignment{}).
		Where("feedback IS NOT NULL AND feedback <> ''").
		Count(&count).Error
	return count, err
}

func (r *AssignmentRepositoryImpl) FindRecentAssigned(db *gorm.DB, limit int) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := db.
		Preload("Candidate").
		Preload("AssignedBy").
		Preload("AssignedTo").
		Order("assigned_at DESC").
		Limit(limit).
		Find(&assignments).Error
	return assignments, err
}

func (r *AssignmentRepositoryImpl) FindRecentReviewed(db *gorm.DB, limit int) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := db.
		Preload("Candidate").
		Preload("AssignedTo").
		Where("reviewed_at IS NOT NULL").
		Order("reviewed_at DESC").
		Limit(limit).
		Find(&assignments).Error
	return assignments, err
}

func (r *AssignmentRepositoryImpl) FindStatusPairs(db *gorm.DB) ([]StatusPair, error) {
	var pairs []StatusPair
	err := db.Table("assignments").
		Select("assignments.id AS assignment_id, assignments.candidate_id, " +
			"assignments.status AS assignment_status, candidates.status AS candidate_status").
		Joins("JOIN candidates ON candidates.id = assignments.candidate_id").
		Scan(&pairs).Error
	return pairs, err
}
