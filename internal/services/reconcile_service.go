package services

import (
	"hiring_backend/internal/repositories"
	"hiring_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// ReconcileService выравнивает статус кандидата по статусу его назначения
type ReconcileService interface {
	// ReconcileCandidateStatuses возвращает количество исправленных кандидатов
	ReconcileCandidateStatuses(db *gorm.DB) (int, error)
}

type ReconcileServiceImpl struct {
	candidateRepo  repositories.CandidateRepository
	assignmentRepo repositories.AssignmentRepository
}

func NewReconcileService(
	candidateRepo repositories.CandidateRepository,
	assignmentRepo repositories.AssignmentRepository,
) ReconcileService {
	return &ReconcileServiceImpl{
		candidateRepo:  candidateRepo,
		assignmentRepo: assignmentRepo,
	}
}

func (s *ReconcileServiceImpl) ReconcileCandidateStatuses(db *gorm.DB) (int, error) {
	fixed := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		pairs, err := s.assignmentRepo.FindStatusPairs(tx)
		if err != nil {
			return err
		}
		for _, p := range pairs {
			want := p.AssignmentStatus.CandidateStatus()
			if p.CandidateStatus == want {
				continue
			}
			// статус мог смениться после чтения, тогда менеджер прав и строку не трогаем
			changed, err := s.candidateRepo.UpdateStatusFrom(tx, p.CandidateID, p.CandidateStatus, want)
			if err != nil {
				return err
			}
			if changed {
				fixed++
			}
		}
		return nil
	})
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return fixed, nil
}
