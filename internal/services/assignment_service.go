package services

import (
	"errors"
	"strings"
	"time"

	"hiring_backend/internal/logger"
	"hiring_backend/internal/models"
	"hiring_backend/internal/repositories"
	"hiring_backend/internal/services/dto"
	"hiring_backend/internal/validator"
	"hiring_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AssignmentService interface {
	// CreateAssignment - HR назначает кандидата менеджеру
	CreateAssignment(db *gorm.DB, hrID string, req *dto.CreateAssignmentRequest) (*dto.AssignmentCreatedResponse, error)
	// UpdateAssignment - менеджер оставляет отзыв и/или меняет статус
	UpdateAssignment(db *gorm.DB, managerID, assignmentID string, req *dto.UpdateAssignmentRequest) (*dto.AssignmentUpdatedResponse, error)
	ListAssignments(db *gorm.DB, userID string, role models.Designation) (*dto.AssignmentListResponse, error)
	GetAssignment(db *gorm.DB, userID string, role models.Designation, assignmentID string) (*models.Assignment, error)
	UpdateHRComments(db *gorm.DB, hrID, assignmentID string, req *dto.UpdateHRCommentsRequest) (*models.Assignment, error)
	GetStats(db *gorm.DB, userID string, role models.Designation) (*dto.AssignmentStats, error)
	SendTestEmail(db *gorm.DB, hrID string, req *dto.TestEmailRequest) (*dto.TestEmailResponse, error)
}

type AssignmentServiceImpl struct {
	assignmentRepo repositories.AssignmentRepository
	candidateRepo  repositories.CandidateRepository
	userRepo       repositories.UserRepository
	notifications  NotificationService
	events         EventPublisher
}

func NewAssignmentService(
	assignmentRepo repositories.AssignmentRepository,
	candidateRepo repositories.CandidateRepository,
	userRepo repositories.UserRepository,
	notifications NotificationService,
	events EventPublisher,
) AssignmentService {
	if events == nil {
		events = NoopPublisher()
	}
	return &AssignmentServiceImpl{
		assignmentRepo: assignmentRepo,
		candidateRepo:  candidateRepo,
		userRepo:       userRepo,
		notifications:  notifications,
		events:         events,
	}
}

func (s *AssignmentServiceImpl) CreateAssignment(db *gorm.DB, hrID string, req *dto.CreateAssignmentRequest) (*dto.AssignmentCreatedResponse, error) {
	ctx := contextOf(db)

	candidate, err := s.candidateRepo.FindByID(db, req.CandidateID)
	if err != nil {
		if errors.Is(err, repositories.ErrCandidateNotFound) {
			return nil, apperrors.ErrCandidateNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	exists, err := s.assignmentRepo.ExistsForCandidate(db, candidate.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		return nil, apperrors.ErrCandidateAlreadyAssigned
	}

	manager, err := s.userRepo.FindActiveByEmailAndDesignation(db, req.ManagerEmail, models.DesignationManager)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrManagerNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	hr, err := s.userRepo.FindByID(db, hrID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	var scheduleDate *time.Time
	if req.ScheduleDate != "" {
		t, ok := validator.ParseDate(req.ScheduleDate)
		if !ok {
			return nil, apperrors.ValidationError(map[string]string{"scheduleDate": "Must be a valid ISO 8601 date"})
		}
		scheduleDate = &t
	}

	managerName := strings.TrimSpace(req.ManagerName)
	if managerName == "" {
		managerName = manager.Name
	}

	assignment := &models.Assignment{
		CandidateID:  candidate.ID,
		AssignedByID: hr.ID,
		AssignedToID: manager.ID,
		ManagerEmail: req.ManagerEmail,
		ManagerName:  managerName,
		ScheduleDate: scheduleDate,
		Status:       models.AssignmentStatusAssigned,
		AssignedAt:   time.Now(),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.assignmentRepo.Create(tx, assignment); err != nil {
			return err
		}
		return s.candidateRepo.UpdateStatus(tx, candidate.ID, models.CandidateStatusAssigned)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrCandidateAlreadyHasLink) {
			return nil, apperrors.ErrCandidateAlreadyAssigned
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Candidate assigned",
		"assignment_id", assignment.ID,
		"candidate_id", candidate.ID,
		"manager_id", manager.ID,
	)

	emailResult := s.notifications.SendAssignmentEmail(ctx, AssignmentEmail{
		To:              assignment.ManagerEmail,
		ManagerName:     managerName,
		HRName:          hr.Name,
		CandidateName:   candidate.FullName(),
		CandidateEmail:  candidate.Email,
		CandidatePhone:  candidate.PhoneNumber,
		ReferenceNumber: candidate.ReferenceNumber,
		ScheduleDate:    scheduleDate,
	})

	s.events.Publish(dto.WorkflowEvent{
		Type:            dto.EventCandidateAssigned,
		CandidateID:     candidate.ID,
		CandidateName:   candidate.FullName(),
		ReferenceNumber: candidate.ReferenceNumber,
		AssignmentID:    assignment.ID,
		ManagerID:       manager.ID,
		Status:          string(assignment.Status),
		ActorID:         hr.ID,
		Timestamp:       time.Now(),
	})

	return &dto.AssignmentCreatedResponse{
		Message:     "Candidate assigned successfully",
		EmailResult: emailResult,
		Assignment: dto.AssignmentSummary{
			ID: assignment.ID,
			Candidate: dto.AssignmentCandidateRef{
				ID:              candidate.ID,
				Name:            candidate.FullName(),
				ReferenceNumber: candidate.ReferenceNumber,
			},
			Manager: dto.AssignmentManagerRef{
				ID:    manager.ID,
				Name:  manager.Name,
				Email: manager.Email,
			},
			Status:     assignment.Status,
			AssignedAt: assignment.AssignedAt,
		},
	}, nil
}

func (s *AssignmentServiceImpl) UpdateAssignment(db *gorm.DB, managerID, assignmentID string, req *dto.UpdateAssignmentRequest) (*dto.AssignmentUpdatedResponse, error) {
	ctx := contextOf(db)

	assignment, err := s.findAssignment(db, assignmentID)
	if err != nil {
		return nil, err
	}

	if assignment.AssignedToID != managerID {
		return nil, apperrors.ErrAssignmentAccessDenied
	}

	statusPresent := req.Status != nil && *req.Status != ""
	feedbackPresent := req.Feedback != nil && strings.TrimSpace(*req.Feedback) != ""

	if statusPresent {
		now := time.Now()
		assignment.Status = models.AssignmentStatus(*req.Status)
		assignment.ReviewedAt = &now
	}
	if req.Feedback != nil {
		assignment.Feedback = strings.TrimSpace(*req.Feedback)
	}
	if req.InterviewDate != nil {
		if *req.InterviewDate == "" {
			assignment.InterviewDate = nil
		} else {
			t, ok := validator.ParseDate(*req.InterviewDate)
			if !ok {
				return nil, apperrors.ValidationError(map[string]string{"interviewDate": "Must be a valid ISO 8601 date"})
			}
			assignment.InterviewDate = &t
		}
	}
	if req.InterviewNotes != nil {
		assignment.InterviewNotes = strings.TrimSpace(*req.InterviewNotes)
	}
	if req.ManagerComments != nil {
		assignment.ManagerComments = strings.TrimSpace(*req.ManagerComments)
	}
	if feedbackPresent || assignment.Status.MarksFeedbackSubmitted() {
		assignment.FeedbackSubmitted = true
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.assignmentRepo.SaveReview(tx, assignment); err != nil {
			return err
		}
		if !statusPresent {
			return nil
		}
		return s.candidateRepo.UpdateStatus(tx, assignment.CandidateID, assignment.Status.CandidateStatus())
	})
	if err != nil {
		if errors.Is(err, repositories.ErrAssignmentNotFound) {
			return nil, apperrors.ErrAssignmentNotFound
		}
		if errors.Is(err, repositories.ErrCandidateNotFound) {
			return nil, apperrors.ErrCandidateNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Assignment updated",
		"assignment_id", assignment.ID,
		"status", assignment.Status,
		"feedback_submitted", assignment.FeedbackSubmitted,
	)

	emailResult := dto.EmailResult{Sent: false, Message: emailNotRequiredText}
	if statusPresent && assignment.Status != models.AssignmentStatusUnderReview {
		msg := StatusUpdateEmail{
			Status:          string(assignment.Status),
			Feedback:        assignment.Feedback,
			ManagerComments: assignment.ManagerComments,
		}
		if assignment.AssignedBy != nil {
			msg.To = assignment.AssignedBy.Email
			msg.HRName = assignment.AssignedBy.Name
		}
		if assignment.AssignedTo != nil {
			msg.ManagerName = assignment.AssignedTo.Name
		}
		if assignment.Candidate != nil {
			msg.CandidateName = assignment.Candidate.FullName()
			msg.ReferenceNumber = assignment.Candidate.ReferenceNumber
		}
		emailResult = s.notifications.SendStatusUpdateEmail(ctx, msg)

		event := dto.WorkflowEvent{
			Type:         dto.EventStatusUpdated,
			CandidateID:  assignment.CandidateID,
			AssignmentID: assignment.ID,
			ManagerID:    assignment.AssignedToID,
			Status:       string(assignment.Status),
			ActorID:      managerID,
			Timestamp:    time.Now(),
		}
		if assignment.Candidate != nil {
			event.CandidateName = assignment.Candidate.FullName()
			event.ReferenceNumber = assignment.Candidate.ReferenceNumber
		}
		s.events.Publish(event)
	}

	updated, err := s.findAssignment(db, assignment.ID)
	if err != nil {
		return nil, err
	}

	return &dto.AssignmentUpdatedResponse{
		Message:     "Assignment updated successfully",
		EmailResult: emailResult,
		Assignment:  updated,
	}, nil
}

func (s *AssignmentServiceImpl) ListAssignments(db *gorm.DB, userID string, role models.Designation) (*dto.AssignmentListResponse, error) {
	var (
		assignments []models.Assignment
		err         error
	)
	if role == models.DesignationManager {
		assignments, err = s.assignmentRepo.FindByManager(db, userID)
	} else {
		assignments, err = s.assignmentRepo.FindAll(db)
	}
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AssignmentListResponse{Assignments: assignments, Total: len(assignments)}, nil
}

func (s *AssignmentServiceImpl) GetAssignment(db *gorm.DB, userID string, role models.Designation, assignmentID string) (*models.Assignment, error) {
	assignment, err := s.findAssignment(db, assignmentID)
	if err != nil {
		return nil, err
	}
	if role == models.DesignationManager && assignment.AssignedToID != userID {
		return nil, apperrors.ErrAssignmentAccessDenied
	}
	return assignment, nil
}

func (s *AssignmentServiceImpl) UpdateHRComments(db *gorm.DB, hrID, assignmentID string, req *dto.UpdateHRCommentsRequest) (*models.Assignment, error) {
	assignment, err := s.findAssignment(db, assignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.AssignedByID != hrID {
		return nil, apperrors.NewForbiddenError("Access denied. Only the HR who created the assignment can comment")
	}

	comments := strings.TrimSpace(req.HRComments)
	if comments == "" {
		return nil, apperrors.ValidationError(map[string]string{"hrComments": "Comments are required"})
	}

	if err := s.assignmentRepo.UpdateHRComments(db, assignment.ID, comments); err != nil {
		if errors.Is(err, repositories.ErrAssignmentNotFound) {
			return nil, apperrors.ErrAssignmentNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	return s.findAssignment(db, assignment.ID)
}

func (s *AssignmentServiceImpl) GetStats(db *gorm.DB, userID string, role models.Designation) (*dto.AssignmentStats, error) {
	scope := ""
	if role == models.DesignationManager {
		scope = userID
	}

	total, err := s.assignmentRepo.CountAll(db, scope)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	counts, err := s.assignmentRepo.CountByStatus(db, scope)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AssignmentStats{Total: total, ByStatus: assignmentStatusCounts(counts)}, nil
}

func (s *AssignmentServiceImpl) SendTestEmail(db *gorm.DB, hrID string, req *dto.TestEmailRequest) (*dto.TestEmailResponse, error) {
	ctx := contextOf(db)

	hr, err := s.userRepo.FindByID(db, hrID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	now := time.Now()
	result := s.notifications.SendAssignmentEmail(ctx, AssignmentEmail{
		To:              req.Email,
		ManagerName:     "Test Manager",
		HRName:          hr.Name,
		CandidateName:   "Test Candidate",
		CandidateEmail:  "candidate@example.com",
		CandidatePhone:  "+10000000000",
		ReferenceNumber: models.GenerateReferenceNumber(now),
		ScheduleDate:    &now,
	})

	message := "Test email sent successfully"
	if !result.Sent {
		message = "Test email failed"
	}
	return &dto.TestEmailResponse{Message: message, EmailResult: result}, nil
}

func (s *AssignmentServiceImpl) findAssignment(db *gorm.DB, id string) (*models.Assignment, error) {
	assignment, err := s.assignmentRepo.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrAssignmentNotFound) {
			return nil, apperrors.ErrAssignmentNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return assignment, nil
}

// assignmentStatusCounts - счетчики по всем статусам, включая нулевые
func assignmentStatusCounts(counts map[models.AssignmentStatus]int64) map[string]int64 {
	result := make(map[string]int64, len(models.AssignmentStatuses()))
	for _, st := range models.AssignmentStatuses() {
		result[string(st)] = counts[st]
	}
	return result
}

func candidateStatusCounts(counts map[models.CandidateStatus]int64) map[string]int64 {
	result := make(map[string]int64, len(models.CandidateStatuses()))
	for _, st := range models.CandidateStatuses() {
		result[string(st)] = counts[st]
	}
	return result
}
