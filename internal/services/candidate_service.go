package services

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"hiring_backend/internal/imageprocessor"
	"hiring_backend/internal/logger"
	"hiring_backend/internal/models"
	"hiring_backend/internal/repositories"
	"hiring_backend/internal/services/dto"
	"hiring_backend/internal/storage"
	"hiring_backend/internal/validator"
	"hiring_backend/pkg/apperrors"

	"github.com/gabriel-vasile/mimetype"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// maxReferenceAttempts - сколько раз пробуем вставить кандидата при коллизии номера
const maxReferenceAttempts = 3

type CandidateService interface {
	CreateCandidate(db *gorm.DB, req *dto.CreateCandidateRequest, image, resume *dto.UploadedFile) (*dto.CandidateResponse, error)
	ListCandidates(db *gorm.DB, userID string, role models.Designation) (*dto.CandidateListResponse, error)
	GetCandidate(db *gorm.DB, userID string, role models.Designation, candidateID string) (*dto.CandidateResponse, error)
	UpdateCandidate(db *gorm.DB, candidateID string, req *dto.UpdateCandidateRequest) (*dto.CandidateResponse, error)
	DeleteCandidate(db *gorm.DB, userID string, role models.Designation, candidateID string) (*dto.CandidateDeletedResponse, error)
}

// UploadSettings - ограничения на файлы кандидата
type UploadSettings struct {
	MaxSize int64
}

type CandidateServiceImpl struct {
	candidateRepo  repositories.CandidateRepository
	assignmentRepo repositories.AssignmentRepository
	storage        storage.Storage
	images         *imageprocessor.Processor
	events         EventPublisher
	uploads        UploadSettings
}

func NewCandidateService(
	candidateRepo repositories.CandidateRepository,
	assignmentRepo repositories.AssignmentRepository,
	fileStorage storage.Storage,
	images *imageprocessor.Processor,
	events EventPublisher,
	uploads UploadSettings,
) CandidateService {
	if events == nil {
		events = NoopPublisher()
	}
	return &CandidateServiceImpl{
		candidateRepo:  candidateRepo,
		assignmentRepo: assignmentRepo,
		storage:        fileStorage,
		images:         images,
		events:         events,
		uploads:        uploads,
	}
}

// --- Create ---

func (s *CandidateServiceImpl) CreateCandidate(db *gorm.DB, req *dto.CreateCandidateRequest, image, resume *dto.UploadedFile) (*dto.CandidateResponse, error) {
	ctx := contextOf(db)

	if image == nil || resume == nil {
		return nil, apperrors.ErrMissingCandidateFiles
	}

	dob, ok := validator.ParseDate(req.DateOfBirth)
	if !ok {
		return nil, apperrors.ValidationError(map[string]string{"dateOfBirth": "Must be a valid ISO 8601 date"})
	}
	techRating, ok := validator.ParseRating(req.TechnicalTestRating)
	if !ok {
		return nil, apperrors.ValidationError(map[string]string{"technicalTestRating": "Rating must be a whole number between 1 and 10"})
	}
	hrRating, ok := validator.ParseRating(req.HRInterviewRating)
	if !ok {
		return nil, apperrors.ValidationError(map[string]string{"hrInterviewRating": "Rating must be a whole number between 1 and 10"})
	}

	imageData, imageType, imageExt, err := s.prepareImage(image)
	if err != nil {
		return nil, err
	}
	if err := s.checkResume(resume); err != nil {
		return nil, err
	}

	imageKey := uploadKey("image", imageExt)
	resumeKey := uploadKey("resume", ".pdf")

	if err := s.storage.Save(ctx, imageKey, bytes.NewReader(imageData), imageType); err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("save image: %w", err))
	}
	if err := s.storage.Save(ctx, resumeKey, bytes.NewReader(resume.Data), "application/pdf"); err != nil {
		s.removeFiles(db, imageKey)
		return nil, apperrors.InternalError(fmt.Errorf("save resume: %w", err))
	}

	candidate := &models.Candidate{
		FirstName:           strings.TrimSpace(req.FirstName),
		LastName:            strings.TrimSpace(req.LastName),
		PhoneNumber:         strings.TrimSpace(req.PhoneNumber),
		Email:               req.Email,
		Gender:              models.Gender(req.Gender),
		DateOfBirth:         datatypes.Date(dob),
		Education:           req.Education,
		Experience:          req.Experience,
		TechnicalTestRating: techRating,
		HRInterviewRating:   hrRating,
		HRReview:            req.HRReview,
		Image:               imageKey,
		Resume:              resumeKey,
		CreatedByID:         req.CreatedByID,
		Status:              models.CandidateStatusNew,
	}

	for attempt := 1; ; attempt++ {
		err = s.candidateRepo.Create(db, candidate)
		if err == nil {
			break
		}
		if errors.Is(err, repositories.ErrDuplicateReference) && attempt < maxReferenceAttempts {
			logger.CtxWarn(ctx, "Reference number collision, retrying", "attempt", attempt, "reference", candidate.ReferenceNumber)
			candidate.ID = ""
			candidate.ReferenceNumber = ""
			continue
		}
		s.removeFiles(db, imageKey, resumeKey)
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Candidate created", "candidate_id", candidate.ID, "reference", candidate.ReferenceNumber)

	s.events.Publish(dto.WorkflowEvent{
		Type:            dto.EventCandidateCreated,
		CandidateID:     candidate.ID,
		CandidateName:   candidate.FullName(),
		ReferenceNumber: candidate.ReferenceNumber,
		Status:          string(candidate.Status),
		ActorID:         req.CreatedByID,
		Timestamp:       time.Now(),
	})

	resp := s.toResponse(candidate, nil)
	return &resp, nil
}

// prepareImage проверяет фото и уменьшает его до рамки из конфигурации
func (s *CandidateServiceImpl) prepareImage(file *dto.UploadedFile) ([]byte, string, string, error) {
	if s.tooLarge(file) {
		return nil, "", "", apperrors.ErrFileTooLarge
	}

	mt := mimetype.Detect(file.Data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, "", "", apperrors.ErrInvalidImageFile
	}

	if s.images != nil {
		result, err := s.images.Normalize(file.Data)
		if err == nil {
			return result.Data, result.ContentType, result.Extension, nil
		}
		// формат без декодера (svg, bmp...) сохраняем как есть
		logger.Warn("Image normalization skipped", "filename", file.Filename, "mime", mt.String(), "error", err)
	}

	return file.Data, mt.String(), mt.Extension(), nil
}

func (s *CandidateServiceImpl) checkResume(file *dto.UploadedFile) error {
	if s.tooLarge(file) {
		return apperrors.ErrFileTooLarge
	}
	if !mimetype.Detect(file.Data).Is("application/pdf") {
		return apperrors.ErrInvalidResumeFile
	}
	return nil
}

func (s *CandidateServiceImpl) tooLarge(file *dto.UploadedFile) bool {
	if s.uploads.MaxSize <= 0 {
		return false
	}
	return file.Size > s.uploads.MaxSize || int64(len(file.Data)) > s.uploads.MaxSize
}

// uploadKey: <поле>-<unix ms>-<случайное число><расширение>
func uploadKey(field, ext string) string {
	return fmt.Sprintf("%s-%d-%d%s", field, time.Now().UnixMilli(), rand.Int64N(1_000_000_000), ext)
}

// --- Read ---

func (s *CandidateServiceImpl) ListCandidates(db *gorm.DB, userID string, role models.Designation) (*dto.CandidateListResponse, error) {
	if role == models.DesignationManager {
		assignments, err := s.assignmentRepo.FindByManager(db, userID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}

		list := make([]dto.CandidateResponse, 0, len(assignments))
		for i := range assignments {
			a := &assignments[i]
			if a.Candidate == nil {
				continue
			}
			list = append(list, s.toResponse(a.Candidate, a))
		}
		return &dto.CandidateListResponse{Candidates: list, Total: len(list)}, nil
	}

	candidates, err := s.candidateRepo.FindAll(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	byCandidate, err := s.assignmentRepo.FindByCandidateIDs(db, ids)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	list := make([]dto.CandidateResponse, 0, len(candidates))
	for i := range candidates {
		list = append(list, s.toResponse(&candidates[i], byCandidate[candidates[i].ID]))
	}
	return &dto.CandidateListResponse{Candidates: list, Total: len(list)}, nil
}

func (s *CandidateServiceImpl) GetCandidate(db *gorm.DB, userID string, role models.Designation, candidateID string) (*dto.CandidateResponse, error) {
	candidate, err := s.findCandidate(db, candidateID)
	if err != nil {
		return nil, err
	}

	assignment, err := s.assignmentRepo.FindByCandidateID(db, candidateID)
	if err != nil && !errors.Is(err, repositories.ErrAssignmentNotFound) {
		return nil, apperrors.InternalError(err)
	}

	if role == models.DesignationManager && (assignment == nil || assignment.AssignedToID != userID) {
		return nil, apperrors.ErrCandidateAccessDenied
	}

	resp := s.toResponse(candidate, assignment)
	return &resp, nil
}

// --- Update ---

func (s *CandidateServiceImpl) UpdateCandidate(db *gorm.DB, candidateID string, req *dto.UpdateCandidateRequest) (*dto.CandidateResponse, error) {
	candidate, err := s.findCandidate(db, candidateID)
	if err != nil {
		return nil, err
	}

	if candidate.Status != models.CandidateStatusNew {
		return nil, apperrors.ErrCandidateLocked
	}

	if req.FirstName != nil {
		candidate.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		candidate.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.PhoneNumber != nil {
		candidate.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
	}
	if req.Email != nil {
		candidate.Email = *req.Email
	}
	if req.Gender != nil {
		candidate.Gender = models.Gender(*req.Gender)
	}
	if req.DateOfBirth != nil {
		dob, ok := validator.ParseDate(*req.DateOfBirth)
		if !ok {
			return nil, apperrors.ValidationError(map[string]string{"dateOfBirth": "Must be a valid ISO 8601 date"})
		}
		candidate.DateOfBirth = datatypes.Date(dob)
	}
	if req.Education != nil {
		candidate.Education = *req.Education
	}
	if req.Experience != nil {
		candidate.Experience = *req.Experience
	}
	if req.TechnicalTestRating != nil {
		candidate.TechnicalTestRating = req.TechnicalTestRating
	}
	if req.HRInterviewRating != nil {
		candidate.HRInterviewRating = req.HRInterviewRating
	}
	if req.HRReview != nil {
		candidate.HRReview = *req.HRReview
	}

	if err := s.candidateRepo.UpdateProfile(db, candidate); err != nil {
		if errors.Is(err, repositories.ErrCandidateNotFound) {
			return nil, apperrors.ErrCandidateNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	updated, err := s.findCandidate(db, candidateID)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(updated, nil)
	return &resp, nil
}

// --- Delete ---

// DeleteCandidate удаляет кандидата вместе с назначением в одной транзакции;
// файлы удаляются из хранилища уже после коммита.
func (s *CandidateServiceImpl) DeleteCandidate(db *gorm.DB, userID string, role models.Designation, candidateID string) (*dto.CandidateDeletedResponse, error) {
	ctx := contextOf(db)

	candidate, err := s.findCandidate(db, candidateID)
	if err != nil {
		return nil, err
	}

	assignment, err := s.assignmentRepo.FindByCandidateID(db, candidateID)
	if err != nil && !errors.Is(err, repositories.ErrAssignmentNotFound) {
		return nil, apperrors.InternalError(err)
	}

	if role == models.DesignationManager && (assignment == nil || assignment.AssignedToID != userID) {
		return nil, apperrors.ErrCandidateAccessDenied
	}

	var deletedAssignments int64
	err = db.Transaction(func(tx *gorm.DB) error {
		n, err := s.assignmentRepo.DeleteByCandidate(tx, candidateID)
		if err != nil {
			return err
		}
		deletedAssignments = n
		return s.candidateRepo.Delete(tx, candidateID)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrCandidateNotFound) {
			return nil, apperrors.ErrCandidateNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	s.removeFiles(db, candidate.Image, candidate.Resume)

	logger.CtxInfo(ctx, "Candidate deleted",
		"candidate_id", candidateID,
		"reference", candidate.ReferenceNumber,
		"deleted_assignments", deletedAssignments,
	)

	event := dto.WorkflowEvent{
		Type:            dto.EventCandidateDeleted,
		CandidateID:     candidateID,
		CandidateName:   candidate.FullName(),
		ReferenceNumber: candidate.ReferenceNumber,
		ActorID:         userID,
		Timestamp:       time.Now(),
	}
	if assignment != nil {
		event.AssignmentID = assignment.ID
		event.ManagerID = assignment.AssignedToID
	}
	s.events.Publish(event)

	return &dto.CandidateDeletedResponse{
		Message:            "Candidate deleted successfully",
		DeletedAssignments: deletedAssignments,
		ReferenceNumber:    candidate.ReferenceNumber,
	}, nil
}

// --- helpers ---

func (s *CandidateServiceImpl) findCandidate(db *gorm.DB, id string) (*models.Candidate, error) {
	candidate, err := s.candidateRepo.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCandidateNotFound) {
			return nil, apperrors.ErrCandidateNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return candidate, nil
}

// removeFiles - best effort, ошибки только логируются
func (s *CandidateServiceImpl) removeFiles(db *gorm.DB, keys ...string) {
	ctx := contextOf(db)
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.storage.Delete(ctx, key); err != nil {
			logger.CtxWithError(ctx, "Failed to delete stored file", err, "key", key)
		}
	}
}

func (s *CandidateServiceImpl) toResponse(c *models.Candidate, a *models.Assignment) dto.CandidateResponse {
	resp := dto.CandidateResponse{
		Candidate: *c,
		FullName:  c.FullName(),
		Age:       c.Age(time.Now()),
		ImageURL:  s.storage.URL(c.Image),
		ResumeURL: s.storage.URL(c.Resume),
	}
	if a != nil {
		assignedBy := dto.NotAvailable
		if a.AssignedBy != nil {
			assignedBy = a.AssignedBy.Name
		}
		resp.Assignment = &dto.CandidateAssignmentSummary{
			ID:                a.ID,
			Status:            a.Status,
			AssignedAt:        a.AssignedAt,
			AssignedBy:        assignedBy,
			ScheduleDate:      a.ScheduleDate,
			FeedbackSubmitted: a.FeedbackSubmitted,
		}
	}
	return resp
}
