package services

import (
	"fmt"
	"sort"
	"time"

	"hiring_backend/internal/models"
	"hiring_backend/internal/repositories"
	"hiring_backend/internal/services/dto"
	"hiring_backend/internal/storage"
	"hiring_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// timelineLimit - сколько событий отдает таймлайн доски
const timelineLimit = 50

// BoardService - представления только для чтения для членов совета
type BoardService interface {
	GetCandidates(db *gorm.DB) (*dto.BoardCandidatesResponse, error)
	GetStats(db *gorm.DB) (*dto.BoardStats, error)
	GetTimeline(db *gorm.DB) (*dto.TimelineResponse, error)
}

type BoardServiceImpl struct {
	candidateRepo  repositories.CandidateRepository
	assignmentRepo repositories.AssignmentRepository
	storage        storage.Storage
}

func NewBoardService(
	candidateRepo repositories.CandidateRepository,
	assignmentRepo repositories.AssignmentRepository,
	fileStorage storage.Storage,
) BoardService {
	return &BoardServiceImpl{
		candidateRepo:  candidateRepo,
		assignmentRepo: assignmentRepo,
		storage:        fileStorage,
	}
}

func (s *BoardServiceImpl) GetCandidates(db *gorm.DB) (*dto.BoardCandidatesResponse, error) {
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

	stats := dto.BoardCandidatesStats{ByStatus: make(map[string]int64, len(models.CandidateStatuses()))}
	for _, st := range models.CandidateStatuses() {
		stats.ByStatus[string(st)] = 0
	}

	now := time.Now()
	list := make([]dto.BoardCandidate, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		item := dto.BoardCandidate{
			CandidateResponse: dto.CandidateResponse{
				Candidate: *c,
				FullName:  c.FullName(),
				Age:       c.Age(now),
				ImageURL:  s.storage.URL(c.Image),
				ResumeURL: s.storage.URL(c.Resume),
			},
			AssignmentStatus: dto.NotAssigned,
			AssignedTo:       dto.NotAvailable,
			AssignedBy:       dto.NotAvailable,
		}

		if a, ok := byCandidate[c.ID]; ok {
			assignedAt := a.AssignedAt
			item.HasAssignment = true
			item.AssignmentID = a.ID
			item.AssignmentStatus = string(a.Status)
			item.AssignedToEmail = a.ManagerEmail
			item.AssignedAt = &assignedAt
			item.ScheduleDate = a.ScheduleDate
			item.ManagerFeedback = a.Feedback
			item.InterviewDate = a.InterviewDate
			item.InterviewNotes = a.InterviewNotes
			item.ManagerComments = a.ManagerComments
			item.HRComments = a.HRComments
			item.FeedbackSubmitted = a.FeedbackSubmitted
			item.ReviewedAt = a.ReviewedAt
			if a.AssignedTo != nil {
				item.AssignedTo = a.AssignedTo.Name
			} else if a.ManagerName != "" {
				item.AssignedTo = a.ManagerName
			}
			if a.AssignedBy != nil {
				item.AssignedBy = a.AssignedBy.Name
			}

			stats.Assigned++
			if a.Feedback != "" {
				stats.WithFeedback++
			}
		} else {
			stats.NotAssigned++
		}

		stats.ByStatus[string(c.Status)]++
		list = append(list, item)
	}

	return &dto.BoardCandidatesResponse{Candidates: list, Total: len(list), Stats: stats}, nil
}

func (s *BoardServiceImpl) GetStats(db *gorm.DB) (*dto.BoardStats, error) {
	totalCandidates, err := s.candidateRepo.CountAll(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	totalAssignments, err := s.assignmentRepo.CountAll(db, "")
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	candidateCounts, err := s.candidateRepo.CountByStatus(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	assignmentCounts, err := s.assignmentRepo.CountByStatus(db, "")
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	ratings, err := s.candidateRepo.GetRatingStats(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	withFeedback, err := s.assignmentRepo.CountWithFeedback(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.BoardStats{
		TotalCandidates:        totalCandidates,
		TotalAssignments:       totalAssignments,
		CandidateStatusCounts:  candidateStatusCounts(candidateCounts),
		AssignmentStatusCounts: assignmentStatusCounts(assignmentCounts),
		Ratings: dto.BoardRatings{
			WithTechnicalRating: ratings.WithTechnicalRating,
			WithHRRating:        ratings.WithHRRating,
			WithHRReview:        ratings.WithHRReview,
			WithManagerFeedback: withFeedback,
		},
	}, nil
}

// GetTimeline собирает события из трех источников и отдает последние timelineLimit
func (s *BoardServiceImpl) GetTimeline(db *gorm.DB) (*dto.TimelineResponse, error) {
	candidates, err := s.candidateRepo.FindRecent(db, timelineLimit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	assigned, err := s.assignmentRepo.FindRecentAssigned(db, timelineLimit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	reviewed, err := s.assignmentRepo.FindRecentReviewed(db, timelineLimit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	events := make([]dto.TimelineEvent, 0, len(candidates)+len(assigned)+len(reviewed))

	for _, c := range candidates {
		actor := dto.NotAvailable
		if c.CreatedBy != nil {
			actor = c.CreatedBy.Name
		}
		events = append(events, dto.TimelineEvent{
			Type:            dto.TimelineCandidateCreated,
			CandidateID:     c.ID,
			CandidateName:   c.FullName(),
			ReferenceNumber: c.ReferenceNumber,
			Actor:           actor,
			Status:          string(models.CandidateStatusNew),
			Description:     fmt.Sprintf("Candidate %s was added by %s", c.FullName(), actor),
			Timestamp:       c.CreatedAt,
		})
	}

	for _, a := range assigned {
		actor, manager := dto.NotAvailable, a.ManagerName
		if a.AssignedBy != nil {
			actor = a.AssignedBy.Name
		}
		if a.AssignedTo != nil {
			manager = a.AssignedTo.Name
		}
		name, ref := candidateLabel(a.Candidate)
		events = append(events, dto.TimelineEvent{
			Type:            dto.TimelineCandidateAssigned,
			CandidateID:     a.CandidateID,
			CandidateName:   name,
			ReferenceNumber: ref,
			Actor:           actor,
			Status:          string(models.AssignmentStatusAssigned),
			Description:     fmt.Sprintf("%s assigned %s to %s", actor, name, manager),
			Timestamp:       a.AssignedAt,
		})
	}

	for _, a := range reviewed {
		if a.ReviewedAt == nil {
			continue
		}
		actor := a.ManagerName
		if a.AssignedTo != nil {
			actor = a.AssignedTo.Name
		}
		name, ref := candidateLabel(a.Candidate)
		events = append(events, dto.TimelineEvent{
			Type:            dto.TimelineFeedbackSubmitted,
			CandidateID:     a.CandidateID,
			CandidateName:   name,
			ReferenceNumber: ref,
			Actor:           actor,
			Status:          string(a.Status),
			Description:     fmt.Sprintf("%s reviewed %s: %s", actor, name, a.Status),
			Timestamp:       *a.ReviewedAt,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})
	if len(events) > timelineLimit {
		events = events[:timelineLimit]
	}

	return &dto.TimelineResponse{Events: events, Total: len(events)}, nil
}

func candidateLabel(c *models.Candidate) (string, string) {
	if c == nil {
		return dto.NotAvailable, ""
	}
	return c.FullName(), c.ReferenceNumber
}
