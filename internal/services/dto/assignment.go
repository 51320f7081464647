package dto

import (
	"time"

	"hiring_backend/internal/models"
)

// EmailResult - итог best-effort отправки письма, встраивается в ответы
type EmailResult struct {
	Sent    bool   `json:"emailSent"`
	Message string `json:"emailMessage"`
}

type CreateAssignmentRequest struct {
	CandidateID  string `json:"candidateId" validate:"required"`
	ManagerEmail string `json:"managerEmail" validate:"required,email"`
	ManagerName  string `json:"managerName" validate:"omitempty,max=100"`
	ScheduleDate string `json:"scheduleDate" validate:"omitempty,iso-date"`
}

// UpdateAssignmentRequest - отзыв менеджера; nil значит "поле не передано"
type UpdateAssignmentRequest struct {
	Status          *string `json:"status" validate:"omitempty,is-assignment-status"`
	Feedback        *string `json:"feedback" validate:"omitempty,max=5000"`
	InterviewDate   *string `json:"interviewDate" validate:"omitempty,iso-date"`
	InterviewNotes  *string `json:"interviewNotes" validate:"omitempty,max=5000"`
	ManagerComments *string `json:"managerComments" validate:"omitempty,max=5000"`
}

type UpdateHRCommentsRequest struct {
	HRComments string `json:"hrComments" validate:"required,max=5000"`
}

type TestEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type AssignmentCandidateRef struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ReferenceNumber string `json:"referenceNumber"`
}

type AssignmentManagerRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AssignmentSummary struct {
	ID         string                  `json:"id"`
	Candidate  AssignmentCandidateRef  `json:"candidate"`
	Manager    AssignmentManagerRef    `json:"manager"`
	Status     models.AssignmentStatus `json:"status"`
	AssignedAt time.Time               `json:"assignedAt"`
}

type AssignmentCreatedResponse struct {
	Message string `json:"message"`
	EmailResult
	Assignment AssignmentSummary `json:"assignment"`
}

type AssignmentUpdatedResponse struct {
	Message string `json:"message"`
	EmailResult
	Assignment *models.Assignment `json:"assignment"`
}

type AssignmentListResponse struct {
	Assignments []models.Assignment `json:"assignments"`
	Total       int                 `json:"total"`
}

type AssignmentStats struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"byStatus"`
}

type TestEmailResponse struct {
	Message string `json:"message"`
	EmailResult
}
