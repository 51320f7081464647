package dto

import (
	"time"

	"hiring_backend/internal/models"
)

// CreateCandidateRequest - поля multipart-формы создания кандидата
type CreateCandidateRequest struct {
	FirstName           string `form:"firstName" json:"firstName" validate:"required,min=2,max=50"`
	LastName            string `form:"lastName" json:"lastName" validate:"required,min=2,max=50"`
	PhoneNumber         string `form:"phoneNumber" json:"phoneNumber" validate:"required,min=10,max=20"`
	Email               string `form:"email" json:"email" validate:"required,email"`
	Gender              string `form:"gender" json:"gender" validate:"required,is-gender"`
	DateOfBirth         string `form:"dateOfBirth" json:"dateOfBirth" validate:"required,iso-date"`
	Education           string `form:"education" json:"education" validate:"required"`
	Experience          string `form:"experience" json:"experience" validate:"required"`
	TechnicalTestRating string `form:"technicalTestRating" json:"technicalTestRating" validate:"omitempty,rating"`
	HRInterviewRating   string `form:"hrInterviewRating" json:"hrInterviewRating" validate:"omitempty,rating"`
	HRReview            string `form:"hrReview" json:"hrReview" validate:"omitempty,max=2000"`

	CreatedByID string `form:"-" json:"-"`
}

// UploadedFile - файл из формы, уже прочитанный в память
type UploadedFile struct {
	Field    string
	Filename string
	Size     int64
	Data     []byte
}

// UpdateCandidateRequest - отсутствующие поля не меняются
type UpdateCandidateRequest struct {
	FirstName           *string `json:"firstName" validate:"omitempty,min=2,max=50"`
	LastName            *string `json:"lastName" validate:"omitempty,min=2,max=50"`
	PhoneNumber         *string `json:"phoneNumber" validate:"omitempty,min=10,max=20"`
	Email               *string `json:"email" validate:"omitempty,email"`
	Gender              *string `json:"gender" validate:"omitempty,is-gender"`
	DateOfBirth         *string `json:"dateOfBirth" validate:"omitempty,iso-date"`
	Education           *string `json:"education"`
	Experience          *string `json:"experience"`
	TechnicalTestRating *int    `json:"technicalTestRating" validate:"omitempty,min=1,max=10"`
	HRInterviewRating   *int    `json:"hrInterviewRating" validate:"omitempty,min=1,max=10"`
	HRReview            *string `json:"hrReview" validate:"omitempty,max=2000"`
}

// CandidateAssignmentSummary - назначение, встроенное в карточку кандидата
type CandidateAssignmentSummary struct {
	ID                string                  `json:"id"`
	Status            models.AssignmentStatus `json:"status"`
	AssignedAt        time.Time               `json:"assignedAt"`
	AssignedBy        string                  `json:"assignedBy"`
	ScheduleDate      *time.Time              `json:"scheduleDate,omitempty"`
	FeedbackSubmitted bool                    `json:"feedbackSubmitted"`
}

type CandidateResponse struct {
	models.Candidate
	FullName   string                      `json:"fullName"`
	Age        int                         `json:"age"`
	ImageURL   string                      `json:"imageUrl"`
	ResumeURL  string                      `json:"resumeUrl"`
	Assignment *CandidateAssignmentSummary `json:"assignment,omitempty"`
}

type CandidateListResponse struct {
	Candidates []CandidateResponse `json:"candidates"`
	Total      int                 `json:"total"`
}

type CandidateDeletedResponse struct {
	Message            string `json:"message"`
	DeletedAssignments int64  `json:"deletedAssignments"`
	ReferenceNumber    string `json:"referenceNumber"`
}
