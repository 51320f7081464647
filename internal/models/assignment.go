package models

import (
	"time"

	"gorm.io/gorm"
)

// Assignment связывает кандидата с менеджером. На кандидата - не больше одного
// назначения (уникальный индекс по candidate_id).
type Assignment struct {
	BaseModel
	CandidateID       string           `gorm:"type:uuid;not null;uniqueIndex" json:"candidateId"`
	Candidate         *Candidate       `gorm:"foreignKey:CandidateID" json:"candidate,omitempty"`
	AssignedByID      string           `gorm:"type:uuid;not null;index" json:"assignedById"`
	AssignedBy        *User            `gorm:"foreignKey:AssignedByID" json:"assignedBy,omitempty"`
	AssignedToID      string           `gorm:"type:uuid;not null;index" json:"assignedToId"`
	AssignedTo        *User            `gorm:"foreignKey:AssignedToID" json:"assignedTo,omitempty"`
	ManagerEmail      string           `gorm:"not null" json:"managerEmail"`
	ManagerName       string           `json:"managerName,omitempty"`
	ScheduleDate      *time.Time       `json:"scheduleDate,omitempty"`
	Status            AssignmentStatus `gorm:"type:varchar(32);not null;index" json:"status"`
	Feedback          string           `gorm:"type:text" json:"feedback,omitempty"`
	InterviewDate     *time.Time       `json:"interviewDate,omitempty"`
	InterviewNotes    string           `gorm:"type:text" json:"interviewNotes,omitempty"`
	ManagerComments   string           `gorm:"type:text" json:"managerComments,omitempty"`
	HRComments        string           `gorm:"type:text" json:"hrComments,omitempty"`
	FeedbackSubmitted bool             `gorm:"not null" json:"feedbackSubmitted"`
	AssignedAt        time.Time        `gorm:"not null;index" json:"assignedAt"`
	ReviewedAt        *time.Time       `json:"reviewedAt,omitempty"`
}

func (a *Assignment) BeforeCreate(tx *gorm.DB) error {
	if err := a.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	if a.Status == "" {
		a.Status = AssignmentStatusAssigned
	}
	if a.AssignedAt.IsZero() {
		a.AssignedAt = time.Now()
	}
	return nil
}
