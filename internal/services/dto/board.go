package dto

import (
	"time"
)

// NotAssigned / NotAvailable - подписи для кандидатов без назначения
const (
	NotAssigned  = "Not Assigned"
	NotAvailable = "N/A"
)

// BoardCandidate - кандидат вместе с его назначением (плоская запись для доски)
type BoardCandidate struct {
	CandidateResponse
	HasAssignment     bool       `json:"hasAssignment"`
	AssignmentID      string     `json:"assignmentId,omitempty"`
	AssignmentStatus  string     `json:"assignmentStatus"`
	AssignedTo        string     `json:"assignedTo"`
	AssignedToEmail   string     `json:"assignedToEmail,omitempty"`
	AssignedBy        string     `json:"assignedBy"`
	AssignedAt        *time.Time `json:"assignedAt,omitempty"`
	ScheduleDate      *time.Time `json:"scheduleDate,omitempty"`
	ManagerFeedback   string     `json:"managerFeedback,omitempty"`
	InterviewDate     *time.Time `json:"interviewDate,omitempty"`
	InterviewNotes    string     `json:"interviewNotes,omitempty"`
	ManagerComments   string     `json:"managerComments,omitempty"`
	HRComments        string     `json:"hrComments,omitempty"`
	FeedbackSubmitted bool       `json:"feedbackSubmitted"`
	ReviewedAt        *time.Time `json:"reviewedAt,omitempty"`
}

type BoardCandidatesStats struct {
	ByStatus     map[string]int64 `json:"byStatus"`
	Assigned     int64            `json:"assigned"`
	NotAssigned  int64            `json:"notAssigned"`
	WithFeedback int64            `json:"withFeedback"`
}

type BoardCandidatesResponse struct {
	Candidates []BoardCandidate     `json:"candidates"`
	Total      int                  `json:"total"`
	Stats      BoardCandidatesStats `json:"stats"`
}

type BoardRatings struct {
	WithTechnicalRating int64 `json:"withTechnicalRating"`
	WithHRRating        int64 `json:"withHRRating"`
	WithHRReview        int64 `json:"withHRReview"`
	WithManagerFeedback int64 `json:"withManagerFeedback"`
}

type BoardStats struct {
	TotalCandidates        int64            `json:"totalCandidates"`
	TotalAssignments       int64            `json:"totalAssignments"`
	CandidateStatusCounts  map[string]int64 `json:"candidateStatusCounts"`
	AssignmentStatusCounts map[string]int64 `json:"assignmentStatusCounts"`
	Ratings                BoardRatings     `json:"ratings"`
}

// Типы событий таймлайна
const (
	TimelineCandidateCreated  = "candidate_created"
	TimelineCandidateAssigned = "candidate_assigned"
	TimelineFeedbackSubmitted = "feedback_submitted"
)

type TimelineEvent struct {
	Type            string    `json:"type"`
	CandidateID     string    `json:"candidateId"`
	CandidateName   string    `json:"candidateName"`
	ReferenceNumber string    `json:"referenceNumber"`
	Actor           string    `json:"actor"`
	Status          string    `json:"status,omitempty"`
	Description     string    `json:"description"`
	Timestamp       time.Time `json:"timestamp"`
}

type TimelineResponse struct {
	Events []TimelineEvent `json:"events"`
	Total  int             `json:"total"`
}
