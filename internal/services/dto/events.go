package dto

import "time"

type EventType string

const (
	EventCandidateCreated  EventType = "candidate_created"
	EventCandidateAssigned EventType = "candidate_assigned"
	EventStatusUpdated     EventType = "status_updated"
	EventCandidateDeleted  EventType = "candidate_deleted"
)

// WorkflowEvent - событие, которое уходит подписчикам по websocket.
// ManagerID - менеджер, которого событие касается (если есть).
type WorkflowEvent struct {
	Type            EventType `json:"type"`
	CandidateID     string    `json:"candidateId"`
	CandidateName   string    `json:"candidateName,omitempty"`
	ReferenceNumber string    `json:"referenceNumber,omitempty"`
	AssignmentID    string    `json:"assignmentId,omitempty"`
	ManagerID       string    `json:"managerId,omitempty"`
	Status          string    `json:"status,omitempty"`
	ActorID         string    `json:"actorId"`
	Timestamp       time.Time `json:"timestamp"`
}
