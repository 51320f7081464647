package services

import (
	"hiring_backend/internal/email"
	"hiring_backend/internal/storage"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService         AuthService
	AdminService        AdminService
	CandidateService    CandidateService
	AssignmentService   AssignmentService
	BoardService        BoardService
	ReconcileService    ReconcileService
	NotificationService NotificationService
	EmailProvider       email.Provider
	Storage             storage.Storage
}
