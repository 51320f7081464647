package dto

import (
	"hiring_backend/internal/models"
)

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AdminAuthResponse struct {
	Message string        `json:"message"`
	Token   string        `json:"token"`
	Admin   *models.Admin `json:"admin"`
}

// SeedAdminRequest - первый админ (из конфига или CLI)
type SeedAdminRequest struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

type CreateRoleAssignmentRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,is-designation"`
}

type RoleAssignmentCreatedResponse struct {
	Message         string                 `json:"message"`
	RoleAssignment  *models.RoleAssignment `json:"roleAssignment"`
	InvitationToken string                 `json:"invitationToken"`
	EmailResult
}

type RoleLimit struct {
	Role      models.Designation `json:"role"`
	Limit     int                `json:"limit"`
	Current   int64              `json:"current"`
	Remaining int64              `json:"remaining"`
	CanAdd    bool               `json:"canAdd"`
}

type RoleLimitsResponse struct {
	Limits []RoleLimit `json:"limits"`
}

type EmailStatusResponse struct {
	Configured bool   `json:"configured"`
	Host       string `json:"host,omitempty"`
	Port       int    `json:"port,omitempty"`
	FromEmail  string `json:"fromEmail,omitempty"`
	Message    string `json:"message"`
}
