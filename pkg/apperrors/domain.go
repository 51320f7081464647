package apperrors

import (
	"fmt"
	"net/http"
)

/*
Этот файл содержит фабрики и предопределенные переменные
для общих ошибок бизнес-логики и домена.
*/

// =========================================================================
// Фабричные ФУНКЦИИ
// =========================================================================

// ErrRoleLimitReached - квота на роль исчерпана (400)
func ErrRoleLimitReached(role string, current int64, limit int) *AppError {
	return New(
		CodeLimitExceeded,
		"roles",
		fmt.Sprintf("Role limit reached for %s. Current: %d/%d", role, current, limit),
		http.StatusBadRequest,
	).WithDetails(map[string]interface{}{
		"role":         role,
		"currentCount": current,
		"limit":        limit,
	})
}

// =========================================================================
// Предопределенные ПЕРЕМЕННЫЕ
// =========================================================================

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Access denied. Insufficient permissions",
	http.StatusForbidden,
)

// --- Candidates ---

var ErrCandidateNotFound = New(
	CodeNotFound,
	"candidates",
	"Candidate not found",
	http.StatusNotFound,
)

var ErrCandidateAlreadyAssigned = New(
	CodeConflict,
	"candidates",
	"Candidate is already assigned to a manager",
	http.StatusBadRequest,
)

// ErrCandidateLocked - кандидата нельзя редактировать после назначения
var ErrCandidateLocked = New(
	CodeInvalidStatus,
	"candidates",
	"Cannot update assigned candidate",
	http.StatusBadRequest,
)

var ErrCandidateAccessDenied = New(
	CodeForbidden,
	"candidates",
	"Access denied. Candidate is not assigned to you",
	http.StatusForbidden,
)

// --- Uploads ---

var ErrMissingCandidateFiles = New(
	CodeValidationFailed,
	"uploads",
	"Both image and resume files are required",
	http.StatusBadRequest,
)

var ErrFileTooLarge = New(
	CodeValidationFailed,
	"uploads",
	"File too large. Maximum size is 5MB",
	http.StatusBadRequest,
)

var ErrInvalidImageFile = New(
	CodeValidationFailed,
	"uploads",
	"Only image files are allowed for profile picture",
	http.StatusBadRequest,
)

var ErrInvalidResumeFile = New(
	CodeValidationFailed,
	"uploads",
	"Only PDF files are allowed for resume",
	http.StatusBadRequest,
)

var ErrFileNotFound = New(
	CodeNotFound,
	"uploads",
	"File not found",
	http.StatusNotFound,
)

// --- Assignments ---

var ErrAssignmentNotFound = New(
	CodeNotFound,
	"assignments",
	"Assignment not found",
	http.StatusNotFound,
)

var ErrManagerNotFound = New(
	CodeNotFound,
	"assignments",
	"Manager not found",
	http.StatusNotFound,
)

var ErrAssignmentAccessDenied = New(
	CodeForbidden,
	"assignments",
	"Access denied. You can only access your own assignments",
	http.StatusForbidden,
)

// --- Auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid credentials",
	http.StatusUnauthorized,
)

var ErrAccountInactive = New(
	CodeAccountInactive,
	"auth",
	"Account is deactivated",
	http.StatusForbidden,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"User already exists with this email",
	http.StatusBadRequest,
)

var ErrNoActiveInvitation = New(
	CodeForbidden,
	"auth",
	"No active role invitation for this email",
	http.StatusForbidden,
)

var ErrInvitationMismatch = New(
	CodeForbidden,
	"auth",
	"Invitation token does not match this email",
	http.StatusForbidden,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Token is not valid",
	http.StatusUnauthorized,
)

var ErrTokenExpired = New(
	CodeTokenExpired,
	"auth",
	"Token has expired",
	http.StatusUnauthorized,
)

// --- Roles ---

var ErrRoleAlreadyAssigned = New(
	CodeAlreadyExists,
	"roles",
	"Role assignment already exists for this email",
	http.StatusBadRequest,
)

var ErrUnknownRole = New(
	CodeValidationFailed,
	"roles",
	"Unknown role",
	http.StatusBadRequest,
)
