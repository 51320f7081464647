package dto

import (
	"hiring_backend/internal/models"
)

// RegisterRequest - регистрация по приглашению
type RegisterRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,strong-password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	InvitationToken string `json:"invitationToken"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
}

type MeResponse struct {
	User        *models.User `json:"user"`
	Permissions []string     `json:"permissions"`
}
