package services

import (
	"errors"
	"strings"
	"time"

	"hiring_backend/internal/auth"
	"hiring_backend/internal/logger"
	"hiring_backend/internal/models"
	"hiring_backend/internal/repositories"
	"hiring_backend/internal/services/dto"
	"hiring_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Me(db *gorm.DB, userID string) (*dto.MeResponse, error)
	// Authenticate проверяет токен и возвращает активного пользователя
	Authenticate(db *gorm.DB, token string) (*models.User, error)
}

type AuthServiceImpl struct {
	userRepo     repositories.UserRepository
	roleRepo     repositories.RoleAssignmentRepository
	tokenManager *auth.TokenManager
}

func NewAuthService(
	userRepo repositories.UserRepository,
	roleRepo repositories.RoleAssignmentRepository,
	tokenManager *auth.TokenManager,
) AuthService {
	return &AuthServiceImpl{
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		tokenManager: tokenManager,
	}
}

// Register создает пользователя по активному приглашению. Роль берется из приглашения.
func (s *AuthServiceImpl) Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	invitation, err := s.resolveInvitation(db, req)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Designation:  invitation.Role,
		IsActive:     true,
	}

	now := time.Now()
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.Create(tx, user); err != nil {
			return err
		}
		return s.roleRepo.MarkRegistered(tx, invitation.ID, now)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	token, err := s.tokenManager.GenerateToken(user.ID, user.Email, string(user.Designation))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(contextOf(db), "User registered", "user_id", user.ID, "designation", user.Designation)

	return &dto.AuthResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    user,
	}, nil
}

func (s *AuthServiceImpl) resolveInvitation(db *gorm.DB, req *dto.RegisterRequest) (*models.RoleAssignment, error) {
	if _, err := s.userRepo.FindByEmail(db, req.Email); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.InternalError(err)
	}

	if req.InvitationToken == "" {
		ra, err := s.roleRepo.FindActiveByEmail(db, req.Email)
		if err != nil {
			if errors.Is(err, repositories.ErrRoleAssignmentNotFound) {
				return nil, apperrors.ErrNoActiveInvitation
			}
			return nil, apperrors.InternalError(err)
		}
		return ra, nil
	}

	claims, err := s.tokenManager.ParseInvitationToken(req.InvitationToken)
	if err != nil {
		return nil, tokenError(err)
	}
	if !strings.EqualFold(strings.TrimSpace(claims.Email), strings.TrimSpace(req.Email)) {
		return nil, apperrors.ErrInvitationMismatch
	}

	ra, err := s.roleRepo.FindByEmailAndRole(db, claims.Email, models.Designation(claims.Role))
	if err != nil {
		if errors.Is(err, repositories.ErrRoleAssignmentNotFound) {
			return nil, apperrors.ErrNoActiveInvitation
		}
		return nil, apperrors.InternalError(err)
	}
	if ra.Status != models.RoleAssignmentActive || !ra.IsActive {
		return nil, apperrors.ErrNoActiveInvitation
	}
	return ra, nil
}

func (s *AuthServiceImpl) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountInactive
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(db, user.ID, now); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.roleRepo.UpdateLastLogin(db, user.Email, user.Designation, now); err != nil {
		logger.CtxWithError(contextOf(db), "Failed to update role assignment last login", err, "user_id", user.ID)
	}
	user.LastLogin = &now

	token, err := s.tokenManager.GenerateToken(user.ID, user.Email, string(user.Designation))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    user,
	}, nil
}

func (s *AuthServiceImpl) Me(db *gorm.DB, userID string) (*dto.MeResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("auth", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}

	permissions := auth.Permissions[string(user.Designation)]
	if permissions == nil {
		permissions = []string{}
	}
	return &dto.MeResponse{User: user, Permissions: permissions}, nil
}

func (s *AuthServiceImpl) Authenticate(db *gorm.DB, token string) (*models.User, error) {
	claims, err := s.tokenManager.ParseToken(token)
	if err != nil {
		return nil, tokenError(err)
	}

	user, err := s.userRepo.FindByID(db, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}
	if !user.IsActive {
		return nil, apperrors.NewUnauthorizedError("Account is deactivated")
	}
	return user, nil
}

func tokenError(err error) error {
	if errors.Is(err, auth.ErrExpiredToken) {
		return apperrors.ErrTokenExpired
	}
	return apperrors.ErrInvalidToken
}
