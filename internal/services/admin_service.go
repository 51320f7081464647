package services

import (
	"errors"
	"fmt"
	"time"

	"hiring_backend/internal/auth"
	"hiring_backend/internal/logger"
	"hiring_backend/internal/models"
	"hiring_backend/internal/repositories"
	"hiring_backend/internal/services/dto"
	"hiring_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AdminService interface {
	Login(db *gorm.DB, req *dto.AdminLoginRequest) (*dto.AdminAuthResponse, error)
	Me(db *gorm.DB, adminID string) (*models.Admin, error)
	// Authenticate проверяет админский токен (заголовок или cookie)
	Authenticate(db *gorm.DB, token string) (*models.Admin, error)
	EmailStatus() dto.EmailStatusResponse
	CreateRoleAssignment(db *gorm.DB, adminID string, req *dto.CreateRoleAssignmentRequest) (*dto.RoleAssignmentCreatedResponse, error)
	GetRoleLimits(db *gorm.DB) (*dto.RoleLimitsResponse, error)
	// SeedFirstAdmin создает админа, если с таким email его еще нет. created=false - уже был.
	SeedFirstAdmin(db *gorm.DB, req *dto.SeedAdminRequest) (admin *models.Admin, created bool, err error)
}

// AdminSettings - параметры приглашений
type AdminSettings struct {
	RoleLimits    map[string]int
	InvitationTTL time.Duration
}

type AdminServiceImpl struct {
	adminRepo     repositories.AdminRepository
	roleRepo      repositories.RoleAssignmentRepository
	adminTokens   *auth.TokenManager
	userTokens    *auth.TokenManager
	notifications NotificationService
	settings      AdminSettings
}

// NewAdminService: adminTokens подписывает токены админки, userTokens - приглашения
// (их потом проверяет регистрация пользователей).
func NewAdminService(
	adminRepo repositories.AdminRepository,
	roleRepo repositories.RoleAssignmentRepository,
	adminTokens *auth.TokenManager,
	userTokens *auth.TokenManager,
	notifications NotificationService,
	settings AdminSettings,
) AdminService {
	return &AdminServiceImpl{
		adminRepo:     adminRepo,
		roleRepo:      roleRepo,
		adminTokens:   adminTokens,
		userTokens:    userTokens,
		notifications: notifications,
		settings:      settings,
	}
}

func (s *AdminServiceImpl) Login(db *gorm.DB, req *dto.AdminLoginRequest) (*dto.AdminAuthResponse, error) {
	admin, err := s.adminRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}
	if !auth.CheckPasswordHash(req.Password, admin.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !admin.IsActive {
		return nil, apperrors.ErrAccountInactive
	}

	now := time.Now()
	if err := s.adminRepo.UpdateLastLogin(db, admin.ID, now); err != nil {
		return nil, apperrors.InternalError(err)
	}
	admin.LastLogin = &now

	token, err := s.adminTokens.GenerateAdminToken(admin.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AdminAuthResponse{
		Message: "Login successful",
		Token:   token,
		Admin:   admin,
	}, nil
}

func (s *AdminServiceImpl) Me(db *gorm.DB, adminID string) (*models.Admin, error) {
	admin, err := s.adminRepo.FindByID(db, adminID)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return nil, apperrors.NewNotFoundError("admin", "Admin not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return admin, nil
}

func (s *AdminServiceImpl) Authenticate(db *gorm.DB, token string) (*models.Admin, error) {
	claims, err := s.adminTokens.ParseAdminToken(token)
	if err != nil {
		return nil, tokenError(err)
	}

	admin, err := s.adminRepo.FindByID(db, claims.AdminID)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}
	if !admin.IsActive {
		return nil, apperrors.NewUnauthorizedError("Account is deactivated")
	}
	return admin, nil
}

func (s *AdminServiceImpl) EmailStatus() dto.EmailStatusResponse {
	return s.notifications.EmailStatus()
}

// CreateRoleAssignment выдает приглашение на роль. Квота проверяется подсчетом
// активных приглашений до вставки, без блокировок.
func (s *AdminServiceImpl) CreateRoleAssignment(db *gorm.DB, adminID string, req *dto.CreateRoleAssignmentRequest) (*dto.RoleAssignmentCreatedResponse, error) {
	role := models.Designation(req.Role)
	if !role.IsValid() {
		return nil, apperrors.ErrUnknownRole
	}

	if _, err := s.roleRepo.FindByEmailAndRole(db, req.Email, role); err == nil {
		return nil, apperrors.ErrRoleAlreadyAssigned
	} else if !errors.Is(err, repositories.ErrRoleAssignmentNotFound) {
		return nil, apperrors.InternalError(err)
	}

	limit := s.limitFor(role)
	current, err := s.roleRepo.CountActiveByRole(db, role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if current >= int64(limit) {
		return nil, apperrors.ErrRoleLimitReached(string(role), current, limit)
	}

	now := time.Now()
	ra := &models.RoleAssignment{
		Email:       req.Email,
		Role:        role,
		Status:      models.RoleAssignmentActive,
		InvitedByID: adminID,
		InvitedAt:   now,
		IsActive:    true,
	}
	if err := s.roleRepo.Create(db, ra); err != nil {
		if errors.Is(err, repositories.ErrRoleAssignmentExists) {
			return nil, apperrors.ErrRoleAlreadyAssigned
		}
		return nil, apperrors.InternalError(err)
	}

	token, err := s.userTokens.GenerateInvitationToken(ra.Email, string(ra.Role), s.settings.InvitationTTL)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	ctx := contextOf(db)
	result := s.notifications.SendInvitationEmail(ctx, InvitationEmail{
		To:        ra.Email,
		Role:      string(ra.Role),
		Token:     token,
		ExpiresAt: now.Add(s.settings.InvitationTTL),
	})

	logger.CtxInfo(ctx, "Role assigned", "email", ra.Email, "role", ra.Role, "email_sent", result.Sent)

	return &dto.RoleAssignmentCreatedResponse{
		Message:         fmt.Sprintf("%s role assigned successfully", ra.Role),
		RoleAssignment:  ra,
		InvitationToken: token,
		EmailResult:     result,
	}, nil
}

func (s *AdminServiceImpl) GetRoleLimits(db *gorm.DB) (*dto.RoleLimitsResponse, error) {
	counts, err := s.roleRepo.CountActiveGrouped(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	limits := make([]dto.RoleLimit, 0, len(models.Designations()))
	for _, role := range models.Designations() {
		limit := s.limitFor(role)
		current := counts[role]
		remaining := int64(limit) - current
		if remaining < 0 {
			remaining = 0
		}
		limits = append(limits, dto.RoleLimit{
			Role:      role,
			Limit:     limit,
			Current:   current,
			Remaining: remaining,
			CanAdd:    current < int64(limit),
		})
	}
	return &dto.RoleLimitsResponse{Limits: limits}, nil
}

func (s *AdminServiceImpl) SeedFirstAdmin(db *gorm.DB, req *dto.SeedAdminRequest) (*models.Admin, bool, error) {
	var (
		admin   *models.Admin
		created bool
	)

	err := db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.adminRepo.FindByEmail(tx, req.Email)
		if err == nil {
			admin = existing
			return nil
		}
		if !errors.Is(err, repositories.ErrAdminNotFound) {
			return err
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return err
		}
		admin = &models.Admin{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
			IsActive:     true,
		}
		if err := s.adminRepo.Create(tx, admin); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, apperrors.InternalError(err)
	}

	if created {
		logger.CtxInfo(contextOf(db), "First admin created", "email", admin.Email)
	}
	return admin, created, nil
}

func (s *AdminServiceImpl) limitFor(role models.Designation) int {
	if limit, ok := s.settings.RoleLimits[string(role)]; ok {
		return limit
	}
	return 0
}
