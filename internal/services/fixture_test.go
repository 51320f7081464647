package services_test

import (
	"testing"
	"time"

	"hiring_backend/internal/auth"
	"hiring_backend/internal/config"
	"hiring_backend/internal/imageprocessor"
	"hiring_backend/internal/repositories"
	"hiring_backend/internal/services"
	"hiring_backend/internal/storage"
	"hiring_backend/internal/testutil"
	"hiring_backend/pkg/apperrors"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	cfg     *config.Config
	db      *gorm.DB
	storage storage.Storage
	emails  *testutil.RecordingEmailProvider
	events  *testutil.RecordingPublisher

	candidates  services.CandidateService
	assignments services.AssignmentService
	auth        services.AuthService
	admin       services.AdminService
	board       services.BoardService
	reconcile   services.ReconcileService
	userTokens  *auth.TokenManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testutil.TestConfig(t)
	db := testutil.NewTestDB(t, cfg)

	fileStorage, err := storage.NewStorage(storage.Config{
		Type:     "local",
		BasePath: cfg.Storage.BasePath,
		BaseURL:  cfg.Storage.BaseURL,
	})
	require.NoError(t, err)

	emails := &testutil.RecordingEmailProvider{}
	events := &testutil.RecordingPublisher{}

	userRepo := repositories.NewUserRepository()
	adminRepo := repositories.NewAdminRepository()
	roleRepo := repositories.NewRoleAssignmentRepository()
	candidateRepo := repositories.NewCandidateRepository()
	assignmentRepo := repositories.NewAssignmentRepository()

	notifications := services.NewNotificationService(emails, services.NotificationSettings{
		PortalURL: "http://localhost:3000",
		Host:      "smtp.test",
		Port:      587,
		FromEmail: "noreply@test.com",
	})
	userTokens := auth.NewTokenManager(cfg.JWT.Secret, time.Hour)
	adminTokens := auth.NewTokenManager(cfg.Admin.JWTSecret, time.Hour)

	return &fixture{
		cfg:     cfg,
		db:      db,
		storage: fileStorage,
		emails:  emails,
		events:  events,
		candidates: services.NewCandidateService(candidateRepo, assignmentRepo, fileStorage,
			imageprocessor.NewProcessor(85, 64), events, services.UploadSettings{MaxSize: cfg.Upload.MaxSize}),
		assignments: services.NewAssignmentService(assignmentRepo, candidateRepo, userRepo, notifications, events),
		auth:        services.NewAuthService(userRepo, roleRepo, userTokens),
		admin: services.NewAdminService(adminRepo, roleRepo, adminTokens, userTokens, notifications, services.AdminSettings{
			RoleLimits:    map[string]int{"HR": 2, "Manager": 2, "Board Member": 1},
			InvitationTTL: 24 * time.Hour,
		}),
		board:      services.NewBoardService(candidateRepo, assignmentRepo, fileStorage),
		reconcile:  services.NewReconcileService(candidateRepo, assignmentRepo),
		userTokens: userTokens,
	}
}

// requireHTTPCode проверяет, что err - AppError с нужным HTTP кодом
func requireHTTPCode(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "ожидалась AppError, получено: %v", err)
	require.Equal(t, code, appErr.HTTPCode, appErr.Error())
}
