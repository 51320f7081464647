package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"hiring_backend/internal/auth"
	"hiring_backend/internal/config"
	"hiring_backend/internal/database"
	"hiring_backend/internal/email"
	"hiring_backend/internal/handlers"
	"hiring_backend/internal/imageprocessor"
	"hiring_backend/internal/logger"
	"hiring_backend/internal/middleware"
	"hiring_backend/internal/repositories"
	"hiring_backend/internal/routes"
	"hiring_backend/internal/services"
	"hiring_backend/internal/services/dto"
	"hiring_backend/internal/storage"
	"hiring_backend/internal/validator"
	"hiring_backend/internal/workers"
	"hiring_backend/pkg/apperrors"
	"hiring_backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Overrides - подмена внешних зависимостей (тесты, CLI)
type Overrides struct {
	EmailProvider email.Provider
	Storage       storage.Storage
}

// Application - собранное приложение: роутер, сервисы и фоновые компоненты
type Application struct {
	Router    *gin.Engine
	Services  *services.ServiceContainer
	WSManager *ws.WebSocketManager
	Worker    *workers.ReconcileWorker
	redis     *redis.Client
}

// Run поднимает HTTP сервер и воркеры, завершается по SIGINT/SIGTERM
func Run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	logger.Info("Database connected")

	if err := database.Migrate(db); err != nil {
		return err
	}

	application, err := New(cfg, db, Overrides{})
	if err != nil {
		return err
	}
	defer application.Close()

	if err := SeedFirstAdmin(db, cfg, application.Services.AdminService); err != nil {
		return fmt.Errorf("failed to seed first admin: %w", err)
	}

	go application.WSManager.Run(ctx)
	application.Worker.Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              address,
		Handler:           application.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("🚀 Server starting on %s", address), "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server startup error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// SetupRouter собирает роутер без фоновых компонентов (используется в тестах)
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	application, err := New(cfg, db, Overrides{})
	if err != nil {
		logger.Fatal("Failed to build application", "error", err)
	}
	return application.Router
}

// New собирает сервисы, хэндлеры и роутер
func New(cfg *config.Config, db *gorm.DB, overrides Overrides) (*Application, error) {
	apperrors.SetDebug(!cfg.IsProduction())
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	storageInstance := overrides.Storage
	if storageInstance == nil {
		var err error
		storageInstance, err = storage.NewStorage(storage.Config{
			Type:       cfg.Storage.Type,
			BasePath:   cfg.Storage.BasePath,
			BaseURL:    cfg.Storage.BaseURL,
			Bucket:     cfg.Storage.Bucket,
			Region:     cfg.Storage.Region,
			AccessKey:  cfg.Storage.AccessKey,
			SecretKey:  cfg.Storage.SecretKey,
			Endpoint:   cfg.Storage.Endpoint,
			UseSSL:     cfg.Storage.UseSSL,
			PublicRead: cfg.Storage.PublicRead,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	emailProvider := overrides.EmailProvider
	if emailProvider == nil {
		var err error
		emailProvider, err = newEmailProvider(cfg)
		if err != nil {
			return nil, err
		}
	}

	wsManager := ws.NewWebSocketManager()

	userTokens := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute)
	adminTokens := auth.NewTokenManager(cfg.Admin.JWTSecret, time.Duration(cfg.Admin.TTL)*time.Minute)

	serviceContainer := initializeServices(cfg, storageInstance, emailProvider, wsManager, userTokens, adminTokens)

	memoryLimiter := middleware.NewRateLimiter()
	var limiter middleware.Limiter = memoryLimiter
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		limiter = middleware.NewRedisLimiter(redisClient, "hiring:ratelimit")
		logger.Info("Rate limiter uses Redis", "addr", cfg.Redis.Addr)
	}

	guards := middleware.Guards{
		Auth:      middleware.AuthMiddleware(serviceContainer.AuthService),
		Admin:     middleware.AdminAuthMiddleware(serviceContainer.AdminService),
		AuthLimit: middleware.RateLimit(limiter, "auth", cfg.RateLimit.AuthPerMinute, time.Minute),
	}

	appHandlers := initializeHandlers(cfg, serviceContainer)
	wsHandler := ws.NewWebSocketHandler(wsManager, cfg.Server.CORSOrigins)

	ginRouter := initializeGinRouter(cfg, db)
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler, guards)

	worker := workers.NewReconcileWorker(
		db,
		serviceContainer.ReconcileService,
		time.Duration(cfg.Workers.ReconcileIntervalMinutes)*time.Minute,
		memoryLimiter,
	)

	return &Application{
		Router:    ginRouter,
		Services:  serviceContainer,
		WSManager: wsManager,
		Worker:    worker,
		redis:     redisClient,
	}, nil
}

// Close освобождает внешние подключения
func (a *Application) Close() {
	if a.Services != nil && a.Services.EmailProvider != nil {
		_ = a.Services.EmailProvider.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}

func newEmailProvider(cfg *config.Config) (email.Provider, error) {
	if !cfg.EmailConfigured() {
		logger.Warn("SMTP is not configured, email notifications are disabled")
		return DisabledEmailProvider{}, nil
	}

	templates, err := email.NewTemplateManager()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}

	provider := email.NewSMTPProvider(&email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
		UseSSL:    cfg.Email.UseSSL,
		Timeout:   time.Duration(cfg.Email.Timeout) * time.Second,
	}, templates)
	logger.Info("SMTP provider initialized", "host", cfg.Email.SMTPHost, "port", cfg.Email.SMTPPort)
	return provider, nil
}

func initializeServices(
	cfg *config.Config,
	storageInstance storage.Storage,
	emailProvider email.Provider,
	events services.EventPublisher,
	userTokens, adminTokens *auth.TokenManager,
) *services.ServiceContainer {
	// --- Репозитории ---
	userRepo := repositories.NewUserRepository()
	adminRepo := repositories.NewAdminRepository()
	roleRepo := repositories.NewRoleAssignmentRepository()
	candidateRepo := repositories.NewCandidateRepository()
	assignmentRepo := repositories.NewAssignmentRepository()

	// --- Сервисы ---
	notificationService := services.NewNotificationService(emailProvider, services.NotificationSettings{
		PortalURL: cfg.Email.PortalURL,
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		FromEmail: cfg.Email.FromEmail,
	})
	images := imageprocessor.NewProcessor(cfg.Upload.ImageQuality, cfg.Upload.ImageMaxDimension)

	return &services.ServiceContainer{
		AuthService: services.NewAuthService(userRepo, roleRepo, userTokens),
		AdminService: services.NewAdminService(adminRepo, roleRepo, adminTokens, userTokens, notificationService, services.AdminSettings{
			RoleLimits:    cfg.Roles.Limits,
			InvitationTTL: time.Duration(cfg.JWT.InvitationTTL) * time.Hour,
		}),
		CandidateService: services.NewCandidateService(candidateRepo, assignmentRepo, storageInstance, images, events, services.UploadSettings{
			MaxSize: cfg.Upload.MaxSize,
		}),
		AssignmentService:   services.NewAssignmentService(assignmentRepo, candidateRepo, userRepo, notificationService, events),
		BoardService:        services.NewBoardService(candidateRepo, assignmentRepo, storageInstance),
		ReconcileService:    services.NewReconcileService(candidateRepo, assignmentRepo),
		NotificationService: notificationService,
		EmailProvider:       emailProvider,
		Storage:             storageInstance,
	}
}

func initializeHandlers(cfg *config.Config, svc *services.ServiceContainer) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		AuthHandler:       handlers.NewAuthHandler(baseHandler, svc.AuthService),
		CandidateHandler:  handlers.NewCandidateHandler(baseHandler, svc.CandidateService, cfg.Upload.MaxSize),
		AssignmentHandler: handlers.NewAssignmentHandler(baseHandler, svc.AssignmentService),
		BoardHandler:      handlers.NewBoardHandler(baseHandler, svc.BoardService),
		AdminHandler: handlers.NewAdminHandler(baseHandler, svc.AdminService, handlers.AdminCookieSettings{
			TTL:    time.Duration(cfg.Admin.TTL) * time.Minute,
			Secure: cfg.Admin.CookieSecure || cfg.IsProduction(),
		}),
		FileHandler:   handlers.NewFileHandler(baseHandler, svc.Storage),
		HealthHandler: handlers.NewHealthHandler(cfg.Server.Env),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()
	// две загрузки по MaxSize плюс поля формы
	router.MaxMultipartMemory = 2*cfg.Upload.MaxSize + 1<<20
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))
	router.Use(middleware.DBMiddleware(db))
	return router
}

// SeedFirstAdmin создает первого админа из admin.first_admin_* (если заданы)
func SeedFirstAdmin(db *gorm.DB, cfg *config.Config, adminService services.AdminService) error {
	if cfg.Admin.FirstAdminEmail == "" || cfg.Admin.FirstAdminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	admin, created, err := adminService.SeedFirstAdmin(db, &dto.SeedAdminRequest{
		Name:     cfg.Admin.FirstAdminName,
		Email:    cfg.Admin.FirstAdminEmail,
		Password: cfg.Admin.FirstAdminPassword,
	})
	if err != nil {
		return err
	}
	if !created {
		logger.Info("Admin already exists. Skipping creation.", "email", admin.Email)
		return nil
	}
	logger.Info("✅ Successfully created first admin", "email", admin.Email)
	return nil
}
