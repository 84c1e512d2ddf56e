package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"care-recruitment-backend/config"
	_ "care-recruitment-backend/docs" // Important for Swagger
	"care-recruitment-backend/internal/delivery/http/api"
	"care-recruitment-backend/internal/delivery/http/middleware"
	"care-recruitment-backend/internal/domain"
	"care-recruitment-backend/internal/repository/memory"
	"care-recruitment-backend/internal/repository/postgres"
	"care-recruitment-backend/internal/usecase"
	"care-recruitment-backend/pkg/database"
	"care-recruitment-backend/pkg/email"
	"care-recruitment-backend/pkg/logger"
	"care-recruitment-backend/pkg/redis"
	"care-recruitment-backend/pkg/security"
	"care-recruitment-backend/pkg/security/antivirus"
	"care-recruitment-backend/pkg/storage"
	"care-recruitment-backend/pkg/validation"
)

const clamAVTimeout = 30 * time.Second

// @title           Care Recruitment API
// @version         1.0
// @description     Healthcare recruitment backend: applications, caregiver skills test and admin review.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.Env)
	logger.Log.Info("Starting care recruitment backend", "port", cfg.Port, "env", cfg.Env)

	audit := security.NewAuditLogger("care-recruitment-backend", cfg.Env)
	defer func() { _ = audit.Sync() }()

	ctx := context.Background()
	checks := map[string]usecase.HealthCheck{}

	// 3. Setup Storage (Postgres when configured, in-memory otherwise)
	var (
		userRepo domain.UserRepository
		appRepo  domain.ApplicationRepository
		testRepo domain.TestRepository
	)
	if cfg.DBUrl != "" {
		dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			logger.Log.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()

		if err := postgres.EnsureSchema(ctx, dbPool); err != nil {
			logger.Log.Error("Failed to apply schema", "error", err)
			os.Exit(1)
		}
		userRepo = postgres.NewUserRepository(dbPool)
		appRepo = postgres.NewApplicationRepository(dbPool)
		testRepo = postgres.NewTestRepository(dbPool)
		checks["database"] = dbPool.Ping
	} else {
		store := memory.NewStore()
		userRepo = store.Users()
		appRepo = store.Applications()
		testRepo = store.Tests()
	}

	// 4. Setup File Storage
	var files domain.FileStore
	if cfg.S3Bucket != "" {
		s3Store, err := storage.NewS3Store(ctx, storage.S3Config{
			Provider:        storage.S3Provider(cfg.S3Provider),
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			WasabiEndpoint:  cfg.WasabiEndpoint,
		})
		if err != nil {
			logger.Log.Error("Failed to initialize object storage", "error", err)
			os.Exit(1)
		}
		files = s3Store
		checks["storage"] = s3Store.Ping
	} else {
		localStore, err := storage.NewLocalStore(cfg.UploadDir)
		if err != nil {
			logger.Log.Error("Failed to prepare upload directory", "dir", cfg.UploadDir, "error", err)
			os.Exit(1)
		}
		files = localStore
	}

	// 5. Setup Antivirus
	var scanner antivirus.Scanner = antivirus.NewNoOpScanner()
	if cfg.ClamAVAddress != "" {
		scanner = antivirus.NewClamAVScanner(cfg.ClamAVAddress, clamAVTimeout)
	}
	logger.Log.Info("Upload scanner ready", "scanner", scanner.Name())

	// 6. Setup Email Service
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - applicant confirmations are disabled")
	}

	// 7. Setup Redis (rate limiting)
	if err := redis.Initialize(ctx, redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword}); err != nil {
		if !errors.Is(err, redis.ErrNotConfigured) {
			logger.Log.Warn("Redis unavailable, rate limiting falls back to memory", "error", err)
		}
	} else {
		defer func() { _ = redis.Close() }()
		checks["redis"] = redis.HealthCheck
	}
	rateLimiter := middleware.NewRateLimiter(redis.Client(), audit)

	// 8. Setup UseCases
	validate := validation.New()
	userUC := usecase.NewUserUsecase(userRepo, validate)
	intakeUC := usecase.NewIntakeUsecase(usecase.IntakeDeps{
		Users:             userRepo,
		Applications:      appRepo,
		Tests:             testRepo,
		Files:             files,
		Scanner:           scanner,
		Notifier:          emailService,
		Audit:             audit,
		Validate:          validate,
		MaxUploadBytes:    cfg.MaxUploadBytes,
		ImageMaxDimension: cfg.ImageMaxDimension,
	})
	testUC := usecase.NewTestUsecase(testRepo, appRepo)
	adminUC := usecase.NewAdminUsecase(userRepo, appRepo, testRepo, audit)
	authUC := usecase.NewAuthUsecase(usecase.AuthConfig{
		Username:     cfg.AdminUsername,
		PasswordHash: cfg.AdminPasswordHash,
		JWTSecret:    cfg.AdminJWTSecret,
		TokenTTL:     time.Duration(cfg.AdminTokenTTLMinutes) * time.Minute,
	}, audit)
	if !cfg.AdminAuthEnabled() {
		logger.Log.Warn("ADMIN_JWT_SECRET not set - admin routes are unauthenticated")
	}
	healthUC := usecase.NewHealthUsecase(checks)

	// 9. Setup Router
	router := api.NewRouter(api.RouterDeps{
		UserUC:      userUC,
		IntakeUC:    intakeUC,
		TestUC:      testUC,
		AdminUC:     adminUC,
		AuthUC:      authUC,
		HealthUC:    healthUC,
		RateLimiter: rateLimiter,
		Audit:       audit,
		Config:      cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
