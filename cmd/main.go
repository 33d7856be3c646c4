package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"comercia/internal/caching"
	"comercia/internal/config"
	"comercia/internal/docstore"
	"comercia/internal/handlers"
	"comercia/internal/jobs"
	"comercia/internal/jobs/background"
	"comercia/internal/middleware"
	"comercia/internal/provisioning"
	"comercia/internal/repositories"
	"comercia/internal/services"
	"comercia/pkg/database"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var logger *slog.Logger
	if strings.EqualFold(cfg.Env, "development") {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}

	ctx := context.Background()

	// Relational store
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Document store
	mongoClient, err := docstore.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to document store: %v", err)
	}
	defer func() { _ = mongoClient.Disconnect(ctx) }()

	companyDocs := docstore.NewCompanyStore(mongoClient, cfg.MongoDatabase)
	if err := companyDocs.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create document-store indexes: %v", err)
	}

	// Cache / NIT reservations
	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	// Per-tenant object storage
	assetSvc, err := services.NewTenantAssetService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize tenant asset service: %v", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	companyRepo := repositories.NewCompanyRepo(pool)
	membershipRepo := repositories.NewMembershipRepo(pool)
	subscriptionRepo := repositories.NewSubscriptionRepo(pool)
	storeRepo := repositories.NewStoreRepo(pool)
	reconciliationRepo := repositories.NewReconciliationRepo(pool)

	// Provisioning saga
	provisioningSvc := provisioning.NewService(
		provisioning.NewRequestValidator(companyRepo),
		provisioning.NewIdentityResolver(userRepo),
		provisioning.NewDocumentWriter(companyDocs),
		provisioning.NewRelationalProjector(companyRepo, membershipRepo, subscriptionRepo, storeRepo, logger),
		provisioning.NewCompensationCoordinator(storeRepo, subscriptionRepo, membershipRepo, companyRepo, companyDocs, reconciliationRepo, logger),
		cacheSvc,
		assetSvc,
		logger,
		provisioning.Options{
			StepTimeout:    cfg.StepTimeout,
			ReservationTTL: cfg.ReservationTTL,
		},
	)

	// Background reconciliation sweep
	sweeper := jobs.NewReconciliationSweeper(
		reconciliationRepo, storeRepo, subscriptionRepo, membershipRepo, companyRepo, companyDocs,
		logger, cfg.MaxSweepRetry, 50,
	)
	scheduler, err := background.NewJobScheduler(sweeper, cfg.SweepInterval)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()
	defer func() { _ = scheduler.Stop() }()

	// Handlers
	provisioningHandlers := handlers.NewProvisioningHandlers(provisioningSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, mongoClient, cacheSvc)

	e := echo.New()
	e.HideBanner = true

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	// Provisioning routes require an authenticated external subject
	jwtConfig, err := middleware.AuthConfig(cfg.JWTSecret, cfg.JWKSURL)
	if err != nil {
		log.Fatalf("Failed to configure auth middleware: %v", err)
	}
	protected := e.Group("")
	protected.Use(echojwt.WithConfig(jwtConfig))
	provisioningHandlers.Register(protected)

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.StepTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown: %v", err)
		}
	}()

	log.Printf("🚀 Comercia provisioning server v%s starting on port %d", version, cfg.Port)
	if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
