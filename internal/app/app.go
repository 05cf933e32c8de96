package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"sermonforge_backend/internal/ai"
	"sermonforge_backend/internal/config"
	"sermonforge_backend/internal/database"
	"sermonforge_backend/internal/email"
	"sermonforge_backend/internal/handlers"
	"sermonforge_backend/internal/jobs"
	"sermonforge_backend/internal/logger"
	"sermonforge_backend/internal/middleware"
	"sermonforge_backend/internal/repositories"
	"sermonforge_backend/internal/routes"
	"sermonforge_backend/internal/services"
	"sermonforge_backend/internal/storage"
	"sermonforge_backend/internal/transcription"
	"sermonforge_backend/internal/validator"
)

// Run starts the API server and blocks until shutdown.
func Run() error {
	config.LoadConfig()
	cfg := config.GetConfig()

	logger.Init(cfg.Server.Env)
	validator.Init()

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	store, err := storage.New(cfg)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	dispatcher, err := jobs.NewAsynqDispatcher(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("init job dispatcher: %w", err)
	}
	defer dispatcher.Close()

	sc := BuildServices(db, cfg, store, dispatcher)
	appHandlers := handlers.NewAppHandlers(sc, store, cfg)
	router := SetupRouter(db, cfg, appHandlers)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// BuildServices assembles the repository and service graph.
func BuildServices(db *gorm.DB, cfg *config.Config, store storage.Storage, dispatcher jobs.Dispatcher) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository(db)
	metaRepo := repositories.NewMetadataRepository(db)
	sermonRepo := repositories.NewSermonRepository(db)
	contentRepo := repositories.NewContentRepository(db)
	subRepo := repositories.NewSubscriptionRepository(db)
	analyticsRepo := repositories.NewAnalyticsRepository(db)

	transcriber := transcription.NewAssemblyAITranscriber(cfg.AssemblyAI.APIKey)
	generator := ai.NewOpenAIGenerator(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	sender := email.NewSender(cfg)

	analyticsService := services.NewAnalyticsService(analyticsRepo)
	usageService := services.NewUsageService(sermonRepo, subRepo)

	return &services.ServiceContainer{
		Auth: services.NewAuthService(userRepo),
		Sermons: services.NewSermonService(
			sermonRepo, contentRepo, userRepo, metaRepo,
			usageService, dispatcher, transcriber, generator,
			analyticsService, sender,
		),
		Content:   services.NewContentService(contentRepo, sermonRepo, analyticsService),
		Usage:     usageService,
		Billing:   services.NewBillingService(subRepo, userRepo, cfg),
		Settings:  services.NewSettingsService(metaRepo, store),
		Analytics: analyticsService,
		Export: services.NewExportService(
			sermonRepo, contentRepo, metaRepo, store, analyticsService,
		),
	}
}

// SetupRouter builds the gin engine with the full middleware chain.
func SetupRouter(db *gorm.DB, cfg *config.Config, appHandlers *handlers.AppHandlers) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	router.Use(limiter.Middleware())

	routes.RegisterRoutes(router, appHandlers, cfg)
	return router
}
