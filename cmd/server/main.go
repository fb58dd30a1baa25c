package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/roofline-saas/service-estimate/internal/application"
	"github.com/roofline-saas/service-estimate/internal/clients/solar"
	"github.com/roofline-saas/service-estimate/internal/config"
	"github.com/roofline-saas/service-estimate/internal/events"
	"github.com/roofline-saas/service-estimate/internal/handler"
	"github.com/roofline-saas/service-estimate/internal/pkg/database"
	"github.com/roofline-saas/service-estimate/internal/pkg/health"
	"github.com/roofline-saas/service-estimate/internal/pkg/kafka"
	"github.com/roofline-saas/service-estimate/internal/pkg/logger"
	"github.com/roofline-saas/service-estimate/internal/pkg/middleware"
	"github.com/roofline-saas/service-estimate/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-estimate")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-estimate",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.RoofEstimateModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		dbURL := cfg.DBConfig.DatabaseURL()
		if err := database.RunMigrations(dbURL, "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize the building-insights client
	solarClient := solar.NewClient(
		cfg.Solar.BaseURL,
		cfg.Solar.APIKey,
		time.Duration(cfg.Solar.TimeoutSeconds)*time.Second,
		log,
	)

	// Initialize repository and application service
	estimateRepo := repository.NewGormEstimateRepository(db)
	estimateService := application.NewEstimateService(
		estimateRepo,
		solarClient,
		kafkaProducer,
		log,
		cfg.Pricing.DefaultPricePerSquare,
	)

	// Initialize and start the lead event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.Kafka.GroupPrefix + "estimate-service"
	leadConsumer := events.NewLeadEventConsumer(
		cfg.Kafka.Brokers,
		groupID,
		estimateService,
		log,
	)
	defer func() { _ = leadConsumer.Close() }()

	go func() {
		log.Info("starting lead event consumer")
		if err := leadConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("lead event consumer error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	estimateHandler := handler.NewEstimateHandler(estimateService, log)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.TenantContext())
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-estimate")
	healthHandler.RegisterRoutes(router)

	// Register routes
	estimateHandler.RegisterRoutes(router)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-estimate...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-estimate stopped")
}
