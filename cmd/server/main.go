package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campuslife-backend/internal/api"
	"campuslife-backend/internal/api/middleware"
	"campuslife-backend/internal/config"
	"campuslife-backend/internal/kafka"
	"campuslife-backend/internal/logger"
	"campuslife-backend/internal/service"
	"campuslife-backend/internal/storages/mongodb"
)

// @title Campus Life API
// @version 1.0
// @description REST backend for the campus-life mobile app: wallet, past-question marketplace, study tracking, timetable, tasks, news and notifications

// @contact.name API Support
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	configPath := flag.String("c", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logger.Level)
	log.Info("Starting campuslife-backend service...")

	// MongoDB
	storage, err := mongodb.New(&mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		Timeout:     cfg.Mongo.Timeout,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
		MinPoolSize: cfg.Mongo.MinPoolSize,
	}, log)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		storage.Close(ctx)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := storage.Ping(ctx); err != nil {
		cancel()
		log.Fatalf("MongoDB ping failed: %v", err)
	}
	cancel()
	log.Info("MongoDB connection established")

	// Kafka producer for wallet events
	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.MinNotifyAmount, log)
	defer producer.Close()

	// Service layer
	walletService := service.NewWalletService(storage, producer, log)
	timetableService := service.NewTimetableService(storage, log)
	services := api.Services{
		Auth:          service.NewAuthService(storage, log),
		Wallet:        walletService,
		Marketplace:   service.NewMarketplaceService(storage, producer, log),
		Subscription:  service.NewSubscriptionService(storage, log),
		Study:         service.NewStudyService(storage, log),
		Tasks:         service.NewTaskService(storage, log),
		Timetable:     timetableService,
		News:          service.NewNewsService(storage, log),
		Notifications: service.NewNotificationService(storage, log),
		Dashboard:     service.NewDashboardService(storage, timetableService, log),
	}
	log.Info("Service layer initialized")

	jwtMiddleware := middleware.NewJWTMiddleware(cfg.JWT.Secret, log)

	router := api.SetupRouter(services, jwtMiddleware, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, log, cfg.Server.GinMode)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Infof("HTTP server is listening on port %s", cfg.Server.HTTPPort)
		log.Infof("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.Server.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	<-done
	log.Info("Shutting down server...")

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
