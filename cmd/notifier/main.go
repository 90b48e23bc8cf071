package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campuslife-backend/internal/config"
	"campuslife-backend/internal/kafka"
	"campuslife-backend/internal/logger"
	"campuslife-backend/internal/storages/mongodb"
)

// The notifier consumes wallet events from Kafka and stores them as in-app
// notifications.
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
	log.Info("Starting campuslife-notifier service...")

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

	consumer := kafka.NewConsumer(&kafka.ConsumerConfig{
		Brokers:       cfg.Kafka.Brokers,
		Topic:         cfg.Kafka.Topic,
		GroupID:       cfg.Kafka.GroupID,
		MinBytes:      1,
		MaxBytes:      10e6,
		MaxWait:       time.Second,
		RetryAttempts: cfg.Kafka.RetryAttempts,
		RetryDelay:    cfg.Kafka.RetryDelay,
	}, storage, log)
	defer consumer.Close()

	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	consumerErr := make(chan error, 1)
	go func() {
		consumerErr <- consumer.Start(ctx)
	}()

	statsTicker := time.NewTicker(30 * time.Second)
	defer statsTicker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-statsTicker.C:
				processed, failed, rate := consumer.Statistics()
				log.Infof("Consumer statistics: Processed=%d, Failed=%d, Rate=%.2f msg/s", processed, failed, rate)
			}
		}
	}()

	log.Info("Service is running. Press Ctrl+C to stop...")

	select {
	case <-sigChan:
		log.Info("Received shutdown signal...")
	case err := <-consumerErr:
		if err != nil {
			log.Errorf("Consumer error: %v", err)
		}
	}

	log.Info("Shutting down service...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	select {
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded, forcing exit")
	case err := <-consumerErr:
		if err != nil && err != context.Canceled {
			log.Errorf("Consumer shutdown error: %v", err)
		}
	}

	processed, failed, _ := consumer.Statistics()
	log.Infof("Final statistics: Processed=%d, Failed=%d", processed, failed)
	log.Info("Service stopped gracefully")
}
