package config

import "time"

// Server defaults
const (
	DefaultHTTPPort = "8080"
	DefaultGinMode  = "release"
	DefaultLogLevel = "info"
)

// MongoDB defaults
const (
	DefaultMongoURI         = "mongodb://localhost:27017"
	DefaultMongoDatabase    = "campuslife"
	DefaultMongoTimeout     = 10 * time.Second
	DefaultMongoMaxPoolSize = 100
	DefaultMongoMinPoolSize = 5
)

// JWT defaults
const (
	DefaultJWTSecret            = "change-me-in-production"
	DefaultJWTAccessExpiration  = 24 * time.Hour
	DefaultJWTRefreshExpiration = 90 * 24 * time.Hour
)

// Kafka defaults. A zero notify amount publishes every wallet event.
const (
	DefaultKafkaBrokers         = "localhost:9092"
	DefaultKafkaTopic           = "wallet-events"
	DefaultKafkaGroupID         = "campuslife-notifier"
	DefaultKafkaMinNotifyAmount = 0.0
	DefaultKafkaRetryAttempts   = 3
	DefaultKafkaRetryDelay      = 2 * time.Second
)
