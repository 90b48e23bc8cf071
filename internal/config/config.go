package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the full application configuration.
type Config struct {
	Server ServerConfig
	Mongo  MongoConfig
	JWT    JWTConfig
	Kafka  KafkaConfig
	Logger LoggerConfig
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	HTTPPort string
	GinMode  string
}

// MongoConfig holds the MongoDB connection settings.
type MongoConfig struct {
	URI         string
	Database    string
	Timeout     time.Duration
	MaxPoolSize uint64
	MinPoolSize uint64
}

// JWTConfig holds the token settings.
type JWTConfig struct {
	Secret            string
	AccessExpiration  time.Duration
	RefreshExpiration time.Duration
}

// KafkaConfig holds the wallet-event pipeline settings.
type KafkaConfig struct {
	Brokers         []string
	Topic           string
	GroupID         string
	MinNotifyAmount float64
	RetryAttempts   int
	RetryDelay      time.Duration
}

// LoggerConfig holds the logger settings.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from an optional env file and the environment.
func Load(configPath string) (*Config, error) {
	if configPath != "" {
		if err := godotenv.Load(configPath); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	cfg := &Config{}

	// Server
	cfg.Server.HTTPPort = getEnv("HTTP_PORT", DefaultHTTPPort)
	cfg.Server.GinMode = getEnv("GIN_MODE", DefaultGinMode)

	// MongoDB
	cfg.Mongo.URI = getEnv("MONGO_URI", DefaultMongoURI)
	cfg.Mongo.Database = getEnv("MONGO_DATABASE", DefaultMongoDatabase)
	cfg.Mongo.Timeout = getEnvDuration("MONGO_TIMEOUT", DefaultMongoTimeout)
	cfg.Mongo.MaxPoolSize = uint64(getEnvInt("MONGO_MAX_POOL_SIZE", DefaultMongoMaxPoolSize))
	cfg.Mongo.MinPoolSize = uint64(getEnvInt("MONGO_MIN_POOL_SIZE", DefaultMongoMinPoolSize))

	// JWT
	cfg.JWT.Secret = getEnv("JWT_SECRET", DefaultJWTSecret)
	cfg.JWT.AccessExpiration = getEnvDuration("JWT_ACCESS_EXPIRATION", DefaultJWTAccessExpiration)
	cfg.JWT.RefreshExpiration = getEnvDuration("JWT_REFRESH_EXPIRATION", DefaultJWTRefreshExpiration)

	// Kafka
	cfg.Kafka.Brokers = strings.Split(getEnv("KAFKA_BROKERS", DefaultKafkaBrokers), ",")
	cfg.Kafka.Topic = getEnv("KAFKA_TOPIC", DefaultKafkaTopic)
	cfg.Kafka.GroupID = getEnv("KAFKA_GROUP_ID", DefaultKafkaGroupID)
	cfg.Kafka.MinNotifyAmount = getEnvFloat("KAFKA_MIN_NOTIFY_AMOUNT", DefaultKafkaMinNotifyAmount)
	cfg.Kafka.RetryAttempts = getEnvInt("KAFKA_RETRY_ATTEMPTS", DefaultKafkaRetryAttempts)
	cfg.Kafka.RetryDelay = getEnvDuration("KAFKA_RETRY_DELAY", DefaultKafkaRetryDelay)

	// Logger
	cfg.Logger.Level = getEnv("LOG_LEVEL", DefaultLogLevel)

	return cfg, nil
}

// getEnv reads an environment variable with a fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat reads a float64 environment variable.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvDuration reads a duration environment variable.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate checks the configuration for values that cannot be run with.
func (c *Config) Validate() error {
	if c.Server.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT is required")
	}

	if c.Mongo.URI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}

	if c.JWT.Secret == "" || c.JWT.Secret == DefaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set to a secure value")
	}

	if _, err := logrus.ParseLevel(c.Logger.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", c.Logger.Level)
	}

	return nil
}
