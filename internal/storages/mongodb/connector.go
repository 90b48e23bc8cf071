package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"campuslife-backend/internal/storages"
)

// Config holds the MongoDB connection settings.
type Config struct {
	URI         string
	Database    string
	Timeout     time.Duration
	MaxPoolSize uint64
	MinPoolSize uint64
}

// Collection names, one per entity.
const (
	collUsers         = "users"
	collWallets       = "wallets"
	collQuestions     = "past_questions"
	collDownloads     = "downloads"
	collSubscriptions = "subscriptions"
	collStudyStats    = "study_stats"
	collTimetables    = "timetables"
	collTasks         = "tasks"
	collNews          = "news"
	collNotifications = "notifications"
)

// MongoStorage implements the storages.Storage interface for MongoDB.
type MongoStorage struct {
	client   *mongo.Client
	database *mongo.Database
	logger   *logrus.Logger
}

// New connects to MongoDB, verifies the connection and creates the indexes.
func New(cfg *Config, logger *logrus.Logger) (*MongoStorage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetServerSelectionTimeout(cfg.Timeout)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Infof("Successfully connected to MongoDB: %s", cfg.URI)

	storage := &MongoStorage{
		client:   client,
		database: client.Database(cfg.Database),
		logger:   logger,
	}

	if err := storage.createIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return storage, nil
}

// createIndexes creates the unique and query indexes the services rely on.
// The unique index on downloads (user, past_question) is load-bearing: it is
// what makes concurrent duplicate purchases collapse into a single receipt.
func (s *MongoStorage) createIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	perCollection := map[string][]mongo.IndexModel{
		collUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "student_id", Value: 1}}, Options: unique},
		},
		collWallets: {
			{Keys: bson.D{{Key: "user", Value: 1}}, Options: unique},
		},
		collQuestions: {
			{Keys: bson.D{{Key: "course_code", Value: 1}, {Key: "level", Value: 1}, {Key: "semester", Value: 1}}},
			{Keys: bson.D{{Key: "uploaded_by", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		collDownloads: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "past_question", Value: 1}}, Options: unique},
		},
		collSubscriptions: {
			{Keys: bson.D{{Key: "user", Value: 1}}, Options: unique},
		},
		collStudyStats: {
			{Keys: bson.D{{Key: "user", Value: 1}}, Options: unique},
		},
		collTimetables: {
			{Keys: bson.D{{Key: "user", Value: 1}}, Options: unique},
		},
		collTasks: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "status", Value: 1}, {Key: "due_date", Value: 1}}},
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "category", Value: 1}}},
		},
		collNews: {
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "published_at", Value: -1}}},
		},
		collNotifications: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "is_read", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "category", Value: 1}}},
		},
	}

	total := 0
	for name, indexes := range perCollection {
		created, err := s.database.Collection(name).Indexes().CreateMany(ctx, indexes)
		if err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
		total += len(created)
	}

	s.logger.Infof("Created %d indexes across %d collections", total, len(perCollection))
	return nil
}

// collection returns a handle on a named collection.
func (s *MongoStorage) collection(name string) *mongo.Collection {
	return s.database.Collection(name)
}

// wrapErr maps driver errors onto the storage sentinels.
func wrapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case err == mongo.ErrNoDocuments:
		return storages.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return storages.ErrDuplicate
	default:
		return err
	}
}

// Ping verifies the database connection.
func (s *MongoStorage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from the database.
func (s *MongoStorage) Close(ctx context.Context) error {
	if s.client != nil {
		s.logger.Info("Closing MongoDB connection")
		return s.client.Disconnect(ctx)
	}
	return nil
}
