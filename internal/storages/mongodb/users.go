package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"campuslife-backend/internal/storages"
)

// CreateUser inserts a new user. Returns storages.ErrDuplicate when the
// email or student ID is already taken.
func (s *MongoStorage) CreateUser(ctx context.Context, user *storages.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := s.collection(collUsers).InsertOne(ctx, user)
	if err != nil {
		if err = wrapErr(err); err == storages.ErrDuplicate {
			return err
		}
		s.logger.Errorf("Failed to create user: %v", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}

	s.logger.Infof("Created user: ID=%s, Email=%s", user.ID.Hex(), user.Email)
	return nil
}

// GetUserByEmail returns the user with the given email.
func (s *MongoStorage) GetUserByEmail(ctx context.Context, email string) (*storages.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

// GetUserByStudentID returns the user with the given student ID.
func (s *MongoStorage) GetUserByStudentID(ctx context.Context, studentID string) (*storages.User, error) {
	return s.findUser(ctx, bson.M{"student_id": studentID})
}

// GetUserByID returns the user with the given ID.
func (s *MongoStorage) GetUserByID(ctx context.Context, id primitive.ObjectID) (*storages.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *MongoStorage) findUser(ctx context.Context, filter bson.M) (*storages.User, error) {
	var user storages.User
	if err := s.collection(collUsers).FindOne(ctx, filter).Decode(&user); err != nil {
		if err = wrapErr(err); err == storages.ErrNotFound {
			return nil, err
		}
		s.logger.Errorf("Failed to get user: %v", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// SaveUser replaces the stored user document.
func (s *MongoStorage) SaveUser(ctx context.Context, user *storages.User) error {
	user.UpdatedAt = time.Now()

	result, err := s.collection(collUsers).ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		s.logger.Errorf("Failed to save user: %v", err)
		return fmt.Errorf("failed to save user: %w", err)
	}
	if result.MatchedCount == 0 {
		return storages.ErrNotFound
	}
	return nil
}
