package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campuslife-backend/internal/storages"
)

// GetSubscription returns the user's subscription.
func (s *MongoStorage) GetSubscription(ctx context.Context, user primitive.ObjectID) (*storages.Subscription, error) {
	var sub storages.Subscription
	if err := s.collection(collSubscriptions).FindOne(ctx, bson.M{"user": user}).Decode(&sub); err != nil {
		if err = wrapErr(err); err == storages.ErrNotFound {
			return nil, err
		}
		s.logger.Errorf("Failed to get subscription: %v", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return &sub, nil
}

// EnsureSubscription returns the user's subscription, creating a free one
// on first access.
func (s *MongoStorage) EnsureSubscription(ctx context.Context, user primitive.ObjectID) (*storages.Subscription, error) {
	now := time.Now()
	update := bson.M{
		"$setOnInsert": bson.M{
			"user":       user,
			"plan":       storages.PlanFree,
			"is_active":  true,
			"starts_at":  now,
			"auto_renew": false,
			"features":   storages.PlanFeatures{},
			"created_at": now,
			"updated_at": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var sub storages.Subscription
	if err := s.collection(collSubscriptions).FindOneAndUpdate(ctx, bson.M{"user": user}, update, opts).Decode(&sub); err != nil {
		s.logger.Errorf("Failed to ensure subscription: %v", err)
		return nil, fmt.Errorf("failed to ensure subscription: %w", err)
	}
	return &sub, nil
}

// SaveSubscription replaces the stored subscription document.
func (s *MongoStorage) SaveSubscription(ctx context.Context, sub *storages.Subscription) error {
	sub.UpdatedAt = time.Now()

	result, err := s.collection(collSubscriptions).ReplaceOne(ctx, bson.M{"_id": sub.ID}, sub)
	if err != nil {
		s.logger.Errorf("Failed to save subscription: %v", err)
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	if result.MatchedCount == 0 {
		return storages.ErrNotFound
	}
	return nil
}
