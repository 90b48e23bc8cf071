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

// GetTimetable returns the user's timetable.
func (s *MongoStorage) GetTimetable(ctx context.Context, user primitive.ObjectID) (*storages.Timetable, error) {
	var t storages.Timetable
	if err := s.collection(collTimetables).FindOne(ctx, bson.M{"user": user}).Decode(&t); err != nil {
		if err = wrapErr(err); err == storages.ErrNotFound {
			return nil, err
		}
		s.logger.Errorf("Failed to get timetable: %v", err)
		return nil, fmt.Errorf("failed to get timetable: %w", err)
	}
	return &t, nil
}

// EnsureTimetable returns the user's timetable, creating an empty one on
// first access.
func (s *MongoStorage) EnsureTimetable(ctx context.Context, user primitive.ObjectID) (*storages.Timetable, error) {
	now := time.Now()
	update := bson.M{
		"$setOnInsert": bson.M{
			"user":       user,
			"schedule":   []storages.ScheduleItem{},
			"is_active":  true,
			"created_at": now,
			"updated_at": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var t storages.Timetable
	if err := s.collection(collTimetables).FindOneAndUpdate(ctx, bson.M{"user": user}, update, opts).Decode(&t); err != nil {
		s.logger.Errorf("Failed to ensure timetable: %v", err)
		return nil, fmt.Errorf("failed to ensure timetable: %w", err)
	}
	return &t, nil
}

// SaveTimetable replaces the stored timetable document.
func (s *MongoStorage) SaveTimetable(ctx context.Context, t *storages.Timetable) error {
	t.UpdatedAt = time.Now()

	result, err := s.collection(collTimetables).ReplaceOne(ctx, bson.M{"_id": t.ID}, t)
	if err != nil {
		s.logger.Errorf("Failed to save timetable: %v", err)
		return fmt.Errorf("failed to save timetable: %w", err)
	}
	if result.MatchedCount == 0 {
		return storages.ErrNotFound
	}
	return nil
}
