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

// GetStudyStats returns the user's study stats.
func (s *MongoStorage) GetStudyStats(ctx context.Context, user primitive.ObjectID) (*storages.StudyStats, error) {
	var stats storages.StudyStats
	if err := s.collection(collStudyStats).FindOne(ctx, bson.M{"user": user}).Decode(&stats); err != nil {
		if err = wrapErr(err); err == storages.ErrNotFound {
			return nil, err
		}
		s.logger.Errorf("Failed to get study stats: %v", err)
		return nil, fmt.Errorf("failed to get study stats: %w", err)
	}
	return &stats, nil
}

// EnsureStudyStats returns the user's study stats, creating an empty
// document with the default goals on first access.
func (s *MongoStorage) EnsureStudyStats(ctx context.Context, user primitive.ObjectID) (*storages.StudyStats, error) {
	now := time.Now()
	update := bson.M{
		"$setOnInsert": bson.M{
			"user":                  user,
			"study_streak":          0,
			"longest_streak":        0,
			"total_minutes_studied": 0,
			"total_tasks_completed": 0,
			"total_downloads":       0,
			"weekly_goal":           storages.DefaultWeeklyGoal,
			"daily_goal":            storages.DefaultDailyGoal,
			"created_at":            now,
			"updated_at":            now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stats storages.StudyStats
	if err := s.collection(collStudyStats).FindOneAndUpdate(ctx, bson.M{"user": user}, update, opts).Decode(&stats); err != nil {
		s.logger.Errorf("Failed to ensure study stats: %v", err)
		return nil, fmt.Errorf("failed to ensure study stats: %w", err)
	}
	return &stats, nil
}

// SaveStudyStats replaces the stored stats document.
func (s *MongoStorage) SaveStudyStats(ctx context.Context, stats *storages.StudyStats) error {
	stats.UpdatedAt = time.Now()

	result, err := s.collection(collStudyStats).ReplaceOne(ctx, bson.M{"_id": stats.ID}, stats)
	if err != nil {
		s.logger.Errorf("Failed to save study stats: %v", err)
		return fmt.Errorf("failed to save study stats: %w", err)
	}
	if result.MatchedCount == 0 {
		return storages.ErrNotFound
	}
	return nil
}

// IncrementStudyCounters bumps the monotonic download/task accumulators
// atomically, upserting the stats document if the user has none yet.
func (s *MongoStorage) IncrementStudyCounters(ctx context.Context, user primitive.ObjectID, downloads, tasksCompleted int) error {
	now := time.Now()
	update := bson.M{
		"$inc": bson.M{
			"total_downloads":       downloads,
			"total_tasks_completed": tasksCompleted,
		},
		"$set": bson.M{"updated_at": now},
		"$setOnInsert": bson.M{
			"user":                  user,
			"study_streak":          0,
			"longest_streak":        0,
			"total_minutes_studied": 0,
			"weekly_goal":           storages.DefaultWeeklyGoal,
			"daily_goal":            storages.DefaultDailyGoal,
			"created_at":            now,
		},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := s.collection(collStudyStats).UpdateOne(ctx, bson.M{"user": user}, update, opts); err != nil {
		s.logger.Errorf("Failed to increment study counters: %v", err)
		return fmt.Errorf("failed to increment study counters: %w", err)
	}
	return nil
}
