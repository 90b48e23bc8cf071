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

// CreateTask inserts a new task.
func (s *MongoStorage) CreateTask(ctx context.Context, task *storages.Task) error {
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	result, err := s.collection(collTasks).InsertOne(ctx, task)
	if err != nil {
		s.logger.Errorf("Failed to create task: %v", err)
		return fmt.Errorf("failed to create task: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		task.ID = oid
	}
	return nil
}

// GetTask returns an active task owned by the user.
func (s *MongoStorage) GetTask(ctx context.Context, id, user primitive.ObjectID) (*storages.Task, error) {
	var task storages.Task
	filter := bson.M{"_id": id, "user": user, "is_active": true}
	if err := s.collection(collTasks).FindOne(ctx, filter).Decode(&task); err != nil {
		if err = wrapErr(err); err == storages.ErrNotFound {
			return nil, err
		}
		s.logger.Errorf("Failed to get task: %v", err)
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &task, nil
}

// SaveTask replaces the stored task document.
func (s *MongoStorage) SaveTask(ctx context.Context, task *storages.Task) error {
	task.UpdatedAt = time.Now()

	result, err := s.collection(collTasks).ReplaceOne(ctx, bson.M{"_id": task.ID}, task)
	if err != nil {
		s.logger.Errorf("Failed to save task: %v", err)
		return fmt.Errorf("failed to save task: %w", err)
	}
	if result.MatchedCount == 0 {
		return storages.ErrNotFound
	}
	return nil
}

// taskQuery builds the common filter for a user's active tasks.
func taskQuery(user primitive.ObjectID, filter storages.TaskFilter) bson.M {
	query := bson.M{"user": user, "is_active": true}

	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.DueOn != nil {
		dayStart := filter.DueOn.UTC().Truncate(24 * time.Hour)
		dayEnd := dayStart.Add(24 * time.Hour)
		query["due_date"] = bson.M{"$gte": dayStart, "$lt": dayEnd}
	}
	return query
}

// ListTasks returns the user's tasks matching the filter plus the total
// match count for pagination.
func (s *MongoStorage) ListTasks(ctx context.Context, user primitive.ObjectID, filter storages.TaskFilter, page storages.Page) ([]storages.Task, int64, error) {
	query := taskQuery(user, filter)

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "due_date"
	}
	sortDir := 1
	if filter.SortDesc {
		sortDir = -1
	}

	total, err := s.collection(collTasks).CountDocuments(ctx, query)
	if err != nil {
		s.logger.Errorf("Failed to count tasks: %v", err)
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: sortDir}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))

	cursor, err := s.collection(collTasks).Find(ctx, query, opts)
	if err != nil {
		s.logger.Errorf("Failed to query tasks: %v", err)
		return nil, 0, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []storages.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		s.logger.Errorf("Failed to decode tasks: %v", err)
		return nil, 0, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, total, nil
}

// CountTasks counts the user's active tasks matching the selector.
func (s *MongoStorage) CountTasks(ctx context.Context, user primitive.ObjectID, sel storages.TaskCount) (int64, error) {
	query := bson.M{"user": user, "is_active": true}

	if len(sel.Statuses) > 0 {
		query["status"] = bson.M{"$in": sel.Statuses}
	}
	if len(sel.ExceptStatuses) > 0 {
		query["status"] = bson.M{"$nin": sel.ExceptStatuses}
	}
	if sel.DueFrom != nil || sel.DueBefore != nil {
		due := bson.M{}
		if sel.DueFrom != nil {
			due["$gte"] = *sel.DueFrom
		}
		if sel.DueBefore != nil {
			due["$lt"] = *sel.DueBefore
		}
		query["due_date"] = due
	}
	if sel.CompletedFrom != nil || sel.CompletedUntil != nil {
		completed := bson.M{}
		if sel.CompletedFrom != nil {
			completed["$gte"] = *sel.CompletedFrom
		}
		if sel.CompletedUntil != nil {
			completed["$lt"] = *sel.CompletedUntil
		}
		query["completed_at"] = completed
	}

	count, err := s.collection(collTasks).CountDocuments(ctx, query)
	if err != nil {
		s.logger.Errorf("Failed to count tasks: %v", err)
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

// ListTasksDueBetween returns uncompleted tasks due within [from, to],
// soonest first.
func (s *MongoStorage) ListTasksDueBetween(ctx context.Context, user primitive.ObjectID, from, to time.Time, limit int) ([]storages.Task, error) {
	query := bson.M{
		"user":      user,
		"is_active": true,
		"status":    bson.M{"$ne": storages.TaskStatusCompleted},
		"due_date":  bson.M{"$gte": from, "$lte": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "due_date", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.collection(collTasks).Find(ctx, query, opts)
	if err != nil {
		s.logger.Errorf("Failed to query upcoming tasks: %v", err)
		return nil, fmt.Errorf("failed to query upcoming tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []storages.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		s.logger.Errorf("Failed to decode upcoming tasks: %v", err)
		return nil, fmt.Errorf("failed to decode upcoming tasks: %w", err)
	}
	return tasks, nil
}

// ListOverdueTasks returns open tasks whose due date has passed.
func (s *MongoStorage) ListOverdueTasks(ctx context.Context, user primitive.ObjectID, now time.Time) ([]storages.Task, error) {
	query := bson.M{
		"user":      user,
		"is_active": true,
		"status":    bson.M{"$nin": []string{storages.TaskStatusCompleted, storages.TaskStatusCancelled}},
		"due_date":  bson.M{"$lt": now},
	}
	opts := options.Find().SetSort(bson.D{{Key: "due_date", Value: 1}})

	cursor, err := s.collection(collTasks).Find(ctx, query, opts)
	if err != nil {
		s.logger.Errorf("Failed to query overdue tasks: %v", err)
		return nil, fmt.Errorf("failed to query overdue tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []storages.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		s.logger.Errorf("Failed to decode overdue tasks: %v", err)
		return nil, fmt.Errorf("failed to decode overdue tasks: %w", err)
	}
	return tasks, nil
}
