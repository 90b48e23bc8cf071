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

// CreateNotification inserts a new notification.
func (s *MongoStorage) CreateNotification(ctx context.Context, n *storages.Notification) error {
	n.CreatedAt = time.Now()
	n.IsActive = true

	result, err := s.collection(collNotifications).InsertOne(ctx, n)
	if err != nil {
		s.logger.Errorf("Failed to create notification: %v", err)
		return fmt.Errorf("failed to create notification: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		n.ID = oid
	}

	s.logger.Debugf("Created notification: User=%s, Category=%s", n.User.Hex(), n.Category)
	return nil
}

// GetNotification returns an active notification owned by the user.
func (s *MongoStorage) GetNotification(ctx context.Context, id, user primitive.ObjectID) (*storages.Notification, error) {
	var n storages.Notification
	filter := bson.M{"_id": id, "user": user, "is_active": true}
	if err := s.collection(collNotifications).FindOne(ctx, filter).Decode(&n); err != nil {
		if err = wrapErr(err); err == storages.ErrNotFound {
			return nil, err
		}
		s.logger.Errorf("Failed to get notification: %v", err)
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return &n, nil
}

// SaveNotification replaces the stored notification.
func (s *MongoStorage) SaveNotification(ctx context.Context, n *storages.Notification) error {
	result, err := s.collection(collNotifications).ReplaceOne(ctx, bson.M{"_id": n.ID}, n)
	if err != nil {
		s.logger.Errorf("Failed to save notification: %v", err)
		return fmt.Errorf("failed to save notification: %w", err)
	}
	if result.MatchedCount == 0 {
		return storages.ErrNotFound
	}
	return nil
}

// ListNotifications returns the user's active notifications, newest first,
// plus the total match count.
func (s *MongoStorage) ListNotifications(ctx context.Context, user primitive.ObjectID, filter storages.NotificationFilter, page storages.Page) ([]storages.Notification, int64, error) {
	query := bson.M{"user": user, "is_active": true}

	if filter.IsRead != nil {
		query["is_read"] = *filter.IsRead
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}

	total, err := s.collection(collNotifications).CountDocuments(ctx, query)
	if err != nil {
		s.logger.Errorf("Failed to count notifications: %v", err)
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))

	cursor, err := s.collection(collNotifications).Find(ctx, query, opts)
	if err != nil {
		s.logger.Errorf("Failed to query notifications: %v", err)
		return nil, 0, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []storages.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		s.logger.Errorf("Failed to decode notifications: %v", err)
		return nil, 0, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, total, nil
}

// CountUnreadNotifications returns the user's unread count.
func (s *MongoStorage) CountUnreadNotifications(ctx context.Context, user primitive.ObjectID) (int64, error) {
	count, err := s.collection(collNotifications).CountDocuments(ctx,
		bson.M{"user": user, "is_active": true, "is_read": false})
	if err != nil {
		s.logger.Errorf("Failed to count unread notifications: %v", err)
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkAllNotificationsRead marks every unread notification as read.
func (s *MongoStorage) MarkAllNotificationsRead(ctx context.Context, user primitive.ObjectID, readAt time.Time) error {
	_, err := s.collection(collNotifications).UpdateMany(ctx,
		bson.M{"user": user, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "read_at": readAt}},
	)
	if err != nil {
		s.logger.Errorf("Failed to mark notifications read: %v", err)
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
