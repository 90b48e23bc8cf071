package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"campuslife-backend/internal/storages"
)

// NotificationService manages the in-app notification inbox.
type NotificationService struct {
	storage storages.Storage
	logger  *logrus.Logger
}

// NewNotificationService creates the notification service.
func NewNotificationService(storage storages.Storage, logger *logrus.Logger) *NotificationService {
	return &NotificationService{storage: storage, logger: logger}
}

// Inbox is one page of notifications with the unread badge count.
type Inbox struct {
	Notifications []storages.Notification `json:"notifications"`
	UnreadCount   int64                   `json:"unreadCount"`
	Pagination    Pagination              `json:"pagination"`
}

// List returns a page of the user's notifications, newest first, with the
// total unread count.
func (s *NotificationService) List(ctx context.Context, userID primitive.ObjectID, filter storages.NotificationFilter, page storages.Page) (*Inbox, error) {
	notifications, total, err := s.storage.ListNotifications(ctx, userID, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread, err := s.storage.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return &Inbox{
		Notifications: notifications,
		UnreadCount:   unread,
		Pagination:    paginate(page, total),
	}, nil
}

// UnreadCount returns the unread badge count alone.
func (s *NotificationService) UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	count, err := s.storage.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks one notification read. Marking twice is a no-op.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID primitive.ObjectID) (*storages.Notification, error) {
	n, err := s.storage.GetNotification(ctx, notificationID, userID)
	if err != nil {
		if errors.Is(err, storages.ErrNotFound) {
			return nil, fmt.Errorf("%w: notification", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	if !n.IsRead {
		now := time.Now()
		n.IsRead = true
		n.ReadAt = &now
		if err := s.storage.SaveNotification(ctx, n); err != nil {
			return nil, fmt.Errorf("failed to save notification: %w", err)
		}
	}
	return n, nil
}

// MarkAllRead marks every unread notification read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	if err := s.storage.MarkAllNotificationsRead(ctx, userID, time.Now()); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// Delete soft-deletes one notification.
func (s *NotificationService) Delete(ctx context.Context, userID, notificationID primitive.ObjectID) error {
	n, err := s.storage.GetNotification(ctx, notificationID, userID)
	if err != nil {
		if errors.Is(err, storages.ErrNotFound) {
			return fmt.Errorf("%w: notification", ErrNotFound)
		}
		return fmt.Errorf("failed to get notification: %w", err)
	}

	n.IsActive = false
	if err := s.storage.SaveNotification(ctx, n); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}
