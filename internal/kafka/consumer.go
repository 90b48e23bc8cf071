package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"campuslife-backend/internal/storages"
)

// ConsumerConfig configures the wallet-event consumer.
type ConsumerConfig struct {
	Brokers       []string
	Topic         string
	GroupID       string
	MinBytes      int
	MaxBytes      int
	MaxWait       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// Consumer reads wallet events and persists them as user notifications.
type Consumer struct {
	reader        *kafka.Reader
	storage       storages.Storage
	logger        *logrus.Logger
	retryAttempts int
	retryDelay    time.Duration

	mu        sync.RWMutex
	processed int64
	failed    int64
	startTime time.Time
}

// NewConsumer creates a Kafka consumer for wallet events.
func NewConsumer(cfg *ConsumerConfig, storage storages.Storage, logger *logrus.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.GroupID,
		MinBytes:    cfg.MinBytes,
		MaxBytes:    cfg.MaxBytes,
		MaxWait:     cfg.MaxWait,
		Logger:      kafka.LoggerFunc(logger.Debugf),
		ErrorLogger: kafka.LoggerFunc(logger.Errorf),
	})

	logger.Infof("Kafka consumer initialized: Topic=%s, GroupID=%s, Brokers=%v",
		cfg.Topic, cfg.GroupID, cfg.Brokers)

	return &Consumer{
		reader:        reader,
		storage:       storage,
		logger:        logger,
		retryAttempts: cfg.RetryAttempts,
		retryDelay:    cfg.RetryDelay,
		startTime:     time.Now(),
	}
}

// Start consumes messages until the context is cancelled. Each message is
// committed only after the notification write succeeded or retries were
// exhausted.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("Starting Kafka consumer...")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("Kafka consumer stopped")
				return nil
			}
			c.logger.Errorf("Failed to fetch message: %v", err)
			continue
		}

		if err := c.handleMessage(ctx, msg); err != nil {
			c.logger.Errorf("Failed to process message at offset %d: %v", msg.Offset, err)
			c.addFailed()
		} else {
			c.addProcessed()
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Errorf("Failed to commit offset %d: %v", msg.Offset, err)
		}
	}
}

// handleMessage decodes one event and writes the notification, retrying
// transient storage failures.
func (c *Consumer) handleMessage(ctx context.Context, msg kafka.Message) error {
	var event WalletEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to decode event: %w", err)
	}

	notification, err := notificationFromEvent(event)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}
		if lastErr = c.storage.CreateNotification(ctx, notification); lastErr == nil {
			return nil
		}
		c.logger.Warnf("Notification write attempt %d failed: %v", attempt+1, lastErr)
	}
	return fmt.Errorf("failed to store notification: %w", lastErr)
}

// notificationFromEvent maps a wallet event onto the in-app notification
// shown to the user.
func notificationFromEvent(event WalletEvent) (*storages.Notification, error) {
	user, err := primitive.ObjectIDFromHex(event.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", event.UserID, err)
	}

	n := &storages.Notification{
		User:     user,
		Type:     "info",
		Category: storages.NotificationCategoryWallet,
	}

	switch event.Type {
	case EventTypeWithdrawal:
		n.Title = "Withdrawal Request"
		n.Message = fmt.Sprintf("Your withdrawal request of ₦%.2f has been submitted and is being processed.", event.Amount)
	case EventTypePurchase:
		n.Title = "Purchase Successful"
		n.Message = fmt.Sprintf("You paid ₦%.2f for %s.", event.Amount, event.Detail)
		n.Type = "success"
	case EventTypeSale:
		n.Title = "New Sale"
		n.Message = fmt.Sprintf("You earned ₦%.2f from %s.", event.Amount, event.Detail)
		n.Type = "success"
	case EventTypeFunding:
		n.Title = "Wallet Funded"
		n.Message = fmt.Sprintf("Your wallet was credited with ₦%.2f.", event.Amount)
		n.Type = "success"
	case EventTypeRefund:
		n.Title = "Refund Issued"
		n.Message = fmt.Sprintf("₦%.2f was refunded to your wallet.", event.Amount)
	default:
		return nil, fmt.Errorf("unknown event type: %s", event.Type)
	}

	return n, nil
}

func (c *Consumer) addProcessed() {
	c.mu.Lock()
	c.processed++
	c.mu.Unlock()
}

func (c *Consumer) addFailed() {
	c.mu.Lock()
	c.failed++
	c.mu.Unlock()
}

// Statistics returns processing counters for periodic logging.
func (c *Consumer) Statistics() (processed, failed int64, rate float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	uptime := time.Since(c.startTime).Seconds()
	if uptime > 0 {
		rate = float64(c.processed) / uptime
	}
	return c.processed, c.failed, rate
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	if c.reader != nil {
		c.logger.Info("Closing Kafka consumer")
		return c.reader.Close()
	}
	return nil
}
