package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Producer publishes wallet events to Kafka.
type Producer struct {
	writer    *kafka.Writer
	threshold float64
	logger    *logrus.Logger
}

// NewProducer creates a Kafka producer for the wallet-events topic. Events
// below the amount threshold are skipped; a threshold of 0 publishes
// everything.
func NewProducer(brokers []string, topic string, threshold float64, logger *logrus.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Compression:  kafka.Snappy,
		BatchTimeout: 10 * time.Millisecond,
	}

	logger.Infof("Kafka producer initialized for topic: %s", topic)

	return &Producer{
		writer:    writer,
		threshold: threshold,
		logger:    logger,
	}
}

// PublishWalletEvent sends a wallet event keyed by user, so per-user events
// stay ordered within a partition.
func (p *Producer) PublishWalletEvent(ctx context.Context, event WalletEvent) error {
	if event.Amount < p.threshold {
		p.logger.Debugf("Event amount %.2f below threshold %.2f, skipping publish", event.Amount, p.threshold)
		return nil
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Errorf("Failed to marshal wallet event: %v", err)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte("user_" + event.UserID),
		Value: value,
		Time:  event.Timestamp,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Errorf("Failed to publish wallet event: %v", err)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Infof("Published wallet event: User=%s, Type=%s, Amount=%.2f",
		event.UserID, event.Type, event.Amount)
	return nil
}

// Close closes the underlying writer.
func (p *Producer) Close() error {
	if p.writer != nil {
		p.logger.Info("Closing Kafka producer")
		return p.writer.Close()
	}
	return nil
}
