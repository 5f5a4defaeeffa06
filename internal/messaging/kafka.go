package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/temcen/cineai/internal/config"
	"github.com/temcen/cineai/pkg/models"
)

const DefaultWatchlistTopic = "watchlist-events"

const publishTimeout = 10 * time.Second

// messageWriter is the part of kafka.Writer the bus uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventBus publishes watchlist changes. With no brokers configured it is
// disabled and Publish is a no-op.
type EventBus struct {
	writer messageWriter
	topic  string
	logger *logrus.Logger
}

func NewEventBus(cfg *config.Config, logger *logrus.Logger) *EventBus {
	topic := cfg.Kafka.Topics.WatchlistEvents
	if topic == "" {
		topic = DefaultWatchlistTopic
	}

	bus := &EventBus{topic: topic, logger: logger}
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Info("No Kafka brokers configured, watchlist events disabled")
		return bus
	}

	bus.writer = &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // Key by owner so one owner's events stay ordered
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}
	return bus
}

func (b *EventBus) Enabled() bool {
	return b.writer != nil
}

// NewWatchlistEvent stamps an event for owner.
func NewWatchlistEvent(owner, action, title string) models.WatchlistEvent {
	return models.WatchlistEvent{
		EventID:   uuid.New(),
		Owner:     owner,
		Action:    action,
		Title:     title,
		Timestamp: time.Now().UTC(),
	}
}

func (b *EventBus) Publish(ctx context.Context, event models.WatchlistEvent) error {
	if b.writer == nil {
		return nil
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(event.Owner),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID.String())},
			{Key: "action", Value: []byte(event.Action)},
			{Key: "timestamp", Value: []byte(event.Timestamp.Format(time.RFC3339))},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := b.writer.WriteMessages(ctx, message); err != nil {
		b.logger.WithError(err).WithField("event_id", event.EventID).Error("Failed to publish watchlist event")
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	b.logger.WithFields(logrus.Fields{
		"event_id": event.EventID,
		"action":   event.Action,
		"topic":    b.topic,
	}).Debug("Watchlist event published")

	return nil
}

func (b *EventBus) Close() error {
	if b.writer == nil {
		return nil
	}
	if err := b.writer.Close(); err != nil {
		return fmt.Errorf("failed to close producer: %w", err)
	}
	return nil
}
