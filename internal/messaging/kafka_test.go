package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/cineai/internal/config"
	"github.com/temcen/cineai/pkg/models"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestNewEventBus(t *testing.T) {
	t.Run("disabled without brokers", func(t *testing.T) {
		bus := NewEventBus(&config.Config{}, quietLogger())
		assert.False(t, bus.Enabled())
		assert.Equal(t, DefaultWatchlistTopic, bus.topic)

		err := bus.Publish(context.Background(), NewWatchlistEvent("alice", models.WatchlistActionAdded, "Heat"))
		assert.NoError(t, err)
		assert.NoError(t, bus.Close())
	})

	t.Run("enabled with brokers", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Kafka.Brokers = []string{"localhost:9092"}
		cfg.Kafka.Topics.WatchlistEvents = "custom-events"

		bus := NewEventBus(cfg, quietLogger())
		assert.True(t, bus.Enabled())
		assert.Equal(t, "custom-events", bus.topic)
	})
}

func TestEventBus_Publish(t *testing.T) {
	w := &recordingWriter{}
	bus := &EventBus{writer: w, topic: DefaultWatchlistTopic, logger: quietLogger()}

	event := NewWatchlistEvent("alice", models.WatchlistActionWatched, "Heat")
	require.NoError(t, bus.Publish(context.Background(), event))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, []byte("alice"), msg.Key)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, event.EventID.String(), headers["event_id"])
	assert.Equal(t, models.WatchlistActionWatched, headers["action"])

	var decoded models.WatchlistEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.EventID, decoded.EventID)
	assert.Equal(t, "Heat", decoded.Title)

	require.NoError(t, bus.Close())
	assert.True(t, w.closed)
}

func TestEventBus_PublishError(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker unavailable")}
	bus := &EventBus{writer: w, topic: DefaultWatchlistTopic, logger: quietLogger()}

	err := bus.Publish(context.Background(), models.WatchlistEvent{EventID: uuid.New(), Owner: "bob"})
	assert.Error(t, err)
}

func TestNewWatchlistEvent(t *testing.T) {
	e := NewWatchlistEvent("guest:1", models.WatchlistActionRemoved, "Up")
	assert.NotEqual(t, uuid.Nil, e.EventID)
	assert.Equal(t, "guest:1", e.Owner)
	assert.False(t, e.Timestamp.IsZero())
}
