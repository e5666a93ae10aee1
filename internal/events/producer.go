// Package events publishes activity records to Kafka for downstream
// analytics. The database row stays the source of truth; the topic is a
// tap, so publish failures are logged and never fail the request.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/pkg/config"
	"github.com/inkwell/inkwell/pkg/logging"
)

// Producer writes activity events to the configured topic. A nil
// Producer is valid and drops every event, so callers never need to
// check whether Kafka is configured.
type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewProducer creates a producer, or returns nil when no brokers are
// configured.
func NewProducer(cfg *config.KafkaConfig) *Producer {
	if len(cfg.Brokers) == 0 {
		logging.GetLogger().Info("Kafka brokers not configured, activity events disabled")
		return nil
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.ActivityTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
	}

	logging.GetLogger().Info("Kafka activity producer initialized",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.ActivityTopic))

	return &Producer{
		writer: writer,
		logger: logging.GetLogger().With(zap.String("component", "events")),
	}
}

// PublishActivity emits one activity entry, keyed by action so entries
// for the same action land on the same partition.
func (p *Producer) PublishActivity(ctx context.Context, entry *models.ActivityLogEntry) {
	if p == nil || p.writer == nil {
		return
	}

	value, err := json.Marshal(entry)
	if err != nil {
		p.logger.Error("Failed to marshal activity event", zap.Error(err))
		return
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(entry.Action),
		Value: value,
	})
	if err != nil {
		p.logger.Error("Failed to publish activity event",
			zap.String("action", entry.Action), zap.Error(err))
	}
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
