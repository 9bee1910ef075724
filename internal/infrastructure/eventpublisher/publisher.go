package eventpublisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// Relay drains unpublished outbox events to a publisher. It runs on demand;
// there is no polling loop.
type Relay struct {
	outboxRepo usecase.OutboxRepository
	publisher  usecase.EventPublisher
	logger     zerolog.Logger
	batchSize  int
}

// Config for Relay.
type Config struct {
	OutboxRepo usecase.OutboxRepository
	Publisher  usecase.EventPublisher
	Logger     zerolog.Logger
	BatchSize  int // Number of events to fetch per batch
}

// NewRelay creates a new Relay.
func NewRelay(cfg Config) *Relay {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}

	return &Relay{
		outboxRepo: cfg.OutboxRepo,
		publisher:  cfg.Publisher,
		logger:     cfg.Logger,
		batchSize:  cfg.BatchSize,
	}
}

// FlushResult counts the outcome of one flush.
type FlushResult struct {
	Published int `json:"published"`
	Failed    int `json:"failed"`
}

// Flush publishes unpublished events batch by batch until the outbox is
// drained or a batch makes no progress. Failed events stay in the outbox.
func (r *Relay) Flush(ctx context.Context) (FlushResult, error) {
	var result FlushResult

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		events, err := r.outboxRepo.GetUnpublished(ctx, r.batchSize)
		if err != nil {
			return result, err
		}

		if len(events) == 0 {
			return result, nil
		}

		published := r.processEvents(ctx, events)
		result.Published += published
		result.Failed += len(events) - published

		r.logger.Info().
			Int("count", len(events)).
			Int("published", published).
			Msg("outbox batch processed")

		if published < len(events) || len(events) < r.batchSize {
			return result, nil
		}
	}
}

// processEvents publishes events one by one and returns how many succeeded.
func (r *Relay) processEvents(ctx context.Context, events []*domain.OutboxEvent) int {
	published := 0

	for _, event := range events {
		if err := r.publisher.Publish(ctx, event); err != nil {
			r.logger.Error().Err(err).
				Str("event_id", event.ID).
				Str("event_type", event.EventType).
				Msg("failed to publish event")
			// Continue processing other events even if one fails
			continue
		}

		// Mark as published
		if err := r.outboxRepo.MarkPublished(ctx, event.ID, time.Now().UTC()); err != nil {
			r.logger.Error().Err(err).
				Str("event_id", event.ID).
				Msg("failed to mark event as published")
			continue
		}

		published++
	}

	return published
}

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter builds a synchronous writer so that Publish reports
// delivery failures to the caller.
func NewKafkaWriter(brokers []string, topic string, logger zerolog.Logger) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		Logger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Debug().Msgf(msg, args...)
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Error().Msgf(msg, args...)
		}),
	}
}

// KafkaPublisher writes events to a Kafka topic keyed by aggregate id, so
// every event of one transaction lands on the same partition.
type KafkaPublisher struct {
	writer MessageWriter
}

// NewKafkaPublisher creates a new KafkaPublisher.
func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

// kafkaEnvelope is the message value.
type kafkaEnvelope struct {
	ID            string         `json:"id"`
	EventType     string         `json:"event_type"`
	AggregateType string         `json:"aggregate_type"`
	AggregateID   string         `json:"aggregate_id"`
	Payload       map[string]any `json:"payload"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Publish writes all events in one call.
func (p *KafkaPublisher) Publish(ctx context.Context, events ...*domain.OutboxEvent) error {
	msgs := make([]kafka.Message, 0, len(events))

	for _, event := range events {
		value, err := json.Marshal(kafkaEnvelope{
			ID:            event.ID,
			EventType:     event.EventType,
			AggregateType: event.AggregateType,
			AggregateID:   event.AggregateID,
			Payload:       event.Payload,
			CreatedAt:     event.CreatedAt,
		})
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", event.ID, err)
		}

		msgs = append(msgs, kafka.Message{
			Key:   []byte(event.AggregateID),
			Value: value,
			Time:  event.CreatedAt,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(event.EventType)},
				{Key: "event_id", Value: []byte(event.ID)},
			},
		})
	}

	if len(msgs) == 0 {
		return nil
	}

	return p.writer.WriteMessages(ctx, msgs...)
}

// Close closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher is a simple publisher that logs events.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the events.
func (p *LogPublisher) Publish(ctx context.Context, events ...*domain.OutboxEvent) error {
	for _, event := range events {
		payload, err := json.Marshal(event.Payload)
		if err != nil {
			return err
		}

		p.logger.Info().
			Str("event_id", event.ID).
			Str("event_type", event.EventType).
			Str("aggregate_type", event.AggregateType).
			Str("aggregate_id", event.AggregateID).
			RawJSON("payload", payload).
			Msg("event published")
	}

	return nil
}
