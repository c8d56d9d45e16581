// Package producer publishes banner interaction events to Kafka.
package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bannerd/internal/domain/events"
	"github.com/segmentio/kafka-go"
)

const batchTimeout = 10 * time.Millisecond

// WriterInterface is the subset of kafka.Writer the producer relies on.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer serializes BannerEvents and hands them to a Kafka writer.
type Producer struct {
	writer WriterInterface
}

// NewProducer wraps an existing writer, letting tests substitute a mock.
func NewProducer(writer WriterInterface) *Producer {
	return &Producer{writer: writer}
}

// NewWriter builds the Kafka writer used in production, keyed batching
// with a short linger so request handlers never wait on the broker.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           batchTimeout,
		AllowAutoTopicCreation: true,
	}
}

// Publish sends one event, keyed by banner id so per-banner ordering
// survives partitioning.
func (p *Producer) Publish(ctx context.Context, ev events.BannerEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.BannerID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// Close flushes buffered messages and releases the writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
