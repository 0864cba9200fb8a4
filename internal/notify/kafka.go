package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jornageo/registration/internal/models"
)

// MessageWriter is satisfied by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher writes registrations to a Kafka topic, keyed by email.
type KafkaPublisher struct {
	w MessageWriter
}

// NewKafkaWriter builds a synchronous writer that waits for all replicas.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		BatchTimeout: 20 * time.Millisecond,
	}
}

// NewKafkaPublisher wraps w.
func NewKafkaPublisher(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{w: w}
}

// Notify writes one message with the record as its value.
func (p *KafkaPublisher) Notify(ctx context.Context, reg *models.Registration) error {
	payload, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("marshal registration: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(reg.Email),
		Value: payload,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "type", Value: []byte("RegistrationCreated")},
			{Key: "version", Value: []byte("1")},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}
