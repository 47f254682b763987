package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/juntape/junta/internal/domain"
	"github.com/juntape/junta/pkg/kafka"
)

// EventPublisher publishes event lifecycle changes
type EventPublisher interface {
	// Publish sends one change for e, attributed to actorID
	Publish(ctx context.Context, t domain.ChangeType, e *domain.Event, actorID string) error

	// Close closes the event publisher
	Close() error
}

// EventPublisherConfig contains configuration for the event publisher
type EventPublisherConfig struct {
	Brokers     []string
	Topic       string
	ServiceName string
	ClientID    string
}

// KafkaEventPublisher implements EventPublisher using Kafka
type KafkaEventPublisher struct {
	producer    *kafka.Producer
	topic       string
	serviceName string
}

// NewKafkaEventPublisher creates a new Kafka event publisher
func NewKafkaEventPublisher(ctx context.Context, cfg *EventPublisherConfig) (*KafkaEventPublisher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("event publisher config is required")
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}

	topic := cfg.Topic
	if topic == "" {
		topic = "junta.events"
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "junta-api"
	}
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = serviceName + "-producer"
	}

	producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
		Brokers:       cfg.Brokers,
		ClientID:      clientID,
		MaxRetries:    3,
		RetryInterval: 2 * time.Second,
		LingerMs:      10,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &KafkaEventPublisher{
		producer:    producer,
		topic:       topic,
		serviceName: serviceName,
	}, nil
}

// Publish publishes a lifecycle change to Kafka
func (p *KafkaEventPublisher) Publish(ctx context.Context, t domain.ChangeType, e *domain.Event, actorID string) error {
	msg, err := p.message(t, e, actorID)
	if err != nil {
		return err
	}
	if err := p.producer.Produce(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", t, err)
	}
	return nil
}

func (p *KafkaEventPublisher) message(t domain.ChangeType, e *domain.Event, actorID string) (*kafka.Message, error) {
	changeID := uuid.New().String()
	change := domain.NewEventChange(t, e, actorID, changeID)

	value, err := json.Marshal(change)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	return &kafka.Message{
		Topic: p.topic,
		Key:   []byte(change.Key()),
		Value: value,
		Headers: map[string]string{
			"event_type":   string(t),
			"event_id":     changeID,
			"source":       p.serviceName,
			"content_type": "application/json",
		},
		Timestamp: change.OccurredAt,
	}, nil
}

// Close closes the event publisher
func (p *KafkaEventPublisher) Close() error {
	if p.producer != nil {
		p.producer.Close()
	}
	return nil
}

// NoOpEventPublisher is used when Kafka is disabled
type NoOpEventPublisher struct{}

// NewNoOpEventPublisher creates a new no-op event publisher
func NewNoOpEventPublisher() *NoOpEventPublisher {
	return &NoOpEventPublisher{}
}

// Publish is a no-op
func (p *NoOpEventPublisher) Publish(context.Context, domain.ChangeType, *domain.Event, string) error {
	return nil
}

// Close is a no-op
func (p *NoOpEventPublisher) Close() error {
	return nil
}
