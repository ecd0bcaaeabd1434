package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/events"
	"github.com/segmentio/kafka-go"
)

// DefaultTopic receives catalog events when no topic is configured
const DefaultTopic = "product_events"

// messageWriter is the part of *kafka.Writer the publisher needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes catalog events to a Kafka topic keyed by product id, so
// every event for one product lands on the same partition in order.
type Publisher struct {
	writer  messageWriter
	log     hclog.Logger
	timeout time.Duration
}

// NewPublisher creates a publisher for topic on the given brokers
func NewPublisher(brokers []string, topic string, log hclog.Logger) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		MaxAttempts:            3,
		WriteTimeout:           5 * time.Second,
	}

	log.Info("Kafka publisher created", "brokers", brokers, "topic", topic)
	return newPublisher(w, log)
}

func newPublisher(w messageWriter, log hclog.Logger) *Publisher {
	return &Publisher{writer: w, log: log, timeout: 10 * time.Second}
}

// Publish writes a single event
func (p *Publisher) Publish(ctx context.Context, e events.ProductEvent) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(e.ProductID),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	p.log.Debug("Event published", "type", e.Type, "product", e.ProductID)
	return nil
}

// Run publishes every event received on sub until ctx is cancelled or sub
// is closed. Write failures are logged and the event is dropped.
func (p *Publisher) Run(ctx context.Context, sub events.Subscriber[events.ProductEvent]) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-sub:
			if !ok {
				return
			}

			wctx, cancel := context.WithTimeout(ctx, p.timeout)
			if err := p.Publish(wctx, e); err != nil {
				p.log.Error("Unable to publish event", "type", e.Type, "product", e.ProductID, "error", err)
			}
			cancel()
		}
	}
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
