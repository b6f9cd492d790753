package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Event names published to the domain topic.
const (
	UserCreated  = "user.created"
	UserVerified = "user.verified"
	UserDeleted  = "user.deleted"
)

type envelope struct {
	Event string `json:"event"`
	At    int64  `json:"at"`
	Data  any    `json:"data"`
}

// Publisher writes best-effort domain events. A nil Publisher is valid
// and publishes nothing, so event delivery never blocks a request path.
type Publisher struct {
	writer *kafka.Writer
	logger *zap.SugaredLogger
}

func NewPublisher(brokers []string, topic string, logger *zap.SugaredLogger) *Publisher {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	})
	return &Publisher{writer: w, logger: logger}
}

func (p *Publisher) Publish(ctx context.Context, event, key string, data any) {
	if p == nil || p.writer == nil {
		return
	}
	b, _ := json.Marshal(envelope{Event: event, At: time.Now().Unix(), Data: data})
	msg := kafka.Message{Key: []byte(key), Value: b, Time: time.Now()}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Warnw("event publish failed", "event", event, "err", err)
	}
}

func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
