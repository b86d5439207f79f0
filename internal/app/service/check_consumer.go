package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/pagecheck/pageanalyzer/internal/app/model"
	infraprom "github.com/pagecheck/pageanalyzer/internal/infra/prometheus"
	"go.uber.org/zap"
)

// CheckConsumer consumes completed-check events from NATS JetStream and turns
// them into the audit log and the per-class metrics counters.
type CheckConsumer struct {
	js     nats.JetStreamContext
	logger *zap.Logger
}

// NewCheckConsumer creates a new check event consumer.
func NewCheckConsumer(js nats.JetStreamContext, logger *zap.Logger) *CheckConsumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckConsumer{js: js, logger: logger}
}

// Start ensures the stream and durable consumer exist, then begins consuming.
func (c *CheckConsumer) Start() error {
	// Create stream if not exists
	_, err := c.js.StreamInfo(model.CheckStreamName)
	if err != nil {
		_, err = c.js.AddStream(&nats.StreamConfig{
			Name:     model.CheckStreamName,
			Subjects: []string{model.CheckStreamSubject},
			MaxBytes: model.CheckStreamMaxBytes,
		})
		if err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
	}

	// Create consumer if not exists
	_, err = c.js.ConsumerInfo(model.CheckStreamName, model.CheckConsumerName)
	if err != nil {
		_, err = c.js.AddConsumer(model.CheckStreamName, &nats.ConsumerConfig{
			Durable:   model.CheckConsumerName,
			AckPolicy: nats.AckExplicitPolicy,
		})
		if err != nil {
			return fmt.Errorf("failed to create consumer: %w", err)
		}
	}

	sub, err := c.js.PullSubscribe(model.CheckStreamSubject, model.CheckConsumerName)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	go c.consume(sub)
	return nil
}

func (c *CheckConsumer) consume(sub *nats.Subscription) {
	for {
		msgs, err := sub.Fetch(10, nats.MaxWait(5*time.Second))
		if err != nil && err != nats.ErrTimeout {
			c.logger.Error("failed to fetch messages", zap.Error(err))
			continue
		}

		for _, msg := range msgs {
			var event model.CheckEvent
			if err := json.Unmarshal(msg.Data, &event); err != nil {
				c.logger.Error("failed to unmarshal check event", zap.Error(err))
				msg.Nak()
				continue
			}

			infraprom.CheckEventsTotal.WithLabelValues(string(event.Class)).Inc()

			c.logger.Info("check event",
				zap.String("id", event.ID),
				zap.Int64("url_id", event.URLID),
				zap.String("url", event.URLName),
				zap.Int("status_code", event.StatusCode),
				zap.String("class", string(event.Class)),
				zap.Time("checked_at", event.CheckedAt),
			)

			msg.Ack()
		}
	}
}
