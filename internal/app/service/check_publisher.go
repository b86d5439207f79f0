package service

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/pagecheck/pageanalyzer/internal/app/model"
)

// CheckPublisher publishes completed-check events to NATS JetStream.
type CheckPublisher struct {
	js nats.JetStreamContext
}

// NewCheckPublisher creates a new check event publisher.
func NewCheckPublisher(js nats.JetStreamContext) *CheckPublisher {
	return &CheckPublisher{js: js}
}

// Publish emits one event for a persisted check.
func (p *CheckPublisher) Publish(url *model.URL, check model.URLCheck, class model.CheckClass) error {
	event := model.CheckEvent{
		ID:         uuid.New().String(),
		URLID:      url.ID,
		URLName:    url.Name,
		StatusCode: check.StatusCode,
		Class:      class,
		CheckedAt:  time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = p.js.Publish(model.CheckStreamSubject, data)
	return err
}
