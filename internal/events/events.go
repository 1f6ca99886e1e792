// Package events emits entity mutation and audit lifecycle events so
// downstream consumers (reporting, cache invalidation) can follow what the
// admin API changes. Publishing is best-effort from the caller's view; the
// kafka publisher owns delivery.
package events

import (
	"context"
	"time"
)

// Actions recorded on the stream.
const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionDeleted       = "deleted"
	ActionStatusChanged = "status_changed"
)

// Event captures one mutation. Kind names the entity kind (category,
// block, area, standard, criterion, audit, installation, ...).
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
	Action    string    `json:"action"`
	EntityID  string    `json:"entity_id"`
	Actor     string    `json:"actor,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// Publisher accepts events for delivery.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, Event) error { return nil }

// Noop returns a publisher that drops everything. Used in tests and when
// no broker is configured.
func Noop() Publisher { return noopPublisher{} }
