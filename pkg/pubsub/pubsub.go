// Package pubsub fans run status events out to server-sent event streams.
package pubsub

import (
	"context"
	"encoding/json"
)

// RunsTopic carries the status of workflow runs triggered by the watcher
const RunsTopic = "runs"

// Event is one published message
type Event struct {
	Topic   string          `json:"topic"`
	Type    string          `json:"type"` // started, completed or failed for RunsTopic
	Data    json.RawMessage `json:"data"`
	Version int             `json:"version"` // per-topic sequence number
}

// Subscription receives the events of one topic
type Subscription interface {
	Topic() string

	// Events is closed when the subscription or the publisher is closed
	Events() <-chan Event

	Close() error
}

// Publisher manages subscriptions and publishing
type Publisher interface {
	// Subscribe creates a subscription that is closed when ctx is done
	Subscribe(ctx context.Context, topic string) (Subscription, error)

	Publish(topic string, eventType string, data any) error

	Close() error
}

// RunStatus describes a workflow run
type RunStatus struct {
	Reason   string `json:"reason"`
	Output   string `json:"output,omitempty"`
	Error    string `json:"error,omitempty"`
	Samples  int    `json:"samples,omitempty"`
	Direct   int    `json:"direct,omitempty"`
	Derived  int    `json:"derived,omitempty"`
	Duration int64  `json:"durationMs,omitempty"`
}
