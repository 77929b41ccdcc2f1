package events

import (
	"context"
	"time"
)

// Account lifecycle event types, published after the owning transaction
// commits. Events are advisory: publish failures are logged and never roll
// back the transition that produced them.
const (
	TopicAccounts = "institute.accounts"

	EventAccountCreated           = "account.created"
	EventRegistrationCompleted    = "registration.completed"
	EventStaffVerificationDecided = "staff.verification.decided"
	EventDeletionRequested        = "account.deletion_requested"
)

// Event is one lifecycle notification.
type Event struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	AccountID  string                 `json:"account_id"`
	OccurredAt time.Time              `json:"occurred_at"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
}

// EventPublisher publishes account lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}
