package events

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill"
)

const (
	EventSource  = "auth-portal"
	EventVersion = "1.0"
)

type EventType string

const (
	EventSignedIn               EventType = "auth.signed_in"
	EventSignedUp               EventType = "auth.signed_up"
	EventSignedOut              EventType = "auth.signed_out"
	EventPasswordResetRequested EventType = "auth.password_reset_requested"
	EventPasswordResetCompleted EventType = "auth.password_reset_completed"
	EventLocaleChanged          EventType = "locale.changed"
)

// Event is the envelope published for every auth portal event
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent stamps a payload with an ID, source and time
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        watermill.NewUUID(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// UserEvent is the payload of sign-in, sign-up and sign-out events
type UserEvent struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email"`
	Role   string `json:"role,omitempty"`
}

// PasswordResetEvent is published whether or not the address is known
type PasswordResetEvent struct {
	Email    string `json:"email"`
	Known    bool   `json:"known"`
	ClientID string `json:"client_id,omitempty"`
}

// LocaleChangedEvent records a language switch
type LocaleChangedEvent struct {
	From     string `json:"from"`
	To       string `json:"to"`
	ClientID string `json:"client_id,omitempty"`
}

// EventPublisher publishes auth portal events
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}
