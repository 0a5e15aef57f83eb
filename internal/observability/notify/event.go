// Package notify defines the portal's outbound notification contract.
// Sinks deliver membership application events to chat integrations so
// reviewers hear about new applications without polling the admin UI.
package notify

import (
	"context"
	"time"
)

// Application event names recognised by downstream sinks.
const (
	EventApplicationSubmitted = "application_submitted"
	EventApplicationAccepted  = "application_accepted"
	EventApplicationRejected  = "application_rejected"
)

// ApplicationPayload captures the canonical data we emit for membership
// application notifications.
type ApplicationPayload struct {
	Event          string
	ApplicationID  string
	AccountID      string
	ApplicantName  string
	ApplicantEmail string
	Motivation     string
	Skills         string
	OccurredAt     time.Time
	Metadata       map[string]string
}

// Sink describes a destination capable of consuming application events.
type Sink interface {
	SendApplicationEvent(ctx context.Context, payload ApplicationPayload) error
}

// SinkFunc adapts a function to the Sink interface (useful for tests).
type SinkFunc func(ctx context.Context, payload ApplicationPayload) error

// SendApplicationEvent implements the Sink interface.
func (f SinkFunc) SendApplicationEvent(ctx context.Context, payload ApplicationPayload) error {
	if f == nil {
		return nil
	}
	return f(ctx, payload)
}
