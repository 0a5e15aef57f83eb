//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxAdvisoryTopicLen   = 200
	maxAdvisoryDetailsLen = 4000
)

// AdvisoryStatus is the review state of an advisory-session booking.
type AdvisoryStatus string

const (
	AdvisoryStatusPending   AdvisoryStatus = "pending"
	AdvisoryStatusConfirmed AdvisoryStatus = "confirmed"
	AdvisoryStatusDeclined  AdvisoryStatus = "declined"
	AdvisoryStatusCompleted AdvisoryStatus = "completed"
)

// Valid reports whether the status is supported.
func (s AdvisoryStatus) Valid() bool {
	switch s {
	case AdvisoryStatusPending, AdvisoryStatusConfirmed, AdvisoryStatusDeclined, AdvisoryStatusCompleted:
		return true
	default:
		return false
	}
}

// ParseAdvisoryStatus normalizes a status string and reports whether it is supported.
func ParseAdvisoryStatus(value string) (AdvisoryStatus, bool) {
	status := AdvisoryStatus(strings.ToLower(strings.TrimSpace(value)))
	if status.Valid() {
		return status, true
	}
	return "", false
}

// CanTransitionTo reports whether a booking may move from s to next.
// Pending bookings can be confirmed or declined; confirmed ones completed.
func (s AdvisoryStatus) CanTransitionTo(next AdvisoryStatus) bool {
	switch s {
	case AdvisoryStatusPending:
		return next == AdvisoryStatusConfirmed || next == AdvisoryStatusDeclined
	case AdvisoryStatusConfirmed:
		return next == AdvisoryStatusCompleted || next == AdvisoryStatusDeclined
	default:
		return false
	}
}

// AdvisorySession is a booked advisory slot between a portal user and the team.
type AdvisorySession struct {
	ID          string         `json:"id"           db:"id"`
	AccountID   string         `json:"account_id"   db:"account_id"`
	Topic       string         `json:"topic"        db:"topic"`
	Details     string         `json:"details"      db:"details"`
	ScheduledAt time.Time      `json:"scheduled_at" db:"scheduled_at"`
	Status      AdvisoryStatus `json:"status"       db:"status"`
	CreatedAt   time.Time      `json:"created_at"   db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"   db:"updated_at"`
}

// BookAdvisoryRequest represents parameters to book an advisory session.
type BookAdvisoryRequest struct {
	Topic       string    `json:"topic"`
	Details     string    `json:"details,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// Validate checks the booking request fields against now.
func (r *BookAdvisoryRequest) Validate(now time.Time) error {
	r.Topic = strings.TrimSpace(r.Topic)
	if r.Topic == "" {
		return errors.New("topic is required")
	}
	if utf8.RuneCountInString(r.Topic) > maxAdvisoryTopicLen {
		return errors.New("topic is too long")
	}
	if utf8.RuneCountInString(r.Details) > maxAdvisoryDetailsLen {
		return errors.New("details are too long")
	}
	if r.ScheduledAt.IsZero() {
		return errors.New("scheduled_at is required")
	}
	if !r.ScheduledAt.After(now) {
		return errors.New("scheduled_at must be in the future")
	}
	return nil
}
