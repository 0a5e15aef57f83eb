//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxApplicationMotivationLen = 4000
	maxApplicationSkillsLen     = 1000
)

// ApplicationStatus is the review state of a membership application.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Valid reports whether the status is supported.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	default:
		return false
	}
}

// ParseApplicationStatus normalizes a status string and reports whether it is supported.
func ParseApplicationStatus(value string) (ApplicationStatus, bool) {
	status := ApplicationStatus(strings.ToLower(strings.TrimSpace(value)))
	if status.Valid() {
		return status, true
	}
	return "", false
}

// MembershipApplication is a request by a portal user to join the team.
type MembershipApplication struct {
	ID         string            `json:"id"                   db:"id"`
	AccountID  string            `json:"account_id"           db:"account_id"`
	Motivation string            `json:"motivation"           db:"motivation"`
	Skills     string            `json:"skills,omitempty"     db:"skills"`
	Status     ApplicationStatus `json:"status"               db:"status"`
	CreatedAt  time.Time         `json:"created_at"           db:"created_at"`
	DecidedAt  *time.Time        `json:"decided_at,omitempty" db:"decided_at"`
}

// SubmitApplicationRequest represents parameters to submit a membership application.
type SubmitApplicationRequest struct {
	Motivation string `json:"motivation"`
	Skills     string `json:"skills,omitempty"`
}

// Validate checks the submission fields.
func (r *SubmitApplicationRequest) Validate() error {
	r.Motivation = strings.TrimSpace(r.Motivation)
	if r.Motivation == "" {
		return errors.New("motivation is required")
	}
	if utf8.RuneCountInString(r.Motivation) > maxApplicationMotivationLen {
		return errors.New("motivation is too long")
	}
	if utf8.RuneCountInString(r.Skills) > maxApplicationSkillsLen {
		return errors.New("skills is too long")
	}
	return nil
}
