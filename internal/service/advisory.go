package service

import (
	"context"

	apperrors "github.com/teamdesk/teamdesk/internal/errors"

	"github.com/teamdesk/teamdesk/internal/core"
	"github.com/teamdesk/teamdesk/internal/domain/model"
)

// AdvisoryServiceOptions groups dependencies for AdvisoryService.
type AdvisoryServiceOptions struct {
	Bookings core.AdvisoryRepository
}

// AdvisoryService handles advisory-session bookings and their review
// workflow (pending -> confirmed/declined -> completed).
type AdvisoryService struct {
	bookings core.AdvisoryRepository
}

// NewAdvisoryService constructs a new AdvisoryService.
func NewAdvisoryService(opts AdvisoryServiceOptions) *AdvisoryService {
	return &AdvisoryService{bookings: opts.Bookings}
}

// Book creates a pending booking for the account.
func (s *AdvisoryService) Book(ctx context.Context, accountID string, req *model.BookAdvisoryRequest) (*model.AdvisorySession, error) {
	if accountID == "" {
		return nil, apperrors.Validation("account is required")
	}
	return s.bookings.Create(ctx, accountID, req)
}

// GetByID retrieves a booking by ID.
func (s *AdvisoryService) GetByID(ctx context.Context, id string) (*model.AdvisorySession, error) {
	return s.bookings.GetByID(ctx, id)
}

// ListMine returns the account's bookings.
func (s *AdvisoryService) ListMine(ctx context.Context, accountID string) ([]*model.AdvisorySession, error) {
	return s.bookings.ListByAccount(ctx, accountID)
}

// ListByStatus returns bookings in a given status for review.
func (s *AdvisoryService) ListByStatus(ctx context.Context, status model.AdvisoryStatus, limit, offset int) ([]*model.AdvisorySession, error) {
	return s.bookings.ListByStatus(ctx, status, limit, offset)
}

// Transition moves a booking to the next status, enforcing the workflow.
// A booking that changed state concurrently surfaces as a Conflict.
func (s *AdvisoryService) Transition(ctx context.Context, id string, next model.AdvisoryStatus) (*model.AdvisorySession, error) {
	if !next.Valid() {
		return nil, apperrors.ValidationField("status", "unknown status")
	}

	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !booking.Status.CanTransitionTo(next) {
		return nil, apperrors.Validationf("cannot move booking from %s to %s", booking.Status, next)
	}

	ok, err := s.bookings.SetStatus(ctx, id, booking.Status, next)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.Conflict("booking was updated concurrently")
	}
	return s.bookings.GetByID(ctx, id)
}
