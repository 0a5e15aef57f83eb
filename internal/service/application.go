package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/teamdesk/teamdesk/internal/errors"

	"github.com/teamdesk/teamdesk/internal/core"
	domainauth "github.com/teamdesk/teamdesk/internal/domain/auth"
	"github.com/teamdesk/teamdesk/internal/domain/model"
	"github.com/teamdesk/teamdesk/internal/observability/metrics"
	"github.com/teamdesk/teamdesk/internal/observability/notify"
	"github.com/teamdesk/teamdesk/internal/observability/statsd"
)

// ErrApplicationPending is returned when an account already has an open
// membership application.
var ErrApplicationPending = errors.New("an application is already pending for this account")

const notifyTimeout = 10 * time.Second

// ApplicationServiceOptions groups dependencies for ApplicationService.
type ApplicationServiceOptions struct {
	Applications core.ApplicationRepository
	Accounts     core.AccountRepository
	// Notifier receives application events; nil disables notifications.
	Notifier notify.Sink
	// Metrics tags notification delivery outcomes; nil disables emission.
	Metrics statsd.Sink
	Logger  *slog.Logger
}

// ApplicationService handles membership applications. Accepting one promotes
// the applicant to programmer.
type ApplicationService struct {
	applications core.ApplicationRepository
	accounts     core.AccountRepository
	notifier     notify.Sink
	metrics      statsd.Sink
	logger       *slog.Logger
}

// NewApplicationService constructs a new ApplicationService.
func NewApplicationService(opts ApplicationServiceOptions) *ApplicationService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ApplicationService{
		applications: opts.Applications,
		accounts:     opts.Accounts,
		notifier:     opts.Notifier,
		metrics:      opts.Metrics,
		logger:       logger.With("component", "application_service"),
	}
}

// Submit creates a pending application for the account. One open application
// per account; the partial unique index backs this check under races.
func (s *ApplicationService) Submit(ctx context.Context, accountID string, req *model.SubmitApplicationRequest) (*model.MembershipApplication, error) {
	if accountID == "" {
		return nil, apperrors.Validation("account is required")
	}

	if _, err := s.applications.GetPendingByAccount(ctx, accountID); err == nil {
		return nil, ErrApplicationPending
	}

	app, err := s.applications.Create(ctx, accountID, req)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.ErrCodeConflict {
			return nil, ErrApplicationPending
		}
		return nil, err
	}

	s.notifyAsync(notify.EventApplicationSubmitted, app)
	return app, nil
}

// GetByID retrieves an application by ID.
func (s *ApplicationService) GetByID(ctx context.Context, id string) (*model.MembershipApplication, error) {
	return s.applications.GetByID(ctx, id)
}

// GetMine returns the account's open application, if any.
func (s *ApplicationService) GetMine(ctx context.Context, accountID string) (*model.MembershipApplication, error) {
	return s.applications.GetPendingByAccount(ctx, accountID)
}

// ListByStatus returns applications in a given status for review.
func (s *ApplicationService) ListByStatus(ctx context.Context, status model.ApplicationStatus, limit, offset int) ([]*model.MembershipApplication, error) {
	return s.applications.ListByStatus(ctx, status, limit, offset)
}

// Decide accepts or rejects a pending application. Acceptance promotes the
// applicant's account to the programmer role.
func (s *ApplicationService) Decide(ctx context.Context, id string, decision model.ApplicationStatus) (*model.MembershipApplication, error) {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.applications.Decide(ctx, id, decision)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.Conflict("application has already been decided")
	}

	if decision == model.ApplicationStatusAccepted {
		if _, roleErr := s.accounts.SetRole(ctx, app.AccountID, string(domainauth.RoleProgrammer)); roleErr != nil {
			// The decision stands; the promotion can be retried by an admin.
			s.logger.ErrorContext(ctx, "promote accepted applicant failed",
				"application", id, "account", app.AccountID, "err", roleErr)
			return nil, fmt.Errorf("application accepted but promotion failed: %w", roleErr)
		}
	}

	decided, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	event := notify.EventApplicationRejected
	if decision == model.ApplicationStatusAccepted {
		event = notify.EventApplicationAccepted
	}
	s.notifyAsync(event, decided)

	return decided, nil
}

// notifyAsync delivers an application event without blocking the caller.
// Delivery is best effort; failures are logged and counted, never surfaced.
func (s *ApplicationService) notifyAsync(event string, app *model.MembershipApplication) {
	if s.notifier == nil || app == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		payload := notify.ApplicationPayload{
			Event:         event,
			ApplicationID: app.ID,
			AccountID:     app.AccountID,
			Motivation:    app.Motivation,
			Skills:        app.Skills,
			OccurredAt:    time.Now(),
		}
		if acct, err := s.accounts.GetByID(ctx, app.AccountID); err == nil {
			payload.ApplicantName = acct.DisplayName
			payload.ApplicantEmail = acct.Email
		}

		err := s.notifier.SendApplicationEvent(ctx, payload)
		metrics.EmitNotification(s.metrics, metrics.NotificationEvent{Event: event, Err: err})
		if err != nil {
			s.logger.Error("send application notification failed",
				"event", event, "application", app.ID, "err", err)
		}
	}()
}
