package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	apperrors "github.com/teamdesk/teamdesk/internal/errors"

	"github.com/teamdesk/teamdesk/internal/domain/model"
	"github.com/teamdesk/teamdesk/internal/mocks"
	"github.com/teamdesk/teamdesk/internal/observability/notify"
)

func TestApplicationService_Submit(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	mockApps := mocks.NewMockApplicationRepository(ctrl)
	mockAccounts := mocks.NewMockAccountRepository(ctrl)

	req := &model.SubmitApplicationRequest{Motivation: "I want to join the team"}
	created := &model.MembershipApplication{ID: "app-1", AccountID: "acct-1", Status: model.ApplicationStatusPending}

	mockApps.EXPECT().GetPendingByAccount(ctx, "acct-1").Return(nil, apperrors.NotFound("no pending application"))
	mockApps.EXPECT().Create(ctx, "acct-1", req).Return(created, nil)

	svc := NewApplicationService(ApplicationServiceOptions{Applications: mockApps, Accounts: mockAccounts})
	got, err := svc.Submit(ctx, "acct-1", req)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusPending, got.Status)
}

func TestApplicationService_Submit_AlreadyPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	mockApps := mocks.NewMockApplicationRepository(ctrl)
	mockApps.EXPECT().GetPendingByAccount(ctx, "acct-1").
		Return(&model.MembershipApplication{ID: "app-1", Status: model.ApplicationStatusPending}, nil)

	svc := NewApplicationService(ApplicationServiceOptions{Applications: mockApps})
	_, err := svc.Submit(ctx, "acct-1", &model.SubmitApplicationRequest{Motivation: "again"})
	assert.ErrorIs(t, err, ErrApplicationPending)
}

func TestApplicationService_Submit_RaceSurfacesAsPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	// The pre-check missed, but the partial unique index caught the race.
	mockApps := mocks.NewMockApplicationRepository(ctrl)
	mockApps.EXPECT().GetPendingByAccount(ctx, "acct-1").Return(nil, apperrors.NotFound("no pending application"))
	mockApps.EXPECT().Create(ctx, "acct-1", gomock.Any()).
		Return(nil, apperrors.Conflict("duplicate pending application"))

	svc := NewApplicationService(ApplicationServiceOptions{Applications: mockApps})
	_, err := svc.Submit(ctx, "acct-1", &model.SubmitApplicationRequest{Motivation: "racing"})
	assert.ErrorIs(t, err, ErrApplicationPending)
}

func TestApplicationService_Submit_RequiresAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockApps := mocks.NewMockApplicationRepository(ctrl)
	svc := NewApplicationService(ApplicationServiceOptions{Applications: mockApps})

	_, err := svc.Submit(context.Background(), "", &model.SubmitApplicationRequest{Motivation: "x"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestApplicationService_Decide_AcceptPromotesApplicant(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	mockApps := mocks.NewMockApplicationRepository(ctrl)
	mockAccounts := mocks.NewMockAccountRepository(ctrl)

	pending := &model.MembershipApplication{ID: "app-1", AccountID: "acct-1", Status: model.ApplicationStatusPending}
	accepted := &model.MembershipApplication{ID: "app-1", AccountID: "acct-1", Status: model.ApplicationStatusAccepted}

	gomock.InOrder(
		mockApps.EXPECT().GetByID(ctx, "app-1").Return(pending, nil),
		mockApps.EXPECT().Decide(ctx, "app-1", model.ApplicationStatusAccepted).Return(true, nil),
		mockAccounts.EXPECT().SetRole(ctx, "acct-1", "programmer").Return(true, nil),
		mockApps.EXPECT().GetByID(ctx, "app-1").Return(accepted, nil),
	)

	svc := NewApplicationService(ApplicationServiceOptions{Applications: mockApps, Accounts: mockAccounts})
	got, err := svc.Decide(ctx, "app-1", model.ApplicationStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusAccepted, got.Status)
}

func TestApplicationService_Decide_RejectLeavesRoleAlone(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	mockApps := mocks.NewMockApplicationRepository(ctrl)
	mockAccounts := mocks.NewMockAccountRepository(ctrl)

	pending := &model.MembershipApplication{ID: "app-1", AccountID: "acct-1", Status: model.ApplicationStatusPending}
	rejected := &model.MembershipApplication{ID: "app-1", AccountID: "acct-1", Status: model.ApplicationStatusRejected}

	mockApps.EXPECT().GetByID(ctx, "app-1").Return(pending, nil)
	mockApps.EXPECT().Decide(ctx, "app-1", model.ApplicationStatusRejected).Return(true, nil)
	mockApps.EXPECT().GetByID(ctx, "app-1").Return(rejected, nil)
	// No SetRole expectation: a rejection must not touch the account.

	svc := NewApplicationService(ApplicationServiceOptions{Applications: mockApps, Accounts: mockAccounts})
	got, err := svc.Decide(ctx, "app-1", model.ApplicationStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusRejected, got.Status)
}

func TestApplicationService_Decide_AlreadyDecided(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	mockApps := mocks.NewMockApplicationRepository(ctrl)
	mockApps.EXPECT().GetByID(ctx, "app-1").
		Return(&model.MembershipApplication{ID: "app-1", AccountID: "acct-1", Status: model.ApplicationStatusAccepted}, nil)
	mockApps.EXPECT().Decide(ctx, "app-1", model.ApplicationStatusRejected).Return(false, nil)

	svc := NewApplicationService(ApplicationServiceOptions{Applications: mockApps})
	_, err := svc.Decide(ctx, "app-1", model.ApplicationStatusRejected)
	assert.True(t, apperrors.IsConflict(err))
}

func TestApplicationService_Decide_PromotionFailureSurfaces(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	mockApps := mocks.NewMockApplicationRepository(ctrl)
	mockAccounts := mocks.NewMockAccountRepository(ctrl)

	pending := &model.MembershipApplication{ID: "app-1", AccountID: "acct-1", Status: model.ApplicationStatusPending}
	mockApps.EXPECT().GetByID(ctx, "app-1").Return(pending, nil)
	mockApps.EXPECT().Decide(ctx, "app-1", model.ApplicationStatusAccepted).Return(true, nil)
	mockAccounts.EXPECT().SetRole(ctx, "acct-1", "programmer").Return(false, errors.New("db down"))

	svc := NewApplicationService(ApplicationServiceOptions{Applications: mockApps, Accounts: mockAccounts})
	_, err := svc.Decide(ctx, "app-1", model.ApplicationStatusAccepted)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "promotion failed")
}

func TestApplicationService_Submit_NotifiesSink(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	mockApps := mocks.NewMockApplicationRepository(ctrl)
	mockAccounts := mocks.NewMockAccountRepository(ctrl)

	created := &model.MembershipApplication{
		ID:         "app-1",
		AccountID:  "acct-1",
		Motivation: "I want to join the team",
		Status:     model.ApplicationStatusPending,
	}
	mockApps.EXPECT().GetPendingByAccount(ctx, "acct-1").Return(nil, apperrors.NotFound("no pending application"))
	mockApps.EXPECT().Create(ctx, "acct-1", gomock.Any()).Return(created, nil)
	mockAccounts.EXPECT().GetByID(gomock.Any(), "acct-1").
		Return(&model.Account{ID: "acct-1", DisplayName: "Alice", Email: "alice@example.com"}, nil).
		AnyTimes()

	delivered := make(chan notify.ApplicationPayload, 1)
	svc := NewApplicationService(ApplicationServiceOptions{
		Applications: mockApps,
		Accounts:     mockAccounts,
		Notifier: notify.SinkFunc(func(_ context.Context, payload notify.ApplicationPayload) error {
			delivered <- payload
			return nil
		}),
	})

	_, err := svc.Submit(ctx, "acct-1", &model.SubmitApplicationRequest{Motivation: "I want to join the team"})
	require.NoError(t, err)

	select {
	case payload := <-delivered:
		assert.Equal(t, notify.EventApplicationSubmitted, payload.Event)
		assert.Equal(t, "app-1", payload.ApplicationID)
		assert.Equal(t, "Alice", payload.ApplicantName)
		assert.Equal(t, "alice@example.com", payload.ApplicantEmail)
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not delivered")
	}
}

func TestApplicationService_Decide_NotifiesDecisionEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	mockApps := mocks.NewMockApplicationRepository(ctrl)
	mockAccounts := mocks.NewMockAccountRepository(ctrl)

	pending := &model.MembershipApplication{ID: "app-1", AccountID: "acct-1", Status: model.ApplicationStatusPending}
	rejected := &model.MembershipApplication{ID: "app-1", AccountID: "acct-1", Status: model.ApplicationStatusRejected}
	mockApps.EXPECT().GetByID(ctx, "app-1").Return(pending, nil)
	mockApps.EXPECT().Decide(ctx, "app-1", model.ApplicationStatusRejected).Return(true, nil)
	mockApps.EXPECT().GetByID(ctx, "app-1").Return(rejected, nil)
	mockAccounts.EXPECT().GetByID(gomock.Any(), "acct-1").
		Return(&model.Account{ID: "acct-1"}, nil).
		AnyTimes()

	delivered := make(chan notify.ApplicationPayload, 1)
	svc := NewApplicationService(ApplicationServiceOptions{
		Applications: mockApps,
		Accounts:     mockAccounts,
		Notifier: notify.SinkFunc(func(_ context.Context, payload notify.ApplicationPayload) error {
			delivered <- payload
			return nil
		}),
	})

	_, err := svc.Decide(ctx, "app-1", model.ApplicationStatusRejected)
	require.NoError(t, err)

	select {
	case payload := <-delivered:
		assert.Equal(t, notify.EventApplicationRejected, payload.Event)
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not delivered")
	}
}
