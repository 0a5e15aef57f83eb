package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	apperrors "github.com/teamdesk/teamdesk/internal/errors"

	"github.com/teamdesk/teamdesk/internal/domain/model"
	"github.com/teamdesk/teamdesk/internal/mocks"
)

func TestAdvisoryService_Book(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	mockBookings := mocks.NewMockAdvisoryRepository(ctrl)
	req := &model.BookAdvisoryRequest{Topic: "architecture review", ScheduledAt: time.Now().Add(48 * time.Hour)}
	created := &model.AdvisorySession{ID: "b1", AccountID: "acct-1", Topic: req.Topic, Status: model.AdvisoryStatusPending}
	mockBookings.EXPECT().Create(ctx, "acct-1", req).Return(created, nil)

	svc := NewAdvisoryService(AdvisoryServiceOptions{Bookings: mockBookings})
	got, err := svc.Book(ctx, "acct-1", req)
	require.NoError(t, err)
	assert.Equal(t, model.AdvisoryStatusPending, got.Status)
}

func TestAdvisoryService_Book_RequiresAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockBookings := mocks.NewMockAdvisoryRepository(ctrl)
	svc := NewAdvisoryService(AdvisoryServiceOptions{Bookings: mockBookings})

	_, err := svc.Book(context.Background(), "", &model.BookAdvisoryRequest{Topic: "x"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestAdvisoryService_Transition_PendingToConfirmed(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	mockBookings := mocks.NewMockAdvisoryRepository(ctrl)
	pending := &model.AdvisorySession{ID: "b1", Status: model.AdvisoryStatusPending}
	confirmed := &model.AdvisorySession{ID: "b1", Status: model.AdvisoryStatusConfirmed}

	gomock.InOrder(
		mockBookings.EXPECT().GetByID(ctx, "b1").Return(pending, nil),
		mockBookings.EXPECT().SetStatus(ctx, "b1", model.AdvisoryStatusPending, model.AdvisoryStatusConfirmed).Return(true, nil),
		mockBookings.EXPECT().GetByID(ctx, "b1").Return(confirmed, nil),
	)

	svc := NewAdvisoryService(AdvisoryServiceOptions{Bookings: mockBookings})
	got, err := svc.Transition(ctx, "b1", model.AdvisoryStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.AdvisoryStatusConfirmed, got.Status)
}

func TestAdvisoryService_Transition_RejectsUnknownStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockBookings := mocks.NewMockAdvisoryRepository(ctrl)
	svc := NewAdvisoryService(AdvisoryServiceOptions{Bookings: mockBookings})

	_, err := svc.Transition(context.Background(), "b1", model.AdvisoryStatus("archived"))
	assert.True(t, apperrors.IsValidation(err))
}

func TestAdvisoryService_Transition_RejectsIllegalMove(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	mockBookings := mocks.NewMockAdvisoryRepository(ctrl)
	mockBookings.EXPECT().GetByID(ctx, "b1").
		Return(&model.AdvisorySession{ID: "b1", Status: model.AdvisoryStatusCompleted}, nil)

	svc := NewAdvisoryService(AdvisoryServiceOptions{Bookings: mockBookings})
	_, err := svc.Transition(ctx, "b1", model.AdvisoryStatusConfirmed)
	assert.True(t, apperrors.IsValidation(err))
}

func TestAdvisoryService_Transition_ConcurrentUpdateConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	mockBookings := mocks.NewMockAdvisoryRepository(ctrl)
	mockBookings.EXPECT().GetByID(ctx, "b1").
		Return(&model.AdvisorySession{ID: "b1", Status: model.AdvisoryStatusPending}, nil)
	mockBookings.EXPECT().SetStatus(ctx, "b1", model.AdvisoryStatusPending, model.AdvisoryStatusDeclined).
		Return(false, nil)

	svc := NewAdvisoryService(AdvisoryServiceOptions{Bookings: mockBookings})
	_, err := svc.Transition(ctx, "b1", model.AdvisoryStatusDeclined)
	assert.True(t, apperrors.IsConflict(err))
}
