//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvisoryStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from AdvisoryStatus
		to   AdvisoryStatus
		want bool
	}{
		{AdvisoryStatusPending, AdvisoryStatusConfirmed, true},
		{AdvisoryStatusPending, AdvisoryStatusDeclined, true},
		{AdvisoryStatusPending, AdvisoryStatusCompleted, false},
		{AdvisoryStatusConfirmed, AdvisoryStatusCompleted, true},
		{AdvisoryStatusConfirmed, AdvisoryStatusDeclined, true},
		{AdvisoryStatusConfirmed, AdvisoryStatusPending, false},
		{AdvisoryStatusDeclined, AdvisoryStatusConfirmed, false},
		{AdvisoryStatusCompleted, AdvisoryStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestParseAdvisoryStatus(t *testing.T) {
	got, ok := ParseAdvisoryStatus("  Confirmed ")
	require.True(t, ok)
	assert.Equal(t, AdvisoryStatusConfirmed, got)

	_, ok = ParseAdvisoryStatus("someday")
	assert.False(t, ok)
}

func TestBookAdvisoryRequest_Validate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	valid := BookAdvisoryRequest{Topic: " Architecture review ", ScheduledAt: now.Add(48 * time.Hour)}
	require.NoError(t, valid.Validate(now))
	assert.Equal(t, "Architecture review", valid.Topic)

	missingTopic := BookAdvisoryRequest{ScheduledAt: now.Add(time.Hour)}
	assert.Error(t, missingTopic.Validate(now))

	past := BookAdvisoryRequest{Topic: "x", ScheduledAt: now.Add(-time.Hour)}
	assert.Error(t, past.Validate(now))

	zeroTime := BookAdvisoryRequest{Topic: "x"}
	assert.Error(t, zeroTime.Validate(now))
}
