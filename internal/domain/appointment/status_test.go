package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" Confirmed ")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, st)

	_, err = ParseStatus("scheduled")
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))
}

func TestCancelAndCompleteTransitions(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	ap := &models.Appointment{Status: string(StatusConfirmed)}
	require.NoError(t, Cancel(ap, now))
	assert.Equal(t, string(StatusCancelled), ap.Status)
	require.NotNil(t, ap.CancelledAt)
	assert.False(t, Status(ap.Status).HoldsSlot())

	assert.True(t, httperr.IsBusiness(Complete(ap, now), "invalid_state"))
	assert.True(t, httperr.IsBusiness(Cancel(ap, now), "invalid_state"))

	done := &models.Appointment{Status: string(StatusPending)}
	require.NoError(t, Complete(done, now))
	assert.Equal(t, string(StatusCompleted), done.Status)
	assert.True(t, Status(done.Status).HoldsSlot())
}
