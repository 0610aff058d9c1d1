package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/wallclock"
)

func TestChanges(t *testing.T) {
	rating := 4
	before := &models.Appointment{
		ID:           7,
		ServiceID:    1,
		Name:         "Elena",
		Phone:        "0888123456",
		Date:         wallclock.MustParseDate("2024-06-03"),
		StartTime:    wallclock.MustParseTimeOfDay("10:00"),
		EndTime:      wallclock.MustParseTimeOfDay("10:30"),
		Status:       string(StatusPending),
		ClientRating: &rating,
	}

	same := *before
	sameRating := 4
	same.ClientRating = &sameRating
	assert.Empty(t, Changes(before, &same))

	now := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	after := *before
	after.BarberNotes = "beard trim"
	after.Status = string(StatusCancelled)
	after.CancelledAt = &now

	assert.Equal(t, map[string]any{
		"barber_notes": "beard trim",
		"status":       string(StatusCancelled),
		"cancelled_at": &now,
	}, Changes(before, &after))
}

func TestChangesMove(t *testing.T) {
	before := &models.Appointment{
		Date:      wallclock.MustParseDate("2024-06-03"),
		StartTime: wallclock.MustParseTimeOfDay("10:00"),
		EndTime:   wallclock.MustParseTimeOfDay("10:30"),
	}
	after := *before
	after.Date = wallclock.MustParseDate("2024-06-04")
	after.EndTime = wallclock.MustParseTimeOfDay("11:00")

	fields := Changes(before, &after)
	assert.Len(t, fields, 2)
	assert.Equal(t, after.Date, fields["date"])
	assert.Equal(t, after.EndTime, fields["end_time"])
}
