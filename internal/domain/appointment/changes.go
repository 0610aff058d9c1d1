package appointment

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Changes returns the columns where after differs from before, keyed by
// column name. Columns absent from the map are left to whatever is stored.
func Changes(before, after *models.Appointment) map[string]any {
	fields := map[string]any{}

	if after.ServiceID != before.ServiceID {
		fields["service_id"] = after.ServiceID
	}
	if after.Name != before.Name {
		fields["name"] = after.Name
	}
	if after.Phone != before.Phone {
		fields["phone"] = after.Phone
	}
	if after.Message != before.Message {
		fields["message"] = after.Message
	}
	if !after.Date.Equal(before.Date) {
		fields["date"] = after.Date
	}
	if after.StartTime != before.StartTime {
		fields["start_time"] = after.StartTime
	}
	if after.EndTime != before.EndTime {
		fields["end_time"] = after.EndTime
	}
	if after.Status != before.Status {
		fields["status"] = after.Status
	}
	if after.BarberNotes != before.BarberNotes {
		fields["barber_notes"] = after.BarberNotes
	}
	if !sameInt(after.ClientRating, before.ClientRating) {
		fields["client_rating"] = after.ClientRating
	}
	if after.ClientFeedback != before.ClientFeedback {
		fields["client_feedback"] = after.ClientFeedback
	}
	if !sameTime(after.CancelledAt, before.CancelledAt) {
		fields["cancelled_at"] = after.CancelledAt
	}
	if !sameTime(after.CompletedAt, before.CompletedAt) {
		fields["completed_at"] = after.CompletedAt
	}

	return fields
}

func sameInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
