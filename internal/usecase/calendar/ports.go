package calendar

import (
	"context"

	"github.com/BruksfildServices01/barber-booking/internal/wallclock"
)

// SlotInvalidator drops cached slots after a policy write.
type SlotInvalidator interface {
	InvalidateDate(ctx context.Context, date wallclock.Date)
	InvalidateAll(ctx context.Context)
}
