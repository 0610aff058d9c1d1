package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/wallclock"
)

// SlotCache holds computed day slots. Implementations swallow their own
// failures: a broken cache behaves like an empty one.
//
// Get reports the date's cache version even on a miss; Set stamps the
// entry with it. An invalidation in between changes the version, so slots
// computed from data read before it are never served.
type SlotCache interface {
	Get(ctx context.Context, date wallclock.Date, duration int) (domain.DaySlots, string, bool)
	Set(ctx context.Context, date wallclock.Date, duration int, version string, slots domain.DaySlots)
	InvalidateDate(ctx context.Context, date wallclock.Date)
}
