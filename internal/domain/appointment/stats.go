package appointment

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-booking/internal/wallclock"
)

// StatsFilter bounds are inclusive; nil means unbounded.
type StatsFilter struct {
	From *wallclock.Date
	To   *wallclock.Date
}

type Stats struct {
	Total         int64
	ByStatus      map[Status]int64
	TotalRevenue  decimal.Decimal
	AverageRating float64
}

// NewStats is the empty result: every status present with a zero count.
func NewStats() *Stats {
	byStatus := make(map[Status]int64, len(AllStatuses))
	for _, st := range AllStatuses {
		byStatus[st] = 0
	}
	return &Stats{
		ByStatus:     byStatus,
		TotalRevenue: decimal.Zero,
	}
}
