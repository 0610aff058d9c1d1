package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
)

type StatsInput struct {
	StartDate string
	EndDate   string
}

type GetStats struct {
	repo domain.Repository
}

func NewGetStats(repo domain.Repository) *GetStats {
	return &GetStats{repo: repo}
}

// Execute applies the optional inclusive date range to every figure.
func (uc *GetStats) Execute(ctx context.Context, in StatsInput) (*domain.Stats, error) {
	from, to, err := parseRange(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	return uc.repo.AppointmentStats(ctx, domain.StatsFilter{From: from, To: to})
}
