package dto

import (
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
)

type StatsDTO struct {
	TotalAppointments int64            `json:"total_appointments"`
	StatusCounts      map[string]int64 `json:"status_counts"`
	TotalRevenue      float64          `json:"total_revenue"`
	AverageRating     float64          `json:"average_rating"`
}

func NewStatsDTO(s *domain.Stats) StatsDTO {
	counts := make(map[string]int64, len(s.ByStatus))
	for st, n := range s.ByStatus {
		counts[string(st)] = n
	}
	return StatsDTO{
		TotalAppointments: s.Total,
		StatusCounts:      counts,
		TotalRevenue:      s.TotalRevenue.InexactFloat64(),
		AverageRating:     s.AverageRating,
	}
}
