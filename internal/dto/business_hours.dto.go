package dto

import (
	"github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/wallclock"
)

type BusinessHoursDTO struct {
	DayOfWeek int                 `json:"day_of_week"`
	DayName   string              `json:"day_name"`
	IsOpen    bool                `json:"is_open"`
	OpenTime  wallclock.TimeOfDay `json:"open_time"`
	CloseTime wallclock.TimeOfDay `json:"close_time"`
}

func NewBusinessHoursDTOs(week []models.BusinessHours) []BusinessHoursDTO {
	out := make([]BusinessHoursDTO, 0, len(week))
	for _, d := range week {
		out = append(out, BusinessHoursDTO{
			DayOfWeek: d.DayOfWeek,
			DayName:   calendar.WeekdayName(d.DayOfWeek),
			IsOpen:    d.IsOpen,
			OpenTime:  d.OpenTime,
			CloseTime: d.CloseTime,
		})
	}
	return out
}
