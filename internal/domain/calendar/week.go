package calendar

import (
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/wallclock"
)

const DaysPerWeek = 7

// ClosedSentinel is stored as both open and close time of a closed day.
const ClosedSentinel wallclock.TimeOfDay = 0

var weekdayNames = [DaysPerWeek]string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

func WeekdayName(day int) string {
	if day < 0 || day >= DaysPerWeek {
		return ""
	}
	return weekdayNames[day]
}

// DefaultWeek is Mon-Fri 09:00-18:00, Sat 10:00-16:00, Sun closed.
func DefaultWeek() []models.BusinessHours {
	week := make([]models.BusinessHours, 0, DaysPerWeek)
	for day := 0; day < 5; day++ {
		week = append(week, models.BusinessHours{
			DayOfWeek: day,
			IsOpen:    true,
			OpenTime:  wallclock.NewTimeOfDay(9, 0),
			CloseTime: wallclock.NewTimeOfDay(18, 0),
		})
	}
	week = append(week,
		models.BusinessHours{
			DayOfWeek: 5,
			IsOpen:    true,
			OpenTime:  wallclock.NewTimeOfDay(10, 0),
			CloseTime: wallclock.NewTimeOfDay(16, 0),
		},
		models.BusinessHours{
			DayOfWeek: 6,
			IsOpen:    false,
			OpenTime:  ClosedSentinel,
			CloseTime: ClosedSentinel,
		},
	)
	return week
}
