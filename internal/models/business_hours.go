package models

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/wallclock"
)

// BusinessHours is the weekly template for one weekday (0=Monday).
type BusinessHours struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DayOfWeek int  `gorm:"not null;uniqueIndex" json:"day_of_week"`
	IsOpen    bool `gorm:"not null" json:"is_open"`

	OpenTime  wallclock.TimeOfDay `gorm:"not null" json:"open_time"`
	CloseTime wallclock.TimeOfDay `gorm:"not null" json:"close_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BusinessHours) TableName() string {
	return "business_hours"
}
