package models

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/wallclock"
)

type BlockedDate struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Date   wallclock.Date `gorm:"type:varchar(10);not null;uniqueIndex" json:"date"`
	Reason string         `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}
