package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-booking/internal/wallclock"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ServiceID uint    `gorm:"not null;index" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	Name    string `gorm:"size:100;not null" json:"name"`
	Phone   string `gorm:"size:20;not null" json:"phone"`
	Message string `gorm:"type:text" json:"message"`

	Date      wallclock.Date      `gorm:"type:varchar(10);not null;index:idx_appointments_day,priority:1" json:"date"`
	StartTime wallclock.TimeOfDay `gorm:"not null;index:idx_appointments_day,priority:2" json:"start_time"`
	EndTime   wallclock.TimeOfDay `gorm:"not null" json:"end_time"`

	Status string `gorm:"size:20;not null;default:'pending';index" json:"status"`

	// Price is the service price at booking time.
	Price          decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"price"`
	BarberNotes    string              `gorm:"type:text" json:"barber_notes"`
	ClientRating   *int                `json:"client_rating"`
	ClientFeedback string              `gorm:"type:text" json:"client_feedback"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
