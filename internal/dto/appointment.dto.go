package dto

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/wallclock"
)

type AppointmentDTO struct {
	ID              uint                `json:"id"`
	ServiceID       uint                `json:"service_id"`
	ServiceName     *string             `json:"service_name"`
	ServiceDuration *int                `json:"service_duration"`
	Name            string              `json:"name"`
	Phone           string              `json:"phone"`
	Message         string              `json:"message"`
	Date            wallclock.Date      `json:"date"`
	StartTime       wallclock.TimeOfDay `json:"start_time"`
	EndTime         wallclock.TimeOfDay `json:"end_time"`
	Price           *float64            `json:"price"`
	Status          string              `json:"status"`
	BarberNotes     string              `json:"barber_notes"`
	ClientRating    *int                `json:"client_rating"`
	ClientFeedback  string              `json:"client_feedback"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
	CompletedAt     *time.Time          `json:"completed_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

func NewAppointmentDTO(ap *models.Appointment) AppointmentDTO {
	out := AppointmentDTO{
		ID:             ap.ID,
		ServiceID:      ap.ServiceID,
		Name:           ap.Name,
		Phone:          ap.Phone,
		Message:        ap.Message,
		Date:           ap.Date,
		StartTime:      ap.StartTime,
		EndTime:        ap.EndTime,
		Status:         ap.Status,
		BarberNotes:    ap.BarberNotes,
		ClientRating:   ap.ClientRating,
		ClientFeedback: ap.ClientFeedback,
		CancelledAt:    ap.CancelledAt,
		CompletedAt:    ap.CompletedAt,
		CreatedAt:      ap.CreatedAt,
	}

	// Service is only loaded by reads and by create
	if ap.Service.ID != 0 {
		name, duration := ap.Service.Name, ap.Service.DurationMin
		out.ServiceName = &name
		out.ServiceDuration = &duration
	}

	if ap.Price.Valid {
		price := ap.Price.Decimal.InexactFloat64()
		out.Price = &price
	}

	return out
}

func NewAppointmentListDTO(list []models.Appointment) []AppointmentDTO {
	out := make([]AppointmentDTO, 0, len(list))
	for i := range list {
		out = append(out, NewAppointmentDTO(&list[i]))
	}
	return out
}
