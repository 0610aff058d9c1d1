package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/wallclock"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler serves the client-facing booking flow.
type PublicHandler struct {
	availability *appointment.GetAvailability
	create       *appointment.CreateAppointment
}

func NewPublicHandler(
	repo domain.Repository,
	cache appointment.SlotCache,
	dispatcher *audit.Dispatcher,
) *PublicHandler {
	return &PublicHandler{
		availability: appointment.NewGetAvailability(repo, cache),
		create:       appointment.NewCreateAppointment(repo, cache, dispatcher),
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type CreateAppointmentRequest struct {
	ServiceID uint   `json:"service_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Date      string `json:"date" binding:"required"`       // YYYY-MM-DD
	StartTime string `json:"start_time" binding:"required"` // HH:MM
	Message   string `json:"message"`
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Slots(c *gin.Context) {
	dateStr := strings.TrimSpace(c.Query("date"))
	if dateStr == "" {
		httperr.WriteError(c, httperr.ErrValidation("missing_required_fields", "date"))
		return
	}

	date, err := wallclock.ParseDate(dateStr)
	if err != nil {
		httperr.WriteError(c, httperr.ErrValidation("invalid_date_or_time", "date"))
		return
	}

	in := domain.AvailabilityInput{Date: date}

	// a malformed service_id falls back to the default duration like an
	// unknown one does
	if raw := strings.TrimSpace(c.Query("service_id")); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			serviceID := uint(id)
			in.ServiceID = &serviceID
		}
	}

	slots, err := h.availability.Execute(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "failed_to_get_slots")
		return
	}

	httpresp.OK(c, slots)
}

////////////////////////////////////////////////////////
// BOOKING
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), appointment.CreateAppointmentInput{
		ServiceID: req.ServiceID,
		Name:      req.Name,
		Phone:     req.Phone,
		Date:      req.Date,
		StartTime: req.StartTime,
		Message:   req.Message,
	})
	if err != nil {
		respondError(c, err, "failed_to_create_appointment")
		return
	}

	httpresp.Created(c, dto.NewAppointmentDTO(ap))
}
