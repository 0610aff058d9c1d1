package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/wallclock"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	list     *appointment.ListAppointments
	get      *appointment.GetAppointment
	update   *appointment.UpdateAppointment
	remove   *appointment.DeleteAppointment
	cancel   *appointment.CancelAppointment
	complete *appointment.CompleteAppointment
	stats    *appointment.GetStats
	export   *appointment.ExportAppointments
}

func NewAppointmentHandler(
	repo domain.Repository,
	cache appointment.SlotCache,
	dispatcher *audit.Dispatcher,
) *AppointmentHandler {
	return &AppointmentHandler{
		list:     appointment.NewListAppointments(repo),
		get:      appointment.NewGetAppointment(repo),
		update:   appointment.NewUpdateAppointment(repo, cache, dispatcher),
		remove:   appointment.NewDeleteAppointment(repo, cache, dispatcher),
		cancel:   appointment.NewCancelAppointment(repo, cache, dispatcher),
		complete: appointment.NewCompleteAppointment(repo, dispatcher),
		stats:    appointment.NewGetStats(repo),
		export:   appointment.NewExportAppointments(repo),
	}
}

// ======================================================
// REQUESTS
// ======================================================

// UpdateAppointmentRequest is partial: absent fields keep their value.
type UpdateAppointmentRequest struct {
	ServiceID      *uint   `json:"service_id"`
	Name           *string `json:"name"`
	Phone          *string `json:"phone"`
	Message        *string `json:"message"`
	Date           *string `json:"date"`
	StartTime      *string `json:"start_time"`
	Status         *string `json:"status"`
	BarberNotes    *string `json:"barber_notes"`
	ClientRating   *int    `json:"client_rating"`
	ClientFeedback *string `json:"client_feedback"`
}

// ======================================================
// LIST / GET
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	list, err := h.list.Execute(c.Request.Context(), appointment.ListAppointmentsInput{
		Date: c.Query("date"),
		From: c.Query("start_date"),
		To:   c.Query("end_date"),
	})
	if err != nil {
		respondError(c, err, "failed_to_list_appointments")
		return
	}

	httpresp.List(c, dto.NewAppointmentListDTO(list))
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ap, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed_to_get_appointment")
		return
	}

	httpresp.OK(c, dto.NewAppointmentDTO(ap))
}

// ======================================================
// UPDATE / DELETE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.update.Execute(c.Request.Context(), middleware.ActorID(c), id, appointment.UpdateAppointmentInput{
		ServiceID:      req.ServiceID,
		Name:           req.Name,
		Phone:          req.Phone,
		Message:        req.Message,
		Date:           req.Date,
		StartTime:      req.StartTime,
		Status:         req.Status,
		BarberNotes:    req.BarberNotes,
		ClientRating:   req.ClientRating,
		ClientFeedback: req.ClientFeedback,
	})
	if err != nil {
		respondError(c, err, "failed_to_update_appointment")
		return
	}

	httpresp.OK(c, dto.NewAppointmentDTO(ap))
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.remove.Execute(c.Request.Context(), middleware.ActorID(c), id); err != nil {
		respondError(c, err, "failed_to_delete_appointment")
		return
	}

	httpresp.NoContent(c)
}

// ======================================================
// LIFECYCLE
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), middleware.ActorID(c), id)
	if err != nil {
		respondError(c, err, "failed_to_cancel_appointment")
		return
	}

	httpresp.OK(c, dto.NewAppointmentDTO(ap))
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ap, err := h.complete.Execute(c.Request.Context(), middleware.ActorID(c), id)
	if err != nil {
		respondError(c, err, "failed_to_complete_appointment")
		return
	}

	httpresp.OK(c, dto.NewAppointmentDTO(ap))
}

// ======================================================
// STATS / EXPORT
// ======================================================

func (h *AppointmentHandler) Stats(c *gin.Context) {
	stats, err := h.stats.Execute(c.Request.Context(), appointment.StatsInput{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	})
	if err != nil {
		respondError(c, err, "failed_to_get_stats")
		return
	}

	httpresp.OK(c, dto.NewStatsDTO(stats))
}

func (h *AppointmentHandler) Export(c *gin.Context) {
	// rendered to memory first so a failure can still answer with JSON
	var buf bytes.Buffer
	err := h.export.Execute(c.Request.Context(), appointment.StatsInput{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}, &buf)
	if err != nil {
		respondError(c, err, "failed_to_export_appointments")
		return
	}

	filename := fmt.Sprintf("appointments-%s.xlsx", wallclock.Today().String())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
