package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/calendar"
)

type BusinessHoursHandler struct {
	get      *calendar.GetBusinessHours
	set      *calendar.SetBusinessHours
	defaults *calendar.InstallDefaultWeek
}

func NewBusinessHoursHandler(
	repo domain.Repository,
	cache calendar.SlotInvalidator,
	dispatcher *audit.Dispatcher,
) *BusinessHoursHandler {
	set := calendar.NewSetBusinessHours(repo, cache, dispatcher)
	return &BusinessHoursHandler{
		get:      calendar.NewGetBusinessHours(repo),
		set:      set,
		defaults: calendar.NewInstallDefaultWeek(set),
	}
}

// BusinessHoursDay is one element of the replace-week body. Pointers let
// the use case tell a missing field from false or 0.
type BusinessHoursDay struct {
	DayOfWeek *int    `json:"day_of_week"`
	IsOpen    *bool   `json:"is_open"`
	OpenTime  *string `json:"open_time"`
	CloseTime *string `json:"close_time"`
}

func (h *BusinessHoursHandler) Get(c *gin.Context) {
	week, err := h.get.Execute(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed_to_get_business_hours")
		return
	}

	httpresp.List(c, dto.NewBusinessHoursDTOs(week))
}

// Replace swaps the whole weekly template. The body is a JSON array.
func (h *BusinessHoursHandler) Replace(c *gin.Context) {
	var days []BusinessHoursDay
	if !bindJSON(c, &days) {
		return
	}

	entries := make([]calendar.BusinessHoursInput, 0, len(days))
	for _, d := range days {
		entries = append(entries, calendar.BusinessHoursInput{
			DayOfWeek: d.DayOfWeek,
			IsOpen:    d.IsOpen,
			OpenTime:  d.OpenTime,
			CloseTime: d.CloseTime,
		})
	}

	week, err := h.set.Execute(c.Request.Context(), middleware.ActorID(c), entries)
	if err != nil {
		respondError(c, err, "failed_to_save_business_hours")
		return
	}

	httpresp.List(c, dto.NewBusinessHoursDTOs(week))
}

func (h *BusinessHoursHandler) InstallDefault(c *gin.Context) {
	week, err := h.defaults.Execute(c.Request.Context(), middleware.ActorID(c))
	if err != nil {
		respondError(c, err, "failed_to_save_business_hours")
		return
	}

	httpresp.List(c, dto.NewBusinessHoursDTOs(week))
}
