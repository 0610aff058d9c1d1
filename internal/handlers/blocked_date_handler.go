package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/calendar"
)

type BlockedDateHandler struct {
	list   *calendar.ListBlockedDates
	add    *calendar.AddBlockedDate
	remove *calendar.RemoveBlockedDate
}

func NewBlockedDateHandler(
	repo domain.Repository,
	cache calendar.SlotInvalidator,
	dispatcher *audit.Dispatcher,
) *BlockedDateHandler {
	return &BlockedDateHandler{
		list:   calendar.NewListBlockedDates(repo),
		add:    calendar.NewAddBlockedDate(repo, cache, dispatcher),
		remove: calendar.NewRemoveBlockedDate(repo, cache, dispatcher),
	}
}

type BlockDateRequest struct {
	Date   string `json:"date" binding:"required"`
	Reason string `json:"reason"`
}

func (h *BlockedDateHandler) List(c *gin.Context) {
	list, err := h.list.Execute(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed_to_list_blocked_dates")
		return
	}

	httpresp.List(c, list)
}

func (h *BlockedDateHandler) Add(c *gin.Context) {
	var req BlockDateRequest
	if !bindJSON(c, &req) {
		return
	}

	bd, err := h.add.Execute(c.Request.Context(), middleware.ActorID(c), calendar.AddBlockedDateInput{
		Date:   req.Date,
		Reason: req.Reason,
	})
	if err != nil {
		respondError(c, err, "failed_to_block_date")
		return
	}

	httpresp.Created(c, bd)
}

func (h *BlockedDateHandler) Remove(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.remove.Execute(c.Request.Context(), middleware.ActorID(c), id); err != nil {
		respondError(c, err, "failed_to_unblock_date")
		return
	}

	httpresp.NoContent(c)
}
