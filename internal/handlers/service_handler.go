package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ServiceHandler manages the service catalog. It is plain CRUD, so it talks
// to gorm directly.
type ServiceHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewServiceHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *ServiceHandler {
	return &ServiceHandler{db: db, audit: dispatcher}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Duration    int              `json:"duration" binding:"required"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Active      *bool            `json:"active"`
}

type UpdateServiceRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Duration    *int             `json:"duration"`
	Price       *decimal.Decimal `json:"price"`
	Active      *bool            `json:"active"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context())

	switch strings.TrimSpace(c.Query("active")) {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	if query := strings.ToLower(strings.TrimSpace(c.Query("query"))); query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		respondError(c, err, "failed_to_list_services")
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	svc, ok := h.load(c)
	if !ok {
		return
	}
	httpresp.OK(c, svc)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		httperr.WriteError(c, httperr.ErrValidation("missing_required_fields", "name"))
		return
	}
	if err := validateServiceValues(&req.Duration, req.Price); err != nil {
		httperr.WriteError(c, err)
		return
	}

	svc := models.Service{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		DurationMin: req.Duration,
		Price:       *req.Price,
		Active:      true,
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&svc).Error; err != nil {
		respondError(c, err, "failed_to_create_service")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   middleware.ActorID(c),
		Action:   audit.ActionServiceCreated,
		Entity:   audit.EntityService,
		EntityID: &svc.ID,
		Metadata: map[string]any{"name": svc.Name},
	})

	httpresp.Created(c, svc)
}

// Update edits the catalog only. Existing appointments keep the end time
// and price they were booked with.
func (h *ServiceHandler) Update(c *gin.Context) {
	svc, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.WriteError(c, httperr.ErrValidation("missing_required_fields", "name"))
			return
		}
		svc.Name = name
	}
	if err := validateServiceValues(req.Duration, req.Price); err != nil {
		httperr.WriteError(c, err)
		return
	}
	if req.Description != nil {
		svc.Description = strings.TrimSpace(*req.Description)
	}
	if req.Duration != nil {
		svc.DurationMin = *req.Duration
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).Save(svc).Error; err != nil {
		respondError(c, err, "failed_to_update_service")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   middleware.ActorID(c),
		Action:   audit.ActionServiceUpdated,
		Entity:   audit.EntityService,
		EntityID: &svc.ID,
	})

	httpresp.OK(c, svc)
}

// Delete refuses while any appointment still references the service;
// deactivating it is the way to retire a service with history.
func (h *ServiceHandler) Delete(c *gin.Context) {
	svc, ok := h.load(c)
	if !ok {
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.Appointment{}).
			Where("service_id = ?", svc.ID).
			Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return httperr.ErrConflict("service_in_use")
		}
		return tx.Delete(svc).Error
	})
	if err != nil {
		respondError(c, err, "failed_to_delete_service")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   middleware.ActorID(c),
		Action:   audit.ActionServiceDeleted,
		Entity:   audit.EntityService,
		EntityID: &svc.ID,
		Metadata: map[string]any{"name": svc.Name},
	})

	httpresp.NoContent(c)
}

func (h *ServiceHandler) load(c *gin.Context) (*models.Service, bool) {
	id, ok := idParam(c)
	if !ok {
		return nil, false
	}

	var svc models.Service
	err := h.db.WithContext(c.Request.Context()).First(&svc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.WriteError(c, httperr.ErrNotFound("service_not_found"))
		return nil, false
	}
	if err != nil {
		respondError(c, err, "failed_to_get_service")
		return nil, false
	}
	return &svc, true
}

func validateServiceValues(duration *int, price *decimal.Decimal) error {
	if duration != nil && *duration <= 0 {
		return httperr.ErrValidation("invalid_duration", "duration")
	}
	if price != nil && price.IsNegative() {
		return httperr.ErrValidation("invalid_price", "price")
	}
	return nil
}
