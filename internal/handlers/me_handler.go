package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

const minPasswordLength = 6

type MeHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewMeHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *MeHandler {
	return &MeHandler{db: db, audit: dispatcher}
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

func (h *MeHandler) GetMe(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *MeHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		httperr.Unauthorized(c, "wrong_password", httperr.Message("wrong_password"))
		return
	}

	if len(req.NewPassword) < minPasswordLength {
		httperr.WriteError(c, httperr.ErrValidation("weak_password", "new_password"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, err, "failed_to_hash_password")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(user).
		Update("password_hash", string(hashed)).Error; err != nil {
		respondError(c, err, "failed_to_change_password")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &user.ID,
		Action:   audit.ActionPasswordChanged,
		Entity:   audit.EntityUser,
		EntityID: &user.ID,
	})

	c.JSON(http.StatusOK, gin.H{"message": "password_updated"})
}

func (h *MeHandler) currentUser(c *gin.Context) (*models.User, bool) {
	actor := middleware.ActorID(c)
	if actor == nil {
		httperr.Unauthorized(c, "user_not_in_context", "Authentication required.")
		return nil, false
	}

	var user models.User
	err := h.db.WithContext(c.Request.Context()).First(&user, *actor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "user_not_found", httperr.Message("user_not_found"))
		return nil, false
	}
	if err != nil {
		respondError(c, err, "failed_to_get_user")
		return nil, false
	}
	return &user, true
}
