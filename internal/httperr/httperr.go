package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string   `json:"error_code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

var messages = map[string]string{
	"missing_required_fields": "Missing required fields.",
	"invalid_date_or_time":    "Invalid date or time format.",
	"invalid_phone":           "Invalid phone number.",
	"name_too_long":           "Name must be at most 100 characters.",
	"invalid_status":          "Invalid appointment status.",
	"invalid_rating":          "Rating must be between 1 and 5.",
	"invalid_state":           "The appointment can no longer change to that status.",
	"invalid_date_range":      "start_date must not be after end_date.",
	"slot_unavailable":        "The selected time is not available.",
	"service_not_found":       "Service not found.",
	"appointment_not_found":   "Appointment not found.",
	"blocked_date_not_found":  "Blocked date not found.",
	"date_already_blocked":    "Date is already blocked.",
	"service_in_use":          "Service has appointments and cannot be deleted.",
	"concurrent_update":       "The appointment was changed meanwhile. Please retry.",
	"username_taken":          "Username already exists.",
	"invalid_day_of_week":     "Day of week must be between 0 (Monday) and 6 (Sunday).",
	"duplicate_day_of_week":   "Each day of week may appear only once.",
	"invalid_time_range":      "Opening time must be before closing time.",
	"invalid_request":         "Invalid request body.",
	"invalid_id":              "Invalid id.",
	"invalid_duration":        "Duration must be a positive number of minutes.",
	"invalid_price":           "Price must not be negative.",
	"invalid_credentials":     "Invalid username or password.",
	"wrong_password":          "Current password is incorrect.",
	"weak_password":           "Password must be at least 6 characters.",
	"user_not_found":          "User not found.",
	"internal_error":          "Internal server error.",
}

var kindStatus = map[Kind]int{
	KindValidation:      http.StatusBadRequest,
	KindNotFound:        http.StatusNotFound,
	KindConflict:        http.StatusConflict,
	KindSlotUnavailable: http.StatusConflict,
}

func Message(code string) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return code
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

// WriteError renders a BusinessError with its mapped status and reports
// whether err was one. Callers handle the false case as an internal error.
func WriteError(c *gin.Context, err error) bool {
	be, ok := AsBusiness(err)
	if !ok {
		return false
	}
	status, known := kindStatus[be.Kind]
	if !known {
		status = http.StatusBadRequest
	}
	c.JSON(status, HTTPError{
		Code:    be.Code,
		Message: Message(be.Code),
		Fields:  be.Fields,
	})
	return true
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func TooManyRequests(c *gin.Context) {
	Write(c, http.StatusTooManyRequests, "rate_limited", "Too many requests, slow down.")
}
