package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/db/dbtest"
	"github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
	"github.com/BruksfildServices01/barber-booking/internal/infra/cache"
	"github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type server struct {
	t          *testing.T
	db         *gorm.DB
	engine     *gin.Engine
	dispatcher *audit.Dispatcher
	haircut    models.Service
	token      string
}

func newServer(t *testing.T) *server {
	t.Helper()

	db := dbtest.Open(t)
	cfg := &config.Config{
		JWTSecret:      "test-secret",
		JWTTTL:         time.Hour,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	}

	require.NoError(t, repository.NewCalendarGormRepository(db).ReplaceWeek(context.Background(), calendar.DefaultWeek()))

	haircut := models.Service{Name: "Haircut", DurationMin: 30, Price: decimal.NewFromInt(20), Active: true}
	require.NoError(t, db.Create(&haircut).Error)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret!"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{Username: "admin", PasswordHash: string(hash)}).Error)

	dispatcher := audit.NewDispatcher(zerolog.Nop(), audit.New(db))
	t.Cleanup(func() { _ = dispatcher.Close(context.Background()) })

	engine := NewEngine(cfg, zerolog.Nop())
	RegisterRoutes(engine, db, cfg, cache.NoopSlotCache{}, dispatcher)

	s := &server{t: t, db: db, engine: engine, dispatcher: dispatcher, haircut: haircut}
	s.token = s.login("admin", "s3cret!")
	return s
}

func (s *server) do(method, path string, body any, auth bool) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *server) login(username, password string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/auth/login", gin.H{"username": username, "password": password}, false)
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	var out struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &out))
	return out.AccessToken
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type errorBody struct {
	Code   string   `json:"error_code"`
	Fields []string `json:"fields"`
}

func (s *server) book(start string) *httptest.ResponseRecorder {
	return s.do(http.MethodPost, "/api/appointments", gin.H{
		"service_id": s.haircut.ID,
		"name":       "Elena",
		"phone":      "0888123456",
		"date":       "2024-06-03",
		"start_time": start,
	}, false)
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	w := s.do(http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestLogin(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/auth/login", gin.H{"username": "admin", "password": "nope"}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_credentials", decode[errorBody](t, w).Code)

	w = s.do(http.MethodPost, "/api/auth/login", gin.H{"username": "admin"}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"password"}, decode[errorBody](t, w).Fields)

	w = s.do(http.MethodGet, "/api/auth/me", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"admin"`)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestChangePassword(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPut, "/api/auth/change-password", gin.H{
		"current_password": "wrong", "new_password": "another1",
	}, true)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPut, "/api/auth/change-password", gin.H{
		"current_password": "s3cret!", "new_password": "abc",
	}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPut, "/api/auth/change-password", gin.H{
		"current_password": "s3cret!", "new_password": "another1",
	}, true)
	require.Equal(t, http.StatusOK, w.Code)

	assert.NotEmpty(t, s.login("admin", "another1"))
}

func TestBookingFlow(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, fmt.Sprintf("/api/availability/slots?date=2024-06-03&service_id=%d", s.haircut.ID), nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	slots := decode[struct {
		All       []string `json:"all_slots"`
		Available []string `json:"available_slots"`
		Booked    []string `json:"booked_slots"`
	}](t, w)
	assert.Len(t, slots.All, 18)
	assert.Equal(t, "09:00", slots.All[0])
	assert.Equal(t, "17:30", slots.All[17])
	assert.Empty(t, slots.Booked)

	w = s.book("10:00")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[map[string]any](t, w)
	assert.Equal(t, "Haircut", created["service_name"])
	assert.Equal(t, "10:30", created["end_time"])
	assert.Equal(t, "pending", created["status"])
	assert.Equal(t, 20.0, created["price"])

	w = s.book("10:00")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "slot_unavailable", decode[errorBody](t, w).Code)

	w = s.do(http.MethodGet, "/api/availability/slots?date=2024-06-03", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"booked_slots":["10:00"]`)
}

func TestBookingValidation(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/appointments", gin.H{"name": "Elena", "date": "2024-06-03"}, false)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[errorBody](t, w)
	assert.Equal(t, "missing_required_fields", body.Code)
	assert.ElementsMatch(t, []string{"service_id", "phone", "start_time"}, body.Fields)

	w = s.do(http.MethodPost, "/api/appointments", `{"name":`, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/availability/slots", nil, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/availability/slots?date=June", nil, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_date_or_time", decode[errorBody](t, w).Code)

	w = s.book("08:00")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminAppointmentLifecycle(t *testing.T) {
	s := newServer(t)
	created := decode[map[string]any](t, s.book("11:00"))
	id := int(created["id"].(float64))

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/appointments", nil, false).Code)

	w := s.do(http.MethodGet, "/api/appointments?date=2024-06-03", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Data  []map[string]any `json:"data"`
		Total int              `json:"total"`
	}](t, w)
	assert.Equal(t, 1, list.Total)

	w = s.do(http.MethodPatch, fmt.Sprintf("/api/appointments/%d", id), gin.H{
		"start_time": "12:00", "barber_notes": "window seat",
	}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"end_time":"12:30"`)

	w = s.do(http.MethodPatch, fmt.Sprintf("/api/appointments/%d", id), gin.H{"client_rating": 9}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPatch, fmt.Sprintf("/api/appointments/%d/cancel", id), nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"cancelled"`)

	w = s.do(http.MethodPatch, fmt.Sprintf("/api/appointments/%d/complete", id), nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_state", decode[errorBody](t, w).Code)

	w = s.do(http.MethodGet, "/api/stats?start_date=2024-06-01&end_date=2024-06-30", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[struct {
		Total  int64            `json:"total_appointments"`
		Counts map[string]int64 `json:"status_counts"`
	}](t, w)
	assert.Equal(t, int64(1), stats.Total)
	assert.Equal(t, int64(1), stats.Counts["cancelled"])
	assert.Equal(t, int64(0), stats.Counts["pending"])

	w = s.do(http.MethodGet, "/api/stats/export", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/appointments/%d", id), nil, true)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/appointments/%d", id), nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/appointments/abc", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalendarEndpoints(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, "/api/business-hours", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":7`)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPut, "/api/business-hours", []gin.H{}, false).Code)

	w = s.do(http.MethodPut, "/api/business-hours", []gin.H{{"day_of_week": 0}}, true)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[errorBody](t, w).Fields, "business_hours[0].is_open")

	w = s.do(http.MethodPut, "/api/business-hours", []gin.H{
		{"day_of_week": 0, "is_open": true, "open_time": "08:00", "close_time": "12:00"},
		{"day_of_week": 6, "is_open": false, "open_time": "", "close_time": ""},
	}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"day_name":"sunday"`)

	w = s.do(http.MethodPost, "/api/business-hours/default", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":7`)

	w = s.do(http.MethodPost, "/api/blocked-dates", gin.H{"date": "2024-06-03", "reason": "holiday"}, true)
	require.Equal(t, http.StatusCreated, w.Code)
	blocked := decode[map[string]any](t, w)

	w = s.do(http.MethodPost, "/api/blocked-dates", gin.H{"date": "2024-06-03"}, true)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "date_already_blocked", decode[errorBody](t, w).Code)

	w = s.do(http.MethodGet, "/api/availability/slots?date=2024-06-03", nil, false)
	assert.JSONEq(t, `{"all_slots":[],"available_slots":[],"booked_slots":[]}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/blocked-dates", nil, false)
	assert.Contains(t, w.Body.String(), `"date":"2024-06-03"`)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/blocked-dates/%d", int(blocked["id"].(float64))), nil, true)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodDelete, "/api/blocked-dates/999", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServiceCatalog(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/services", gin.H{"name": "Beard trim", "duration": 0, "price": 10}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/services", gin.H{"name": "Beard trim", "duration": -15, "price": 10}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_duration", decode[errorBody](t, w).Code)

	w = s.do(http.MethodPost, "/api/services", gin.H{"name": "Beard trim", "duration": 15, "price": "12.50"}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	svc := decode[map[string]any](t, w)
	id := int(svc["id"].(float64))

	w = s.do(http.MethodPatch, fmt.Sprintf("/api/services/%d", id), gin.H{"active": false}, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"active":false`)

	w = s.do(http.MethodGet, "/api/services?active=true", nil, false)
	assert.Contains(t, w.Body.String(), `"total":1`)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/services/%d", id), nil, true)
	assert.Equal(t, http.StatusNoContent, w.Code)

	require.Equal(t, http.StatusCreated, s.book("09:00").Code)
	w = s.do(http.MethodDelete, fmt.Sprintf("/api/services/%d", s.haircut.ID), nil, true)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "service_in_use", decode[errorBody](t, w).Code)

	w = s.do(http.MethodGet, "/api/services/999", nil, false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuditTrail(t *testing.T) {
	s := newServer(t)
	require.Equal(t, http.StatusCreated, s.book("09:00").Code)
	require.Equal(t, http.StatusConflict, s.book("09:00").Code)

	// flush the queue before reading the trail
	require.NoError(t, s.dispatcher.Close(context.Background()))

	w := s.do(http.MethodGet, "/api/audit-logs?action=appointment_conflict", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)

	w = s.do(http.MethodGet, "/api/audit-logs?entity=appointment", nil, true)
	assert.Contains(t, w.Body.String(), `"total":2`)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
