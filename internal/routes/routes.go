package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/handlers"
	infraRepo "github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
	ucCalendar "github.com/BruksfildServices01/barber-booking/internal/usecase/calendar"
)

// SlotCache is what both the booking and the calendar side need from the
// slot cache.
type SlotCache interface {
	ucAppointment.SlotCache
	ucCalendar.SlotInvalidator
}

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	cache SlotCache,
	dispatcher *audit.Dispatcher,
) {

	// ======================================================
	// INFRA
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	calendarRepo := infraRepo.NewCalendarGormRepository(db)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db, dispatcher)
	serviceHandler := handlers.NewServiceHandler(db, dispatcher)
	publicHandler := handlers.NewPublicHandler(appointmentRepo, cache, dispatcher)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentRepo, cache, dispatcher)
	businessHoursHandler := handlers.NewBusinessHoursHandler(calendarRepo, cache, dispatcher)
	blockedDateHandler := handlers.NewBlockedDateHandler(calendarRepo, cache, dispatcher)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	auth := middleware.AuthMiddleware(cfg)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)
		api.GET("/auth/me", auth, meHandler.GetMe)
		api.PUT("/auth/change-password", auth, meHandler.ChangePassword)

		// ------------------------------
		// SERVICES
		// ------------------------------
		api.GET("/services", serviceHandler.List)
		api.GET("/services/:id", serviceHandler.Get)
		api.POST("/services", auth, serviceHandler.Create)
		api.PATCH("/services/:id", auth, serviceHandler.Update)
		api.DELETE("/services/:id", auth, serviceHandler.Delete)

		// ------------------------------
		// BOOKING (public)
		// ------------------------------
		api.GET("/availability/slots", publicHandler.Slots)
		api.POST("/appointments",
			middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
			publicHandler.CreateAppointment,
		)

		// ------------------------------
		// CALENDAR
		// ------------------------------
		api.GET("/business-hours", businessHoursHandler.Get)
		api.PUT("/business-hours", auth, businessHoursHandler.Replace)
		api.POST("/business-hours/default", auth, businessHoursHandler.InstallDefault)

		api.GET("/blocked-dates", blockedDateHandler.List)
		api.POST("/blocked-dates", auth, blockedDateHandler.Add)
		api.DELETE("/blocked-dates/:id", auth, blockedDateHandler.Remove)

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("/")
		admin.Use(auth)
		{
			admin.GET("/appointments", appointmentHandler.List)
			admin.GET("/appointments/:id", appointmentHandler.Get)
			admin.PATCH("/appointments/:id", appointmentHandler.Update)
			admin.PUT("/appointments/:id", appointmentHandler.Update)
			admin.DELETE("/appointments/:id", appointmentHandler.Delete)
			admin.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			admin.PATCH("/appointments/:id/complete", appointmentHandler.Complete)

			admin.GET("/stats", appointmentHandler.Stats)
			admin.GET("/stats/export", appointmentHandler.Export)

			admin.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}

// NewEngine builds the gin engine with the global middleware chain.
func NewEngine(cfg *config.Config, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(logger),
		middleware.Metrics(),
		middleware.CORSMiddleware(cfg.CORSAllowedOrigins),
	)
	return r
}
