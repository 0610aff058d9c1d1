package audit

const (
	ActionAppointmentCreated   = "appointment_created"
	ActionAppointmentUpdated   = "appointment_updated"
	ActionAppointmentCancelled = "appointment_cancelled"
	ActionAppointmentCompleted = "appointment_completed"
	ActionAppointmentDeleted   = "appointment_deleted"
	ActionAppointmentConflict  = "appointment_conflict"

	ActionBusinessHoursReplaced = "business_hours_replaced"
	ActionBlockedDateAdded      = "blocked_date_added"
	ActionBlockedDateRemoved    = "blocked_date_removed"

	ActionServiceCreated = "service_created"
	ActionServiceUpdated = "service_updated"
	ActionServiceDeleted = "service_deleted"

	ActionPasswordChanged = "password_changed"
)

const (
	EntityAppointment   = "appointment"
	EntityBusinessHours = "business_hours"
	EntityBlockedDate   = "blocked_date"
	EntityService       = "service"
	EntityUser          = "user"
)
