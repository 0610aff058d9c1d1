package models

// All lists every table in migration order.
func All() []any {
	return []any{
		&User{},
		&Service{},
		&BusinessHours{},
		&BlockedDate{},
		&Appointment{},
		&AuditLog{},
	}
}
