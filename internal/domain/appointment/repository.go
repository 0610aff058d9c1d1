package appointment

import (
	"context"

	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/wallclock"
)

// ListFilter selects appointments by a single date or an inclusive range.
// Date wins when both are set.
type ListFilter struct {
	Date *wallclock.Date
	From *wallclock.Date
	To   *wallclock.Date
}

type Repository interface {
	PolicyReader

	// -------- Service --------
	GetService(
		ctx context.Context,
		id uint,
	) (*models.Service, error)

	// -------- Appointment (read) --------
	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	ListAppointments(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Appointment, error)

	AppointmentStats(
		ctx context.Context,
		filter StatsFilter,
	) (*Stats, error)

	// -------- Appointment (write) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// UpdateAppointmentFields writes only the named columns.
	UpdateAppointmentFields(
		ctx context.Context,
		id uint,
		fields map[string]any,
	) error

	DeleteAppointment(
		ctx context.Context,
		id uint,
	) error

	// -------- Transactions --------

	// LockAppointment re-reads a row; inside a transaction the row stays
	// locked until commit.
	LockAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	WithinTx(
		ctx context.Context,
		fn func(ctx context.Context, tx Repository) error,
	) error

	// WithDateLock runs fn in one transaction that holds an exclusive lock
	// for date. Every read and write fn makes must go through tx.
	WithDateLock(
		ctx context.Context,
		date wallclock.Date,
		fn func(ctx context.Context, tx Repository) error,
	) error

	// WithDateLocks is WithDateLock for several dates at once.
	WithDateLocks(
		ctx context.Context,
		dates []wallclock.Date,
		fn func(ctx context.Context, tx Repository) error,
	) error
}
