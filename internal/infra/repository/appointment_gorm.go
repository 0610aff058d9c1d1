package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/wallclock"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

var _ domain.Repository = (*AppointmentGormRepository)(nil)

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var svc models.Service
	err := r.db.WithContext(ctx).First(&svc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrNotFound("service_not_found")
	}
	if err != nil {
		return nil, fmt.Errorf("load service %d: %w", id, err)
	}
	return &svc, nil
}

// --------------------------------------------------
// Calendar policy
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBusinessHours(
	ctx context.Context,
	dayOfWeek int,
) (*models.BusinessHours, error) {
	return findBusinessHours(ctx, r.db, dayOfWeek)
}

func (r *AppointmentGormRepository) IsDateBlocked(
	ctx context.Context,
	date wallclock.Date,
) (bool, error) {
	return dateBlocked(ctx, r.db, date)
}

// --------------------------------------------------
// Appointment (read)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Service").
		First(&ap, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrNotFound("appointment_not_found")
	}
	if err != nil {
		return nil, fmt.Errorf("load appointment %d: %w", id, err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	filter domain.ListFilter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).Preload("Service")

	switch {
	case filter.Date != nil:
		q = q.Where("date = ?", *filter.Date)
	default:
		if filter.From != nil {
			q = q.Where("date >= ?", *filter.From)
		}
		if filter.To != nil {
			q = q.Where("date <= ?", *filter.To)
		}
	}

	var list []models.Appointment
	if err := q.
		Order("date ASC").
		Order("start_time ASC").
		Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return list, nil
}

// ListBookedIntervals returns the ranges held by non-cancelled appointments
// on date, ordered by start.
func (r *AppointmentGormRepository) ListBookedIntervals(
	ctx context.Context,
	date wallclock.Date,
) ([]domain.Interval, error) {

	var rows []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "start_time", "end_time").
		Where("date = ? AND status <> ?", date, string(domain.StatusCancelled)).
		Order("start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list booked intervals for %s: %w", date, err)
	}

	out := make([]domain.Interval, 0, len(rows))
	for i := range rows {
		out = append(out, domain.IntervalOf(&rows[i]))
	}
	return out, nil
}

func (r *AppointmentGormRepository) AppointmentStats(
	ctx context.Context,
	filter domain.StatsFilter,
) (*domain.Stats, error) {

	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.Appointment{})
		if filter.From != nil {
			q = q.Where("date >= ?", *filter.From)
		}
		if filter.To != nil {
			q = q.Where("date <= ?", *filter.To)
		}
		return q
	}

	stats := domain.NewStats()

	var counts []struct {
		Status string
		Count  int64
	}
	if err := scoped().
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("count appointments by status: %w", err)
	}
	for _, c := range counts {
		stats.ByStatus[domain.Status(c.Status)] += c.Count
		stats.Total += c.Count
	}

	var revenue decimal.NullDecimal
	if err := scoped().
		Select("SUM(price)").
		Where("status = ?", string(domain.StatusCompleted)).
		Row().Scan(&revenue); err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}
	if revenue.Valid {
		stats.TotalRevenue = revenue.Decimal
	}

	var rating sql.NullFloat64
	if err := scoped().
		Select("AVG(CAST(client_rating AS FLOAT))").
		Where("client_rating IS NOT NULL").
		Row().Scan(&rating); err != nil {
		return nil, fmt.Errorf("average rating: %w", err)
	}
	if rating.Valid {
		stats.AverageRating = rating.Float64
	}

	return stats, nil
}

// --------------------------------------------------
// Appointment (write)
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(ap).Error
	return translateWrite(err, "create appointment")
}

// UpdateAppointmentFields writes only the given columns. Columns not in
// fields keep whatever a concurrent writer committed.
func (r *AppointmentGormRepository) UpdateAppointmentFields(
	ctx context.Context,
	id uint,
	fields map[string]any,
) error {
	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		Updates(fields)
	if err := translateWrite(res.Error, "update appointment"); err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound("appointment_not_found")
	}
	return nil
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	id uint,
) error {
	res := r.db.WithContext(ctx).Delete(&models.Appointment{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete appointment %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound("appointment_not_found")
	}
	return nil
}

// --------------------------------------------------
// Transactions
// --------------------------------------------------

// LockAppointment reads the row and, inside a transaction, holds it until
// commit.
func (r *AppointmentGormRepository) LockAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	q := r.db.WithContext(ctx)
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var ap models.Appointment
	err := q.First(&ap, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrNotFound("appointment_not_found")
	}
	if err != nil {
		return nil, fmt.Errorf("lock appointment %d: %w", id, err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) WithinTx(
	ctx context.Context,
	fn func(ctx context.Context, tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &AppointmentGormRepository{db: tx})
	})
}

func (r *AppointmentGormRepository) WithDateLock(
	ctx context.Context,
	date wallclock.Date,
	fn func(ctx context.Context, tx domain.Repository) error,
) error {
	return r.WithDateLocks(ctx, []wallclock.Date{date}, fn)
}

// WithDateLocks takes the date locks in calendar order, so two writers
// touching the same pair of days cannot deadlock.
func (r *AppointmentGormRepository) WithDateLocks(
	ctx context.Context,
	dates []wallclock.Date,
	fn func(ctx context.Context, tx domain.Repository) error,
) error {
	ordered := make([]wallclock.Date, 0, len(dates))
	for _, d := range dates {
		if !slices.ContainsFunc(ordered, d.Equal) {
			ordered = append(ordered, d)
		}
	}
	slices.SortFunc(ordered, func(a, b wallclock.Date) int {
		return strings.Compare(a.String(), b.String())
	})

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, d := range ordered {
			if err := lockDate(tx, d); err != nil {
				return err
			}
		}
		return fn(ctx, &AppointmentGormRepository{db: tx})
	})
}

// lockDate serializes writers per date on Postgres. SQLite runs on a single
// connection, so the transaction itself is already exclusive.
func lockDate(tx *gorm.DB, date wallclock.Date) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	if err := tx.Exec(
		"SELECT pg_advisory_xact_lock(hashtext(?))",
		"appointments:"+date.String(),
	).Error; err != nil {
		return fmt.Errorf("lock date %s: %w", date, err)
	}
	return nil
}

func translateWrite(err error, op string) error {
	if err == nil {
		return nil
	}
	if isOverlapViolation(err) {
		return httperr.ErrSlotUnavailable()
	}
	return fmt.Errorf("%s: %w", op, err)
}
