package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/wallclock"
)

type CalendarGormRepository struct {
	db *gorm.DB
}

var _ calendar.Repository = (*CalendarGormRepository)(nil)

func NewCalendarGormRepository(db *gorm.DB) *CalendarGormRepository {
	return &CalendarGormRepository{db: db}
}

// --------------------------------------------------
// Business hours
// --------------------------------------------------

func (r *CalendarGormRepository) ListBusinessHours(ctx context.Context) ([]models.BusinessHours, error) {
	var week []models.BusinessHours
	if err := r.db.WithContext(ctx).
		Order("day_of_week ASC").
		Find(&week).Error; err != nil {
		return nil, fmt.Errorf("list business hours: %w", err)
	}
	return week, nil
}

func (r *CalendarGormRepository) GetBusinessHours(ctx context.Context, dayOfWeek int) (*models.BusinessHours, error) {
	return findBusinessHours(ctx, r.db, dayOfWeek)
}

func (r *CalendarGormRepository) ReplaceWeek(ctx context.Context, week []models.BusinessHours) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.BusinessHours{}).Error; err != nil {
			return fmt.Errorf("clear business hours: %w", err)
		}
		if len(week) == 0 {
			return nil
		}
		if err := tx.Create(&week).Error; err != nil {
			return fmt.Errorf("insert business hours: %w", err)
		}
		return nil
	})
}

// --------------------------------------------------
// Blocked dates
// --------------------------------------------------

func (r *CalendarGormRepository) ListBlockedDates(ctx context.Context) ([]models.BlockedDate, error) {
	var list []models.BlockedDate
	if err := r.db.WithContext(ctx).
		Order("date ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list blocked dates: %w", err)
	}
	return list, nil
}

func (r *CalendarGormRepository) IsDateBlocked(ctx context.Context, date wallclock.Date) (bool, error) {
	return dateBlocked(ctx, r.db, date)
}

func (r *CalendarGormRepository) AddBlockedDate(ctx context.Context, bd *models.BlockedDate) error {
	err := r.db.WithContext(ctx).Create(bd).Error
	if isUniqueViolation(err) {
		return httperr.ErrConflict("date_already_blocked")
	}
	if err != nil {
		return fmt.Errorf("block date %s: %w", bd.Date, err)
	}
	return nil
}

func (r *CalendarGormRepository) RemoveBlockedDate(ctx context.Context, id uint) (*models.BlockedDate, error) {
	var bd models.BlockedDate
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&bd, id).Error; err != nil {
			return err
		}
		return tx.Delete(&bd).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrNotFound("blocked_date_not_found")
	}
	if err != nil {
		return nil, fmt.Errorf("unblock date %d: %w", id, err)
	}
	return &bd, nil
}
