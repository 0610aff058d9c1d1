package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/wallclock"
)

// Calendar policy reads shared by the appointment and calendar repositories.
// Both run them on whatever handle they hold, so inside WithDateLock they see
// the transaction.

func findBusinessHours(ctx context.Context, db *gorm.DB, dayOfWeek int) (*models.BusinessHours, error) {
	var hours models.BusinessHours
	err := db.WithContext(ctx).
		Where("day_of_week = ?", dayOfWeek).
		First(&hours).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load business hours for day %d: %w", dayOfWeek, err)
	}
	return &hours, nil
}

func dateBlocked(ctx context.Context, db *gorm.DB, date wallclock.Date) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.BlockedDate{}).
		Where("date = ?", date).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check blocked date %s: %w", date, err)
	}
	return count > 0, nil
}
