// Package seed fills an empty installation with a working week, an admin
// account and a starter service catalog.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
	"github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type Options struct {
	AdminUsername string
	AdminPassword string // empty skips the admin account
}

var sampleServices = []models.Service{
	{Name: "Подстригване", Description: "Професионално подстригване със стил по избор.", DurationMin: 30, Price: decimal.NewFromInt(25)},
	{Name: "Боядисване", Description: "Пълно боядисване с висококачествени продукти.", DurationMin: 60, Price: decimal.NewFromInt(60)},
	{Name: "Маникюр", Description: "Професионален маникюр с дълготрайно покритие.", DurationMin: 45, Price: decimal.NewFromInt(35)},
	{Name: "Масаж", Description: "Релаксиращ масаж с етерични масла.", DurationMin: 60, Price: decimal.NewFromInt(50)},
}

// Run is safe to repeat: the week and the catalog are only written when
// empty, the admin password is reset every time.
func Run(ctx context.Context, db *gorm.DB, opts Options, logger zerolog.Logger) error {
	if err := seedWeek(ctx, db, logger); err != nil {
		return err
	}
	if err := seedAdmin(ctx, db, opts, logger); err != nil {
		return err
	}
	return seedServices(ctx, db, logger)
}

func seedWeek(ctx context.Context, db *gorm.DB, logger zerolog.Logger) error {
	repo := repository.NewCalendarGormRepository(db)

	week, err := repo.ListBusinessHours(ctx)
	if err != nil {
		return err
	}
	if len(week) > 0 {
		logger.Info().Int("days", len(week)).Msg("business hours already configured, skipping")
		return nil
	}

	if err := repo.ReplaceWeek(ctx, calendar.DefaultWeek()); err != nil {
		return err
	}
	logger.Info().Msg("default business hours installed")
	return nil
}

func seedAdmin(ctx context.Context, db *gorm.DB, opts Options, logger zerolog.Logger) error {
	if opts.AdminPassword == "" {
		logger.Warn().Msg("admin password not set, skipping admin account")
		return nil
	}
	if opts.AdminUsername == "" {
		return errors.New("seed admin: username must not be empty")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed admin: hash password: %w", err)
	}

	var user models.User
	err = db.WithContext(ctx).Where("username = ?", opts.AdminUsername).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{Username: opts.AdminUsername, PasswordHash: string(hashed)}
		if err := db.WithContext(ctx).Create(&user).Error; err != nil {
			return fmt.Errorf("seed admin: create: %w", err)
		}
		logger.Info().Str("username", user.Username).Msg("admin account created")
	case err != nil:
		return fmt.Errorf("seed admin: lookup: %w", err)
	default:
		if err := db.WithContext(ctx).Model(&user).Update("password_hash", string(hashed)).Error; err != nil {
			return fmt.Errorf("seed admin: update password: %w", err)
		}
		logger.Info().Str("username", user.Username).Msg("admin account exists, password updated")
	}
	return nil
}

func seedServices(ctx context.Context, db *gorm.DB, logger zerolog.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Service{}).Count(&count).Error; err != nil {
		return fmt.Errorf("seed services: count: %w", err)
	}
	if count > 0 {
		logger.Info().Int64("services", count).Msg("services already exist, skipping")
		return nil
	}

	services := make([]models.Service, len(sampleServices))
	copy(services, sampleServices)
	for i := range services {
		services[i].Active = true
	}

	if err := db.WithContext(ctx).Create(&services).Error; err != nil {
		return fmt.Errorf("seed services: create: %w", err)
	}
	logger.Info().Int("services", len(services)).Msg("sample services added")
	return nil
}
