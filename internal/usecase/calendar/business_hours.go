package calendar

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/wallclock"
)

// ======================================================
// INPUT
// ======================================================

// BusinessHoursInput is one weekday of a replace-week request. Every field
// is required; pointers tell "absent" from a zero value.
type BusinessHoursInput struct {
	DayOfWeek *int
	IsOpen    *bool
	OpenTime  *string
	CloseTime *string
}

// ======================================================
// GET
// ======================================================

type GetBusinessHours struct {
	repo domain.Repository
}

func NewGetBusinessHours(repo domain.Repository) *GetBusinessHours {
	return &GetBusinessHours{repo: repo}
}

func (uc *GetBusinessHours) Execute(ctx context.Context) ([]models.BusinessHours, error) {
	return uc.repo.ListBusinessHours(ctx)
}

// ======================================================
// SET
// ======================================================

type SetBusinessHours struct {
	repo  domain.Repository
	cache SlotInvalidator
	audit *audit.Dispatcher
}

func NewSetBusinessHours(
	repo domain.Repository,
	cache SlotInvalidator,
	audit *audit.Dispatcher,
) *SetBusinessHours {
	return &SetBusinessHours{
		repo:  repo,
		cache: cache,
		audit: audit,
	}
}

func (uc *SetBusinessHours) Execute(
	ctx context.Context,
	actorID *uint,
	entries []BusinessHoursInput,
) ([]models.BusinessHours, error) {

	week, err := buildWeek(entries)
	if err != nil {
		return nil, err
	}

	if err := uc.replace(ctx, actorID, week); err != nil {
		return nil, err
	}
	return uc.repo.ListBusinessHours(ctx)
}

func (uc *SetBusinessHours) replace(ctx context.Context, actorID *uint, week []models.BusinessHours) error {
	if err := uc.repo.ReplaceWeek(ctx, week); err != nil {
		return err
	}

	uc.cache.InvalidateAll(ctx)

	open := 0
	for _, d := range week {
		if d.IsOpen {
			open++
		}
	}
	zerolog.Ctx(ctx).Info().
		Int("days", len(week)).
		Int("open_days", open).
		Msg("business hours replaced")

	uc.audit.Dispatch(audit.Event{
		UserID: actorID,
		Action: audit.ActionBusinessHoursReplaced,
		Entity: audit.EntityBusinessHours,
		Metadata: map[string]any{
			"days":      len(week),
			"open_days": open,
		},
	})
	return nil
}

// buildWeek validates a replace-week request. Missing fields are reported
// for every entry at once, as business_hours[i].field.
func buildWeek(entries []BusinessHoursInput) ([]models.BusinessHours, error) {
	if len(entries) == 0 {
		return nil, httperr.ErrValidation("missing_required_fields", "business_hours")
	}

	var missing []string
	for i, e := range entries {
		field := func(name string) string {
			return fmt.Sprintf("business_hours[%d].%s", i, name)
		}
		if e.DayOfWeek == nil {
			missing = append(missing, field("day_of_week"))
		}
		if e.IsOpen == nil {
			missing = append(missing, field("is_open"))
		}
		if e.OpenTime == nil {
			missing = append(missing, field("open_time"))
		}
		if e.CloseTime == nil {
			missing = append(missing, field("close_time"))
		}
	}
	if len(missing) > 0 {
		return nil, httperr.ErrValidation("missing_required_fields", missing...)
	}

	seen := make(map[int]bool, len(entries))
	week := make([]models.BusinessHours, 0, len(entries))

	for i, e := range entries {
		day := *e.DayOfWeek
		if day < 0 || day >= domain.DaysPerWeek {
			return nil, httperr.ErrValidation("invalid_day_of_week", fmt.Sprintf("business_hours[%d].day_of_week", i))
		}
		if seen[day] {
			return nil, httperr.ErrValidation("duplicate_day_of_week", fmt.Sprintf("business_hours[%d].day_of_week", i))
		}
		seen[day] = true

		bh := models.BusinessHours{
			DayOfWeek: day,
			IsOpen:    *e.IsOpen,
			OpenTime:  domain.ClosedSentinel,
			CloseTime: domain.ClosedSentinel,
		}

		if bh.IsOpen {
			openAt, err := wallclock.ParseTimeOfDay(*e.OpenTime)
			if err != nil {
				return nil, httperr.ErrValidation("invalid_date_or_time", fmt.Sprintf("business_hours[%d].open_time", i))
			}
			closeAt, err := wallclock.ParseTimeOfDay(*e.CloseTime)
			if err != nil {
				return nil, httperr.ErrValidation("invalid_date_or_time", fmt.Sprintf("business_hours[%d].close_time", i))
			}
			if openAt >= closeAt {
				return nil, httperr.ErrValidation("invalid_time_range", fmt.Sprintf("business_hours[%d].close_time", i))
			}
			bh.OpenTime = openAt
			bh.CloseTime = closeAt
		}

		week = append(week, bh)
	}

	return week, nil
}

// ======================================================
// DEFAULT WEEK
// ======================================================

type InstallDefaultWeek struct {
	set *SetBusinessHours
}

func NewInstallDefaultWeek(set *SetBusinessHours) *InstallDefaultWeek {
	return &InstallDefaultWeek{set: set}
}

// Execute installs Mon-Fri 09:00-18:00, Sat 10:00-16:00 and a closed Sunday.
func (uc *InstallDefaultWeek) Execute(ctx context.Context, actorID *uint) ([]models.BusinessHours, error) {
	if err := uc.set.replace(ctx, actorID, domain.DefaultWeek()); err != nil {
		return nil, err
	}
	return uc.set.repo.ListBusinessHours(ctx)
}
