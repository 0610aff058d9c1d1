package calendar

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/wallclock"
)

type ListBlockedDates struct {
	repo domain.Repository
}

func NewListBlockedDates(repo domain.Repository) *ListBlockedDates {
	return &ListBlockedDates{repo: repo}
}

func (uc *ListBlockedDates) Execute(ctx context.Context) ([]models.BlockedDate, error) {
	return uc.repo.ListBlockedDates(ctx)
}

// ======================================================
// ADD
// ======================================================

type AddBlockedDateInput struct {
	Date   string
	Reason string
}

type AddBlockedDate struct {
	repo  domain.Repository
	cache SlotInvalidator
	audit *audit.Dispatcher
}

func NewAddBlockedDate(
	repo domain.Repository,
	cache SlotInvalidator,
	audit *audit.Dispatcher,
) *AddBlockedDate {
	return &AddBlockedDate{
		repo:  repo,
		cache: cache,
		audit: audit,
	}
}

func (uc *AddBlockedDate) Execute(
	ctx context.Context,
	actorID *uint,
	in AddBlockedDateInput,
) (*models.BlockedDate, error) {

	if strings.TrimSpace(in.Date) == "" {
		return nil, httperr.ErrValidation("missing_required_fields", "date")
	}
	date, err := wallclock.ParseDate(in.Date)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date_or_time", "date")
	}

	blocked, err := uc.repo.IsDateBlocked(ctx, date)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, httperr.ErrConflict("date_already_blocked")
	}

	// the unique index still catches a concurrent add
	bd := &models.BlockedDate{
		Date:   date,
		Reason: strings.TrimSpace(in.Reason),
	}
	if err := uc.repo.AddBlockedDate(ctx, bd); err != nil {
		return nil, err
	}

	uc.cache.InvalidateDate(ctx, date)

	uc.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   audit.ActionBlockedDateAdded,
		Entity:   audit.EntityBlockedDate,
		EntityID: &bd.ID,
		Metadata: map[string]any{
			"date":   date.String(),
			"reason": bd.Reason,
		},
	})

	return bd, nil
}

// ======================================================
// REMOVE
// ======================================================

type RemoveBlockedDate struct {
	repo  domain.Repository
	cache SlotInvalidator
	audit *audit.Dispatcher
}

func NewRemoveBlockedDate(
	repo domain.Repository,
	cache SlotInvalidator,
	audit *audit.Dispatcher,
) *RemoveBlockedDate {
	return &RemoveBlockedDate{
		repo:  repo,
		cache: cache,
		audit: audit,
	}
}

func (uc *RemoveBlockedDate) Execute(ctx context.Context, actorID *uint, id uint) error {
	bd, err := uc.repo.RemoveBlockedDate(ctx, id)
	if err != nil {
		return err
	}

	uc.cache.InvalidateDate(ctx, bd.Date)

	uc.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   audit.ActionBlockedDateRemoved,
		Entity:   audit.EntityBlockedDate,
		EntityID: &id,
		Metadata: map[string]any{
			"date": bd.Date.String(),
		},
	})
	return nil
}
