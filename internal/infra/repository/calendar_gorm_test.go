package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/db/dbtest"
	"github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func TestReplaceWeek(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewCalendarGormRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceWeek(ctx, calendar.DefaultWeek()))

	week, err := repo.ListBusinessHours(ctx)
	require.NoError(t, err)
	require.Len(t, week, 7)
	assert.Equal(t, 0, week[0].DayOfWeek)
	assert.Equal(t, "09:00", week[0].OpenTime.String())
	assert.False(t, week[6].IsOpen)

	require.NoError(t, repo.ReplaceWeek(ctx, []models.BusinessHours{
		{DayOfWeek: 2, IsOpen: true, OpenTime: tod("12:00"), CloseTime: tod("20:00")},
	}))

	week, err = repo.ListBusinessHours(ctx)
	require.NoError(t, err)
	require.Len(t, week, 1)

	monday, err := repo.GetBusinessHours(ctx, 0)
	require.NoError(t, err)
	assert.Nil(t, monday)
}

func TestReplaceWeekRollsBackOnFailure(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewCalendarGormRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceWeek(ctx, calendar.DefaultWeek()))

	// duplicate weekday trips the unique index halfway through
	err := repo.ReplaceWeek(ctx, []models.BusinessHours{
		{DayOfWeek: 1, IsOpen: true, OpenTime: tod("08:00"), CloseTime: tod("12:00")},
		{DayOfWeek: 1, IsOpen: true, OpenTime: tod("13:00"), CloseTime: tod("17:00")},
	})
	require.Error(t, err)

	week, err := repo.ListBusinessHours(ctx)
	require.NoError(t, err)
	assert.Len(t, week, 7)
}

func TestBlockedDates(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewCalendarGormRepository(db)
	ctx := context.Background()

	bd := &models.BlockedDate{Date: monday, Reason: "holiday"}
	require.NoError(t, repo.AddBlockedDate(ctx, bd))

	blocked, err := repo.IsDateBlocked(ctx, monday)
	require.NoError(t, err)
	assert.True(t, blocked)

	err = repo.AddBlockedDate(ctx, &models.BlockedDate{Date: monday})
	assert.True(t, httperr.IsBusiness(err, "date_already_blocked"), "got %v", err)

	list, err := repo.ListBlockedDates(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "holiday", list[0].Reason)

	removed, err := repo.RemoveBlockedDate(ctx, bd.ID)
	require.NoError(t, err)
	assert.Equal(t, monday.String(), removed.Date.String())

	_, err = repo.RemoveBlockedDate(ctx, bd.ID)
	assert.True(t, httperr.IsBusiness(err, "blocked_date_not_found"))

	blocked, err = repo.IsDateBlocked(ctx, monday)
	require.NoError(t, err)
	assert.False(t, blocked)
}
