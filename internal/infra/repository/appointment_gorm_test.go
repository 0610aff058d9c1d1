package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/db/dbtest"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/wallclock"
)

var monday = wallclock.MustParseDate("2024-06-03")

func tod(s string) wallclock.TimeOfDay {
	return wallclock.MustParseTimeOfDay(s)
}

func createService(t *testing.T, db *gorm.DB, duration int, price int64) *models.Service {
	t.Helper()
	svc := &models.Service{Name: "Haircut", DurationMin: duration, Price: decimal.NewFromInt(price), Active: true}
	require.NoError(t, db.Create(svc).Error)
	return svc
}

func newAppointment(svc *models.Service, date wallclock.Date, start string, status domain.Status) *models.Appointment {
	st := tod(start)
	return &models.Appointment{
		ServiceID: svc.ID,
		Name:      "Maria",
		Phone:     "+359 88 123 4567",
		Date:      date,
		StartTime: st,
		EndTime:   st.Add(svc.DurationMin),
		Status:    string(status),
		Price:     decimal.NewNullDecimal(svc.Price),
	}
}

func TestCreateAppointmentTranslatesOverlapGuard(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()
	svc := createService(t, db, 60, 30)

	require.NoError(t, repo.CreateAppointment(ctx, newAppointment(svc, monday, "10:00", domain.StatusPending)))

	err := repo.CreateAppointment(ctx, newAppointment(svc, monday, "10:30", domain.StatusConfirmed))
	assert.True(t, httperr.IsKind(err, httperr.KindSlotUnavailable), "got %v", err)

	var count int64
	require.NoError(t, db.Model(&models.Appointment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestListBookedIntervalsIgnoresCancelled(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()
	svc := createService(t, db, 30, 20)

	require.NoError(t, repo.CreateAppointment(ctx, newAppointment(svc, monday, "11:00", domain.StatusConfirmed)))
	require.NoError(t, repo.CreateAppointment(ctx, newAppointment(svc, monday, "09:00", domain.StatusPending)))
	require.NoError(t, repo.CreateAppointment(ctx, newAppointment(svc, monday, "10:00", domain.StatusCancelled)))
	require.NoError(t, repo.CreateAppointment(ctx, newAppointment(svc, monday.AddDays(1), "10:00", domain.StatusPending)))

	got, err := repo.ListBookedIntervals(ctx, monday)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "09:00", got[0].Start.String())
	assert.Equal(t, "11:00", got[1].Start.String())
	assert.Equal(t, "11:30", got[1].End.String())
}

func TestListAppointmentsOrderAndFilters(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()
	svc := createService(t, db, 30, 20)

	tuesday := monday.AddDays(1)
	require.NoError(t, repo.CreateAppointment(ctx, newAppointment(svc, tuesday, "09:00", domain.StatusPending)))
	require.NoError(t, repo.CreateAppointment(ctx, newAppointment(svc, monday, "15:00", domain.StatusPending)))
	require.NoError(t, repo.CreateAppointment(ctx, newAppointment(svc, monday, "09:30", domain.StatusPending)))

	all, err := repo.ListAppointments(ctx, domain.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "09:30", all[0].StartTime.String())
	assert.Equal(t, "15:00", all[1].StartTime.String())
	assert.Equal(t, tuesday.String(), all[2].Date.String())
	assert.Equal(t, "Haircut", all[0].Service.Name)

	onlyMonday, err := repo.ListAppointments(ctx, domain.ListFilter{Date: &monday})
	require.NoError(t, err)
	assert.Len(t, onlyMonday, 2)

	fromTuesday, err := repo.ListAppointments(ctx, domain.ListFilter{From: &tuesday})
	require.NoError(t, err)
	assert.Len(t, fromTuesday, 1)
}

func TestGetUpdateDeleteNotFound(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()

	_, err := repo.GetAppointment(ctx, 404)
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))

	_, err = repo.GetService(ctx, 404)
	assert.True(t, httperr.IsBusiness(err, "service_not_found"))

	err = repo.UpdateAppointmentFields(ctx, 404, map[string]any{"status": "pending"})
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))

	_, err = repo.LockAppointment(ctx, 404)
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))

	err = repo.DeleteAppointment(ctx, 404)
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))
}

func TestUpdateAppointmentFieldsTouchesOnlyNamedColumns(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()
	svc := createService(t, db, 30, 20)

	ap := newAppointment(svc, monday, "10:00", domain.StatusPending)
	ap.Message = "window seat"
	require.NoError(t, repo.CreateAppointment(ctx, ap))

	// someone else moves the row after our copy was taken
	require.NoError(t, repo.UpdateAppointmentFields(ctx, ap.ID, map[string]any{
		"start_time": tod("15:00"),
		"end_time":   tod("15:30"),
	}))

	require.NoError(t, repo.UpdateAppointmentFields(ctx, ap.ID, map[string]any{
		"message": "",
		"status":  string(domain.StatusConfirmed),
	}))

	got, err := repo.GetAppointment(ctx, ap.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Message)
	assert.Equal(t, string(domain.StatusConfirmed), got.Status)
	assert.Equal(t, "15:00", got.StartTime.String())
	assert.Equal(t, "15:30", got.EndTime.String())
}

func TestUpdateAppointmentFieldsHitsOverlapGuard(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()
	svc := createService(t, db, 30, 20)

	first := newAppointment(svc, monday, "10:00", domain.StatusPending)
	second := newAppointment(svc, monday, "11:00", domain.StatusPending)
	require.NoError(t, repo.CreateAppointment(ctx, first))
	require.NoError(t, repo.CreateAppointment(ctx, second))

	err := repo.UpdateAppointmentFields(ctx, second.ID, map[string]any{
		"start_time": tod("10:00"),
		"end_time":   tod("10:30"),
	})
	assert.True(t, httperr.IsKind(err, httperr.KindSlotUnavailable))

	// notes on a row whose range is unchanged never trip the guard
	require.NoError(t, repo.UpdateAppointmentFields(ctx, first.ID, map[string]any{"barber_notes": "regular"}))
}

func TestWithDateLocksRunsOneTransaction(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()
	svc := createService(t, db, 30, 20)

	tuesday := monday.AddDays(1)
	err := repo.WithDateLocks(ctx, []wallclock.Date{tuesday, monday, tuesday}, func(ctx context.Context, tx domain.Repository) error {
		require.NoError(t, tx.CreateAppointment(ctx, newAppointment(svc, monday, "10:00", domain.StatusPending)))
		return httperr.ErrSlotUnavailable()
	})
	assert.True(t, httperr.IsKind(err, httperr.KindSlotUnavailable))

	list, err := repo.ListAppointments(ctx, domain.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, list, "the insert rolls back with the failed transaction")
}

func TestAppointmentStats(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()

	empty, err := repo.AppointmentStats(ctx, domain.StatsFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.Total)
	assert.Len(t, empty.ByStatus, 4)
	for _, st := range domain.AllStatuses {
		assert.Equal(t, int64(0), empty.ByStatus[st])
	}
	assert.True(t, empty.TotalRevenue.IsZero())
	assert.Zero(t, empty.AverageRating)

	svc := createService(t, db, 30, 25)
	five, four := 5, 4

	done := newAppointment(svc, monday, "09:00", domain.StatusCompleted)
	done.ClientRating = &five
	require.NoError(t, repo.CreateAppointment(ctx, done))

	doneToo := newAppointment(svc, monday, "10:00", domain.StatusCompleted)
	doneToo.ClientRating = &four
	require.NoError(t, repo.CreateAppointment(ctx, doneToo))

	require.NoError(t, repo.CreateAppointment(ctx, newAppointment(svc, monday, "11:00", domain.StatusPending)))
	require.NoError(t, repo.CreateAppointment(ctx, newAppointment(svc, monday.AddDays(7), "11:00", domain.StatusCompleted)))

	all, err := repo.AppointmentStats(ctx, domain.StatsFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), all.Total)
	assert.Equal(t, int64(3), all.ByStatus[domain.StatusCompleted])
	assert.Equal(t, int64(1), all.ByStatus[domain.StatusPending])
	assert.Equal(t, int64(0), all.ByStatus[domain.StatusCancelled])
	assert.True(t, decimal.NewFromInt(75).Equal(all.TotalRevenue), all.TotalRevenue.String())
	assert.InDelta(t, 4.5, all.AverageRating, 0.0001)

	to := monday
	week, err := repo.AppointmentStats(ctx, domain.StatsFilter{From: &monday, To: &to})
	require.NoError(t, err)
	assert.Equal(t, int64(3), week.Total)
	assert.True(t, decimal.NewFromInt(50).Equal(week.TotalRevenue), week.TotalRevenue.String())
}
