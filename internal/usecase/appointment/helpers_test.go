package appointment

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/db/dbtest"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
	"github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/wallclock"
)

// 2024-06-03 is a Monday; the default week opens it 09:00-18:00.
var monday = wallclock.MustParseDate("2024-06-03")

type fixture struct {
	db       *gorm.DB
	repo     *repository.AppointmentGormRepository
	calendar *repository.CalendarGormRepository
	cache    *memoryCache
	short    *models.Service // 30 min
	long     *models.Service // 60 min
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := dbtest.Open(t)
	f := &fixture{
		db:       db,
		repo:     repository.NewAppointmentGormRepository(db),
		calendar: repository.NewCalendarGormRepository(db),
		cache:    newMemoryCache(),
	}
	require.NoError(t, f.calendar.ReplaceWeek(context.Background(), calendar.DefaultWeek()))

	f.short = &models.Service{Name: "Haircut", DurationMin: 30, Price: decimal.NewFromInt(20), Active: true}
	f.long = &models.Service{Name: "Colouring", DurationMin: 60, Price: decimal.NewFromInt(45), Active: true}
	require.NoError(t, db.Create(f.short).Error)
	require.NoError(t, db.Create(f.long).Error)
	return f
}

func (f *fixture) create(t *testing.T, svc *models.Service, date wallclock.Date, start string) *models.Appointment {
	t.Helper()
	ap, err := NewCreateAppointment(f.repo, f.cache, nil).Execute(context.Background(), CreateAppointmentInput{
		ServiceID: svc.ID,
		Name:      "Elena",
		Phone:     "0888123456",
		Date:      date.String(),
		StartTime: start,
	})
	require.NoError(t, err)
	return ap
}

func (f *fixture) reload(t *testing.T, id uint) *models.Appointment {
	t.Helper()
	ap, err := f.repo.GetAppointment(context.Background(), id)
	require.NoError(t, err)
	return ap
}

type cachedDay struct {
	version string
	slots   domain.DaySlots
}

type memoryCache struct {
	mu          sync.Mutex
	entries     map[string]cachedDay
	versions    map[string]int
	invalidated []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		entries:  map[string]cachedDay{},
		versions: map[string]int{},
	}
}

func cacheKey(date wallclock.Date, duration int) string {
	return fmt.Sprintf("%s/%d", date, duration)
}

func (c *memoryCache) Get(_ context.Context, date wallclock.Date, duration int) (domain.DaySlots, string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	version := strconv.Itoa(c.versions[date.String()])
	e, ok := c.entries[cacheKey(date, duration)]
	if !ok || e.version != version {
		return domain.DaySlots{}, version, false
	}
	return e.slots, version, true
}

func (c *memoryCache) Set(_ context.Context, date wallclock.Date, duration int, version string, slots domain.DaySlots) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(date, duration)] = cachedDay{version: version, slots: slots}
}

func (c *memoryCache) InvalidateDate(_ context.Context, date wallclock.Date) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, date.String())
	c.versions[date.String()]++
}

// lockSpy counts how often a use case asks for date locks, which is where
// availability is re-checked.
type lockSpy struct {
	domain.Repository
	locks int
	dates [][]wallclock.Date
}

func (s *lockSpy) WithDateLock(
	ctx context.Context,
	date wallclock.Date,
	fn func(ctx context.Context, tx domain.Repository) error,
) error {
	s.locks++
	s.dates = append(s.dates, []wallclock.Date{date})
	return s.Repository.WithDateLock(ctx, date, fn)
}

func (s *lockSpy) WithDateLocks(
	ctx context.Context,
	dates []wallclock.Date,
	fn func(ctx context.Context, tx domain.Repository) error,
) error {
	s.locks++
	s.dates = append(s.dates, dates)
	return s.Repository.WithDateLocks(ctx, dates, fn)
}

// interleaved runs meanwhile right after the use case's first unlocked
// read, the way a concurrent request would commit between read and write.
type interleaved struct {
	domain.Repository
	meanwhile func()
}

func (r *interleaved) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	ap, err := r.Repository.GetAppointment(ctx, id)
	if r.meanwhile != nil {
		run := r.meanwhile
		r.meanwhile = nil
		run()
	}
	return ap, err
}

func ptr[T any](v T) *T {
	return &v
}
