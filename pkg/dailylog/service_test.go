package dailylog

import (
	"context"
	"testing"
	"time"

	"github.com/anywhereworks/worklogs/internal/event_bus"
	"github.com/anywhereworks/worklogs/pkg/calendar"
	"github.com/anywhereworks/worklogs/pkg/user"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	adminCtx = user.WithUser(context.Background(), user.User{Email: "anu@anywhereworks.in", Name: "Anu", Role: user.Admin})
	binuCtx  = user.WithUser(context.Background(), user.User{Email: "binu@anywhereworks.in", Name: "Binu", Role: user.Employee})
)

func TestServiceImpl_Publish(t *testing.T) {
	t.Run("should store records for admins", func(t *testing.T) {
		repo := NewRepositoryStub()
		service := NewService(repo)
		records := FromSummaries(weekReport(t), day(2024, 6, 3), day(2024, 6, 9), 6, time.Time{})
		generatedAt := time.Date(2024, 6, 10, 9, 0, 0, 0, location)

		stored, err := service.Publish(adminCtx, records, generatedAt)

		require.NoError(t, err)
		assert.Equal(t, 7, stored)
		assert.Len(t, repo.All(), 7)
		assert.Equal(t, generatedAt, repo.All()[0].GeneratedAt)
	})

	t.Run("should refuse employees", func(t *testing.T) {
		_, err := NewService(NewRepositoryStub()).Publish(binuCtx, nil, time.Now())

		assert.ErrorIs(t, err, user.ErrForbidden)
	})
}

func TestServiceImpl_List(t *testing.T) {
	// given
	own := record("binu@anywhereworks.in", day(2024, 6, 4), 6, "Payroll")
	ownByName := record("Binu", day(2024, 6, 5), 2, "Payroll")
	ownHidden := record("binu@anywhereworks.in", day(2024, 6, 6), 2, "Payroll")
	ownHidden.Hidden = true
	other := record("anu@anywhereworks.in", day(2024, 6, 4), 6, "Payroll")
	service := NewService(NewRepositoryStub(own, ownByName, ownHidden, other))

	t.Run("should restrict employees to their own visible records", func(t *testing.T) {
		page, err := service.List(binuCtx, Filter{Developers: []string{"anu@anywhereworks.in"}, IncludeHidden: true})

		require.NoError(t, err)
		assert.Equal(t, 2, page.Total)
		for _, rec := range page.Records {
			assert.NotEqual(t, "anu@anywhereworks.in", rec.Developer)
			assert.False(t, rec.Hidden)
		}
	})

	t.Run("should let admins see everything", func(t *testing.T) {
		page, err := service.List(adminCtx, Filter{IncludeHidden: true})

		require.NoError(t, err)
		assert.Equal(t, 4, page.Total)
	})

	t.Run("should require a user", func(t *testing.T) {
		_, err := service.List(context.Background(), Filter{})

		assert.ErrorIs(t, err, user.ErrNoUser)
	})
}

func TestServiceImpl_SetDevStatus(t *testing.T) {
	own := record("binu@anywhereworks.in", day(2024, 6, 4), 6, "Payroll")
	other := record("anu@anywhereworks.in", day(2024, 6, 4), 6, "Payroll")

	t.Run("should let employees complete their own records", func(t *testing.T) {
		service := NewService(NewRepositoryStub(own, other))

		modified, err := service.SetDevStatus(binuCtx, []uuid.UUID{own.Id}, Completed)

		require.NoError(t, err)
		assert.EqualValues(t, 1, modified)
	})

	t.Run("should refuse records of others", func(t *testing.T) {
		service := NewService(NewRepositoryStub(own, other))

		_, err := service.SetDevStatus(binuCtx, []uuid.UUID{own.Id, other.Id}, Completed)

		assert.ErrorIs(t, err, user.ErrForbidden)
	})
}

func TestServiceImpl_SetHidden(t *testing.T) {
	rec := record("binu@anywhereworks.in", day(2024, 6, 4), 6, "Payroll")
	repo := NewRepositoryStub(rec)
	service := NewService(repo)

	_, err := service.SetHidden(binuCtx, []uuid.UUID{rec.Id}, true)
	assert.ErrorIs(t, err, user.ErrForbidden)

	modified, err := service.SetHidden(adminCtx, []uuid.UUID{rec.Id}, true)
	require.NoError(t, err)
	assert.EqualValues(t, 1, modified)
	assert.True(t, repo.All()[0].Hidden)
}

func TestServiceImpl_Update(t *testing.T) {
	t.Run("should recompute hours and status from tickets", func(t *testing.T) {
		// given
		rec := record("binu@anywhereworks.in", day(2024, 6, 4), 2, "Payroll")
		service := NewService(NewRepositoryStub(rec))
		tickets := []TicketEntry{
			{TicketNo: "T-1", Project: "Payroll", Title: "Fix export", Hours: 2},
			{TicketNo: "T-2", Project: "Payroll", Title: "Review", Hours: 4.5},
		}

		// when
		updated, err := service.Update(binuCtx, rec.Id, Edit{Tickets: tickets})

		// then
		require.NoError(t, err)
		assert.Equal(t, 6.5, updated.HoursWorked)
		assert.Equal(t, StatusMet, updated.Status)
		assert.Len(t, updated.Tickets, 2)
	})

	t.Run("should honor explicit hours", func(t *testing.T) {
		rec := record("binu@anywhereworks.in", day(2024, 6, 4), 6, "Payroll")
		service := NewService(NewRepositoryStub(rec))
		hours := 3.0

		updated, err := service.Update(adminCtx, rec.Id, Edit{HoursWorked: &hours})

		require.NoError(t, err)
		assert.Equal(t, 3.0, updated.HoursWorked)
		assert.Equal(t, StatusNotMet, updated.Status)
		assert.NotNil(t, updated.Tickets)
	})

	t.Run("should refuse edits of other developers", func(t *testing.T) {
		rec := record("anu@anywhereworks.in", day(2024, 6, 4), 6, "Payroll")
		service := NewService(NewRepositoryStub(rec))

		_, err := service.Update(binuCtx, rec.Id, Edit{})

		assert.ErrorIs(t, err, user.ErrForbidden)
	})

	t.Run("should report unknown records", func(t *testing.T) {
		_, err := NewService(NewRepositoryStub()).Update(adminCtx, uuid.New(), Edit{})

		assert.ErrorIs(t, err, ErrRecordNotFound)
	})
}

func TestServiceImpl_SubscribeToHolidays(t *testing.T) {
	// given
	wednesday := record("binu@anywhereworks.in", day(2024, 6, 5), 2, "Payroll")
	saturday := record("binu@anywhereworks.in", day(2024, 6, 8), 2, "Payroll")
	saturday.DayType = calendar.Holiday
	repo := NewRepositoryStub(wednesday, saturday)
	bus := event_bus.NewEventBus()
	NewService(repo).SubscribeToHolidays(bus)

	// when
	require.NoError(t, bus.Publish(event_bus.NewEvent(context.Background(), event_bus.HolidayAdded,
		event_bus.HolidayChanged{Date: day(2024, 6, 5), Name: "Bakrid"})))
	require.NoError(t, bus.Publish(event_bus.NewEvent(context.Background(), event_bus.HolidayRemoved,
		event_bus.HolidayChanged{Date: day(2024, 6, 8)})))

	// then
	records := repo.All()
	assert.Equal(t, calendar.Holiday, records[0].DayType)
	assert.Equal(t, calendar.Weekend, records[1].DayType)
}
