package dailylog

import (
	"context"
	"testing"
	"time"

	"github.com/anywhereworks/worklogs/pkg/calendar"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepository(t *testing.T) (context.Context, *RepositoryImpl) {
	return context.Background(), NewRepository(testDB.Pool(t), location)
}

func record(developer string, date time.Time, hours float64, project string) Record {
	tickets := []TicketEntry{}
	if project != "" {
		tickets = append(tickets, TicketEntry{TicketNo: "T-" + developer[:1], Project: project, Title: "Work", Hours: hours})
	}
	return Record{
		Id:          uuid.New(),
		Developer:   developer,
		Date:        date,
		HoursWorked: hours,
		DailyTarget: 6,
		Status:      statusFor(hours, 6),
		Tickets:     tickets,
		DayType:     calendar.Classify(date, nil),
		PeriodStart: day(2024, 6, 3),
		PeriodEnd:   day(2024, 6, 9),
		DevStatus:   NotComplete,
		GeneratedAt: time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestRepositoryImpl_Upsert(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	first := record("Anu", day(2024, 6, 5), 4, "Payroll")
	_, err := repo.Upsert(ctx, []Record{first})
	require.NoError(t, err)
	_, err = repo.SetDevStatus(ctx, []uuid.UUID{first.Id}, Completed)
	require.NoError(t, err)

	// when
	regenerated := record("Anu", day(2024, 6, 5), 7, "Payroll")
	_, err = repo.Upsert(ctx, []Record{regenerated})
	require.NoError(t, err)

	// then
	page, err := repo.List(ctx, Filter{})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	stored := page.Records[0]
	assert.Equal(t, first.Id, stored.Id)
	assert.Equal(t, 7.0, stored.HoursWorked)
	assert.Equal(t, StatusMet, stored.Status)
	assert.Equal(t, Completed, stored.DevStatus)
	assert.Equal(t, day(2024, 6, 5), stored.Date)
	assert.Equal(t, regenerated.Tickets, stored.Tickets)
}

func TestRepositoryImpl_List(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	hidden := record("Anu", day(2024, 6, 3), 2, "Payroll")
	hidden.Hidden = true
	_, err := repo.Upsert(ctx, []Record{
		record("Anu", day(2024, 6, 4), 6, "Payroll"),
		record("Anu", day(2024, 6, 5), 3, "Billing"),
		record("Binu", day(2024, 6, 6), 5, "Payroll"),
		record("Binu", day(2024, 6, 8), 1, ""),
		hidden,
	})
	require.NoError(t, err)

	t.Run("should exclude hidden by default", func(t *testing.T) {
		page, err := repo.List(ctx, Filter{})
		require.NoError(t, err)
		assert.Equal(t, 4, page.Total)

		page, err = repo.List(ctx, Filter{IncludeHidden: true})
		require.NoError(t, err)
		assert.Equal(t, 5, page.Total)
	})

	t.Run("should filter by developer case-insensitively and project", func(t *testing.T) {
		page, err := repo.List(ctx, Filter{Developers: []string{"anu"}, Project: "payroll"})

		require.NoError(t, err)
		require.Len(t, page.Records, 1)
		assert.Equal(t, day(2024, 6, 4), page.Records[0].Date)
	})

	t.Run("should filter by range and day type", func(t *testing.T) {
		from, to := day(2024, 6, 5), day(2024, 6, 9)

		page, err := repo.List(ctx, Filter{From: &from, To: &to, DayType: calendar.Weekend})

		require.NoError(t, err)
		require.Len(t, page.Records, 1)
		assert.Equal(t, "Binu", page.Records[0].Developer)
	})

	t.Run("should sort and paginate", func(t *testing.T) {
		page, err := repo.List(ctx, Filter{SortBy: "hours", Descending: true, Limit: 2, Offset: 1})

		require.NoError(t, err)
		assert.Equal(t, 4, page.Total)
		require.Len(t, page.Records, 2)
		assert.Equal(t, 5.0, page.Records[0].HoursWorked)
		assert.Equal(t, 3.0, page.Records[1].HoursWorked)
	})
}

func TestRepositoryImpl_Mutations(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	monday := record("Anu", day(2024, 6, 3), 2, "Payroll")
	tuesday := record("Anu", day(2024, 6, 4), 2, "Payroll")
	_, err := repo.Upsert(ctx, []Record{monday, tuesday})
	require.NoError(t, err)

	// when
	hiddenCount, err := repo.SetHidden(ctx, []uuid.UUID{monday.Id}, true)
	require.NoError(t, err)
	statusCount, err := repo.SetDevStatus(ctx, []uuid.UUID{monday.Id, tuesday.Id}, Completed)
	require.NoError(t, err)
	statusAgain, err := repo.SetDevStatus(ctx, []uuid.UUID{monday.Id, tuesday.Id}, Completed)
	require.NoError(t, err)
	reclassified, err := repo.ReclassifyDate(ctx, day(2024, 6, 4), calendar.Holiday)
	require.NoError(t, err)
	updated, err := repo.Update(ctx, tuesday.Id, 6, StatusMet, []TicketEntry{{TicketNo: "T-9", Project: "Payroll", Title: "Extra", Hours: 6}})
	require.NoError(t, err)

	// then
	assert.EqualValues(t, 1, hiddenCount)
	assert.EqualValues(t, 2, statusCount)
	assert.EqualValues(t, 0, statusAgain)
	assert.EqualValues(t, 1, reclassified)
	assert.Equal(t, calendar.Holiday, updated.DayType)
	assert.Equal(t, 6.0, updated.HoursWorked)
	assert.Equal(t, StatusMet, updated.Status)
	assert.Equal(t, "T-9", updated.Tickets[0].TicketNo)

	stored, err := repo.Get(ctx, monday.Id)
	require.NoError(t, err)
	assert.True(t, stored.Hidden)
	assert.Equal(t, Completed, stored.DevStatus)

	_, err = repo.Update(ctx, uuid.New(), 1, StatusNotMet, nil)
	assert.ErrorIs(t, err, ErrRecordNotFound)
	_, err = repo.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
