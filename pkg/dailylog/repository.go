package dailylog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anywhereworks/worklogs/pkg/calendar"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	// Upsert stores records; a record replaces the one of the same developer, date and report period.
	Upsert(ctx context.Context, records []Record) (int, error)
	Get(ctx context.Context, id uuid.UUID) (Record, error)
	List(ctx context.Context, filter Filter) (Page, error)
	SetHidden(ctx context.Context, ids []uuid.UUID, hidden bool) (int64, error)
	SetDevStatus(ctx context.Context, ids []uuid.UUID, status DevStatus) (int64, error)
	Update(ctx context.Context, id uuid.UUID, hours float64, status string, tickets []TicketEntry) (Record, error)
	// ReclassifyDate changes the day type of every stored record of date.
	ReclassifyDate(ctx context.Context, date time.Time, dayType calendar.DayType) (int64, error)
}

type RepositoryImpl struct {
	db  *pgxpool.Pool
	loc *time.Location
}

func NewRepository(db *pgxpool.Pool, loc *time.Location) *RepositoryImpl {
	return &RepositoryImpl{db: db, loc: loc}
}

const recordColumns = `id, developer, work_date, hours_worked, daily_target, status, is_online, tickets, day_type,
	period_start, period_end, hidden, dev_status, generated_at`

var sortColumns = map[string]string{
	"":          "work_date",
	"date":      "work_date",
	"developer": "lower(developer)",
	"hours":     "hours_worked",
}

func (r *RepositoryImpl) Upsert(ctx context.Context, records []Record) (int, error) {
	query := `INSERT INTO daily_worklog (` + recordColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			  ON CONFLICT (developer, work_date, period_start, period_end) DO UPDATE SET
			      hours_worked = EXCLUDED.hours_worked,
			      daily_target = EXCLUDED.daily_target,
			      status = EXCLUDED.status,
			      is_online = EXCLUDED.is_online,
			      tickets = EXCLUDED.tickets,
			      day_type = EXCLUDED.day_type,
			      generated_at = EXCLUDED.generated_at`

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for _, rec := range records {
			_, err := tx.Exec(ctx, query,
				rec.Id,
				rec.Developer,
				dateOnly(rec.Date),
				rec.HoursWorked,
				rec.DailyTarget,
				rec.Status,
				rec.IsOnline,
				nonNil(rec.Tickets),
				string(rec.DayType),
				dateOnly(rec.PeriodStart),
				dateOnly(rec.PeriodEnd),
				rec.Hidden,
				string(rec.DevStatus),
				rec.GeneratedAt,
			)
			if err != nil {
				return fmt.Errorf("could not store worklog of %s on %s: %w", rec.Developer, calendar.FormatDate(rec.Date), err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error(err)
		return 0, err
	}
	return len(records), nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	row := r.db.QueryRow(ctx, `SELECT `+recordColumns+` FROM daily_worklog WHERE id = $1`, id)
	rec, err := r.scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrRecordNotFound
	}
	return rec, err
}

func (r *RepositoryImpl) List(ctx context.Context, filter Filter) (Page, error) {
	where, args := whereClause(filter)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM daily_worklog`+where, args...).Scan(&total); err != nil {
		err := fmt.Errorf("could not count worklogs: %w", err)
		log.Error(err)
		return Page{}, err
	}

	sortColumn, ok := sortColumns[filter.SortBy]
	if !ok {
		sortColumn = sortColumns[""]
	}
	direction := "ASC"
	if filter.Descending {
		direction = "DESC"
	}
	query := fmt.Sprintf(`SELECT %s FROM daily_worklog%s ORDER BY %s %s, lower(developer), work_date`,
		recordColumns, where, sortColumn, direction)
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query worklogs: %w", err)
		log.Error(err)
		return Page{}, err
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		rec, err := r.scan(rows)
		if err != nil {
			return Page{}, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return Page{}, err
	}
	return Page{Records: records, Total: total}, nil
}

func whereClause(filter Filter) (string, []any) {
	var (
		conditions []string
		args       []any
	)
	add := func(condition string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if len(filter.Developers) > 0 {
		identities := make([]string, 0, len(filter.Developers))
		for _, d := range filter.Developers {
			if d = strings.TrimSpace(d); d != "" {
				identities = append(identities, strings.ToLower(d))
			}
		}
		add("lower(developer) = ANY($%d)", identities)
	}
	if filter.Project != "" {
		add("EXISTS (SELECT 1 FROM jsonb_array_elements(tickets) t WHERE lower(t->>'project') = lower($%d))", filter.Project)
	}
	if filter.From != nil {
		add("work_date >= $%d", dateOnly(*filter.From))
	}
	if filter.To != nil {
		add("work_date <= $%d", dateOnly(*filter.To))
	}
	if filter.DayType != "" {
		add("day_type = $%d", string(filter.DayType))
	}
	if filter.DevStatus != "" {
		add("dev_status = $%d", string(filter.DevStatus))
	}
	if !filter.IncludeHidden {
		conditions = append(conditions, "NOT hidden")
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *RepositoryImpl) SetHidden(ctx context.Context, ids []uuid.UUID, hidden bool) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE daily_worklog SET hidden = $1 WHERE id = ANY($2)`, hidden, ids)
	if err != nil {
		err := fmt.Errorf("could not update hidden flag: %w", err)
		log.Error(err)
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *RepositoryImpl) SetDevStatus(ctx context.Context, ids []uuid.UUID, status DevStatus) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE daily_worklog SET dev_status = $1 WHERE id = ANY($2) AND dev_status <> $1`,
		string(status), ids)
	if err != nil {
		err := fmt.Errorf("could not update dev status: %w", err)
		log.Error(err)
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *RepositoryImpl) Update(ctx context.Context, id uuid.UUID, hours float64, status string, tickets []TicketEntry) (Record, error) {
	query := `UPDATE daily_worklog SET hours_worked = $2, status = $3, tickets = $4 WHERE id = $1
			  RETURNING ` + recordColumns
	rec, err := r.scan(r.db.QueryRow(ctx, query, id, hours, status, nonNil(tickets)))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrRecordNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not update worklog %s: %w", id, err)
		log.Error(err)
		return Record{}, err
	}
	return rec, nil
}

func (r *RepositoryImpl) ReclassifyDate(ctx context.Context, date time.Time, dayType calendar.DayType) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE daily_worklog SET day_type = $2 WHERE work_date = $1 AND day_type <> $2`,
		dateOnly(date), string(dayType))
	if err != nil {
		err := fmt.Errorf("could not reclassify %s: %w", calendar.FormatDate(date), err)
		log.Error(err)
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *RepositoryImpl) scan(row pgx.Row) (Record, error) {
	var (
		rec                Record
		date, start, end   time.Time
		dayType, devStatus string
	)
	err := row.Scan(
		&rec.Id,
		&rec.Developer,
		&date,
		&rec.HoursWorked,
		&rec.DailyTarget,
		&rec.Status,
		&rec.IsOnline,
		&rec.Tickets,
		&dayType,
		&start,
		&end,
		&rec.Hidden,
		&devStatus,
		&rec.GeneratedAt,
	)
	if err != nil {
		return Record{}, err
	}
	rec.Date = r.inLocation(date)
	rec.PeriodStart = r.inLocation(start)
	rec.PeriodEnd = r.inLocation(end)
	rec.DayType = calendar.DayType(dayType)
	rec.DevStatus = DevStatus(devStatus)
	if rec.Tickets == nil {
		rec.Tickets = []TicketEntry{}
	}
	return rec, nil
}

func (r *RepositoryImpl) inLocation(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, r.loc)
}

func nonNil(tickets []TicketEntry) []TicketEntry {
	if tickets == nil {
		return []TicketEntry{}
	}
	return tickets
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
