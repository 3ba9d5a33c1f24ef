package holiday

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	List(ctx context.Context, from, to time.Time) ([]Holiday, error)
	Get(ctx context.Context, date time.Time) (Holiday, error)
	// Upsert stores h and reports whether the date was new.
	Upsert(ctx context.Context, h Holiday) (bool, error)
	Delete(ctx context.Context, date time.Time) (bool, error)
}

type RepositoryImpl struct {
	db  *pgxpool.Pool
	loc *time.Location
}

func NewRepository(db *pgxpool.Pool, loc *time.Location) *RepositoryImpl {
	return &RepositoryImpl{db: db, loc: loc}
}

func (r *RepositoryImpl) List(ctx context.Context, from, to time.Time) ([]Holiday, error) {
	query := `SELECT date, name, source FROM holiday WHERE date BETWEEN $1 AND $2 ORDER BY date`
	rows, err := r.db.Query(ctx, query, dateOnly(from), dateOnly(to))
	if err != nil {
		err := fmt.Errorf("could not query holidays: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	holidays := make([]Holiday, 0)
	for rows.Next() {
		h, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

func (r *RepositoryImpl) Get(ctx context.Context, date time.Time) (Holiday, error) {
	row := r.db.QueryRow(ctx, `SELECT date, name, source FROM holiday WHERE date = $1`, dateOnly(date))
	h, err := r.scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Holiday{}, ErrHolidayNotFound
	}
	return h, err
}

func (r *RepositoryImpl) Upsert(ctx context.Context, h Holiday) (bool, error) {
	query := `INSERT INTO holiday (date, name, source) VALUES ($1, $2, $3)
			  ON CONFLICT (date) DO UPDATE SET name = EXCLUDED.name, source = EXCLUDED.source
			  RETURNING (xmax = 0)`
	var inserted bool
	err := r.db.QueryRow(ctx, query, dateOnly(h.Date), h.Name, string(h.Source)).Scan(&inserted)
	if err != nil {
		err := fmt.Errorf("could not store holiday: %w", err)
		log.Error(err)
		return false, err
	}
	return inserted, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, date time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM holiday WHERE date = $1`, dateOnly(date))
	if err != nil {
		err := fmt.Errorf("could not delete holiday: %w", err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *RepositoryImpl) scan(row pgx.Row) (Holiday, error) {
	var (
		date   time.Time
		h      Holiday
		source string
	)
	if err := row.Scan(&date, &h.Name, &source); err != nil {
		return Holiday{}, err
	}
	// DATE columns come back as UTC midnight
	h.Date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, r.loc)
	h.Source = Source(source)
	return h, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
