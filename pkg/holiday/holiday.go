package holiday

import (
	"errors"
	"time"
)

var (
	ErrHolidayExists      = errors.New("holiday already exists")
	ErrHolidayNotFound    = errors.New("holiday not found")
	ErrImportNotAvailable = errors.New("google holiday import is not configured")
)

type Source string

const (
	Manual Source = "manual"
	Google Source = "google"
)

// Holiday is a non-working date. Date is midnight in the report location.
type Holiday struct {
	Date   time.Time
	Name   string
	Source Source
}
