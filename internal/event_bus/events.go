package event_bus

import "time"

const (
	HolidayAdded   EventType = "holiday.added"
	HolidayRemoved EventType = "holiday.removed"
)

// HolidayChanged is the payload of both holiday events.
type HolidayChanged struct {
	Date time.Time
	Name string
}
