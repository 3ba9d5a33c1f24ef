package holiday

import (
	"context"
	"fmt"
	"time"

	"github.com/anywhereworks/worklogs/internal/config"
	"github.com/anywhereworks/worklogs/pkg/calendar"
	log "github.com/sirupsen/logrus"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Importer lists public holidays from an external calendar.
type Importer interface {
	Holidays(ctx context.Context, from, to time.Time) ([]Holiday, error)
}

// GoogleImporter reads all-day events of a public Google holiday calendar with an API key.
type GoogleImporter struct {
	service    *gcal.Service
	calendarId string
	loc        *time.Location
}

func NewGoogleImporter(ctx context.Context, cfg config.Google, loc *time.Location, opts ...option.ClientOption) (*GoogleImporter, error) {
	if cfg.APIKey == "" {
		return nil, ErrImportNotAvailable
	}
	opts = append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	service, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Google Calendar client: %w", err)
	}
	return &GoogleImporter{service: service, calendarId: cfg.HolidayCalendarId, loc: loc}, nil
}

func (g *GoogleImporter) Holidays(ctx context.Context, from, to time.Time) ([]Holiday, error) {
	call := g.service.Events.List(g.calendarId).
		TimeMin(calendar.Midnight(from, g.loc).Format(time.RFC3339)).
		TimeMax(calendar.Midnight(to, g.loc).AddDate(0, 0, 1).Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime")

	holidays := make([]Holiday, 0)
	err := call.Pages(ctx, func(events *gcal.Events) error {
		for _, item := range events.Items {
			if item.Start == nil || item.Start.Date == "" {
				log.Debugf("skipping timed event %q in holiday calendar", item.Summary)
				continue
			}
			date, err := calendar.ParseDate(item.Start.Date, g.loc)
			if err != nil {
				log.Warnf("skipping holiday %q with date %q: %v", item.Summary, item.Start.Date, err)
				continue
			}
			holidays = append(holidays, Holiday{Date: date, Name: item.Summary, Source: Google})
		}
		return nil
	})
	if err != nil {
		log.Errorf("unable to list Google holidays: %v", err)
		return nil, err
	}
	return holidays, nil
}
