package holiday

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anywhereworks/worklogs/internal/event_bus"
	"github.com/anywhereworks/worklogs/pkg/calendar"
	"github.com/anywhereworks/worklogs/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	List(ctx context.Context, from, to time.Time) ([]Holiday, error)
	Add(ctx context.Context, h Holiday) (Holiday, error)
	Remove(ctx context.Context, date time.Time) error
	// SetFor returns the stored holidays of the range as a calendar set.
	SetFor(ctx context.Context, from, to time.Time) (calendar.HolidaySet, error)
	// ImportFromGoogle stores the public holidays of the range and returns how many were new.
	ImportFromGoogle(ctx context.Context, from, to time.Time) (int, error)
}

type ServiceImpl struct {
	repo     Repository
	importer Importer
	eventBus *event_bus.EventBus
	loc      *time.Location
}

// NewService builds the holiday service. importer may be nil when no Google API key is configured.
func NewService(repo Repository, importer Importer, eventBus *event_bus.EventBus, loc *time.Location) *ServiceImpl {
	return &ServiceImpl{repo: repo, importer: importer, eventBus: eventBus, loc: loc}
}

func (s *ServiceImpl) List(ctx context.Context, from, to time.Time) ([]Holiday, error) {
	if from.After(to) {
		return nil, fmt.Errorf("%w: %s > %s", calendar.ErrInvalidRange, calendar.FormatDate(from), calendar.FormatDate(to))
	}
	return s.repo.List(ctx, from, to)
}

func (s *ServiceImpl) Add(ctx context.Context, h Holiday) (Holiday, error) {
	if _, err := user.RequireAdmin(ctx); err != nil {
		return Holiday{}, err
	}
	h.Date = calendar.Midnight(h.Date, s.loc)
	if h.Source == "" {
		h.Source = Manual
	}

	_, err := s.repo.Get(ctx, h.Date)
	switch {
	case err == nil:
		return Holiday{}, ErrHolidayExists
	case !errors.Is(err, ErrHolidayNotFound):
		return Holiday{}, fmt.Errorf("failed to check holiday %s: %w", calendar.FormatDate(h.Date), err)
	}
	inserted, err := s.repo.Upsert(ctx, h)
	if err != nil {
		return Holiday{}, err
	}
	if !inserted {
		// added concurrently between the lookup and the insert
		return Holiday{}, ErrHolidayExists
	}
	log.Infof("holiday %s (%s) added", calendar.FormatDate(h.Date), h.Name)
	s.publish(ctx, event_bus.HolidayAdded, h)
	return h, nil
}

func (s *ServiceImpl) Remove(ctx context.Context, date time.Time) error {
	if _, err := user.RequireAdmin(ctx); err != nil {
		return err
	}
	existing, err := s.repo.Get(ctx, date)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, date)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrHolidayNotFound
	}
	log.Infof("holiday %s removed", calendar.FormatDate(existing.Date))
	s.publish(ctx, event_bus.HolidayRemoved, existing)
	return nil
}

func (s *ServiceImpl) SetFor(ctx context.Context, from, to time.Time) (calendar.HolidaySet, error) {
	holidays, err := s.repo.List(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load holidays: %w", err)
	}
	set := calendar.NewHolidaySet()
	for _, h := range holidays {
		set.Add(calendar.FormatDate(h.Date))
	}
	return set, nil
}

func (s *ServiceImpl) ImportFromGoogle(ctx context.Context, from, to time.Time) (int, error) {
	if _, err := user.RequireAdmin(ctx); err != nil {
		return 0, err
	}
	if s.importer == nil {
		return 0, ErrImportNotAvailable
	}
	if from.After(to) {
		return 0, fmt.Errorf("%w: %s > %s", calendar.ErrInvalidRange, calendar.FormatDate(from), calendar.FormatDate(to))
	}

	holidays, err := s.importer.Holidays(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch Google holidays: %w", err)
	}

	added := 0
	for _, h := range holidays {
		inserted, err := s.repo.Upsert(ctx, h)
		if err != nil {
			return added, err
		}
		if inserted {
			added++
			s.publish(ctx, event_bus.HolidayAdded, h)
		}
	}
	log.Infof("imported %d Google holidays (%d new) for %s..%s", len(holidays), added,
		calendar.FormatDate(from), calendar.FormatDate(to))
	return added, nil
}

func (s *ServiceImpl) publish(ctx context.Context, eventType event_bus.EventType, h Holiday) {
	if s.eventBus == nil {
		return
	}
	err := s.eventBus.Publish(event_bus.NewEvent(ctx, eventType, event_bus.HolidayChanged{Date: h.Date, Name: h.Name}))
	if err != nil {
		// the holiday itself is stored; subscribers log their own failures
		log.Warnf("holiday event %s not fully processed: %v", eventType, err)
	}
}
