package holiday

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/anywhereworks/worklogs/pkg/calendar"
)

type RepositoryStub struct {
	mu       sync.RWMutex
	holidays map[string]Holiday
	err      error
}

func NewRepositoryStub(holidays ...Holiday) *RepositoryStub {
	stub := &RepositoryStub{holidays: make(map[string]Holiday)}
	for _, h := range holidays {
		stub.holidays[calendar.FormatDate(h.Date)] = h
	}
	return stub
}

func (s *RepositoryStub) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *RepositoryStub) List(_ context.Context, from, to time.Time) ([]Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	fromKey, toKey := calendar.FormatDate(from), calendar.FormatDate(to)
	result := make([]Holiday, 0)
	for key, h := range s.holidays {
		if key >= fromKey && key <= toKey {
			result = append(result, h)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (s *RepositoryStub) Get(_ context.Context, date time.Time) (Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return Holiday{}, s.err
	}
	h, ok := s.holidays[calendar.FormatDate(date)]
	if !ok {
		return Holiday{}, ErrHolidayNotFound
	}
	return h, nil
}

func (s *RepositoryStub) Upsert(_ context.Context, h Holiday) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	key := calendar.FormatDate(h.Date)
	_, exists := s.holidays[key]
	s.holidays[key] = h
	return !exists, nil
}

func (s *RepositoryStub) Delete(_ context.Context, date time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	key := calendar.FormatDate(date)
	_, exists := s.holidays[key]
	delete(s.holidays, key)
	return exists, nil
}
