package dailylog

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anywhereworks/worklogs/pkg/calendar"
	"github.com/google/uuid"
)

type RepositoryStub struct {
	mu      sync.RWMutex
	records []Record
}

func NewRepositoryStub(records ...Record) *RepositoryStub {
	return &RepositoryStub{records: slices.Clone(records)}
}

func (s *RepositoryStub) All() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records)
}

func (s *RepositoryStub) Upsert(_ context.Context, records []Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		replaced := false
		for i, existing := range s.records {
			if existing.Developer == rec.Developer && existing.Date.Equal(rec.Date) &&
				existing.PeriodStart.Equal(rec.PeriodStart) && existing.PeriodEnd.Equal(rec.PeriodEnd) {
				rec.Id = existing.Id
				rec.Hidden = existing.Hidden
				rec.DevStatus = existing.DevStatus
				s.records[i] = rec
				replaced = true
				break
			}
		}
		if !replaced {
			s.records = append(s.records, rec)
		}
	}
	return len(records), nil
}

func (s *RepositoryStub) Get(_ context.Context, id uuid.UUID) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if rec.Id == id {
			return rec, nil
		}
	}
	return Record{}, ErrRecordNotFound
}

func (s *RepositoryStub) List(_ context.Context, filter Filter) (Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]Record, 0)
	for _, rec := range s.records {
		if matches(rec, filter) {
			matched = append(matched, rec)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if filter.Descending {
			return matched[j].Date.Before(matched[i].Date)
		}
		return matched[i].Date.Before(matched[j].Date)
	})

	total := len(matched)
	if filter.Offset > 0 {
		matched = matched[min(filter.Offset, len(matched)):]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return Page{Records: matched, Total: total}, nil
}

func matches(rec Record, filter Filter) bool {
	if len(filter.Developers) > 0 && !slices.ContainsFunc(filter.Developers, func(d string) bool {
		return strings.EqualFold(strings.TrimSpace(d), rec.Developer)
	}) {
		return false
	}
	if filter.Project != "" && !slices.ContainsFunc(rec.Tickets, func(t TicketEntry) bool {
		return strings.EqualFold(t.Project, filter.Project)
	}) {
		return false
	}
	if filter.From != nil && rec.Date.Before(*filter.From) {
		return false
	}
	if filter.To != nil && rec.Date.After(*filter.To) {
		return false
	}
	if filter.DayType != "" && rec.DayType != filter.DayType {
		return false
	}
	if filter.DevStatus != "" && rec.DevStatus != filter.DevStatus {
		return false
	}
	return filter.IncludeHidden || !rec.Hidden
}

func (s *RepositoryStub) update(ids []uuid.UUID, apply func(*Record) bool) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var changed int64
	for i := range s.records {
		if slices.Contains(ids, s.records[i].Id) && apply(&s.records[i]) {
			changed++
		}
	}
	return changed
}

func (s *RepositoryStub) SetHidden(_ context.Context, ids []uuid.UUID, hidden bool) (int64, error) {
	return s.update(ids, func(r *Record) bool {
		r.Hidden = hidden
		return true
	}), nil
}

func (s *RepositoryStub) SetDevStatus(_ context.Context, ids []uuid.UUID, status DevStatus) (int64, error) {
	return s.update(ids, func(r *Record) bool {
		if r.DevStatus == status {
			return false
		}
		r.DevStatus = status
		return true
	}), nil
}

func (s *RepositoryStub) Update(_ context.Context, id uuid.UUID, hours float64, status string, tickets []TicketEntry) (Record, error) {
	var updated *Record
	s.update([]uuid.UUID{id}, func(r *Record) bool {
		r.HoursWorked = hours
		r.Status = status
		r.Tickets = tickets
		copied := *r
		updated = &copied
		return true
	})
	if updated == nil {
		return Record{}, ErrRecordNotFound
	}
	return *updated, nil
}

func (s *RepositoryStub) ReclassifyDate(_ context.Context, date time.Time, dayType calendar.DayType) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var changed int64
	key := calendar.FormatDate(date)
	for i := range s.records {
		if calendar.FormatDate(s.records[i].Date) == key && s.records[i].DayType != dayType {
			s.records[i].DayType = dayType
			changed++
		}
	}
	return changed, nil
}
