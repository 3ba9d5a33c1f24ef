package dailylog

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/anywhereworks/worklogs/internal/event_bus"
	"github.com/anywhereworks/worklogs/pkg/calendar"
	"github.com/anywhereworks/worklogs/pkg/user"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Publisher hands generated daily records to a worklog store.
type Publisher interface {
	Publish(ctx context.Context, records []Record, generatedAt time.Time) (int, error)
}

type Service interface {
	Publisher
	List(ctx context.Context, filter Filter) (Page, error)
	SetHidden(ctx context.Context, ids []uuid.UUID, hidden bool) (int64, error)
	SetDevStatus(ctx context.Context, ids []uuid.UUID, status DevStatus) (int64, error)
	Update(ctx context.Context, id uuid.UUID, edit Edit) (Record, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

// Publish stores records locally. Only admins publish reports.
func (s *ServiceImpl) Publish(ctx context.Context, records []Record, generatedAt time.Time) (int, error) {
	if _, err := user.RequireAdmin(ctx); err != nil {
		return 0, err
	}
	for i := range records {
		if records[i].GeneratedAt.IsZero() {
			records[i].GeneratedAt = generatedAt
		}
	}
	stored, err := s.repo.Upsert(ctx, records)
	if err != nil {
		return 0, err
	}
	log.Infof("stored %d daily worklogs", stored)
	return stored, nil
}

// List returns stored records. Employees only ever see their own, non-hidden days.
func (s *ServiceImpl) List(ctx context.Context, filter Filter) (Page, error) {
	u, err := user.CurrentUser(ctx)
	if err != nil {
		return Page{}, err
	}
	if !u.IsAdmin() {
		filter.Developers = identities(u)
		filter.IncludeHidden = false
		if len(filter.Developers) == 0 {
			return Page{Records: []Record{}}, nil
		}
	}
	return s.repo.List(ctx, filter)
}

func (s *ServiceImpl) SetHidden(ctx context.Context, ids []uuid.UUID, hidden bool) (int64, error) {
	if _, err := user.RequireAdmin(ctx); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return s.repo.SetHidden(ctx, ids, hidden)
}

// SetDevStatus updates the developer review status. Employees may only update their own records.
func (s *ServiceImpl) SetDevStatus(ctx context.Context, ids []uuid.UUID, status DevStatus) (int64, error) {
	u, err := user.CurrentUser(ctx)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if !u.IsAdmin() {
		for _, id := range ids {
			if _, err := s.owned(ctx, u, id); err != nil {
				return 0, err
			}
		}
	}
	return s.repo.SetDevStatus(ctx, ids, status)
}

// Update replaces the tickets of a day. Hours are the ticket sum unless given explicitly;
// the status is recomputed against the record's own daily target.
func (s *ServiceImpl) Update(ctx context.Context, id uuid.UUID, edit Edit) (Record, error) {
	u, err := user.CurrentUser(ctx)
	if err != nil {
		return Record{}, err
	}
	existing, err := s.owned(ctx, u, id)
	if err != nil {
		return Record{}, err
	}

	tickets := edit.Tickets
	if tickets == nil {
		tickets = []TicketEntry{}
	}
	var hours float64
	if edit.HoursWorked != nil {
		hours = math.Max(0, *edit.HoursWorked)
	} else {
		for _, t := range tickets {
			hours += t.Hours
		}
	}

	return s.repo.Update(ctx, id, hours, statusFor(hours, existing.DailyTarget), tickets)
}

func (s *ServiceImpl) owned(ctx context.Context, u user.User, id uuid.UUID) (Record, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if !u.IsAdmin() && !u.Matches(rec.Developer) {
		return Record{}, fmt.Errorf("%w: worklog %s belongs to %s", user.ErrForbidden, id, rec.Developer)
	}
	return rec, nil
}

// SubscribeToHolidays keeps stored day types in line with the holiday calendar.
func (s *ServiceImpl) SubscribeToHolidays(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped(bus, event_bus.HolidayAdded, func(e event_bus.EventT[event_bus.HolidayChanged]) error {
		return s.reclassify(e.Context(), e.Data.Date, calendar.Holiday)
	})
	event_bus.SubscribeTyped(bus, event_bus.HolidayRemoved, func(e event_bus.EventT[event_bus.HolidayChanged]) error {
		return s.reclassify(e.Context(), e.Data.Date, calendar.Classify(e.Data.Date, nil))
	})
}

func (s *ServiceImpl) reclassify(ctx context.Context, date time.Time, dayType calendar.DayType) error {
	changed, err := s.repo.ReclassifyDate(ctx, date, dayType)
	if err != nil {
		return err
	}
	if changed > 0 {
		log.Infof("reclassified %d stored worklogs on %s as %s", changed, calendar.FormatDate(date), dayType)
	}
	return nil
}

func identities(u user.User) []string {
	ids := make([]string, 0, 2)
	for _, id := range []string{u.Email, u.Name} {
		if strings.TrimSpace(id) != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
