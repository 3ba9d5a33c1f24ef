package report

import (
	"context"
	"fmt"
	"time"

	"github.com/anywhereworks/worklogs/internal/utils"
	"github.com/anywhereworks/worklogs/pkg/calendar"
	"github.com/anywhereworks/worklogs/pkg/dailylog"
	"github.com/anywhereworks/worklogs/pkg/ticket"
	"github.com/anywhereworks/worklogs/pkg/user"
	"github.com/anywhereworks/worklogs/pkg/worklog"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// HolidaySource provides the stored holidays of a range.
type HolidaySource interface {
	SetFor(ctx context.Context, from, to time.Time) (calendar.HolidaySet, error)
}

type Service interface {
	Generate(ctx context.Context, req Request) (Report, error)
	// Publish hands the daily breakdown of rep to the worklog store.
	Publish(ctx context.Context, rep Report) (int, error)
	// Developers lists everyone with accepted tickets, in first-seen order.
	Developers(ctx context.Context) ([]string, error)
}

type ServiceImpl struct {
	tickets          ticket.Client
	mapper           *ticket.Mapper
	statuses         []string
	holidays         HolidaySource
	publisher        dailylog.Publisher
	clock            utils.Clock
	dailyTargetHours float64
	loc              *time.Location
}

type Options struct {
	AcceptedStatuses []string
	DailyTargetHours float64
	Location         *time.Location
}

func NewService(
	tickets ticket.Client,
	mapper *ticket.Mapper,
	holidays HolidaySource,
	publisher dailylog.Publisher,
	clock utils.Clock,
	opts Options,
) *ServiceImpl {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	return &ServiceImpl{
		tickets:          tickets,
		mapper:           mapper,
		statuses:         opts.AcceptedStatuses,
		holidays:         holidays,
		publisher:        publisher,
		clock:            clock,
		dailyTargetHours: opts.DailyTargetHours,
		loc:              loc,
	}
}

func (s *ServiceImpl) Generate(ctx context.Context, req Request) (Report, error) {
	if _, err := user.RequireAdmin(ctx); err != nil {
		return Report{}, err
	}

	start := calendar.Midnight(req.Start, s.loc)
	end := calendar.Midnight(req.End, s.loc)
	if start.After(end) {
		return Report{}, fmt.Errorf("%w: %s > %s", calendar.ErrInvalidRange, calendar.FormatDate(start), calendar.FormatDate(end))
	}
	if len(req.Developers) == 0 {
		return Report{}, ErrEmptySelection
	}

	var (
		tickets []ticket.Ticket
		stored  calendar.HolidaySet
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tickets, err = s.tickets.GetTickets(gctx, s.statuses)
		if err != nil {
			return fmt.Errorf("failed to fetch tickets: %w", err)
		}
		return nil
	})
	if req.IncludeStoredHolidays && s.holidays != nil {
		g.Go(func() error {
			var err error
			stored, err = s.holidays.SetFor(gctx, start, end)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	holidays := calendar.NewHolidaySet(req.ExtraHolidays...)
	holidays.Merge(stored)

	target := req.DailyTargetHours
	if target <= 0 {
		target = s.dailyTargetHours
	}
	if target <= 0 {
		target = worklog.DefaultDailyTargetHours
	}

	result, err := worklog.Run(worklog.Params{
		Start:            start,
		End:              end,
		Holidays:         holidays,
		Developers:       req.Developers,
		Items:            s.mapper.Map(tickets),
		DailyTargetHours: target,
	})
	if err != nil {
		return Report{}, err
	}

	log.Infof("generated worklog report %s..%s for %d developers (%d working days)",
		calendar.FormatDate(start), calendar.FormatDate(end), len(result.Summaries), result.WorkingDays)
	return Report{
		Start:            start,
		End:              end,
		DailyTargetHours: target,
		WorkingDays:      result.WorkingDays,
		Days:             result.Days,
		Summaries:        result.Summaries,
		GeneratedAt:      s.clock.Now(),
	}, nil
}

func (s *ServiceImpl) Publish(ctx context.Context, rep Report) (int, error) {
	if _, err := user.RequireAdmin(ctx); err != nil {
		return 0, err
	}
	if s.publisher == nil {
		return 0, ErrNoPublisher
	}
	records := dailylog.FromSummaries(rep.Summaries, rep.Start, rep.End, rep.DailyTargetHours, rep.GeneratedAt)
	if len(records) == 0 {
		return 0, nil
	}
	return s.publisher.Publish(ctx, records, rep.GeneratedAt)
}

func (s *ServiceImpl) Developers(ctx context.Context) ([]string, error) {
	if _, err := user.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	tickets, err := s.tickets.GetTickets(ctx, s.statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tickets: %w", err)
	}
	return ticket.Developers(s.mapper.Map(tickets)), nil
}
