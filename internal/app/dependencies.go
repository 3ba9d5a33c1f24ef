package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/anywhereworks/worklogs/internal/auth"
	"github.com/anywhereworks/worklogs/internal/config"
	"github.com/anywhereworks/worklogs/internal/event_bus"
	"github.com/anywhereworks/worklogs/internal/utils"
	"github.com/anywhereworks/worklogs/pkg/dailylog"
	"github.com/anywhereworks/worklogs/pkg/holiday"
	"github.com/anywhereworks/worklogs/pkg/report"
	"github.com/anywhereworks/worklogs/pkg/ticket"
	"github.com/anywhereworks/worklogs/pkg/user"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	TokenValidator *auth.TokenValidator
	EventBus       *event_bus.EventBus
	Clock          utils.Clock

	UserHandler *user.Handler

	HolidayRepo    holiday.Repository
	HolidayService *holiday.ServiceImpl
	HolidayHandler *holiday.Handler

	DailyLogRepo    dailylog.Repository
	DailyLogService *dailylog.ServiceImpl
	DailyLogHandler *dailylog.Handler

	TicketClient  ticket.Client
	TicketMapper  *ticket.Mapper
	ReportService *report.ServiceImpl
	ReportHandler *report.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
// Without a database only the report pipeline is available; publishing then needs the remote worklog store.
func BuildDependencies(ctx context.Context, db *pgxpool.Pool, cfg config.Application) (*Dependencies, error) {
	if !cfg.Auth.Disabled && cfg.Auth.Secret == "" {
		return nil, errors.New("auth.secret is required unless auth.disabled is set")
	}

	loc := cfg.Report.Location()
	deps := &Dependencies{
		TokenValidator: auth.NewTokenValidator(cfg.Auth.Secret),
		EventBus:       event_bus.NewEventBus(),
		Clock:          utils.SystemClock{},
		UserHandler:    user.NewHandler(),
	}

	var (
		holidays  report.HolidaySource
		publisher dailylog.Publisher
	)

	if db != nil {
		var importer holiday.Importer
		googleImporter, err := holiday.NewGoogleImporter(ctx, cfg.Google, loc)
		switch {
		case err == nil:
			importer = googleImporter
		case errors.Is(err, holiday.ErrImportNotAvailable):
			log.Info("Google holiday import disabled, no API key configured")
		default:
			return nil, fmt.Errorf("failed to create Google holiday importer: %w", err)
		}

		deps.HolidayRepo = holiday.NewRepository(db, loc)
		deps.HolidayService = holiday.NewService(deps.HolidayRepo, importer, deps.EventBus, loc)
		deps.HolidayHandler = holiday.NewHandler(deps.HolidayService, loc)
		holidays = deps.HolidayService

		deps.DailyLogRepo = dailylog.NewRepository(db, loc)
		deps.DailyLogService = dailylog.NewService(deps.DailyLogRepo)
		deps.DailyLogService.SubscribeToHolidays(deps.EventBus)
		deps.DailyLogHandler = dailylog.NewHandler(deps.DailyLogService, deps.Clock, loc)
	}

	switch cfg.WorklogStore.Mode {
	case "remote":
		if cfg.WorklogStore.URL == "" {
			return nil, errors.New("worklogstore.url is required in remote mode")
		}
		publisher = dailylog.NewRemoteClient(cfg.WorklogStore)
		log.Infof("publishing worklogs to %s", cfg.WorklogStore.URL)
	case "local", "":
		if deps.DailyLogService != nil {
			publisher = deps.DailyLogService
		}
	default:
		return nil, fmt.Errorf("unknown worklogstore.mode %q", cfg.WorklogStore.Mode)
	}

	deps.TicketClient = ticket.NewClient(cfg.TicketStore)
	deps.TicketMapper = ticket.NewMapper(cfg.TicketStore, cfg.Report)
	deps.ReportService = report.NewService(deps.TicketClient, deps.TicketMapper, holidays, publisher, deps.Clock, report.Options{
		AcceptedStatuses: cfg.TicketStore.AcceptedStatuses,
		DailyTargetHours: cfg.Report.DailyTargetHours,
		Location:         loc,
	})
	deps.ReportHandler = report.NewHandler(deps.ReportService, loc,
		report.NewCsvRenderer(), report.NewXlsxRenderer(), report.NewPdfRenderer())

	return deps, nil
}
