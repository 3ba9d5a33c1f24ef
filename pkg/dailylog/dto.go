package dailylog

import (
	"fmt"
	"time"

	"github.com/anywhereworks/worklogs/pkg/calendar"
	"github.com/google/uuid"
)

const (
	hideBlock   = "block"
	hideUnblock = "unblock"
)

type ReportPeriodDTO struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// RecordDTO is the wire shape shared with the remote worklog store and the dashboard.
type RecordDTO struct {
	Id           string          `json:"_id,omitempty"`
	Developer    string          `json:"developer"`
	Date         string          `json:"date"`
	HoursWorked  float64         `json:"hoursWorked"`
	DailyTarget  float64         `json:"dailyTarget"`
	Status       string          `json:"status"`
	IsOnline     bool            `json:"isOnline"`
	Tickets      []TicketEntry   `json:"tickets"`
	DayType      string          `json:"dayType"`
	ReportPeriod ReportPeriodDTO `json:"reportPeriod"`
	Hide         string          `json:"hide"`
	DevStatus    string          `json:"devstatus"`
}

type UploadDTO struct {
	DailyBreakdowns []RecordDTO `json:"dailyBreakdowns"`
	GeneratedAt     time.Time   `json:"generatedAt"`
}

func ToDTO(r Record) RecordDTO {
	hide := hideUnblock
	if r.Hidden {
		hide = hideBlock
	}
	tickets := r.Tickets
	if tickets == nil {
		tickets = []TicketEntry{}
	}
	dto := RecordDTO{
		Developer:   r.Developer,
		Date:        calendar.FormatDate(r.Date),
		HoursWorked: r.HoursWorked,
		DailyTarget: r.DailyTarget,
		Status:      r.Status,
		IsOnline:    r.IsOnline,
		Tickets:     tickets,
		DayType:     string(r.DayType),
		ReportPeriod: ReportPeriodDTO{
			StartDate: calendar.FormatDate(r.PeriodStart),
			EndDate:   calendar.FormatDate(r.PeriodEnd),
		},
		Hide:      hide,
		DevStatus: string(r.DevStatus),
	}
	if r.Id != uuid.Nil {
		dto.Id = r.Id.String()
	}
	return dto
}

func FromDTO(dto RecordDTO, generatedAt time.Time, loc *time.Location) (Record, error) {
	date, err := calendar.ParseDate(dto.Date, loc)
	if err != nil {
		return Record{}, err
	}
	start, err := calendar.ParseDate(dto.ReportPeriod.StartDate, loc)
	if err != nil {
		return Record{}, fmt.Errorf("report period: %w", err)
	}
	end, err := calendar.ParseDate(dto.ReportPeriod.EndDate, loc)
	if err != nil {
		return Record{}, fmt.Errorf("report period: %w", err)
	}
	if dto.Developer == "" {
		return Record{}, fmt.Errorf("developer is required")
	}

	dayType := calendar.DayType(dto.DayType)
	switch dayType {
	case calendar.Working, calendar.Weekend, calendar.Holiday:
	default:
		return Record{}, fmt.Errorf("unknown day type %q", dto.DayType)
	}

	devStatus, ok := ParseDevStatus(dto.DevStatus)
	if !ok {
		devStatus = NotComplete
	}
	status := dto.Status
	if status != StatusMet && status != StatusNotMet {
		status = statusFor(dto.HoursWorked, dto.DailyTarget)
	}
	tickets := dto.Tickets
	if tickets == nil {
		tickets = []TicketEntry{}
	}

	id := uuid.New()
	if parsed, err := uuid.Parse(dto.Id); err == nil {
		id = parsed
	}
	return Record{
		Id:          id,
		Developer:   dto.Developer,
		Date:        date,
		HoursWorked: dto.HoursWorked,
		DailyTarget: dto.DailyTarget,
		Status:      status,
		IsOnline:    dto.IsOnline,
		Tickets:     tickets,
		DayType:     dayType,
		PeriodStart: start,
		PeriodEnd:   end,
		Hidden:      dto.Hide == hideBlock,
		DevStatus:   devStatus,
		GeneratedAt: generatedAt,
	}, nil
}
