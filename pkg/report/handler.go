package report

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/anywhereworks/worklogs/internal/rest"
	"github.com/anywhereworks/worklogs/pkg/calendar"
	"github.com/anywhereworks/worklogs/pkg/user"
	log "github.com/sirupsen/logrus"
)

type RequestDTO struct {
	StartDate             string   `json:"startDate"`
	EndDate               string   `json:"endDate"`
	Developers            []string `json:"developers"`
	Holidays              []string `json:"holidays,omitempty"`
	IncludeStoredHolidays *bool    `json:"includeStoredHolidays,omitempty"`
	DailyTargetHours      float64  `json:"dailyTargetHours,omitempty"`
}

type TicketDTO struct {
	TicketNo string  `json:"ticketNo"`
	Project  string  `json:"project"`
	Title    string  `json:"title"`
	Hours    float64 `json:"hours"`
}

type DailyEntryDTO struct {
	Date      string      `json:"date"`
	DayType   string      `json:"dayType"`
	Hours     float64     `json:"hours"`
	MetTarget bool        `json:"metTarget"`
	Achieved  string      `json:"achieved"`
	Tickets   []TicketDTO `json:"tickets"`
}

type SummaryDTO struct {
	Developer         string          `json:"developer"`
	TicketsCompleted  int             `json:"ticketsCompleted"`
	DaysWorked        int             `json:"daysWorked"`
	TotalHours        float64         `json:"totalHours"`
	TargetHours       float64         `json:"targetHours"`
	AvgHoursPerDay    float64         `json:"avgHoursPerDay"`
	EfficiencyPercent float64         `json:"efficiencyPercent"`
	IsOnline          bool            `json:"isOnline"`
	DailyBreakdown    []DailyEntryDTO `json:"dailyBreakdown"`
}

type ReportDTO struct {
	StartDate        string       `json:"startDate"`
	EndDate          string       `json:"endDate"`
	DailyTargetHours float64      `json:"dailyTargetHours"`
	WorkingDays      int          `json:"workingDays"`
	GeneratedAt      time.Time    `json:"generatedAt"`
	Summaries        []SummaryDTO `json:"summaries"`
}

type PublishResultDTO struct {
	Stored int `json:"stored"`
}

type Handler struct {
	service   Service
	renderers map[string]Renderer
	loc       *time.Location
}

func NewHandler(service Service, loc *time.Location, renderers ...Renderer) *Handler {
	byExtension := make(map[string]Renderer, len(renderers))
	for _, r := range renderers {
		byExtension[r.Extension()] = r
	}
	return &Handler{service: service, renderers: byExtension, loc: loc}
}

// Generate godoc
// @Summary Generate the completed worklog report
// @Description Returns JSON unless a document format is requested by ?format= or the Accept header.
// @Tags Report
// @Accept json
// @Produce json,text/csv,application/pdf,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param request body RequestDTO true "Report range and developers"
// @Param format query string false "json, csv, xlsx or pdf"
// @Success 200 {object} ReportDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/reports/worklog [post]
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	renderer, ok := h.negotiate(r)
	if !ok {
		rest.WriteError(w, http.StatusNotAcceptable, "unsupported report format", r.URL.Query().Get("format"))
		return
	}
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	rep, err := h.service.Generate(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	if renderer == nil {
		rest.WriteJSON(w, http.StatusOK, ToDTO(rep))
		return
	}
	body, err := renderer.Render(rep)
	if err != nil {
		log.Errorf("failed to render %s report: %v", renderer.Extension(), err)
		rest.WriteError(w, http.StatusInternalServerError, "failed to render report", err.Error())
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": rep.FileName(renderer.Extension())}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Errorf("failed to write report: %v", err)
	}
}

// Publish godoc
// @Summary Generate the report and store its daily breakdown
// @Tags Report
// @Accept json
// @Produce json
// @Param request body RequestDTO true "Report range and developers"
// @Success 201 {object} PublishResultDTO
// @Router /api/reports/worklog/publish [post]
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}
	rep, err := h.service.Generate(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	stored, err := h.service.Publish(r.Context(), rep)
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, PublishResultDTO{Stored: stored})
}

// Developers godoc
// @Summary List developers with completed tickets
// @Tags Report
// @Produce json
// @Success 200 {array} string
// @Router /api/reports/developers [get]
func (h *Handler) Developers(w http.ResponseWriter, r *http.Request) {
	developers, err := h.service.Developers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, developers)
}

// negotiate picks the renderer; nil with ok means JSON.
func (h *Handler) negotiate(r *http.Request) (Renderer, bool) {
	if format := strings.ToLower(r.URL.Query().Get("format")); format != "" {
		if format == "json" {
			return nil, true
		}
		renderer, ok := h.renderers[format]
		return renderer, ok
	}
	for _, accepted := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(accepted))
		if err != nil {
			continue
		}
		for _, renderer := range h.renderers {
			if rendererType, _, _ := mime.ParseMediaType(renderer.ContentType()); rendererType == mediaType {
				return renderer, true
			}
		}
	}
	return nil, true
}

func (h *Handler) decodeRequest(w http.ResponseWriter, r *http.Request) (Request, bool) {
	var dto RequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return Request{}, false
	}
	start, err := calendar.ParseDate(dto.StartDate, h.loc)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid startDate", err.Error())
		return Request{}, false
	}
	end, err := calendar.ParseDate(dto.EndDate, h.loc)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid endDate", err.Error())
		return Request{}, false
	}
	for _, holiday := range dto.Holidays {
		if _, err := calendar.ParseDate(holiday, h.loc); err != nil {
			rest.WriteError(w, http.StatusBadRequest, "invalid holiday", err.Error())
			return Request{}, false
		}
	}
	includeStored := true
	if dto.IncludeStoredHolidays != nil {
		includeStored = *dto.IncludeStoredHolidays
	}
	return Request{
		Start:                 start,
		End:                   end,
		Developers:            dto.Developers,
		ExtraHolidays:         dto.Holidays,
		IncludeStoredHolidays: includeStored,
		DailyTargetHours:      dto.DailyTargetHours,
	}, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		rest.WriteError(w, http.StatusUnauthorized, "authentication required", "")
	case errors.Is(err, user.ErrForbidden):
		rest.WriteError(w, http.StatusForbidden, err.Error(), "")
	case errors.Is(err, calendar.ErrInvalidRange):
		rest.WriteError(w, http.StatusBadRequest, "start date is after end date", err.Error())
	case errors.Is(err, ErrEmptySelection):
		rest.WriteError(w, http.StatusBadRequest, "select at least one developer", "")
	case errors.Is(err, ErrNoPublisher):
		rest.WriteError(w, http.StatusServiceUnavailable, err.Error(), "")
	default:
		log.Errorf("report request failed: %v", err)
		rest.WriteError(w, http.StatusBadGateway, "report generation failed", err.Error())
	}
}

func ToDTO(rep Report) ReportDTO {
	summaries := make([]SummaryDTO, 0, len(rep.Summaries))
	for _, s := range rep.Summaries {
		days := make([]DailyEntryDTO, 0, len(s.DailyBreakdown))
		for _, e := range s.DailyBreakdown {
			tickets := make([]TicketDTO, 0, len(e.Items))
			for _, item := range e.Items {
				tickets = append(tickets, TicketDTO{TicketNo: item.ID, Project: item.Project, Title: item.Title, Hours: item.Hours})
			}
			days = append(days, DailyEntryDTO{
				Date:      e.Date,
				DayType:   string(e.DayType),
				Hours:     e.Hours,
				MetTarget: e.MetTarget,
				Achieved:  achieved(e.MetTarget),
				Tickets:   tickets,
			})
		}
		summaries = append(summaries, SummaryDTO{
			Developer:         s.Developer,
			TicketsCompleted:  s.TicketsCompleted,
			DaysWorked:        s.DaysWorked,
			TotalHours:        s.TotalHours,
			TargetHours:       s.TargetHours,
			AvgHoursPerDay:    s.AvgHoursPerDay,
			EfficiencyPercent: s.EfficiencyPercent,
			IsOnline:          s.Online,
			DailyBreakdown:    days,
		})
	}
	return ReportDTO{
		StartDate:        calendar.FormatDate(rep.Start),
		EndDate:          calendar.FormatDate(rep.End),
		DailyTargetHours: rep.DailyTargetHours,
		WorkingDays:      rep.WorkingDays,
		GeneratedAt:      rep.GeneratedAt,
		Summaries:        summaries,
	}
}
