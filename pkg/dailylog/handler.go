package dailylog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/anywhereworks/worklogs/internal/rest"
	"github.com/anywhereworks/worklogs/internal/utils"
	"github.com/anywhereworks/worklogs/pkg/calendar"
	"github.com/anywhereworks/worklogs/pkg/user"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Envelope is the response shape the dashboard expects from the worklog store.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
	Total   *int `json:"total,omitempty"`
}

type ModifiedDTO struct {
	ModifiedCount int64 `json:"modifiedCount"`
}

type StoredDTO struct {
	Stored int `json:"stored"`
}

type HideRequestDTO struct {
	Ids  []string `json:"ids"`
	Hide string   `json:"hide"`
}

type DevStatusRequestDTO struct {
	Ids       []string `json:"ids"`
	DevStatus string   `json:"devstatus"`
}

type EditDTO struct {
	HoursWorked *float64      `json:"hoursWorked,omitempty"`
	Tickets     []TicketEntry `json:"tickets"`
}

type Handler struct {
	service Service
	clock   utils.Clock
	loc     *time.Location
}

func NewHandler(service Service, clock utils.Clock, loc *time.Location) *Handler {
	return &Handler{service: service, clock: clock, loc: loc}
}

// Upload godoc
// @Summary Store the daily breakdown of a generated report
// @Tags DailyWorklog
// @Accept json
// @Produce json
// @Param upload body UploadDTO true "Daily breakdowns"
// @Success 201 {object} Envelope
// @Router /api/daily-worklogs [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	var upload UploadDTO
	if err := json.NewDecoder(r.Body).Decode(&upload); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	generatedAt := upload.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = h.clock.Now()
	}

	records := make([]Record, 0, len(upload.DailyBreakdowns))
	for i, dto := range upload.DailyBreakdowns {
		rec, err := FromDTO(dto, generatedAt, h.loc)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "invalid daily breakdown at index "+strconv.Itoa(i), err.Error())
			return
		}
		records = append(records, rec)
	}

	stored, err := h.service.Publish(r.Context(), records, generatedAt)
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: StoredDTO{Stored: stored}})
}

// List godoc
// @Summary List stored daily worklogs
// @Tags DailyWorklog
// @Produce json
// @Param developer query string false "Developer"
// @Param project query string false "Project"
// @Param startDate query string false "First date (YYYY-MM-DD)"
// @Param endDate query string false "Last date (YYYY-MM-DD)"
// @Param dayType query string false "working, weekend or holiday"
// @Param devstatus query string false "notcomplete or completed"
// @Param includeHidden query bool false "Include hidden worklogs (admin)"
// @Param sort query string false "date, developer or hours"
// @Param order query string false "asc or desc"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} Envelope
// @Router /api/daily-worklogs [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid filter", err.Error())
		return
	}
	page, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	dtos := make([]RecordDTO, 0, len(page.Records))
	for _, rec := range page.Records {
		dtos = append(dtos, ToDTO(rec))
	}
	rest.WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: dtos, Total: &page.Total})
}

// SetHidden godoc
// @Summary Hide or unhide worklogs in bulk
// @Tags DailyWorklog
// @Accept json
// @Produce json
// @Param request body HideRequestDTO true "Ids and hide (block or unblock)"
// @Success 200 {object} Envelope
// @Router /api/daily-worklogs/hide [put]
func (h *Handler) SetHidden(w http.ResponseWriter, r *http.Request) {
	var req HideRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Hide != hideBlock && req.Hide != hideUnblock {
		rest.WriteError(w, http.StatusBadRequest, "hide must be block or unblock", "")
		return
	}
	ids, err := parseIds(req.Ids)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid id", err.Error())
		return
	}
	modified, err := h.service.SetHidden(r.Context(), ids, req.Hide == hideBlock)
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: ModifiedDTO{ModifiedCount: modified}})
}

// SetDevStatus godoc
// @Summary Change the developer review status in bulk
// @Tags DailyWorklog
// @Accept json
// @Produce json
// @Param request body DevStatusRequestDTO true "Ids and devstatus"
// @Success 200 {object} Envelope
// @Router /api/daily-worklogs/devstatus [put]
func (h *Handler) SetDevStatus(w http.ResponseWriter, r *http.Request) {
	var req DevStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	status, ok := ParseDevStatus(req.DevStatus)
	if !ok {
		rest.WriteError(w, http.StatusBadRequest, "devstatus must be notcomplete or completed", "")
		return
	}
	ids, err := parseIds(req.Ids)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid id", err.Error())
		return
	}
	modified, err := h.service.SetDevStatus(r.Context(), ids, status)
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: ModifiedDTO{ModifiedCount: modified}})
}

// Update godoc
// @Summary Edit the tickets of a stored day
// @Tags DailyWorklog
// @Accept json
// @Produce json
// @Param id path string true "Worklog id"
// @Param edit body EditDTO true "Tickets and optional hours"
// @Success 200 {object} Envelope
// @Router /api/daily-worklogs/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid id", err.Error())
		return
	}
	var edit EditDTO
	if err := json.NewDecoder(r.Body).Decode(&edit); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	rec, err := h.service.Update(r.Context(), id, Edit{HoursWorked: edit.HoursWorked, Tickets: edit.Tickets})
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: ToDTO(rec)})
}

func (h *Handler) parseFilter(r *http.Request) (Filter, error) {
	q := r.URL.Query()
	filter := Filter{
		Project: q.Get("project"),
		SortBy:  q.Get("sort"),
	}
	if developer := q.Get("developer"); developer != "" {
		filter.Developers = []string{developer}
	}
	for param, target := range map[string]**time.Time{"startDate": &filter.From, "endDate": &filter.To} {
		if value := q.Get(param); value != "" {
			date, err := calendar.ParseDate(value, h.loc)
			if err != nil {
				return Filter{}, err
			}
			*target = &date
		}
	}
	if dayType := q.Get("dayType"); dayType != "" {
		switch calendar.DayType(dayType) {
		case calendar.Working, calendar.Weekend, calendar.Holiday:
			filter.DayType = calendar.DayType(dayType)
		default:
			return Filter{}, errors.New("dayType must be working, weekend or holiday")
		}
	}
	if devStatus := q.Get("devstatus"); devStatus != "" {
		status, ok := ParseDevStatus(devStatus)
		if !ok {
			return Filter{}, errors.New("devstatus must be notcomplete or completed")
		}
		filter.DevStatus = status
	}
	if _, ok := sortColumns[filter.SortBy]; !ok {
		return Filter{}, errors.New("sort must be date, developer or hours")
	}
	filter.Descending = q.Get("order") == "desc"
	filter.IncludeHidden = q.Get("includeHidden") == "true"

	var err error
	if filter.Limit, err = optionalInt(q.Get("limit")); err != nil {
		return Filter{}, err
	}
	if filter.Offset, err = optionalInt(q.Get("offset")); err != nil {
		return Filter{}, err
	}
	return filter, nil
}

func optionalInt(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, errors.New("limit and offset must be non-negative integers")
	}
	return n, nil
}

func parseIds(values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, value := range values {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		rest.WriteError(w, http.StatusUnauthorized, "authentication required", "")
	case errors.Is(err, user.ErrForbidden):
		rest.WriteError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, ErrRecordNotFound):
		rest.WriteError(w, http.StatusNotFound, err.Error(), "")
	default:
		log.Errorf("daily worklog request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "internal error", err.Error())
	}
}
