package holiday

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/anywhereworks/worklogs/internal/rest"
	"github.com/anywhereworks/worklogs/pkg/calendar"
	"github.com/anywhereworks/worklogs/pkg/user"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type HolidayDTO struct {
	Date   string `json:"date"`
	Name   string `json:"name"`
	Source string `json:"source,omitempty"`
}

type ImportResultDTO struct {
	Imported int `json:"imported"`
}

type Handler struct {
	service Service
	loc     *time.Location
}

func NewHandler(service Service, loc *time.Location) *Handler {
	return &Handler{service: service, loc: loc}
}

// List godoc
// @Summary List holidays of a date range
// @Tags Holiday
// @Produce json
// @Param from query string true "First date (YYYY-MM-DD)"
// @Param to query string true "Last date (YYYY-MM-DD)"
// @Success 200 {array} HolidayDTO
// @Router /api/holiday [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	from, to, ok := h.parseRange(w, r)
	if !ok {
		return
	}
	holidays, err := h.service.List(r.Context(), from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, holiday := range holidays {
		dtos = append(dtos, toDTO(holiday))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// Add godoc
// @Summary Mark a date as holiday
// @Tags Holiday
// @Accept json
// @Produce json
// @Param holiday body HolidayDTO true "Holiday"
// @Success 201 {object} HolidayDTO
// @Failure 409 {object} rest.ErrorResponse "Holiday already exists"
// @Router /api/holiday [post]
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	var dto HolidayDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	date, err := calendar.ParseDate(dto.Date, h.loc)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	added, err := h.service.Add(r.Context(), Holiday{Date: date, Name: dto.Name, Source: Manual})
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, toDTO(added))
}

// Remove godoc
// @Summary Remove a holiday
// @Tags Holiday
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 204
// @Failure 404 {object} rest.ErrorResponse "Holiday not found"
// @Router /api/holiday/{date} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	date, err := calendar.ParseDate(mux.Vars(r)["date"], h.loc)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}
	if err := h.service.Remove(r.Context(), date); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportFromGoogle godoc
// @Summary Import public holidays from Google Calendar
// @Tags Holiday
// @Produce json
// @Param from query string true "First date (YYYY-MM-DD)"
// @Param to query string true "Last date (YYYY-MM-DD)"
// @Success 200 {object} ImportResultDTO
// @Router /api/holiday/import-from-google [post]
func (h *Handler) ImportFromGoogle(w http.ResponseWriter, r *http.Request) {
	from, to, ok := h.parseRange(w, r)
	if !ok {
		return
	}
	imported, err := h.service.ImportFromGoogle(r.Context(), from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ImportResultDTO{Imported: imported})
}

func (h *Handler) parseRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	from, err := calendar.ParseDate(r.URL.Query().Get("from"), h.loc)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid from date", err.Error())
		return time.Time{}, time.Time{}, false
	}
	to, err := calendar.ParseDate(r.URL.Query().Get("to"), h.loc)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid to date", err.Error())
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		rest.WriteError(w, http.StatusUnauthorized, "authentication required", "")
	case errors.Is(err, user.ErrForbidden):
		rest.WriteError(w, http.StatusForbidden, err.Error(), "")
	case errors.Is(err, ErrHolidayExists):
		rest.WriteError(w, http.StatusConflict, err.Error(), "")
	case errors.Is(err, ErrHolidayNotFound):
		rest.WriteError(w, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, calendar.ErrInvalidRange):
		rest.WriteError(w, http.StatusBadRequest, "start date is after end date", err.Error())
	case errors.Is(err, ErrImportNotAvailable):
		rest.WriteError(w, http.StatusServiceUnavailable, err.Error(), "")
	default:
		log.Errorf("holiday request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "internal error", err.Error())
	}
}

func toDTO(h Holiday) HolidayDTO {
	return HolidayDTO{Date: calendar.FormatDate(h.Date), Name: h.Name, Source: string(h.Source)}
}
