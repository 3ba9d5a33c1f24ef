package ticket

import (
	"math"
	"strings"
	"time"

	"github.com/anywhereworks/worklogs/internal/config"
	"github.com/anywhereworks/worklogs/pkg/worklog"
	log "github.com/sirupsen/logrus"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Mapper turns raw tickets into work items. Invalid tickets are dropped, never reported as errors.
type Mapper struct {
	AcceptedStatuses []string
	// OfflineHours caps an item of a developer not on the online roster, and is used when dates are missing.
	OfflineHours float64
	// OnlineHours does the same for developers on the roster.
	OnlineHours float64
	Online      []string
	Location    *time.Location
}

func NewMapper(ts config.TicketStore, r config.Report) *Mapper {
	return &Mapper{
		AcceptedStatuses: ts.AcceptedStatuses,
		OfflineHours:     r.DefaultItemHours,
		OnlineHours:      r.MaxItemHours,
		Online:           r.OnlineEmployees,
		Location:         r.Location(),
	}
}

func (m *Mapper) Map(tickets []Ticket) []worklog.WorkItem {
	items := make([]worklog.WorkItem, 0, len(tickets))
	skipped := 0
	for _, t := range tickets {
		if !m.accepts(t) {
			skipped++
			continue
		}
		items = append(items, m.toWorkItem(t))
	}
	if skipped > 0 {
		log.Debugf("dropped %d of %d tickets (status or required fields)", skipped, len(tickets))
	}
	return items
}

func (m *Mapper) accepts(t Ticket) bool {
	if t.TicketNo == "" || t.ProjectName == "" || t.Subject == "" || t.AssignedTo == "" {
		return false
	}
	for _, status := range m.AcceptedStatuses {
		if t.Status == status {
			return true
		}
	}
	return false
}

func (m *Mapper) toWorkItem(t Ticket) worklog.WorkItem {
	online := m.isOnline(t.AssignedTo)
	limit := m.OfflineHours
	if online {
		limit = m.OnlineHours
	}

	assigned := m.parseTimestamp(t.AssignedDate)
	completed := m.parseTimestamp(t.CompletedTime)

	hours := limit
	if assigned != nil && completed != nil {
		elapsed := math.Abs(completed.Sub(*assigned).Hours())
		hours = math.Min(math.Ceil(elapsed), limit)
	}

	return worklog.WorkItem{
		ID:          t.TicketNo,
		Project:     t.ProjectName,
		Title:       t.Subject,
		Developer:   t.AssignedTo,
		Hours:       hours,
		CompletedAt: completed,
		Online:      online,
	}
}

func (m *Mapper) isOnline(developer string) bool {
	for _, name := range m.Online {
		if strings.EqualFold(strings.TrimSpace(name), strings.TrimSpace(developer)) {
			return true
		}
	}
	return false
}

func (m *Mapper) parseTimestamp(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	loc := m.Location
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return &t
		}
	}
	log.Tracef("unparseable ticket timestamp %q", value)
	return nil
}

// Developers lists the distinct developers of items in first-seen order.
func Developers(items []worklog.WorkItem) []string {
	seen := make(map[string]struct{})
	developers := make([]string, 0)
	for _, item := range items {
		if _, ok := seen[item.Developer]; ok {
			continue
		}
		seen[item.Developer] = struct{}{}
		developers = append(developers, item.Developer)
	}
	return developers
}
