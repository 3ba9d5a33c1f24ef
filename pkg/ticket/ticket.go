package ticket

import (
	"encoding/json"
	"fmt"
)

// Ticket is a record of the remote ticket store. Only the fields the worklog report reads are mapped.
type Ticket struct {
	TicketNo      string `json:"ticketNo"`
	ProjectName   string `json:"projectName"`
	Subject       string `json:"subject"`
	AssignedTo    string `json:"assignedTo"`
	Status        string `json:"status"`
	AssignedDate  string `json:"assignedDate,omitempty"`
	CompletedTime string `json:"completedTime,omitempty"`
}

// decodeTickets accepts a bare array or an object wrapping it in "data" or "tickets".
func decodeTickets(body []byte) ([]Ticket, error) {
	var tickets []Ticket
	if err := json.Unmarshal(body, &tickets); err == nil {
		return tickets, nil
	}

	var wrapped struct {
		Data    []Ticket `json:"data"`
		Tickets []Ticket `json:"tickets"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("unexpected tickets payload: %w", err)
	}
	if wrapped.Data != nil {
		return wrapped.Data, nil
	}
	if wrapped.Tickets != nil {
		return wrapped.Tickets, nil
	}
	return []Ticket{}, nil
}
