package ticket

import (
	"context"
	"slices"
	"sync"
)

type ClientStub struct {
	mu       sync.RWMutex
	tickets  []Ticket
	err      error
	requests [][]string
}

func NewClientStub(tickets ...Ticket) *ClientStub {
	return &ClientStub{tickets: tickets}
}

func (c *ClientStub) GetTickets(ctx context.Context, statuses []string) ([]Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, slices.Clone(statuses))
	if c.err != nil {
		return nil, c.err
	}
	return slices.Clone(c.tickets), nil
}

func (c *ClientStub) SetError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

func (c *ClientStub) Requests() [][]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.requests)
}
