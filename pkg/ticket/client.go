package ticket

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/anywhereworks/worklogs/internal/config"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

type Client interface {
	// GetTickets fetches tickets in any of the given statuses.
	GetTickets(ctx context.Context, statuses []string) ([]Ticket, error)
}

type ClientImpl struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(cfg config.TicketStore) *ClientImpl {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.TokenURL != "" {
		credentials := clientcredentials.Config{
			ClientID:     cfg.ClientId,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		// the token source refreshes itself; the context only seeds its transport
		httpClient = credentials.Client(context.Background())
		httpClient.Timeout = cfg.Timeout
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &ClientImpl{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

func (c *ClientImpl) GetTickets(ctx context.Context, statuses []string) ([]Ticket, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("ticket store rate limit: %w", err)
	}

	query := url.Values{}
	for _, status := range statuses {
		query.Add("status", status)
	}
	endpoint := c.baseURL + "/tickets"
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		log.Errorf("Failed to create tickets request: %v", err)
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Errorf("Failed to fetch tickets: %v", err)
		return nil, fmt.Errorf("failed to fetch tickets: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read tickets response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("ticket store returned status %d", resp.StatusCode)
		log.Error(err)
		return nil, err
	}

	tickets, err := decodeTickets(body)
	if err != nil {
		log.Errorf("Failed to decode tickets: %v", err)
		return nil, err
	}
	log.Debugf("fetched %d tickets from %s", len(tickets), endpoint)
	return tickets, nil
}
