package ticket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anywhereworks/worklogs/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveTickets(t *testing.T, status int, body string) (*httptest.Server, *http.Request) {
	t.Helper()
	var received http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received = *r
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &received
}

func clientFor(url string) *ClientImpl {
	return NewClient(config.TicketStore{BaseURL: url + "/", Timeout: 5 * time.Second})
}

func TestClientImpl_GetTickets(t *testing.T) {
	payloads := map[string]string{
		"bare array":      `[{"ticketNo":"T-1","assignedTo":"Binu","status":"Completed"}]`,
		"data wrapper":    `{"data":[{"ticketNo":"T-1","assignedTo":"Binu","status":"Completed"}]}`,
		"tickets wrapper": `{"tickets":[{"ticketNo":"T-1","assignedTo":"Binu","status":"Completed"}]}`,
	}
	for name, payload := range payloads {
		t.Run("should decode "+name, func(t *testing.T) {
			server, received := serveTickets(t, http.StatusOK, payload)

			tickets, err := clientFor(server.URL).GetTickets(context.Background(), []string{"Completed", "Verified"})

			require.NoError(t, err)
			require.Len(t, tickets, 1)
			assert.Equal(t, Ticket{TicketNo: "T-1", AssignedTo: "Binu", Status: "Completed"}, tickets[0])
			assert.Equal(t, "/tickets", received.URL.Path)
			assert.Equal(t, []string{"Completed", "Verified"}, received.URL.Query()["status"])
		})
	}

	t.Run("should return empty list for unknown object shape", func(t *testing.T) {
		server, _ := serveTickets(t, http.StatusOK, `{"message":"ok"}`)

		tickets, err := clientFor(server.URL).GetTickets(context.Background(), nil)

		require.NoError(t, err)
		assert.Empty(t, tickets)
	})

	t.Run("should fail on non-OK status", func(t *testing.T) {
		server, _ := serveTickets(t, http.StatusBadGateway, `upstream down`)

		_, err := clientFor(server.URL).GetTickets(context.Background(), nil)

		assert.ErrorContains(t, err, "502")
	})

	t.Run("should fail on malformed payload", func(t *testing.T) {
		server, _ := serveTickets(t, http.StatusOK, `"not tickets"`)

		_, err := clientFor(server.URL).GetTickets(context.Background(), nil)

		assert.Error(t, err)
	})

	t.Run("should respect a cancelled context", func(t *testing.T) {
		server, _ := serveTickets(t, http.StatusOK, `[]`)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := clientFor(server.URL).GetTickets(ctx, nil)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestClientImpl_ClientCredentials(t *testing.T) {
	// given
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"secret-token","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(tokenServer.Close)
	ticketServer, received := serveTickets(t, http.StatusOK, `[]`)

	client := NewClient(config.TicketStore{
		BaseURL:      ticketServer.URL,
		Timeout:      5 * time.Second,
		TokenURL:     tokenServer.URL,
		ClientId:     "worklogs",
		ClientSecret: "s3cret",
	})

	// when
	_, err := client.GetTickets(context.Background(), []string{"Completed"})

	// then
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", received.Header.Get("Authorization"))
}
