package holiday

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anywhereworks/worklogs/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestGoogleImporter_Holidays(t *testing.T) {
	// given
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/events") {
			http.NotFound(w, r)
			return
		}
		query = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": [
				{"summary": "Independence Day", "start": {"date": "2024-08-15"}},
				{"summary": "Team call", "start": {"dateTime": "2024-08-16T10:00:00+05:30"}},
				{"summary": "Gandhi Jayanti", "start": {"date": "2024-10-02"}}
			]
		}`))
	}))
	t.Cleanup(server.Close)

	importer, err := NewGoogleImporter(context.Background(),
		config.Google{APIKey: "key", HolidayCalendarId: "en.indian#holiday@group.v.calendar.google.com"},
		location, option.WithEndpoint(server.URL+"/"))
	require.NoError(t, err)

	// when
	holidays, err := importer.Holidays(context.Background(), day(2024, 8, 1), day(2024, 10, 31))

	// then
	require.NoError(t, err)
	assert.Equal(t, []Holiday{
		{Date: day(2024, 8, 15), Name: "Independence Day", Source: Google},
		{Date: day(2024, 10, 2), Name: "Gandhi Jayanti", Source: Google},
	}, holidays)
	assert.Contains(t, query, "key=key")
	assert.Contains(t, query, "singleEvents=true")
}

func TestNewGoogleImporter_RequiresAPIKey(t *testing.T) {
	_, err := NewGoogleImporter(context.Background(), config.Google{}, location)

	assert.ErrorIs(t, err, ErrImportNotAvailable)
}
