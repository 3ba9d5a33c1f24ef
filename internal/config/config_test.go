package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("should use defaults when no file is present", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

		require.NoError(t, err)
		assert.Equal(t, ":8181", cfg.Server.Addr)
		assert.Equal(t, 6.0, cfg.Report.DailyTargetHours)
		assert.Equal(t, []string{"Completed", "Verified"}, cfg.TicketStore.AcceptedStatuses)
		assert.Equal(t, "local", cfg.WorklogStore.Mode)
		assert.Equal(t, 20*time.Second, cfg.TicketStore.Timeout)
	})

	t.Run("should layer file and environment over defaults", func(t *testing.T) {
		// given
		path := filepath.Join(t.TempDir(), "application.yaml")
		content := []byte(`
ticketstore:
  baseurl: https://tickets.example.com
report:
  dailytargethours: 7
  onlineemployees:
    - Himap
    - Pravitha
`)
		require.NoError(t, os.WriteFile(path, content, 0o600))
		t.Setenv("WORKLOGS_REPORT_DAILYTARGETHOURS", "8")
		t.Setenv("WORKLOGS_DB_HOST", "db.internal")

		// when
		cfg, err := Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "https://tickets.example.com", cfg.TicketStore.BaseURL)
		assert.Equal(t, 8.0, cfg.Report.DailyTargetHours)
		assert.Equal(t, []string{"Himap", "Pravitha"}, cfg.Report.OnlineEmployees)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
	})
}

func TestReport_Location(t *testing.T) {
	assert.Equal(t, "Asia/Kolkata", Report{Timezone: "Asia/Kolkata"}.Location().String())
	assert.Equal(t, time.Local, Report{}.Location())
	assert.Equal(t, time.Local, Report{Timezone: "Mars/Olympus"}.Location())
}
