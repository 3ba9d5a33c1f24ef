package dailylog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/anywhereworks/worklogs/internal/config"
	log "github.com/sirupsen/logrus"
)

// RemoteClient publishes records to a worklog store running in another service.
type RemoteClient struct {
	url        string
	httpClient *http.Client
}

func NewRemoteClient(cfg config.WorklogStore) *RemoteClient {
	return &RemoteClient{
		url:        strings.TrimRight(cfg.URL, "/") + "/daily-worklogs",
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *RemoteClient) Publish(ctx context.Context, records []Record, generatedAt time.Time) (int, error) {
	payload := UploadDTO{
		DailyBreakdowns: make([]RecordDTO, 0, len(records)),
		GeneratedAt:     generatedAt.UTC(),
	}
	for _, rec := range records {
		dto := ToDTO(rec)
		// the remote store assigns its own ids
		dto.Id = ""
		payload.DailyBreakdowns = append(payload.DailyBreakdowns, dto)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to encode daily worklogs: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Errorf("Failed to upload daily worklogs: %v", err)
		return 0, fmt.Errorf("failed to upload daily worklogs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("worklog store returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
		log.Error(err)
		return 0, err
	}
	log.Infof("uploaded %d daily worklogs to %s", len(records), c.url)
	return len(records), nil
}
