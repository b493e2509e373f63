// Package feed reads the ingestion pipeline's aggregate status over HTTP and
// turns it into a steady stream of snapshots for the monitor to diff.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/quadmind/ingestwatch/internal/common"
	"github.com/quadmind/ingestwatch/internal/model"
)

// Client fetches ingestion status snapshots from the orchestrator.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

// NewClient creates a status feed client. The request timeout matches the
// poll interval so a hung fetch is treated as a failed poll rather than
// stalling subsequent ticks.
func NewClient(endpoint string, pollInterval time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: pollInterval,
		},
	}
}

// Fetch retrieves the current status snapshot.
func (c *Client) Fetch(ctx context.Context) (model.StatusSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return model.StatusSnapshot{}, fmt.Errorf("failed to create status request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.StatusSnapshot{}, &common.RetryableError{
			Err:       fmt.Errorf("%w: %v", common.ErrFeedUnavailable, err),
			Retryable: true,
		}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return model.StatusSnapshot{}, &common.RetryableError{
			Err:       fmt.Errorf("%w: status %d", common.ErrFeedUnavailable, resp.StatusCode),
			Retryable: true,
		}
	}

	var snapshot model.StatusSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return model.StatusSnapshot{}, fmt.Errorf("%w: %v", common.ErrFeedDecode, err)
	}

	return snapshot, nil
}
