package downloader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Client for interacting with the external download agent. The agent owns
// all torrent-protocol machinery; this backend only hands it URLs.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new download agent API client.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// StartDownload asks the agent to fetch the given URL and returns the info
// hash it reports once metadata is available.
func (c *Client) StartDownload(ctx context.Context, url string) (string, error) {
	payload, err := json.Marshal(map[string]string{"url": url})
	if err != nil {
		return "", fmt.Errorf("failed to encode download request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/downloads", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		c.logger.Error("Failed to create request to download agent", zap.Error(err))
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to make request to download agent", zap.Error(err))
		return "", fmt.Errorf("failed to make request to download agent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		c.logger.Error("Download agent returned non-OK status", zap.Int("status", resp.StatusCode))
		return "", fmt.Errorf("download agent returned status: %d", resp.StatusCode)
	}

	var response struct {
		InfoHash string `json:"info_hash"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		c.logger.Error("Failed to decode download agent response", zap.Error(err))
		return "", fmt.Errorf("failed to decode download agent response: %w", err)
	}

	c.logger.Info("Download started", zap.String("url", url), zap.String("info_hash", response.InfoHash))
	return response.InfoHash, nil
}
