// Package ephemeris fetches daily GPS broadcast ephemeris (RINEX brdc)
// archives that the simulator needs to synthesize satellite signals.
package ephemeris

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Client downloads daily broadcast ephemeris files from an archive server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new ephemeris client.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// DailyFilename returns the conventional daily broadcast ephemeris file name
// for t, e.g. brdc2290.25n for day of year 229 in 2025.
func DailyFilename(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("brdc%03d0.%02dn", t.YearDay(), t.Year()%100)
}

// Ensure makes sure the daily ephemeris file for t exists in dir and returns
// its path. An already-present file short-circuits the download.
func (c *Client) Ensure(ctx context.Context, dir string, t time.Time) (string, error) {
	name := DailyFilename(t)
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating ephemeris directory: %w", err)
	}

	url := fmt.Sprintf("%s/%04d/brdc/%s", c.baseURL, t.UTC().Year(), name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ephemeris request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ephemeris download returned status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(dir, name+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		return "", fmt.Errorf("failed to write ephemeris file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close ephemeris file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move ephemeris file: %w", err)
	}
	committed = true

	return path, nil
}
