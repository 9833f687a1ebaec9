// Package uploader submits a workstation's cumulative daily counts to the
// counting service.
package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/emiliopalmerini/rightcount/internal/domain"
)

// ErrUnauthorized is returned when the service rejects the shared secret.
// Batch uploads stop on it immediately; retrying other days would fail the
// same way.
var ErrUnauthorized = errors.New("upload rejected: invalid secret")

// Client uploads day counts via POST /api/set. Payloads always carry the
// cumulative count for the day, so the server-side overwrite is safe to
// repeat.
type Client struct {
	baseURL string
	secret  string
	logPath string
	http    *http.Client
}

// New creates a Client. logPath may be empty to disable the upload log.
func New(baseURL, secret, logPath string) *Client {
	return &Client{
		baseURL: baseURL,
		secret:  secret,
		logPath: logPath,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// SetDay uploads one day's cumulative record for this workstation.
func (c *Client) SetDay(ctx context.Context, dc domain.DayCount) error {
	payload := make(map[string]any, len(dc.Patterns)+4)
	for name, count := range dc.Patterns {
		payload[name] = count
	}
	payload["day"] = dc.Day
	payload["source_id"] = dc.WorkstationID
	payload["total_messages"] = dc.TotalMessages
	if c.secret != "" {
		payload["secret"] = c.secret
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/set", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logAttempt(payload, "error_network", "", err)
		return fmt.Errorf("upload %s: %w", dc.Day, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	switch {
	case resp.StatusCode == http.StatusOK:
		c.logAttempt(payload, "success", string(respBody), nil)
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		c.logAttempt(payload, "unauthorized", "", nil)
		return ErrUnauthorized
	default:
		status := fmt.Sprintf("error_http_%d", resp.StatusCode)
		c.logAttempt(payload, status, string(respBody), nil)
		return fmt.Errorf("upload %s: unexpected status %d", dc.Day, resp.StatusCode)
	}
}

// logEntry is one line of the upload log. The secret never appears in it.
type logEntry struct {
	Timestamp string         `json:"timestamp"`
	URL       string         `json:"url"`
	Data      map[string]any `json:"data"`
	Status    string         `json:"status"`
	Response  string         `json:"response,omitempty"`
	Error     string         `json:"error,omitempty"`
}

func (c *Client) logAttempt(payload map[string]any, status, response string, attemptErr error) {
	if c.logPath == "" {
		return
	}

	data := make(map[string]any, len(payload))
	for k, v := range payload {
		if k == "secret" {
			continue
		}
		data[k] = v
	}

	entry := logEntry{
		Timestamp: time.Now().Format("2006-01-02 15:04:05"),
		URL:       c.baseURL + "/api/set",
		Data:      data,
		Status:    status,
		Response:  response,
	}
	if attemptErr != nil {
		entry.Error = attemptErr.Error()
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return
	}

	// Logging failures never fail the upload itself.
	if err := os.MkdirAll(filepath.Dir(c.logPath), 0o755); err != nil {
		return
	}
	f, err := os.OpenFile(c.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.Write(append(line, '\n'))
}
