// Package callback is the outbound client for the external delayed-callback
// service used in event mode: it schedules the HTTP callbacks that later
// arrive at internal/webhook as verified triggers.
package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 5 * time.Second

// Client talks to the external scheduling service that turns
// publishOneShot/publishCron requests into delayed HTTP POSTs back to this
// service's webhook endpoints.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

type scheduleResponse struct {
	ID string `json:"id"`
}

// PublishOneShot schedules a single HTTP POST to url, delaySeconds from
// now, retried up to retries times by the external service on delivery
// failure. Returns the schedule id, used later to Cancel.
func (c *Client) PublishOneShot(ctx context.Context, url string, body json.RawMessage, delaySeconds int, retries int) (string, error) {
	return c.post(ctx, "/schedules/one-shot", map[string]any{
		"url":          url,
		"body":         body,
		"delaySeconds": delaySeconds,
		"retries":      retries,
	})
}

// PublishCron installs a recurring schedule that POSTs to url on every
// match of cronExpression. Returns the schedule id.
func (c *Client) PublishCron(ctx context.Context, url, cronExpression string, body json.RawMessage, retries int) (string, error) {
	return c.post(ctx, "/schedules/cron", map[string]any{
		"url":     url,
		"cron":    cronExpression,
		"body":    body,
		"retries": retries,
	})
}

// Cancel cancels either a one-shot message or a cron schedule by id.
func (c *Client) Cancel(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/schedules/"+id, nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return checkStatus(res)
}

func (c *Client) post(ctx context.Context, path string, payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	res, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if err := checkStatus(res); err != nil {
		return "", err
	}

	var parsed scheduleResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode schedule response: %w", err)
	}
	return parsed.ID, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
}

func checkStatus(res *http.Response) error {
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	return fmt.Errorf("status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
}
