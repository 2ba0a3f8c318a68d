package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cutoff-alert-service/internal/domain/entity"
	"cutoff-alert-service/internal/interface/handler"
)

// Client talks to a running cutoff-alert-service
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Sweep triggers a manual sweep and waits for its result
func (c *Client) Sweep(ctx context.Context) (*entity.SweepResult, error) {
	var result entity.SweepResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/escalations/sweep", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Status returns the scheduler state
func (c *Client) Status(ctx context.Context) (*handler.StatusResponse, error) {
	var status handler.StatusResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/escalations/status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Inbox lists a user's latest deadline notifications
func (c *Client) Inbox(ctx context.Context, userID string, limit int) ([]*entity.Notification, error) {
	var notifications []*entity.Notification
	path := fmt.Sprintf("/api/v1/users/%s/notifications?limit=%d", url.PathEscape(userID), limit)
	if err := c.do(ctx, http.MethodGet, path, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach service: %w", err)
	}
	defer resp.Body.Close()

	// A failed sweep still carries a result body
	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusBadGateway {
		var errResp handler.ErrorResponse
		json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error == "" {
			errResp.Error = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("service returned %d: %s", resp.StatusCode, errResp.Error)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
