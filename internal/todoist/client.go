// Package todoist pulls tasks from the Todoist REST API into the local
// task list.
package todoist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://api.todoist.com/rest/v2"

var ErrUnauthorized = errors.New("todoist rejected the API token")

// ExternalTask is a task as the Todoist API reports it.
type ExternalTask struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	Description string    `json:"description"`
	IsCompleted bool      `json:"is_completed"`
	Duration    *Duration `json:"duration"`
}

// Duration is Todoist's task duration, in minutes or whole days.
type Duration struct {
	Amount int    `json:"amount"`
	Unit   string `json:"unit"`
}

// Minutes converts the duration to minutes, or 0 when absent or in an
// unrecognized unit.
func (d *Duration) Minutes() int {
	if d == nil {
		return 0
	}
	switch d.Unit {
	case "minute":
		return d.Amount
	case "day":
		return d.Amount * 24 * 60
	}
	return 0
}

// Client is a minimal Todoist REST client scoped to the task endpoints.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(token string) *Client {
	return &Client{
		baseURL: DefaultBaseURL,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// NewClientWithBaseURL is used by tests to point the client at a local
// server.
func NewClientWithBaseURL(token, baseURL string) *Client {
	c := NewClient(token)
	c.baseURL = baseURL
	return c
}

// ActiveTasks fetches the account's active (uncompleted) tasks.
func (c *Client) ActiveTasks(ctx context.Context) ([]ExternalTask, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tasks", nil)
	if err != nil {
		return nil, err
	}

	body, err := c.do(req, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var tasks []ExternalTask
	if err := json.Unmarshal(body, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode task list: %w", err)
	}
	return tasks, nil
}

// CloseTask marks a Todoist task complete.
func (c *Client) CloseTask(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/tasks/"+id+"/close", nil)
	if err != nil {
		return err
	}
	_, err = c.do(req, http.StatusNoContent)
	return err
}

func (c *Client) do(req *http.Request, wantStatus int) ([]byte, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("todoist request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode != wantStatus {
		return nil, fmt.Errorf("todoist returned %s", resp.Status)
	}

	return io.ReadAll(io.LimitReader(resp.Body, 4<<20))
}
