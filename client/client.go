package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	domain "github.com/example/taskboard/domain/task"
)

// APIError is a decoded server error envelope.
type APIError struct {
	Kind       string    `json:"error"`
	Message    string    `json:"message"`
	StatusCode int       `json:"statusCode"`
	Timestamp  time.Time `json:"timestamp"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.StatusCode, e.Message)
}

// LoginResult is the response to a successful login.
type LoginResult struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// Client is the REST client for the taskboard server. The bearer token
// is persisted in the store so a fresh process can keep using an
// earlier login.
type Client struct {
	baseURL string
	http    *http.Client
	store   Store
}

// New creates a Client for the given server base URL, persisting client
// state in store.
func New(baseURL string, store Store) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		store: store,
	}
}

// Login authenticates with the shared credential pair and stores the
// issued bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &result, false); err != nil {
		return nil, err
	}
	if err := c.store.Set(KeyToken, result.Token); err != nil {
		return nil, fmt.Errorf("failed to persist token: %w", err)
	}
	return &result, nil
}

// ListTasks fetches the full task list, newest-created-first.
func (c *Client) ListTasks(ctx context.Context) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks, true); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask creates a new task.
func (c *Client) CreateTask(ctx context.Context, title string, description *string) (*domain.Task, error) {
	body := map[string]any{"title": title}
	if description != nil {
		body["description"] = *description
	}
	var t domain.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", body, &t, true); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTask fetches a single task by id.
func (c *Client) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	var t domain.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/"+id, nil, &t, true); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTaskStatus moves a task to the given status.
func (c *Client) UpdateTaskStatus(ctx context.Context, id string, status domain.Status) (*domain.Task, error) {
	body := map[string]string{"status": string(status)}
	var t domain.Task
	if err := c.do(ctx, http.MethodPut, "/tasks/"+id+"/status", body, &t, true); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTaskFields replaces a task's title and description.
func (c *Client) UpdateTaskFields(ctx context.Context, id, title string, description *string) (*domain.Task, error) {
	body := map[string]any{"title": title}
	if description != nil {
		body["description"] = *description
	}
	var t domain.Task
	if err := c.do(ctx, http.MethodPut, "/tasks/"+id, body, &t, true); err != nil {
		return nil, err
	}
	return &t, nil
}

// Token returns the stored bearer token, if any.
func (c *Client) Token() (string, bool) {
	return c.store.Get(KeyToken)
}

func (c *Client) do(ctx context.Context, method, path string, body, result any, authed bool) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token, ok := c.store.Get(KeyToken)
		if !ok {
			return fmt.Errorf("not logged in")
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(data, apiErr); err != nil {
			apiErr.Kind = "unknown"
			apiErr.Message = string(data)
		}
		return apiErr
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
