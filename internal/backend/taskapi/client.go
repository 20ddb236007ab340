// Package taskapi implements the service.Service interface against the task
// manager REST API.
package taskapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/googleapi"

	"taskman/internal/config"
	"taskman/internal/service"
)

const (
	// RequestIDHeader carries a per-request correlation ID.
	RequestIDHeader = "X-Request-Id"
)

// Client implements service.Service and service.Accounts over HTTP.
// The bearer credential it sends is set and cleared by the session.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	base    http.RoundTripper
	cred    *credential
	timeout time.Duration
	log     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTransport sets the underlying round tripper (for testing).
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		if rt != nil {
			c.base = rt
		}
	}
}

// WithTimeout sets the per-call timeout. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for request logs.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api url: %q", baseURL)
	}

	c := &Client{
		baseURL: u,
		base:    http.DefaultTransport,
		cred:    &credential{},
		timeout: config.DefaultTimeout,
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = &http.Client{Transport: &bearerTransport{src: c.cred, base: c.base}}
	return c, nil
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// SetCredential makes every subsequent request carry token as a bearer credential.
func (c *Client) SetCredential(token string) {
	c.cred.set(token)
}

// ClearCredential stops sending an Authorization header.
func (c *Client) ClearCredential() {
	c.cred.clear()
}

// Credential returns the bearer token currently attached to requests, or "".
func (c *Client) Credential() string {
	tok, err := c.cred.Token()
	if err != nil {
		return ""
	}
	return tok.AccessToken
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges username and password for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "login", loginRequest{username, password}, &resp); err != nil {
		return "", fmt.Errorf("%w: %w", service.ErrAuthentication, err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%w: response has no token", service.ErrAuthentication)
	}
	return resp.Token, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, reg service.Registration) error {
	if err := c.do(ctx, http.MethodPost, "register", reg, nil); err != nil {
		return fmt.Errorf("%w: %w", service.ErrRegistration, err)
	}
	return nil
}

// ListTasks returns all tasks in API order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.do(ctx, http.MethodGet, "tasks", nil, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %w", service.ErrFetch, err)
	}
	return tasks, nil
}

// GetTask returns a single task.
func (c *Client) GetTask(ctx context.Context, id int) (service.Task, error) {
	var task service.Task
	if err := c.do(ctx, http.MethodGet, taskPath(id), nil, &task); err != nil {
		return service.Task{}, fmt.Errorf("%w: %w", service.ErrFetch, err)
	}
	return task, nil
}

// CreateTask creates a task. The API may answer with the task itself or
// with an envelope of the form {"task": {...}}.
func (c *Client) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	body := service.TaskInput{Title: in.Title, Description: in.Description}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "tasks", body, &raw); err != nil {
		return service.Task{}, fmt.Errorf("%w: %w", service.ErrSubmit, err)
	}
	task, ok := decodeTask(raw)
	if !ok {
		return service.Task{}, fmt.Errorf("%w: response has no task", service.ErrSubmit)
	}
	return task, nil
}

// UpdateTask replaces the task's fields. If the API answers without a task
// body, the submitted values are returned.
func (c *Client) UpdateTask(ctx context.Context, id int, in service.TaskInput) (service.Task, error) {
	if in.Completed == nil {
		return service.Task{}, fmt.Errorf("%w: completed status required", service.ErrSubmit)
	}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPut, taskPath(id), in, &raw); err != nil {
		return service.Task{}, fmt.Errorf("%w: %w", service.ErrSubmit, err)
	}
	if task, ok := decodeTask(raw); ok {
		return task, nil
	}
	return service.Task{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Completed:   *in.Completed,
	}, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	if err := c.do(ctx, http.MethodDelete, taskPath(id), nil, nil); err != nil {
		return fmt.Errorf("%w: %w", service.ErrDelete, err)
	}
	return nil
}

func taskPath(id int) string {
	return "tasks/" + strconv.Itoa(id)
}

// do sends a JSON request and decodes a JSON response into out.
// out may be nil; an empty response body leaves out untouched.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("api request failed", "method", method, "path", "/"+path, "request_id", reqID, "err", err)
		return wrapError(err)
	}
	defer googleapi.CloseBody(res)

	c.log.Debug("api request",
		"method", method,
		"path", "/"+path,
		"status", res.StatusCode,
		"request_id", reqID,
		"duration", time.Since(start))

	if err := googleapi.CheckResponse(res); err != nil {
		return wrapError(err)
	}
	if out == nil {
		return nil
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return wrapError(err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}
	return nil
}

// decodeTask extracts a task from a response body that is either the task
// itself or an envelope with a "task" field.
func decodeTask(raw json.RawMessage) (service.Task, bool) {
	if len(raw) == 0 {
		return service.Task{}, false
	}
	var env struct {
		Task *service.Task `json:"task"`
		ID   *int          `json:"id"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return service.Task{}, false
	}
	if env.Task != nil {
		return *env.Task, true
	}
	if env.ID == nil {
		return service.Task{}, false
	}
	var task service.Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return service.Task{}, false
	}
	return task, true
}

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	Code    int
	Message string
	err     *googleapi.Error
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Code)
	}
	return fmt.Sprintf("HTTP %d", e.Code)
}

func (e *StatusError) Unwrap() error { return e.err }

// wrapError wraps transport and API errors with user-friendly messages.
// Status codes are not classified: every non-2xx becomes a StatusError.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = messageFromBody(apiErr.Body)
		}
		return &StatusError{Code: apiErr.Code, Message: msg, err: apiErr}
	}

	return err
}

// messageFromBody picks a human-readable message out of an error body such
// as {"message": "..."} or {"error": "..."}.
func messageFromBody(body string) string {
	var reply struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &reply); err != nil {
		return ""
	}
	if reply.Message != "" {
		return reply.Message
	}
	var s string
	if err := json.Unmarshal(reply.Error, &s); err == nil {
		return s
	}
	return ""
}
