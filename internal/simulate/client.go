package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/vitalis/internal/domain/types"
)

// httpClient wraps http.Client with the base URL and JSON helpers.
type httpClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *httpClient {
	return &httpClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// statusError is returned for any unexpected HTTP status.
type statusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// do sends a request and decodes a JSON response into out when the status
// matches want.
func (c *httpClient) do(ctx context.Context, method, path string, body, out any, want int) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != want {
		return &statusError{Method: method, Path: path, Status: resp.StatusCode, Body: string(bytes.TrimSpace(data))}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	return nil
}

func (c *httpClient) health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil, http.StatusOK)
}

func (c *httpClient) catalog(ctx context.Context) (types.Catalog, error) {
	var cat types.Catalog
	err := c.do(ctx, http.MethodGet, "/catalog", nil, &cat, http.StatusOK)
	return cat, err
}

func (c *httpClient) startSession(ctx context.Context, userID string) (types.Session, error) {
	var s types.Session
	err := c.do(ctx, http.MethodPost, "/sessions", map[string]string{"user_id": userID}, &s, http.StatusCreated)
	return s, err
}

func (c *httpClient) answer(ctx context.Context, id string, questionID int, optionID string) (types.Session, error) {
	var s types.Session
	body := map[string]any{"question_id": questionID, "option_id": optionID}
	err := c.do(ctx, http.MethodPost, "/sessions/"+id+"/answers", body, &s, http.StatusOK)
	return s, err
}

func (c *httpClient) step(ctx context.Context, id, action string) (types.Session, error) {
	var s types.Session
	err := c.do(ctx, http.MethodPost, "/sessions/"+id+"/"+action, nil, &s, http.StatusOK)
	return s, err
}

func (c *httpClient) result(ctx context.Context, id string) (types.Result, error) {
	var r types.Result
	err := c.do(ctx, http.MethodGet, "/sessions/"+id+"/result", nil, &r, http.StatusOK)
	return r, err
}

type historyResponse struct {
	UserID  string         `json:"user_id"`
	Results []types.Result `json:"results"`
}

func (c *httpClient) history(ctx context.Context, userID string) ([]types.Result, error) {
	var h historyResponse
	err := c.do(ctx, http.MethodGet, "/users/"+userID+"/results", nil, &h, http.StatusOK)
	return h.Results, err
}

// historyLimit reads the per-user history cap from /stats.
func (c *httpClient) historyLimit(ctx context.Context) (int, error) {
	var stats map[string]any
	if err := c.do(ctx, http.MethodGet, "/stats", nil, &stats, http.StatusOK); err != nil {
		return 0, err
	}
	limit, ok := stats["history_limit"].(float64)
	if !ok || limit <= 0 {
		return 0, fmt.Errorf("GET /stats: history_limit missing")
	}
	return int(limit), nil
}
