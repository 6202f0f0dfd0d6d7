// HTTP implementation of [TaskService]
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/taskly/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "http://localhost:5000"

// HTTPTaskService implements [TaskService] against the REST endpoints
// GET/POST /tasks and PUT/DELETE /tasks/{id}.
type HTTPTaskService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ TaskService = (*HTTPTaskService)(nil)

type createTaskRequest struct {
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
}

type createTaskResponse struct {
	ID models.TaskID `json:"id"`
}

type updateTaskRequest struct {
	Task string `json:"task"`
}

// NewHTTPTaskService creates a task service client for baseURL.
func NewHTTPTaskService(baseURL string, client *http.Client) *HTTPTaskService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPTaskService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Inf, 1),
	}
}

// DefaultTokenReuse is how long a token from a [TokenFunc] is reused before asking again.
const DefaultTokenReuse = time.Minute

// TokenFunc returns the current bearer token, refreshing it if needed.
type TokenFunc func(ctx context.Context) (string, error)

type tokenSource struct {
	ctx   context.Context
	fn    TokenFunc
	reuse time.Duration
}

func (s tokenSource) Token() (*oauth2.Token, error) {
	token, err := s.fn(s.ctx)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer", Expiry: time.Now().Add(s.reuse)}, nil
}

// NewTokenClient returns an [http.Client] that sends the token from fn as a bearer Authorization header.
// A token is reused for the reuse window; zero or less asks fn on every request.
func NewTokenClient(ctx context.Context, fn TokenFunc, reuse time.Duration) *http.Client {
	if reuse < 0 {
		reuse = 0
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(nil, tokenSource{ctx: ctx, fn: fn, reuse: reuse}))
}

// SetRateLimit paces outgoing requests to rps per second. Zero or less removes the limit.
func (s *HTTPTaskService) SetRateLimit(rps float64) {
	if rps <= 0 {
		s.limiter.SetLimit(rate.Inf)
		return
	}
	s.limiter.SetLimit(rate.Limit(rps))
}

// FetchAll performs GET /tasks.
func (s *HTTPTaskService) FetchAll(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.doRequest(ctx, "fetch tasks", http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// Create performs POST /tasks and returns the assigned ID.
func (s *HTTPTaskService) Create(ctx context.Context, text string) (models.TaskID, error) {
	var resp createTaskResponse
	body := createTaskRequest{Task: text, Completed: false}
	if err := s.doRequest(ctx, "create task", http.MethodPost, "/tasks", body, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", &NetworkError{Op: "create task", StatusCode: http.StatusOK, Message: "response did not include an id"}
	}
	return resp.ID, nil
}

// UpdateText performs PUT /tasks/{id}.
func (s *HTTPTaskService) UpdateText(ctx context.Context, id models.TaskID, text string) error {
	return s.doRequest(ctx, "update task", http.MethodPut, taskPath(id), updateTaskRequest{Task: text}, nil)
}

// Delete performs DELETE /tasks/{id}.
func (s *HTTPTaskService) Delete(ctx context.Context, id models.TaskID) error {
	return s.doRequest(ctx, "delete task", http.MethodDelete, taskPath(id), nil, nil)
}

func taskPath(id models.TaskID) string {
	return "/tasks/" + url.PathEscape(string(id))
}

// doRequest performs a single JSON round trip. Every failure is returned as a [NetworkError].
func (s *HTTPTaskService) doRequest(ctx context.Context, op, method, path string, body, result any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return &NetworkError{Op: op, Err: err}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &NetworkError{Op: op, Err: fmt.Errorf("failed to encode request: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &NetworkError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	if result != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return &NetworkError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
		}
	}

	return nil
}

// errorMessage extracts a human-readable message from an error response body.
//
// Recognizes {"message": "..."}, {"error": "..."} and {"error": {"message": "..."}}; otherwise
// falls back to short plain-text bodies.
func errorMessage(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg, ok := payload["message"].(string); ok && msg != "" {
			return msg
		}
		switch e := payload["error"].(type) {
		case string:
			return e
		case map[string]any:
			if msg, ok := e["message"].(string); ok {
				return msg
			}
		}
		return ""
	}

	text := strings.TrimSpace(string(body))
	if len(text) > 200 || strings.ContainsAny(text, "<>") {
		return ""
	}
	return text
}
