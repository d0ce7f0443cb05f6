package grocy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// API defines the Grocy calls the store depends on.
// This interface is implemented by *Client and can be used for testing.
type API interface {
	ListObjects(ctx context.Context, kind ObjectKind, dest any) error
	CreateObject(ctx context.Context, kind ObjectKind, payload any) (CreatedResponse, error)
	UpdateObject(ctx context.Context, kind ObjectKind, id int, payload any) error
	DBChangedTime(ctx context.Context) (time.Time, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// ErrUnauthorized is returned when Grocy rejects the API key.
var ErrUnauthorized = errors.New("grocy rejected the api key")

// APIError carries a non-2xx Grocy response.
type APIError struct {
	Status  int
	Path    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api %s returned status %d", e.Path, e.Status)
	}
	return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.Status, e.Message)
}

// Client talks to the Grocy HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	apiKey    string
	userAgent string
}

const (
	defaultServerURL = "http://127.0.0.1:9283"
	defaultUserAgent = "grocy-tui/0.1"
	requestTimeout   = 10 * time.Second

	apiKeyHeader    = "GROCY-API-KEY"
	requestIDHeader = "X-Request-ID"
)

// NewClient builds a Client for the Grocy instance at serverURL.
func NewClient(serverURL, apiKey string) (*Client, error) {
	base, err := parseBaseURL(serverURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		apiKey:    strings.TrimSpace(apiKey),
		userAgent: defaultUserAgent,
	}, nil
}

// ListObjects decodes every row of kind into dest, which must be a pointer to a slice.
func (c *Client) ListObjects(ctx context.Context, kind ObjectKind, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodGet, objectsPath(kind), nil, dest)
}

// CreateObject posts a new row and returns the id Grocy assigned.
func (c *Client) CreateObject(ctx context.Context, kind ObjectKind, payload any) (CreatedResponse, error) {
	if c == nil {
		return CreatedResponse{}, fmt.Errorf("client is nil")
	}
	var created CreatedResponse
	if err := c.do(ctx, http.MethodPost, objectsPath(kind), payload, &created); err != nil {
		return CreatedResponse{}, err
	}
	return created, nil
}

// UpdateObject replaces the row identified by id.
func (c *Client) UpdateObject(ctx context.Context, kind ObjectKind, id int, payload any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return fmt.Errorf("object id required")
	}
	path := objectsPath(kind) + "/" + strconv.Itoa(id)
	return c.do(ctx, http.MethodPut, path, payload, nil)
}

// DBChangedTime returns the last time anything changed in the Grocy database.
func (c *Client) DBChangedTime(ctx context.Context) (time.Time, error) {
	if c == nil {
		return time.Time{}, fmt.Errorf("client is nil")
	}
	var payload dbChangedTimeResponse
	if err := c.do(ctx, http.MethodGet, "/api/system/db-changed-time", nil, &payload); err != nil {
		return time.Time{}, err
	}
	changed := ParseTime(payload.ChangedTime)
	if changed.IsZero() {
		return time.Time{}, fmt.Errorf("parse changed_time %q", payload.ChangedTime)
	}
	return changed, nil
}

func objectsPath(kind ObjectKind) string {
	return "/api/objects/" + string(kind)
}

func (c *Client) do(ctx context.Context, method, path string, payload, dest any) error {
	reqURL := *c.baseURL
	reqURL.Path = c.baseURL.Path + path

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(requestIDHeader, RequestID(ctx))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("api %s: %w", path, ErrUnauthorized)
	}
	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Path: path}
		var payload errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			apiErr.Message = strings.TrimSpace(payload.ErrorMessage)
		}
		return apiErr
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type requestIDKey struct{}

// WithRequestID attaches a correlation id to ctx for the next mutation.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the correlation id carried by ctx, minting one if absent.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

func parseBaseURL(serverURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(serverURL)
	if trimmed == "" {
		trimmed = defaultServerURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server_url %q: %w", serverURL, err)
	}
	// Grocy is often served below a path prefix; request paths are appended to it.
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
