// Package upstash is a client for the Upstash Search REST API.
package upstash

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cloo-solutions/docsearch/internal/domain"
	"golang.org/x/time/rate"
)

const (
	// DefaultNamespace is the index used when none is configured.
	DefaultNamespace = "@upstash/docusaurus-theme-ai-search"

	defaultTimeout = 30 * time.Second
)

var (
	// ErrNoURL is returned when the client has no service URL.
	ErrNoURL = errors.New("upstash: service URL not set")
	// ErrNoToken is returned when the client has no token.
	ErrNoToken = errors.New("upstash: token not set")
)

// Config holds the connection settings for one index.
type Config struct {
	URL       string
	Token     string
	Namespace string
	Timeout   time.Duration

	// RequestsPerSecond caps the request rate. Zero means unlimited.
	RequestsPerSecond float64
}

// Client talks to one index (namespace) of the search service.
type Client struct {
	baseURL    string
	token      string
	namespace  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a Client for cfg.
func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, ErrNoURL
	}
	if cfg.Token == "" {
		return nil, ErrNoToken
	}
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	c := &Client{
		baseURL:   strings.TrimRight(cfg.URL, "/"),
		token:     cfg.Token,
		namespace: cfg.Namespace,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return c, nil
}

// Namespace returns the index name the client writes to.
func (c *Client) Namespace() string {
	return c.namespace
}

// Response is the envelope every endpoint answers with.
type Response struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// ServiceError is a failed call to the search service.
type ServiceError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("upstash %s failed (%d): %s", e.Op, e.StatusCode, e.Message)
}

// Reset deletes every record in the namespace.
func (c *Client) Reset(ctx context.Context) error {
	_, err := c.do(ctx, "reset", http.MethodDelete, c.path("reset"), nil)
	return err
}

// Upsert inserts or replaces records by ID.
func (c *Client) Upsert(ctx context.Context, records ...domain.IndexRecord) error {
	if len(records) == 0 {
		return nil
	}
	_, err := c.do(ctx, "upsert", http.MethodPost, c.path("upsert-data"), records)
	return err
}

// SearchRequest is the body of a search call.
type SearchRequest struct {
	Query           string `json:"query"`
	TopK            int    `json:"topK"`
	IncludeData     bool   `json:"includeData"`
	IncludeMetadata bool   `json:"includeMetadata"`
}

// Search returns up to limit records ranked by relevance to query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	req := SearchRequest{
		Query:           query,
		TopK:            limit,
		IncludeData:     true,
		IncludeMetadata: true,
	}

	resp, err := c.do(ctx, "search", http.MethodPost, c.path("search"), req)
	if err != nil {
		return nil, err
	}

	var results []domain.SearchResult
	if len(resp.Result) == 0 {
		return results, nil
	}
	if err := json.Unmarshal(resp.Result, &results); err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}
	return results, nil
}

// path joins an endpoint with the namespace. The namespace is appended as-is,
// slashes included, which is how the service addresses scoped index names.
func (c *Client) path(endpoint string) string {
	return "/" + endpoint + "/" + c.namespace
}

func (c *Client) do(ctx context.Context, op, method, path string, body interface{}) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("upstash %s rate limit: %w", op, err)
		}
	}

	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstash %s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var apiResp Response
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		if resp.StatusCode >= 400 {
			return nil, &ServiceError{
				Op:         op,
				StatusCode: resp.StatusCode,
				Message:    strings.TrimSpace(string(respBody)),
			}
		}
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &ServiceError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    apiResp.Error,
		}
	}

	return &apiResp, nil
}
