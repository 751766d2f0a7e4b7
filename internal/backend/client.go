// Package backend talks to the remote inventory and order API.
package backend

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
	"strings"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/models"
)

var (
	// ErrNotFound is returned when the backend answers 404 or with an empty data envelope
	ErrNotFound = errors.New("not found")
	// ErrMalformedResponse is returned when a success response cannot be decoded
	ErrMalformedResponse = errors.New("malformed backend response")
)

// maxFontBytes caps downloaded font resources
const maxFontBytes = 32 << 20

// APIError is a non-success answer from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// Options configures a Client
type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client is a JSON client for the inventory/order API
type Client struct {
	baseURL *url.URL
	apiKey  string
	http    *http.Client
	log     *slog.Logger
}

// NewClient creates a backend client
func NewClient(opts Options, log *slog.Logger) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid backend URL %q: scheme and host are required", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		baseURL: base,
		apiKey:  opts.APIKey,
		http:    httpClient,
		log:     log,
	}, nil
}

// ListProducts handles GET /api/product/
func (c *Client) ListProducts(ctx context.Context) ([]models.CatalogItem, error) {
	var env models.Envelope[models.List[models.CatalogItem]]
	if err := c.do(ctx, http.MethodGet, c.endpoint("api", "product")+"/", nil, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return []models.CatalogItem{}, nil
	}
	return *env.Data, nil
}

// CreateOrder handles POST /api/order and returns the id of the created order
func (c *Client) CreateOrder(ctx context.Context, req models.OrderRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode order request: %w", err)
	}

	var env models.Envelope[models.OrderCreated]
	if err := c.do(ctx, http.MethodPost, c.endpoint("api", "order"), body, &env); err != nil {
		return "", err
	}
	if env.Data == nil || env.Data.ID == "" {
		return "", fmt.Errorf("%w: order id missing", ErrMalformedResponse)
	}
	return env.Data.ID.String(), nil
}

// GetOrder handles GET /api/order/{id}
func (c *Client) GetOrder(ctx context.Context, id string) (*models.OrderRecord, error) {
	var env models.Envelope[models.OrderRecord]
	if err := c.do(ctx, http.MethodGet, c.endpoint("api", "order", id), nil, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, ErrNotFound
	}
	return env.Data, nil
}

// FetchFont downloads a font resource. Relative URLs resolve against the backend base URL.
func (c *Client) FetchFont(ctx context.Context, fontURL string) ([]byte, error) {
	ref, err := url.Parse(fontURL)
	if err != nil {
		return nil, fmt.Errorf("invalid font URL: %w", err)
	}
	target := c.baseURL.ResolveReference(ref).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download font: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFontBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	if len(data) > maxFontBytes {
		return nil, fmt.Errorf("font resource exceeds %d bytes", maxFontBytes)
	}
	if len(data) == 0 {
		return nil, errors.New("font resource is empty")
	}

	c.log.Debug("font downloaded", "url", target, "bytes", len(data))
	return data, nil
}

func (c *Client) endpoint(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return strings.TrimRight(c.baseURL.String(), "/") + "/" + strings.Join(escaped, "/")
}

func (c *Client) do(ctx context.Context, method, target string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("api_key", c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("backend call",
		"method", method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %w", ErrNotFound, apiErr)
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// readErrorMessage extracts the backend's "message" (or "error") field, if any
func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Title   string `json:"title"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	switch {
	case payload.Message != "":
		return payload.Message
	case payload.Error != "":
		return payload.Error
	default:
		return payload.Title
	}
}
