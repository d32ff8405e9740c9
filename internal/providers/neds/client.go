package neds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/next-to-go-service/internal/domain/races"
	"github.com/preston-bernstein/next-to-go-service/internal/providers"
)

// Config controls how the client reaches the upstream racing API.
type Config struct {
	BaseURL    string
	Count      int
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client fetches the next-to-go race list and maps it to domain races.
// It holds no per-call state and is safe for concurrent use.
type Client struct {
	baseURL    string
	count      int
	httpClient httpDoer
}

// NewClient constructs a client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		count:      resolveCount(cfg.Count),
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
	}
}

// Name identifies the provider in logs and metrics.
func (c *Client) Name() string {
	return providerName
}

// FetchRaces performs a single request for the next races page.
func (c *Client) FetchRaces(ctx context.Context) ([]races.Race, error) {
	req, err := c.buildRequest(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &providers.NetworkError{Provider: providerName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &providers.HTTPError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var payload nextRacesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", providerName, providers.ErrMalformedResponse, err)
	}
	if payload.Status != statusOK {
		return nil, &providers.APIError{Provider: providerName, Status: payload.Status}
	}

	if !payload.complete() {
		return nil, fmt.Errorf("%s: %w", providerName, providers.ErrMalformedResponse)
	}

	return normalize(*payload.Data), nil
}

func (c *Client) buildRequest(ctx context.Context) (*http.Request, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid base url: %w", providerName, err)
	}
	q := u.Query()
	q.Set("method", defaultMethod)
	q.Set("count", strconv.Itoa(c.count))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}
