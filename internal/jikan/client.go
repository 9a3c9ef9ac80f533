package jikan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/anigo/internal/domain"
)

// DefaultBaseURL is the public Jikan v4 endpoint
const DefaultBaseURL = "https://api.jikan.moe/v4"

const (
	defaultTimeout    = 30 * time.Second
	defaultRetryDelay = 1 * time.Second
	defaultUserAgent  = "anigo"
)

// Options tunes the HTTP client. Zero values select the defaults.
type Options struct {
	Timeout    time.Duration
	MaxRetries int // opt-in retries for 429 responses only; zero or negative means none
	RetryDelay time.Duration
	UserAgent  string
	HTTPClient *http.Client
}

// APIError is a non-success answer from the API
type APIError struct {
	Status  int
	Type    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("jikan: %d %s: %s", e.Status, e.Type, e.Message)
	}
	return fmt.Sprintf("jikan: unexpected status code: %d", e.Status)
}

// Client implements domain.CatalogRepository for the Jikan API
type Client struct {
	baseURL    string
	userAgent  string
	maxRetries int
	retryDelay time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new Jikan API client
func NewClient(baseURL string, opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	maxRetries := max(opts.MaxRetries, 0)

	retryDelay := opts.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		httpClient: httpClient,
		logger:     logger,
	}
}

// doRequest performs a GET against the API and returns the body of a 200 answer.
// 429 responses are retried with exponential backoff only when MaxRetries is set.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)

		c.logger.Debug("jikan request", "url", reqURL, "attempt", attempt)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Error("jikan request failed", "error", err, "url", reqURL)
			return nil, fmt.Errorf("%w: %w", domain.ErrNetwork, err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read response: %w", domain.ErrNetwork, err)
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil

		case resp.StatusCode == http.StatusTooManyRequests:
			if attempt >= c.maxRetries {
				c.logger.Warn("jikan rate limit, giving up", "attempts", attempt+1, "path", path)
				return nil, fmt.Errorf("%w: %w", domain.ErrRateLimited, decodeAPIError(resp.StatusCode, body))
			}
			delay := c.backoff(attempt, resp.Header.Get("Retry-After"))
			c.logger.Debug("jikan rate limit, will retry", "attempt", attempt, "delay", delay, "path", path)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}

		case resp.StatusCode == http.StatusNotFound:
			return nil, fmt.Errorf("%w: %w", domain.ErrNotFound, decodeAPIError(resp.StatusCode, body))

		default:
			apiErr := decodeAPIError(resp.StatusCode, body)
			c.logger.Error("jikan request error", "status", resp.StatusCode, "error", apiErr, "path", path)
			return nil, fmt.Errorf("%w: %w", domain.ErrNetwork, apiErr)
		}
	}
}

// backoff honours Retry-After seconds when present, else doubles the base delay
func (c *Client) backoff(attempt int, retryAfter string) time.Duration {
	if secs, err := strconv.Atoi(strings.TrimSpace(retryAfter)); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return c.retryDelay * time.Duration(1<<attempt)
}

func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}
	var er ErrorResponse
	if json.Unmarshal(body, &er) == nil {
		apiErr.Type = er.Type
		apiErr.Message = er.Message
		if apiErr.Message == "" {
			apiErr.Message = er.Error
		}
	}
	return apiErr
}

// decode unmarshals body into dest, classifying failures as malformed responses
func decode(body []byte, dest any) error {
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}
	return nil
}

// ListAnime returns one page of records matching the query
func (c *Client) ListAnime(ctx context.Context, q domain.ListQuery) (domain.AnimePage, error) {
	body, err := c.doRequest(ctx, "/anime", BuildListQuery(q))
	if err != nil {
		return domain.AnimePage{}, err
	}

	var resp ListResponse
	if err := decode(body, &resp); err != nil {
		return domain.AnimePage{}, err
	}
	if resp.Data == nil {
		return domain.AnimePage{}, fmt.Errorf("%w: missing data", domain.ErrMalformedResponse)
	}

	return MapPage(resp, q.Page), nil
}

// GetAnime returns the full record for one entry
func (c *Client) GetAnime(ctx context.Context, id int) (*domain.AnimeDetail, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id %d", domain.ErrNotFound, id)
	}

	body, err := c.doRequest(ctx, fmt.Sprintf("/anime/%d", id), nil)
	if err != nil {
		return nil, err
	}

	var resp DetailResponse
	if err := decode(body, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil || resp.Data.MalID == 0 {
		return nil, fmt.Errorf("%w: missing data", domain.ErrMalformedResponse)
	}

	return MapAnimeDetail(*resp.Data), nil
}

// ListGenres returns the complete anime genre taxonomy
func (c *Client) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	body, err := c.doRequest(ctx, "/genres/anime", nil)
	if err != nil {
		return nil, err
	}

	var resp GenresResponse
	if err := decode(body, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("%w: missing data", domain.ErrMalformedResponse)
	}

	return MapGenres(resp.Data), nil
}

// Ping checks that the API answers at all
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.ListGenres(ctx)
	if errors.Is(err, domain.ErrMalformedResponse) {
		// Reachable, just not the shape we expect
		return nil
	}
	return err
}
