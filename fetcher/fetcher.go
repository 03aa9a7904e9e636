package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultAttempts  = 3
	defaultUserAgent = "currency-conversion/1.0 (+analytics)"
)

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// FetchError is returned once the attempt budget for a URL is exhausted.
// It carries the last underlying cause
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("all %d attempts failed for %s: %s", e.Attempts, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// BackoffFn computes the wait duration before the given retry attempt
type BackoffFn func(attempt int) time.Duration

// Client is an HTTP GET client with bounded retries and
// exponential backoff with jitter
type Client struct {
	client    *http.Client
	logger    *slog.Logger
	backoff   BackoffFn
	userAgent string
	attempts  int
}

// NewClient creates a new fetch client with the given per-request timeout
func NewClient(timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		client: &http.Client{
			Timeout: timeout,
		},
		logger:    noopLogger,
		backoff:   expBackoff,
		userAgent: defaultUserAgent,
		attempts:  defaultAttempts,
	}

	// Apply the options
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// expBackoff waits 2^attempt seconds, plus up to a second of jitter
func expBackoff(attempt int) time.Duration {
	return time.Duration(1<<attempt)*time.Second +
		time.Duration(rand.Float64()*float64(time.Second))
}

// GetText fetches the URL and returns the raw response body
func (c *Client) GetText(ctx context.Context, rawURL string, params url.Values) (string, error) {
	body, err := c.get(ctx, rawURL, params, false)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// GetJSON fetches the URL, validates the response is declared as JSON,
// and decodes the body into out
func (c *Client) GetJSON(ctx context.Context, rawURL string, params url.Values, out any) error {
	body, err := c.get(ctx, rawURL, params, true)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unable to decode JSON response: %w", err)
	}

	return nil
}

// get runs the bounded retry loop. A failed attempt yields nothing usable,
// and the last cause is surfaced as a *FetchError
func (c *Client) get(
	ctx context.Context,
	rawURL string,
	params url.Values,
	expectJSON bool,
) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < c.attempts; attempt++ {
		if attempt > 0 {
			wait := c.backoff(attempt - 1)

			c.logger.Warn(
				"GET failed, retrying",
				"url", rawURL,
				"attempt", attempt,
				"budget", c.attempts,
				"wait", wait.String(),
				"err", lastErr,
			)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		body, err := c.do(ctx, rawURL, params, expectJSON)
		if err == nil {
			return body, nil
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		lastErr = err
	}

	return nil, &FetchError{
		URL:      rawURL,
		Attempts: c.attempts,
		Err:      lastErr,
	}
}

// do executes a single GET attempt
func (c *Client) do(
	ctx context.Context,
	rawURL string,
	params url.Values,
	expectJSON bool,
) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("unable to create GET request: %w", err)
	}

	if params != nil {
		req.URL.RawQuery = params.Encode()
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json,text/html;q=0.9,*/*;q=0.8")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to execute GET request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("invalid status code received: %d", resp.StatusCode)
	}

	if expectJSON {
		ct := resp.Header.Get("Content-Type")
		if !strings.Contains(strings.ToLower(ct), "json") {
			return nil, fmt.Errorf("non-JSON response (Content-Type=%q)", ct)
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read response body: %w", err)
	}

	return body, nil
}
