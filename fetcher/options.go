package fetcher

import "log/slog"

type Option func(c *Client)

// WithLogger specifies the logger for the fetch client
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithAttempts specifies the attempt budget per request.
// Defaults to 3
func WithAttempts(attempts int) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.attempts = attempts
		}
	}
}

// WithBackoff specifies the backoff schedule between attempts.
// Defaults to 2^attempt seconds plus jitter
func WithBackoff(fn BackoffFn) Option {
	return func(c *Client) {
		if fn != nil {
			c.backoff = fn
		}
	}
}

// WithUserAgent specifies the User-Agent header on outgoing requests
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}
