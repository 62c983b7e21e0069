// Package civictrack provides a Go client for the CivicTrack civic-issue
// reporting REST API.
package civictrack

import "time"

// Default client settings.
const (
	DefaultBaseURL = "http://localhost:5000"
	DefaultTimeout = 30 * time.Second
)

// Config holds all configuration for the CivicTrack API client.
type Config struct {
	// BaseURL is the root of the API server, without a trailing slash.
	BaseURL string

	// Timeout is the HTTP client timeout for each request.
	Timeout time.Duration

	// UserAgent is sent with every request when non-empty.
	UserAgent string
}

// DefaultConfig returns a Config with default settings.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// WithBaseURL returns a copy of the config pointing at the given server.
func (c Config) WithBaseURL(baseURL string) Config {
	c.BaseURL = baseURL
	return c
}

// WithTimeout returns a copy of the config with the specified timeout.
func (c Config) WithTimeout(timeout time.Duration) Config {
	c.Timeout = timeout
	return c
}
