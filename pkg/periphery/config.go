package periphery

import (
	"net/http"
	"time"
)

// ClientConfig holds the configuration for the periphery client
type ClientConfig struct {
	BaseURL       string
	Passkey       string
	HTTPClient    *http.Client
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	Headers       map[string]string
	UserAgent     string
}

// DefaultConfig returns the default configuration
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:    "https://periphery:8120",
		Timeout:    3 * time.Second,
		RetryDelay: 500 * time.Millisecond,
		Headers:    map[string]string{},
		UserAgent:  "komodo-core",
	}
}

// ClientOption is a function that modifies ClientConfig
type ClientOption func(*ClientConfig)

// WithBaseURL sets the address of the periphery agent
func WithBaseURL(baseURL string) ClientOption {
	return func(c *ClientConfig) {
		c.BaseURL = baseURL
	}
}

// WithPasskey sets the passkey sent in the authorization header
func WithPasskey(passkey string) ClientOption {
	return func(c *ClientConfig) {
		c.Passkey = passkey
	}
}

// WithHTTPClient sets a custom HTTP client. The client's own timeout is kept.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *ClientConfig) {
		c.HTTPClient = client
	}
}

// WithTimeout sets the request timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.Timeout = timeout
	}
}

// WithRetryAttempts sets the number of retry attempts
func WithRetryAttempts(attempts int) ClientOption {
	return func(c *ClientConfig) {
		c.RetryAttempts = attempts
	}
}

// WithRetryDelay sets the delay between retry attempts
func WithRetryDelay(delay time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.RetryDelay = delay
	}
}

// WithHeaders adds headers sent with every request
func WithHeaders(headers map[string]string) ClientOption {
	return func(c *ClientConfig) {
		if c.Headers == nil {
			c.Headers = make(map[string]string, len(headers))
		}
		for key, value := range headers {
			c.Headers[key] = value
		}
	}
}

// WithUserAgent sets the user agent string
func WithUserAgent(userAgent string) ClientOption {
	return func(c *ClientConfig) {
		c.UserAgent = userAgent
	}
}
