package periphery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client talks to a single periphery agent. It is cheap to construct and
// holds no connection state of its own.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a new periphery client with the given options
func NewClient(options ...ClientOption) *Client {
	config := DefaultConfig()

	for _, option := range options {
		option(config)
	}

	if config.Timeout < 0 {
		config.Timeout = 0
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: config.Timeout,
		}
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
	}
}

func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

func (c *Client) Passkey() string {
	return c.config.Passkey
}

// Headers returns a copy of the extra headers sent with every request.
func (c *Client) Headers() map[string]string {
	headers := make(map[string]string, len(c.config.Headers))
	for key, value := range c.config.Headers {
		headers[key] = value
	}
	return headers
}

func (c *Client) Timeout() time.Duration {
	return c.config.Timeout
}

type requestEnvelope struct {
	Type   string `json:"type"`
	Params any    `json:"params"`
}

// Request sends a typed request to the agent and decodes the response into
// result when it is not nil.
func (c *Client) Request(ctx context.Context, requestType string, params any, result any) error {
	if requestType == "" {
		return fmt.Errorf("request type cannot be empty")
	}

	if params == nil {
		params = struct{}{}
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/", requestEnvelope{Type: requestType, Params: params})
	if err != nil {
		return fmt.Errorf("failed to send %s request: %w", requestType, err)
	}

	if err := c.handleResponse(resp, result); err != nil {
		return fmt.Errorf("failed to process %s response: %w", requestType, err)
	}

	return nil
}

// GetHealth succeeds when the agent is reachable and accepts the passkey.
func (c *Client) GetHealth(ctx context.Context) error {
	return c.Request(ctx, "GetHealth", nil, nil)
}

type versionResponse struct {
	Version string `json:"version"`
}

func (c *Client) GetVersion(ctx context.Context) (string, error) {
	var response versionResponse
	if err := c.Request(ctx, "GetVersion", nil, &response); err != nil {
		return "", err
	}
	return response.Version, nil
}

// doRequest performs an HTTP request with retry logic
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	url := strings.TrimSuffix(c.config.BaseURL, "/") + path
	requestID := uuid.New().String()

	var lastErr error
	for attempt := 0; attempt <= c.config.RetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.config.RetryDelay):
			}
		}

		var requestBody io.Reader
		if bodyBytes != nil {
			requestBody = bytes.NewReader(bodyBytes)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, requestBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		for key, value := range c.config.Headers {
			req.Header.Set(key, value)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", c.config.Passkey)
		req.Header.Set("X-Request-ID", requestID)

		if c.config.UserAgent != "" {
			req.Header.Set("User-Agent", c.config.UserAgent)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			lastErr = err
			continue
		}

		if resp.StatusCode >= 400 {
			apiErr := responseError(resp, requestID)
			if !apiErr.IsRetryable() {
				return nil, apiErr
			}
			lastErr = apiErr
			continue
		}

		return resp, nil
	}

	if c.config.RetryAttempts == 0 {
		return nil, lastErr
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", c.config.RetryAttempts, lastErr)
}

// handleResponse unmarshals a successful response into result
func (c *Client) handleResponse(resp *http.Response, result any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

// responseError consumes and closes the body of a failed response
func responseError(resp *http.Response, requestID string) *Error {
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	return &Error{
		StatusCode: resp.StatusCode,
		Message:    errorMessage(body, resp.StatusCode),
		Body:       string(body),
		RequestID:  requestID,
	}
}

// errorMessage pulls a message out of an agent error body, falling back to
// the raw body or the status code.
func errorMessage(body []byte, statusCode int) string {
	var errorResponse struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}

	if json.Unmarshal(body, &errorResponse) == nil {
		if errorResponse.Error != "" {
			return errorResponse.Error
		}
		if errorResponse.Message != "" {
			return errorResponse.Message
		}
	}

	if trimmed := strings.TrimSpace(string(body)); trimmed != "" {
		return trimmed
	}

	return fmt.Sprintf("HTTP %d", statusCode)
}
