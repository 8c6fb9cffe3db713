// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ragserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/paperchat/internal/model"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the RAG server client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeBadStatus
	ErrTypeInvalidResponse
	ErrTypeValidation
)

// Sentinel errors for easy checking.
var (
	ErrUnreachable = &ClientError{Type: ErrTypeConnection, Message: "server is unreachable"}
	ErrTimeout     = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrNoFiles     = &ClientError{Type: ErrTypeValidation, Message: "no files to index"}
)

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return false
}

// IsBadStatus checks if an error is a non-2xx server response.
func IsBadStatus(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeBadStatus
	}
	return false
}

// IsInvalidResponse checks if an error is a malformed server response.
func IsInvalidResponse(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeInvalidResponse
	}
	return false
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// maxErrorBody caps how much of an error response body is read into the
// surfaced message.
const maxErrorBody = 64 * 1024

// ClientConfig holds configuration options for the RAG server client.
type ClientConfig struct {
	// BaseURL is the server base URL (default: http://127.0.0.1:8000)
	BaseURL string

	// Timeout for ask requests (default: 120s; retrieval plus generation
	// is slow)
	Timeout time.Duration

	// IndexTimeout for indexing uploads (default: 15m; PDF conversion and
	// chunking run synchronously server-side)
	IndexTimeout time.Duration

	// RequestsPerSecond throttles outgoing requests (default: 2)
	RequestsPerSecond float64
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           "http://127.0.0.1:8000",
		Timeout:           120 * time.Second,
		IndexTimeout:      15 * time.Minute,
		RequestsPerSecond: 2,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the RAG server. It is safe for
// concurrent use.
type Client struct {
	config      *ClientConfig
	askClient   *http.Client
	indexClient *http.Client
	limiter     *rate.Limiter

	// mu guards the base URL, which config live-reload can change while
	// requests are in flight.
	mu      sync.RWMutex
	baseURL string
}

// NewClient creates a client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a client with custom configuration, filling
// in defaults for any zero values.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8000"
	}
	if config.Timeout == 0 {
		config.Timeout = 120 * time.Second
	}
	if config.IndexTimeout == 0 {
		config.IndexTimeout = 15 * time.Minute
	}
	if config.RequestsPerSecond == 0 {
		config.RequestsPerSecond = 2
	}

	return &Client{
		config:      config,
		askClient:   &http.Client{Timeout: config.Timeout},
		indexClient: &http.Client{Timeout: config.IndexTimeout},
		limiter:     rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
		baseURL:     config.BaseURL,
	}
}

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetBaseURL updates the server base URL, for config live-reload.
func (c *Client) SetBaseURL(u string) {
	if u == "" {
		return
	}
	c.mu.Lock()
	c.baseURL = u
	c.mu.Unlock()
}

// =============================================================================
// ASK
// =============================================================================

// Ask sends one exchange to the server and returns the canonical result.
// A response without a usable history sequence is an ErrTypeInvalidResponse;
// callers keep their prior local history in that case.
func (c *Client) Ask(ctx context.Context, askReq *AskRequest) (*AskResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &ClientError{Type: ErrTypeTimeout, Message: "request cancelled", Cause: err}
	}

	if askReq.History == nil {
		askReq.History = []model.Message{}
	}
	body, err := json.Marshal(askReq)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL()+"/api/ask", bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.askClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, ErrTimeout
		}
		return nil, &ClientError{Type: ErrTypeConnection, Message: "server is unreachable", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, badStatusError(resp)
	}

	var result AskResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	if result.History == nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "response is missing a history sequence"}
	}

	return &result, nil
}

// =============================================================================
// INDEX
// =============================================================================

// Index submits files for indexing as a multipart upload. Structured
// failure reports (ok false with per-file errors) are returned as data, not
// as an error, so callers can report every per-file failure.
func (c *Client) Index(ctx context.Context, files []Upload, persistDir, collectionName string) (*IndexResponse, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &ClientError{Type: ErrTypeTimeout, Message: "request cancelled", Cause: err}
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, file := range files {
		part, err := writer.CreateFormFile("files", file.Name)
		if err != nil {
			return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to build upload", Cause: err}
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to build upload", Cause: err}
		}
	}
	if err := writer.WriteField("persist_dir", persistDir); err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to build upload", Cause: err}
	}
	if err := writer.WriteField("collection_name", collectionName); err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to build upload", Cause: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to build upload", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL()+"/api/index", &buf)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.indexClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, ErrTimeout
		}
		return nil, &ClientError{Type: ErrTypeConnection, Message: "server is unreachable", Cause: err}
	}
	defer resp.Body.Close()

	// The server reports structured failures with a non-2xx status and the
	// same JSON shape as success, so decode first and fall back to a bad
	// status error only when the body is not that shape.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to read response", Cause: err}
	}

	var result IndexResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, bodyStatusError(resp.Status, raw)
		}
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return &result, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// badStatusError builds the surfaced error for a non-2xx response with the
// body text included verbatim.
func badStatusError(resp *http.Response) *ClientError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return bodyStatusError(resp.Status, raw)
}

func bodyStatusError(status string, body []byte) *ClientError {
	text := strings.TrimSpace(string(body))
	if text == "" {
		text = status
	}
	return &ClientError{Type: ErrTypeBadStatus, Message: text}
}
