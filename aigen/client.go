package aigen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"archdraw/registry"
)

// DefaultTimeout bounds a generation request.
const DefaultTimeout = 45 * time.Second

var (
	// ErrStatus is returned, wrapped with the code, for non-2xx responses.
	ErrStatus = errors.New("request failed with status")

	// ErrNoEndpoint is returned when no endpoint is configured.
	ErrNoEndpoint = errors.New("AI endpoint not configured")

	// ErrEmptyPrompt is returned for blank questions.
	ErrEmptyPrompt = errors.New("prompt is empty")
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithPromptAffixes wraps the sanitised question in prefix and suffix
// instead of the built-in template. Both empty keeps the template.
func WithPromptAffixes(prefix, suffix string) Option {
	return func(c *Client) { c.prefix, c.suffix = prefix, suffix }
}

// WithSanitizer sets the sanitizer applied to responses.
func WithSanitizer(s *registry.Sanitizer) Option {
	return func(c *Client) { c.sanitizer = s }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// Client posts prompts to a generation endpoint. It is safe for concurrent
// use; the editor runs at most one request at a time.
type Client struct {
	endpoint  string
	prefix    string
	suffix    string
	timeout   time.Duration
	http      *http.Client
	sanitizer *registry.Sanitizer
	logger    *slog.Logger
}

// NewClient creates a client for endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: strings.TrimSpace(endpoint),
		timeout:  DefaultTimeout,
		http:     &http.Client{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Prompt returns the text sent for question.
func (c *Client) Prompt(question string) string {
	if c.prefix != "" || c.suffix != "" {
		return c.prefix + SanitizeInput(question) + c.suffix
	}
	return BuildPrompt(question)
}

// Generate sends question and returns the sanitised diagram. The request is
// abandoned when ctx is cancelled or the timeout elapses.
func (c *Client) Generate(ctx context.Context, question string) (*Result, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyPrompt
	}
	if c.endpoint == "" {
		return nil, ErrNoEndpoint
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(map[string]string{"prompt": c.Prompt(question)})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("ai request failed", "endpoint", c.endpoint, "error", err)
		return nil, fmt.Errorf("ai request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug("ai response", "status", resp.StatusCode, "bytes", len(raw), "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("%w %d", ErrStatus, resp.StatusCode)
		if msg := errorMessage(raw); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}

	result, err := ParseResponse(string(raw), c.sanitizer)
	if err != nil {
		return nil, err
	}
	c.logger.Info("ai diagram generated",
		"nodes", len(result.Diagram.Nodes),
		"frames", len(result.Diagram.Frames),
		"edges", len(result.Diagram.Edges),
		"model", result.Model)
	return result, nil
}

// errorMessage pulls a message or error string out of a JSON error body.
func errorMessage(raw []byte) string {
	var body struct {
		Message any `json:"message"`
		Error   any `json:"error"`
	}
	if json.Unmarshal(raw, &body) != nil {
		return ""
	}
	for _, v := range []any{body.Message, body.Error} {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
