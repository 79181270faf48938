// Package llm is a minimal client for a Messages-style text generation API.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Defaults applied by NewClient for zero config values.
const (
	DefaultBaseURL = "https://api.anthropic.com"
	DefaultModel   = "claude-sonnet-4-5"
	DefaultVersion = "2023-06-01"
	DefaultTimeout = 90 * time.Second
)

// maxResponseBytes bounds how much of a reply body is read.
const maxResponseBytes = 4 << 20

// Config is passed explicitly; the client never reads the environment.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Version string
	Timeout time.Duration
}

// Client calls POST {BaseURL}/v1/messages.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
	version    string
}

// NewClient applies defaults. A nil httpClient gets one with cfg.Timeout.
// A missing key is not an error here; Generate reports it per call.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	version := strings.TrimSpace(cfg.Version)
	if version == "" {
		version = DefaultVersion
	}
	return &Client{
		httpClient: httpClient,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		version:    version,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c != nil && c.apiKey != "" }

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// Generate sends prompt as a single user message and decodes the reply
// into a JSON object. It never retries.
func (c *Client) Generate(ctx context.Context, prompt string, maxTokens int) (map[string]any, error) {
	if !c.Configured() {
		return nil, ErrConfiguration
	}

	text, err := c.complete(ctx, prompt, maxTokens)
	if err != nil {
		return nil, err
	}

	obj, err := DecodeObject(text)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Int("reply_len", len(text)).Msg("text model returned non-JSON reply")
		return nil, err
	}
	return obj, nil
}

func (c *Client) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", c.version)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, truncate(string(raw), 300))
	}

	var mr messagesResponse
	if err := json.Unmarshal(raw, &mr); err != nil {
		return "", fmt.Errorf("%w: envelope: %w", ErrMalformedResponse, err)
	}
	var sb strings.Builder
	for _, block := range mr.Content {
		if block.Type == "" || block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: no text content", ErrMalformedResponse)
	}
	return sb.String(), nil
}

// StripCodeFence removes a leading ```json or ``` marker and a trailing ```
// marker, then trims whitespace.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```JSON")
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// DecodeObject strips code fences and decodes a single JSON object.
func DecodeObject(text string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(StripCodeFence(text)), &obj); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: not an object", ErrMalformedResponse)
	}
	return obj, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
