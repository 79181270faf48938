// Package imagegen calls a generateContent-style image model and hands
// decoded images to a sink that returns locally addressable handles.
//
// Generate never returns an error. Any failure yields a nil handle; the
// reason is logged and counted so quota problems and transient network
// errors can be told apart on dashboards.
package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dossbaby/dream-storybook-sub001/internal/observability"
)

// Defaults applied by NewClient for zero config values.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.5-flash-image"
	DefaultTimeout = 60 * time.Second
)

const maxResponseBytes = 32 << 20

// Failure reasons.
const (
	ReasonMissingKey = "missing_key"
	ReasonTransport  = "transport"
	ReasonStatus     = "status"
	ReasonQuota      = "quota"
	ReasonNoImage    = "no_image"
	ReasonDecode     = "decode"
)

// Sink stores image bytes and returns a handle for them.
type Sink interface {
	Put(data []byte, mime string) string
}

// Config is passed explicitly; the client never reads the environment.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
	sink       Sink
}

// NewClient applies defaults. A nil httpClient gets one with cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client, sink Sink) *Client {
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
	return &Client{
		httpClient: httpClient,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		sink:       sink,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c != nil && c.apiKey != "" }

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents         []content `json:"contents"`
	GenerationConfig struct {
		ResponseModalities []string `json:"responseModalities"`
	} `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate renders one image. It returns nil on any failure.
func (c *Client) Generate(ctx context.Context, scene string, style Style, character string) *string {
	handle, reason, err := c.generate(ctx, Compose(style, scene, character))
	if reason != "" {
		observability.ImageFailures.WithLabelValues(string(style), reason).Inc()
		ev := zerolog.Ctx(ctx).Warn().Str("style", string(style)).Str("reason", reason)
		if err != nil {
			ev = ev.Err(err)
		}
		ev.Msg("image generation failed")
		return nil
	}
	return &handle
}

func (c *Client) generate(ctx context.Context, prompt string) (string, string, error) {
	if !c.Configured() {
		return "", ReasonMissingKey, nil
	}

	var body generateRequest
	body.Contents = []content{{Role: "user", Parts: []part{{Text: prompt}}}}
	body.GenerationConfig.ResponseModalities = []string{"TEXT", "IMAGE"}
	raw, err := json.Marshal(body)
	if err != nil {
		return "", ReasonTransport, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return "", ReasonTransport, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", ReasonTransport, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", ReasonTransport, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return "", ReasonQuota, fmt.Errorf("status %d", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", ReasonStatus, fmt.Errorf("status %d", resp.StatusCode)
	}

	var gr generateResponse
	if err := json.Unmarshal(respBody, &gr); err != nil {
		return "", ReasonDecode, fmt.Errorf("decode envelope: %w", err)
	}
	inline := firstInline(gr)
	if inline == nil {
		return "", ReasonNoImage, nil
	}
	data, err := base64.StdEncoding.DecodeString(inline.Data)
	if err != nil || len(data) == 0 {
		return "", ReasonDecode, err
	}
	return c.sink.Put(data, inline.MimeType), "", nil
}

func firstInline(gr generateResponse) *inlineData {
	for _, cand := range gr.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil && p.InlineData.Data != "" {
				return p.InlineData
			}
		}
	}
	return nil
}
