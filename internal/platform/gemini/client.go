// Package gemini is a minimal REST client for the Gemini generateContent API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yungbote/infinitetutor-backend/internal/observability"
	"github.com/yungbote/infinitetutor-backend/internal/platform/httpx"
	"github.com/yungbote/infinitetutor-backend/internal/platform/llm"
	"github.com/yungbote/infinitetutor-backend/internal/platform/logger"
)

const (
	ProviderName   = "gemini"
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.0-flash"
)

type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	maxRetries int
}

func NewClient(log *logger.Logger, cfg Config) llm.Client {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return llm.Unconfigured(ProviderName, "GEMINI_API_KEY")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &client{
		log:        log.With("client", "gemini"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: cfg.MaxRetries,
	}
}

func (c *client) Provider() string { return ProviderName }

type part struct {
	Text string `json:"text,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason,omitempty"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason,omitempty"`
	} `json:"promptFeedback,omitempty"`
}

func (r generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var out strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		out.WriteString(p.Text)
	}
	return out.String()
}

func (c *client) GenerateJSON(ctx context.Context, prompt string) ([]byte, error) {
	req := newRequest(prompt)
	req.GenerationConfig = &generationConfig{ResponseMimeType: "application/json"}
	text, err := c.generate(ctx, "json", req)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

func (c *client) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, "text", newRequest(prompt))
}

func newRequest(prompt string) *generateRequest {
	return &generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	}
}

func (c *client) generate(ctx context.Context, kind string, req *generateRequest) (string, error) {
	start := time.Now()
	var (
		resp     generateResponse
		lastResp *http.Response
	)
	err := httpx.Retry(ctx, c.maxRetries, func(ctx context.Context) (*http.Response, error) {
		httpResp, raw, err := c.doOnce(ctx, req)
		lastResp = httpResp
		if err != nil {
			return httpResp, err
		}
		resp = generateResponse{}
		if uErr := json.Unmarshal(raw, &resp); uErr != nil {
			return httpResp, fmt.Errorf("gemini decode error: %w", uErr)
		}
		return httpResp, nil
	}, func(attempt int, sleep time.Duration, err error) {
		c.log.Warn("Gemini request retrying",
			"model", c.model,
			"attempt", attempt,
			"max_retries", c.maxRetries,
			"sleep", sleep.String(),
			"error", err.Error(),
		)
	})
	observability.Current().ObserveLLMRequest(ProviderName, kind, httpx.StatusLabel(lastResp, err), time.Since(start))
	if err != nil {
		return "", err
	}
	text := resp.text()
	if strings.TrimSpace(text) == "" {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("gemini blocked prompt: %s", resp.PromptFeedback.BlockReason)
		}
		return "", llm.ErrEmptyResponse
	}
	return text, nil
}

func (c *client) doOnce(ctx context.Context, body *generateRequest) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, nil, err
	}
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &httpx.StatusError{Service: ProviderName, StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}
