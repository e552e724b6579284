package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/infinitetutor-backend/internal/observability"
	"github.com/yungbote/infinitetutor-backend/internal/platform/httpx"
	"github.com/yungbote/infinitetutor-backend/internal/platform/llm"
	"github.com/yungbote/infinitetutor-backend/internal/platform/logger"
)

const (
	ProviderName   = "openai"
	DefaultBaseURL = "https://api.openai.com"
	DefaultModel   = "gpt-4o-mini"
)

type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	// Temperature is omitted from requests when nil.
	Temperature *float64
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	maxRetries int

	temperature *float64
}

// NewClient builds a Responses API client. A missing key yields a client that
// fails every call with llm.MissingKeyError.
func NewClient(log *logger.Logger, cfg Config) llm.Client {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return llm.Unconfigured(ProviderName, "OPENAI_API_KEY")
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
		log:         log.With("client", "openai"),
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       model,
		httpClient:  &http.Client{Timeout: timeout},
		maxRetries:  cfg.MaxRetries,
		temperature: cfg.Temperature,
	}
}

func (c *client) Provider() string { return ProviderName }

type inputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesRequest struct {
	Model string         `json:"model"`
	Input []inputMessage `json:"input"`
	Text  *struct {
		Format map[string]any `json:"format,omitempty"`
	} `json:"text,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type    string `json:"type"`
			Text    string `json:"text,omitempty"`
			Refusal string `json:"refusal,omitempty"`
		} `json:"content,omitempty"`
	} `json:"output"`
}

func extractOutputText(resp responsesResponse) (text string, refusal string) {
	var out strings.Builder
	for _, item := range resp.Output {
		if item.Type != "message" || item.Role != "assistant" {
			continue
		}
		for _, c := range item.Content {
			switch {
			case c.Type == "output_text" && c.Text != "":
				out.WriteString(c.Text)
			case c.Type == "refusal" && c.Refusal != "":
				refusal = c.Refusal
			}
		}
	}
	return out.String(), refusal
}

func (c *client) GenerateJSON(ctx context.Context, prompt string) ([]byte, error) {
	req := c.newRequest(prompt)
	req.Text = &struct {
		Format map[string]any `json:"format,omitempty"`
	}{Format: map[string]any{"type": "json_object"}}

	text, err := c.generate(ctx, "json", req)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

func (c *client) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, "text", c.newRequest(prompt))
}

func (c *client) newRequest(prompt string) *responsesRequest {
	return &responsesRequest{
		Model:       c.model,
		Input:       []inputMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
	}
}

func (c *client) generate(ctx context.Context, kind string, req *responsesRequest) (string, error) {
	start := time.Now()
	var (
		resp     responsesResponse
		lastResp *http.Response
	)
	err := httpx.Retry(ctx, c.maxRetries, func(ctx context.Context) (*http.Response, error) {
		httpResp, raw, err := c.doOnce(ctx, "/v1/responses", req)
		lastResp = httpResp
		if err != nil {
			return httpResp, err
		}
		resp = responsesResponse{}
		if uErr := json.Unmarshal(raw, &resp); uErr != nil {
			return httpResp, fmt.Errorf("openai decode error: %w", uErr)
		}
		return httpResp, nil
	}, func(attempt int, sleep time.Duration, err error) {
		c.log.Warn("OpenAI request retrying",
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
	text, refusal := extractOutputText(resp)
	if refusal != "" && strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("model refused: %s", refusal)
	}
	if strings.TrimSpace(text) == "" {
		return "", llm.ErrEmptyResponse
	}
	return text, nil
}

func (c *client) doOnce(ctx context.Context, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
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
