package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/infinitetutor-backend/internal/platform/httpx"
	"github.com/yungbote/infinitetutor-backend/internal/platform/llm"
)

func candidate(text string) map[string]any {
	return map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	}
}

func TestGenerateJSONSetsMimeTypeAndKey(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "key-1", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(candidate(`{"title":"Rust"}`))
	}))
	defer srv.Close()

	c := NewClient(nil, Config{APIKey: "key-1", BaseURL: srv.URL})
	raw, err := c.GenerateJSON(context.Background(), "prompt")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Rust"}`, string(raw))

	gc := got["generationConfig"].(map[string]any)
	assert.Equal(t, "application/json", gc["responseMimeType"])
}

func TestGenerateTextOmitsGenerationConfig(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(candidate("mindmap\n  root"))
	}))
	defer srv.Close()

	c := NewClient(nil, Config{APIKey: "k", BaseURL: srv.URL})
	text, err := c.GenerateText(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "mindmap\n  root", text)
	_, has := got["generationConfig"]
	assert.False(t, has)
}

func TestBlockedPromptReturnsReason(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer srv.Close()

	c := NewClient(nil, Config{APIKey: "k", BaseURL: srv.URL})
	_, err := c.GenerateText(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestEmptyCandidatesIsEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := NewClient(nil, Config{APIKey: "k", BaseURL: srv.URL})
	_, err := c.GenerateJSON(context.Background(), "prompt")
	assert.ErrorIs(t, err, llm.ErrEmptyResponse)
}

func TestBadRequestIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"API key not valid"}}`))
	}))
	defer srv.Close()

	c := NewClient(nil, Config{APIKey: "k", BaseURL: srv.URL, MaxRetries: 2})
	_, err := c.GenerateJSON(context.Background(), "prompt")
	var se *httpx.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "gemini", se.Service)
	assert.Contains(t, err.Error(), "API key not valid")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestMissingKey(t *testing.T) {
	c := NewClient(nil, Config{})
	_, err := c.GenerateText(context.Background(), "x")
	assert.EqualError(t, err, "GEMINI_API_KEY not configured")
}
