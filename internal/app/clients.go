package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/infinitetutor-backend/internal/platform/gemini"
	"github.com/yungbote/infinitetutor-backend/internal/platform/llm"
	"github.com/yungbote/infinitetutor-backend/internal/platform/logger"
	"github.com/yungbote/infinitetutor-backend/internal/platform/openai"
)

type Clients struct {
	LLM llm.Client
	// Redis is nil unless redis.addr is configured.
	Redis goredis.UniversalClient
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	client, err := newLLMClient(log, cfg.LLM)
	if err != nil {
		return Clients{}, err
	}

	var rdb goredis.UniversalClient
	if addr := strings.TrimSpace(cfg.Redis.Addr); addr != "" {
		c := goredis.NewClient(&goredis.Options{
			Addr:        addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: 5 * time.Second,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := c.Ping(pingCtx).Err(); err != nil {
			_ = c.Close()
			return Clients{}, fmt.Errorf("redis ping: %w", err)
		}
		rdb = c
	}

	return Clients{LLM: client, Redis: rdb}, nil
}

// newLLMClient builds the configured provider. A missing API key is not an
// error here: the returned client fails each generation request instead.
func newLLMClient(log *logger.Logger, cfg LLMConfig) (llm.Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case gemini.ProviderName, "":
		if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
			log.Warn("GEMINI_API_KEY not configured; generation endpoints will fail")
		}
		return gemini.NewClient(log, gemini.Config{
			APIKey:     cfg.GeminiAPIKey,
			BaseURL:    cfg.GeminiBaseURL,
			Model:      cfg.Model,
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
		}), nil
	case openai.ProviderName:
		if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
			log.Warn("OPENAI_API_KEY not configured; generation endpoints will fail")
		}
		return openai.NewClient(log, openai.Config{
			APIKey:     cfg.OpenAIAPIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			Model:      cfg.Model,
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
		}), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
