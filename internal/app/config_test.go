package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 30, cfg.Stats.DefaultDailyGoal)
	assert.Equal(t, 200, cfg.LLM.WordsPerMinute)
	assert.Equal(t, "infinitetutor.db", cfg.Database.DSN())
	assert.True(t, cfg.Database.AutoMigrate)
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":7000"
llm:
  provider: openai
  timeout: 5s
stats:
  default_daily_goal: 45
`), 0o600))

	t.Setenv("GEMINI_API_KEY", "bare-key")
	t.Setenv("SUPABASE_JWT_SECRET", "shh")
	t.Setenv("INFINITETUTOR_SERVER_ADDR", ":7100")
	t.Setenv("INFINITETUTOR_REDIS_INFLIGHT_TTL", "45s")

	cfg, err := LoadConfig(newFlags(t, "--config", path, "--llm.provider", "gemini"))
	require.NoError(t, err)

	assert.Equal(t, ":7100", cfg.Server.Addr, "env beats file")
	assert.Equal(t, "gemini", cfg.LLM.Provider, "flag beats file")
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 45, cfg.Stats.DefaultDailyGoal)
	assert.Equal(t, "bare-key", cfg.LLM.GeminiAPIKey)
	assert.Equal(t, "shh", cfg.Auth.JWTSecret)
	assert.Equal(t, 45*time.Second, cfg.Redis.InflightTTL)
}

func TestLoadConfigPortAndDatabaseURL(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/tutor")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "postgres://u:p@localhost:5432/tutor", cfg.Database.DSN())
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	t.Setenv("INFINITETUTOR_LLM_PROVIDER", "llama")
	_, err := LoadConfig(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Provider")
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "llm.gemini_base_url", envKey("INFINITETUTOR_LLM_GEMINI_BASE_URL"))
	assert.Equal(t, "server.addr", envKey("INFINITETUTOR_SERVER_ADDR"))
	assert.Equal(t, "", envKey("INFINITETUTOR_CONFIG"))
	assert.Equal(t, "", envKey("INFINITETUTOR_LONELY"))
}

func TestParseHeaders(t *testing.T) {
	assert.Equal(t, map[string]string{"a": "1", "b": "x=y"}, parseHeaders("a=1, b=x=y,broken,=skip"))
	assert.Empty(t, parseHeaders(""))
}
