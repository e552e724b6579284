package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix scopes the environment variables read into the config tree:
// INFINITETUTOR_LLM_PROVIDER -> llm.provider.
const EnvPrefix = "INFINITETUTOR_"

type Config struct {
	Server        ServerConfig        `koanf:"server"`
	Database      DatabaseConfig      `koanf:"database"`
	LLM           LLMConfig           `koanf:"llm"`
	Auth          AuthConfig          `koanf:"auth"`
	Redis         RedisConfig         `koanf:"redis"`
	Stats         StatsConfig         `koanf:"stats"`
	Observability ObservabilityConfig `koanf:"observability"`
	Log           LogConfig           `koanf:"log"`
}

type ServerConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gte=0"`
}

type DatabaseConfig struct {
	// URL is a postgres DSN. When empty, SQLitePath is opened instead.
	URL           string        `koanf:"url"`
	SQLitePath    string        `koanf:"sqlite_path"`
	LogLevel      string        `koanf:"log_level" validate:"omitempty,oneof=silent error warn info"`
	SlowThreshold time.Duration `koanf:"slow_threshold"`
	MaxOpenConns  int           `koanf:"max_open_conns" validate:"gte=0"`
	MaxIdleConns  int           `koanf:"max_idle_conns" validate:"gte=0"`
	AutoMigrate   bool          `koanf:"auto_migrate"`
}

// DSN is what db.Open receives.
func (d DatabaseConfig) DSN() string {
	if u := strings.TrimSpace(d.URL); u != "" {
		return u
	}
	return strings.TrimSpace(d.SQLitePath)
}

type LLMConfig struct {
	Provider      string        `koanf:"provider" validate:"oneof=gemini openai"`
	Model         string        `koanf:"model"`
	Timeout       time.Duration `koanf:"timeout" validate:"gt=0"`
	MaxRetries    int           `koanf:"max_retries" validate:"gte=0,lte=5"`
	GeminiAPIKey  string        `koanf:"gemini_api_key"`
	GeminiBaseURL string        `koanf:"gemini_base_url" validate:"omitempty,url"`
	OpenAIAPIKey  string        `koanf:"openai_api_key"`
	OpenAIBaseURL string        `koanf:"openai_base_url" validate:"omitempty,url"`
	// InflightTimeout bounds one shared lesson generation.
	InflightTimeout time.Duration `koanf:"inflight_timeout" validate:"gte=0"`
	WordsPerMinute  int           `koanf:"words_per_minute" validate:"gt=0"`
}

type AuthConfig struct {
	JWTSecret string        `koanf:"jwt_secret"`
	Issuer    string        `koanf:"issuer"`
	Audience  string        `koanf:"audience"`
	Leeway    time.Duration `koanf:"leeway" validate:"gte=0"`
}

type RedisConfig struct {
	// Addr enables the cross-replica lesson generation marker.
	Addr        string        `koanf:"addr"`
	Password    string        `koanf:"password"`
	DB          int           `koanf:"db" validate:"gte=0"`
	KeyPrefix   string        `koanf:"key_prefix"`
	InflightTTL time.Duration `koanf:"inflight_ttl" validate:"gte=0"`
}

type StatsConfig struct {
	DefaultDailyGoal int `koanf:"default_daily_goal" validate:"gt=0"`
}

type ObservabilityConfig struct {
	ServiceName     string  `koanf:"service_name"`
	Environment     string  `koanf:"environment"`
	MetricsEnabled  bool    `koanf:"metrics_enabled"`
	OtelEnabled     bool    `koanf:"otel_enabled"`
	OtelEndpoint    string  `koanf:"otel_endpoint"`
	OtelInsecure    bool    `koanf:"otel_insecure"`
	OtelHeaders     string  `koanf:"otel_headers"`
	OtelSampleRatio float64 `koanf:"otel_sample_ratio" validate:"gte=0,lte=1"`
}

type LogConfig struct {
	Mode     string `koanf:"mode"`
	Level    string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	Redact   bool   `koanf:"redact"`
	HashSalt string `koanf:"hash_salt"`
}

func Defaults() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080", ShutdownTimeout: 15 * time.Second},
		Database: DatabaseConfig{
			SQLitePath:    "infinitetutor.db",
			LogLevel:      "warn",
			SlowThreshold: time.Second,
			AutoMigrate:   true,
		},
		LLM: LLMConfig{
			Provider:        "gemini",
			Timeout:         60 * time.Second,
			InflightTimeout: 90 * time.Second,
			WordsPerMinute:  200,
		},
		Auth:  AuthConfig{Leeway: 30 * time.Second},
		Redis: RedisConfig{KeyPrefix: "infinitetutor:lesson-gen:", InflightTTL: 2 * time.Minute},
		Stats: StatsConfig{DefaultDailyGoal: 30},
		Observability: ObservabilityConfig{
			ServiceName:     "infinitetutor",
			Environment:     "development",
			MetricsEnabled:  true,
			OtelSampleRatio: 1,
		},
		Log: LogConfig{Mode: "development", Level: "info", Redact: true},
	}
}

// bareEnv maps the conventional unprefixed variable names onto config keys.
var bareEnv = map[string]string{
	"GEMINI_API_KEY":      "llm.gemini_api_key",
	"OPENAI_API_KEY":      "llm.openai_api_key",
	"LLM_PROVIDER":        "llm.provider",
	"DATABASE_URL":        "database.url",
	"SUPABASE_JWT_SECRET": "auth.jwt_secret",
	"REDIS_ADDR":          "redis.addr",
	"REDIS_PASSWORD":      "redis.password",
	"LOG_MODE":            "log.mode",
	"LOG_LEVEL":           "log.level",
	"LOG_REDACT":          "log.redact",
	"PORT":                "server.addr",
}

// RegisterFlags adds the command-line overrides. Flag names are config keys.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.String("config", "", "path to a YAML config file")
	fs.String("server.addr", d.Server.Addr, "HTTP listen address")
	fs.String("database.url", d.Database.URL, "postgres DSN; empty uses database.sqlite_path")
	fs.String("database.sqlite_path", d.Database.SQLitePath, "sqlite database file")
	fs.String("llm.provider", d.LLM.Provider, "LLM provider: gemini or openai")
	fs.String("llm.model", d.LLM.Model, "model name; empty uses the provider default")
	fs.String("log.mode", d.Log.Mode, "log mode: production or development")
	fs.String("log.level", d.Log.Level, "log level")
}

// LoadConfig resolves defaults < YAML file < environment < flags and
// validates the result. fs may be nil.
func LoadConfig(fs *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	path := ""
	if fs != nil {
		if f := fs.Lookup("config"); f != nil {
			path = strings.TrimSpace(f.Value.String())
		}
	}
	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvPrefix + "CONFIG"))
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		target, ok := bareEnv[key]
		if !ok {
			return "", nil
		}
		if key == "PORT" && !strings.Contains(value, ":") {
			value = ":" + value
		}
		return target, value
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	if fs != nil {
		if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
			return Config{}, fmt.Errorf("load flags: %w", err)
		}
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envKey turns INFINITETUTOR_SECTION_FIELD_NAME into section.field_name.
func envKey(s string) string {
	rest := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if rest == "config" {
		return ""
	}
	parts := strings.SplitN(rest, "_", 2)
	if len(parts) != 2 || parts[1] == "" {
		return ""
	}
	return parts[0] + "." + parts[1]
}

var configValidator = validator.New()

func (c Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// parseHeaders reads "k1=v1,k2=v2" into a map.
func parseHeaders(raw string) map[string]string {
	out := map[string]string{}
	for _, pair := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			continue
		}
		out[k] = strings.TrimSpace(v)
	}
	return out
}
