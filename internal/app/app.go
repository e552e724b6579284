package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/infinitetutor-backend/internal/data/db"
	"github.com/yungbote/infinitetutor-backend/internal/data/repos"
	apphttp "github.com/yungbote/infinitetutor-backend/internal/http"
	"github.com/yungbote/infinitetutor-backend/internal/observability"
	"github.com/yungbote/infinitetutor-backend/internal/platform/logger"
)

// Version is stamped at build time with -ldflags "-X ...app.Version=...".
var Version = "dev"

type App struct {
	Log      *logger.Logger
	Cfg      Config
	DB       *db.Service
	Clients  Clients
	Repos    repos.Set
	Services Services
	Metrics  *observability.Metrics
	Router   *gin.Engine

	shutdownOtel func(context.Context) error
}

func NewLogger(cfg LogConfig) (*logger.Logger, error) {
	log, err := logger.NewWithOptions(logger.Options{
		Mode:     cfg.Mode,
		Level:    cfg.Level,
		Redact:   cfg.Redact,
		HashSalt: cfg.HashSalt,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

func openDB(log *logger.Logger, cfg DatabaseConfig) (*db.Service, error) {
	return db.Open(log, db.Config{
		URL:           cfg.DSN(),
		LogLevel:      cfg.LogLevel,
		SlowThreshold: cfg.SlowThreshold,
		MaxOpenConns:  cfg.MaxOpenConns,
		MaxIdleConns:  cfg.MaxIdleConns,
	})
}

func New(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	shutdownOtel := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.Observability.OtelEnabled,
		ServiceName: cfg.Observability.ServiceName,
		Environment: cfg.Observability.Environment,
		Version:     Version,
		Endpoint:    cfg.Observability.OtelEndpoint,
		Insecure:    cfg.Observability.OtelInsecure,
		Headers:     parseHeaders(cfg.Observability.OtelHeaders),
		SampleRatio: cfg.Observability.OtelSampleRatio,
	})

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics()
	}
	observability.SetCurrent(metrics)

	dbs, err := openDB(log, cfg.Database)
	if err != nil {
		_ = shutdownOtel(ctx)
		return nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := dbs.AutoMigrate(); err != nil {
			_ = dbs.Close()
			_ = shutdownOtel(ctx)
			return nil, err
		}
	}

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = dbs.Close()
		_ = shutdownOtel(ctx)
		return nil, err
	}

	reposet := repos.NewSet(dbs.DB(), log)
	serviceset := wireServices(log, cfg, clients, reposet)
	handlerset := wireHandlers(log, serviceset)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(log, cfg, metrics, handlerset, middleware)

	return &App{
		Log:          log,
		Cfg:          cfg,
		DB:           dbs,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		Metrics:      metrics,
		Router:       router,
		shutdownOtel: shutdownOtel,
	}, nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	srv := apphttp.NewServer(a.Cfg.Server.Addr, a.Router)
	a.Log.Info("Server listening", "addr", srv.Addr(), "llm_provider", a.Clients.LLM.Provider(), "db", a.DB.Dialect())
	return srv.Run(ctx, a.Cfg.Server.ShutdownTimeout)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Log.Warn("db close failed", "error", err)
		}
	}
	if a.shutdownOtel != nil {
		if err := a.shutdownOtel(context.Background()); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	a.Log.Sync()
}

// Migrate opens the database, applies the schema and closes it again.
func Migrate(log *logger.Logger, cfg Config) error {
	dbs, err := openDB(log, cfg.Database)
	if err != nil {
		return err
	}
	defer dbs.Close()
	return dbs.AutoMigrate()
}
