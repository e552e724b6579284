package app

import (
	"github.com/gin-gonic/gin"

	apphttp "github.com/yungbote/infinitetutor-backend/internal/http"
	httpH "github.com/yungbote/infinitetutor-backend/internal/http/handlers"
	httpMW "github.com/yungbote/infinitetutor-backend/internal/http/middleware"
	"github.com/yungbote/infinitetutor-backend/internal/observability"
	"github.com/yungbote/infinitetutor-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Auth     *httpH.AuthHandler
	Generate *httpH.GenerateHandler
	Course   *httpH.CourseHandler
	Note     *httpH.NoteHandler
	Stats    *httpH.StatsHandler
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(),
		Auth:     httpH.NewAuthHandler(),
		Generate: httpH.NewGenerateHandler(log, services.Syllabus, services.Lesson, services.Quiz, services.Diagram),
		Course:   httpH.NewCourseHandler(log, services.Course, services.Suggestion),
		Note:     httpH.NewNoteHandler(log, services.Note),
		Stats:    httpH.NewStatsHandler(log, services.Stats),
	}
}

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *gin.Engine {
	traceName := ""
	if cfg.Observability.OtelEnabled {
		traceName = cfg.Observability.ServiceName
	}
	return apphttp.NewRouter(apphttp.RouterConfig{
		Log:              log,
		Metrics:          metrics,
		TraceServiceName: traceName,
		AuthMiddleware:   middleware.Auth,
		HealthHandler:    handlers.Health,
		AuthHandler:      handlers.Auth,
		GenerateHandler:  handlers.Generate,
		CourseHandler:    handlers.Course,
		NoteHandler:      handlers.Note,
		StatsHandler:     handlers.Stats,
	})
}
