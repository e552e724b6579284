package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/infinitetutor-backend/internal/http/handlers"
	httpMW "github.com/yungbote/infinitetutor-backend/internal/http/middleware"
	"github.com/yungbote/infinitetutor-backend/internal/http/response"
	"github.com/yungbote/infinitetutor-backend/internal/observability"
	"github.com/yungbote/infinitetutor-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics
	// TraceServiceName enables otelgin spans when non-empty.
	TraceServiceName string

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler   *httpH.HealthHandler
	AuthHandler     *httpH.AuthHandler
	GenerateHandler *httpH.GenerateHandler
	CourseHandler   *httpH.CourseHandler
	NoteHandler     *httpH.NoteHandler
	StatsHandler    *httpH.StatsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	if cfg.TraceServiceName != "" {
		r.Use(otelgin.Middleware(cfg.TraceServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS())
	r.Use(httpMW.Preflight())

	r.NoRoute(func(c *gin.Context) {
		response.RespondError(c, http.StatusNotFound, "not_found", errors.New("Not found"))
	})
	r.NoMethod(func(c *gin.Context) {
		response.RespondError(c, http.StatusMethodNotAllowed, "method_not_allowed", errors.New("Method not allowed"))
	})

	if cfg.HealthHandler != nil {
		r.GET("/health", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	// Generation (public)
	if cfg.GenerateHandler != nil {
		r.POST("/generate-syllabus", cfg.GenerateHandler.Syllabus)
		r.POST("/generate-lesson", cfg.GenerateHandler.Lesson)
		r.POST("/generate-quiz", cfg.GenerateHandler.Quiz)
		r.POST("/generate-diagram", cfg.GenerateHandler.Diagram)
	}
	if cfg.AuthHandler != nil {
		r.POST("/logout", cfg.AuthHandler.Logout)
	}

	protected := r.Group("/")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}
	{
		if cfg.AuthHandler != nil {
			protected.GET("/me", cfg.AuthHandler.Me)
		}
		if cfg.CourseHandler != nil {
			protected.GET("/courses", cfg.CourseHandler.GetCourses)
			protected.POST("/courses", cfg.CourseHandler.SaveCourse)
			protected.GET("/suggestions", cfg.CourseHandler.Suggestions)
		}
		if cfg.NoteHandler != nil {
			protected.GET("/notes", cfg.NoteHandler.GetNote)
			protected.POST("/notes", cfg.NoteHandler.SaveNote)
		}
		if cfg.StatsHandler != nil {
			protected.GET("/stats", cfg.StatsHandler.GetStats)
			protected.POST("/stats", cfg.StatsHandler.LogActivity)
		}
	}

	return r
}
