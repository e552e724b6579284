package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/infinitetutor-backend/internal/platform/ctxutil"
	"github.com/yungbote/infinitetutor-backend/internal/platform/logger"
)

// RequestLogger writes one line per request once the handler chain is done.
// The caller email is logged under a key the logger hashes. Requests that
// touched a course carry course_id, and lesson generation adds lesson_cache.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if log == nil {
			return
		}

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []interface{}{
			"method", strings.ToUpper(c.Request.Method),
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
			if td.TraceID != "" {
				fields = append(fields, "trace_id", td.TraceID)
			}
			if td.RequestID != "" {
				fields = append(fields, "request_id", td.RequestID)
			}
			if id := td.CourseID(); id != "" {
				fields = append(fields, "course_id", id)
			}
			if outcome := td.LessonCache(); outcome != "" {
				fields = append(fields, "lesson_cache", outcome)
			}
		}
		if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil && rd.Email != "" {
			fields = append(fields, "user_email", rd.Email)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}
