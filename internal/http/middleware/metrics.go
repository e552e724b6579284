package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/infinitetutor-backend/internal/observability"
	"github.com/yungbote/infinitetutor-backend/internal/platform/ctxutil"
)

// Metrics records request count, latency and in-flight gauge, plus one
// lesson cache outcome per generate-lesson request. Unmatched routes share
// one label so scanners cannot blow up cardinality.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		m.ApiInflightInc()
		defer m.ApiInflightDec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveAPI(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
		if outcome := ctxutil.GetTraceData(c.Request.Context()).LessonCache(); outcome != "" {
			m.ObserveLessonCache(outcome)
		}
	}
}
