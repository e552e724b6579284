package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/infinitetutor-backend/internal/observability"
	"github.com/yungbote/infinitetutor-backend/internal/platform/ctxutil"
)

func TestMetricsCountsLessonCacheOutcomePerRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.NewMetrics()
	r := gin.New()
	r.Use(AttachTraceContext(), Metrics(m))
	r.POST("/generate-lesson", func(c *gin.Context) {
		ctxutil.NoteLessonCache(c.Request.Context(), "hit")
		c.Status(http.StatusOK)
	})
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/generate-lesson", nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `infinitetutor_lesson_cache_total{result="hit"} 2`)
	assert.NotContains(t, body, `result="miss"`)
	assert.Contains(t, body, `infinitetutor_api_requests_total{method="GET",route="/health",status="200"} 1`)
}
