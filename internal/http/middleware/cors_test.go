package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func corsRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(CORS(), Preflight())
	r.POST("/courses", func(c *gin.Context) { c.Status(http.StatusCreated) })
	return r
}

func TestCORSPreflightWithOriginIsOK(t *testing.T) {
	t.Parallel()
	r := corsRouter()

	req := httptest.NewRequest(http.MethodOptions, "/courses", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "authorization, content-type")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected allow-origin header: got=%q want=%q", got, "*")
	}
}

func TestPreflightWithoutOriginIsOK(t *testing.T) {
	t.Parallel()
	r := corsRouter()

	for _, path := range []string{"/courses", "/does-not-exist"} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: unexpected status: got=%d want=%d", path, rec.Code, http.StatusOK)
		}
		if rec.Body.String() != "ok" {
			t.Fatalf("%s: unexpected body %q", path, rec.Body.String())
		}
	}
}

func TestCORSSimpleRequestGetsWildcardOrigin(t *testing.T) {
	t.Parallel()
	r := corsRouter()

	req := httptest.NewRequest(http.MethodPost, "/courses", nil)
	req.Header.Set("Origin", "https://elsewhere.example.org")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got=%d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected allow-origin header: %q", got)
	}
}
