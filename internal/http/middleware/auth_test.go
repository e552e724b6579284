package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/infinitetutor-backend/internal/http/response"
	"github.com/yungbote/infinitetutor-backend/internal/platform/ctxutil"
	"github.com/yungbote/infinitetutor-backend/internal/platform/logger"
	"github.com/yungbote/infinitetutor-backend/internal/services"
)

const testSecret = "middleware-test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	am := NewAuthMiddleware(log, services.NewAuthService(log, services.AuthConfig{JWTSecret: testSecret}))
	r := gin.New()
	r.GET("/me", am.RequireAuth(), func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"email": rd.Email})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()
	valid := signToken(t, testSecret, jwt.MapClaims{
		"email": "ada@example.com",
		"sub":   "user-1",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	forged := signToken(t, "some-other-secret", jwt.MapClaims{
		"email": "ada@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	expired := signToken(t, testSecret, jwt.MapClaims{
		"email": "ada@example.com",
		"exp":   time.Now().Add(-time.Hour).Unix(),
	})
	noEmail := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"forged signature", "Bearer " + forged, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"no email claim", "Bearer " + noEmail, http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
		{"lowercase scheme", "bearer " + valid, http.StatusOK},
	}
	r := authRouter()
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("%s: status got=%d want=%d body=%s", tc.name, rec.Code, tc.want, rec.Body.String())
		}
		if tc.want != http.StatusUnauthorized {
			continue
		}
		var env response.ErrorEnvelope
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s: decode: %v", tc.name, err)
		}
		if env.Error == "" || env.Code != "unauthorized" {
			t.Fatalf("%s: unexpected envelope %+v", tc.name, env)
		}
	}
}

func TestRequireAuthMissingHeaderMessage(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()
	authRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

	var env response.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error != "Not authenticated" {
		t.Fatalf("unexpected message %q", env.Error)
	}
}
