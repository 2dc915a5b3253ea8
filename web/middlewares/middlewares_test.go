package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"axiapac.com/attendance/core"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type verifierFunc func(ctx context.Context, token string) (string, error)

func (f verifierFunc) VerifyCredential(ctx context.Context, token string) (string, error) {
	return f(ctx, token)
}

var tokens = verifierFunc(func(_ context.Context, token string) (string, error) {
	switch token {
	case "good":
		return "uid-1", nil
	case "down":
		return "", core.Unavailable(errors.New("identity provider timeout"))
	}
	return "", core.ErrAuthInvalid
})

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, ActorID(c))
	})
	return r
}

func TestAuthentication(t *testing.T) {
	r := newRouter(Authentication(tokens))

	tests := []struct {
		name   string
		header string
		cookie string
		status int
		body   string
	}{
		{"bearer", "Bearer good", "", http.StatusOK, "uid-1"},
		{"lowercase scheme", "bearer good", "", http.StatusOK, "uid-1"},
		{"cookie", "", "good", http.StatusOK, "uid-1"},
		{"missing", "", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic good", "", http.StatusUnauthorized, ""},
		{"invalid token", "Bearer bad", "", http.StatusUnauthorized, ""},
		{"provider down", "Bearer down", "", http.StatusServiceUnavailable, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	obs, logs := observer.New(zap.InfoLevel)
	r := newRouter(RequestLogger(zap.New(obs).Sugar()))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
	entries := logs.FilterMessage("http request").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "req-42", fields["requestId"])
		assert.Equal(t, "/whoami", fields["path"])
		assert.EqualValues(t, http.StatusOK, fields["status"])
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestSecurityHeaders(t *testing.T) {
	r := newRouter(SecurityHeaders())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}
