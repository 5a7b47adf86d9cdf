package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthz(t *testing.T) {
	router, _ := newTestServer(t, true)

	rec := performRequest(router, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	gin.SetMode(gin.TestMode)
	down := NewRouter(NewPostHandler(&failingService{}, true), testSecret, func(context.Context) error {
		return errors.New("db gone")
	})
	rec = performRequest(down, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequestID(t *testing.T) {
	router, _ := newTestServer(t, true)

	rec := performRequest(router, http.MethodGet, "/posts", nil, "")
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.Header.Set(requestIDHeader, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(requestIDHeader))
}

func TestAuthMiddleware(t *testing.T) {
	router, _ := newTestServer(t, true)

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer not-a-token"} {
		req := httptest.NewRequest(http.MethodDelete, "/posts/P1", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
	}
}

func TestMetrics(t *testing.T) {
	router, _ := newTestServer(t, true)
	counter := httpRequests.WithLabelValues(http.MethodGet, "/posts/:postId", "200")
	before := testutil.ToFloat64(counter)

	performRequest(router, http.MethodGet, "/posts/P1", nil, "")
	performRequest(router, http.MethodGet, "/posts/P2", nil, "")

	assert.Equal(t, before+2, testutil.ToFloat64(counter))

	rec := performRequest(router, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "posts_http_requests_total"))
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer  abc "))
	assert.Equal(t, "", bearerToken("Bearer "))
	assert.Equal(t, "", bearerToken("Token abc"))
}
