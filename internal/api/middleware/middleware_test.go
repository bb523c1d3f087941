package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recipe-planner/internal/core/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiterRefills(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Second)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("1.1.1.1"))
	assert.False(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("2.2.2.2"), "buckets are per client")

	now = now.Add(500 * time.Millisecond)
	assert.True(t, rl.Allow("1.1.1.1"))
	assert.False(t, rl.Allow("1.1.1.1"))
}

func TestRateLimiterPrunesIdleBuckets(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, time.Second)
	rl.now = func() time.Time { return now }

	for i := 0; i < pruneThreshold; i++ {
		rl.Allow(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}
	require.Len(t, rl.buckets, pruneThreshold)

	now = now.Add(2 * time.Second)
	assert.True(t, rl.Allow("192.168.0.1"))
	assert.Len(t, rl.buckets, 1)
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(1, time.Minute))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "TOO_MANY_REQUESTS")
}

func TestDeduplicator(t *testing.T) {
	d := NewDeduplicator(time.Second)
	defer d.Close()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }

	var bodies []string
	r := gin.New()
	r.Use(d.Middleware())
	handler := func(c *gin.Context) {
		raw, _ := c.GetRawData()
		bodies = append(bodies, string(raw))
		c.Status(http.StatusOK)
	}
	r.POST("/generate", handler)
	r.GET("/generate", handler)

	post := func(body string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(body)))
		return w.Code
	}

	assert.Equal(t, http.StatusOK, post(`{"recipeName":"Sambar"}`))
	assert.Equal(t, http.StatusTooManyRequests, post(`{"recipeName":"Sambar"}`))
	assert.Equal(t, http.StatusOK, post(`{"recipeName":"Rasam"}`))

	now = now.Add(2 * time.Second)
	assert.Equal(t, http.StatusOK, post(`{"recipeName":"Sambar"}`))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/generate", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	// 去重後 handler 仍能讀到完整的 body
	assert.Equal(t, `{"recipeName":"Sambar"}`, bodies[0])
}

func TestBodySizeLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodySizeLimit(8))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("this body is too long")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "request body exceeds 8 bytes")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("short")))
	assert.Equal(t, http.StatusOK, w.Code)
}

type fakeAuthenticator struct {
	identity *auth.Identity
	err      error
}

func (f *fakeAuthenticator) Authenticate(ctx context.Context, token string) (*auth.Identity, error) {
	if token != "good" {
		return nil, f.err
	}
	return f.identity, nil
}

func TestRequireAuth(t *testing.T) {
	authn := &fakeAuthenticator{
		identity: &auth.Identity{UserID: "sub-1", Email: "cook@example.com"},
		err:      errors.New("token expired"),
	}
	r := gin.New()
	r.GET("/me", RequireAuth(authn, false), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentIdentity(c).UserID)
	})

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid token", "Bearer good", http.StatusOK, "sub-1"},
		{"missing header", "", http.StatusUnauthorized, "AUTH_REQUIRED"},
		{"rejected token", "Bearer bad", http.StatusUnauthorized, "AUTH_REQUIRED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestCurrentIdentityWithoutAuth(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, CurrentIdentity(c))
}
