package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func get(r *gin.Engine, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_BlocksAfterBurst(t *testing.T) {
	r := newRouter(RateLimiter(2, time.Minute))

	assert.Equal(t, http.StatusOK, get(r, nil).Code)
	assert.Equal(t, http.StatusOK, get(r, nil).Code)

	w := get(r, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"Too many requests"}`, w.Body.String())
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
}

func TestRateLimiter_Disabled(t *testing.T) {
	r := newRouter(RateLimiter(0, time.Minute))
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, get(r, nil).Code)
	}
}

func TestLimiterStore_Cleanup(t *testing.T) {
	s := newLimiterStore(10, time.Minute)
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.allow("10.0.0.1")
	now = now.Add(2 * time.Minute)
	s.allow("10.0.0.2")
	now = now.Add(2 * time.Minute)

	assert.Equal(t, 1, s.cleanup())
	assert.Len(t, s.visitors, 1)
}

func TestCORS_Whitelist(t *testing.T) {
	r := newRouter(CORS([]string{"http://localhost:5173"}))

	w := get(r, map[string]string{"Origin": "http://localhost:5173"})
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	w = get(r, map[string]string{"Origin": "http://evil.example"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSecureHeaders(t *testing.T) {
	w := get(newRouter(Secure()), nil)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
