package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newLimitedRouter(rps float64, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewRateLimiter(rps, burst).Middleware())
	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doRequest(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterAllowsBurstThenRejects(t *testing.T) {
	// Near-zero refill rate so the burst is all a client gets.
	r := newLimitedRouter(0.0001, 3)

	for i := 0; i < 3; i++ {
		w := doRequest(r, "10.0.0.1")
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}

	w := doRequest(r, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many requests")
}

func TestRateLimiterTracksClientsIndependently(t *testing.T) {
	r := newLimitedRouter(0.0001, 1)

	assert.Equal(t, http.StatusOK, doRequest(r, "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(r, "10.0.0.1").Code)

	// A different client still has its own budget.
	assert.Equal(t, http.StatusOK, doRequest(r, "10.0.0.2").Code)
}
