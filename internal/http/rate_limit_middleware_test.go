package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func rateLimitedRouter(rps float64, burst int) *gin.Engine {
	router := gin.New()
	router.Use(CallerIdentityMiddleware(testLogger()))
	router.Use(RateLimitMiddleware(rps, burst, testLogger()))
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return router
}

func doRequest(router *gin.Engine, callerID uuid.UUID) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-User-Id", callerID.String())
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("AllowsWithinBurst", func(t *testing.T) {
		router := rateLimitedRouter(1, 3)
		callerID := uuid.Must(uuid.NewV7())

		for i := 0; i < 3; i++ {
			w := doRequest(router, callerID)
			assert.Equal(t, http.StatusOK, w.Code, "request %d", i)
		}
	})

	t.Run("RejectsBeyondBurst", func(t *testing.T) {
		router := rateLimitedRouter(0.001, 1)
		callerID := uuid.Must(uuid.NewV7())

		w := doRequest(router, callerID)
		assert.Equal(t, http.StatusOK, w.Code)

		w = doRequest(router, callerID)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
	})

	t.Run("LimitsPerCaller", func(t *testing.T) {
		router := rateLimitedRouter(0.001, 1)
		firstCaller := uuid.Must(uuid.NewV7())
		secondCaller := uuid.Must(uuid.NewV7())

		w := doRequest(router, firstCaller)
		assert.Equal(t, http.StatusOK, w.Code)

		w = doRequest(router, firstCaller)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)

		// A different caller has an independent bucket.
		w = doRequest(router, secondCaller)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
