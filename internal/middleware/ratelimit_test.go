package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateLimitedRouter(t *testing.T, limiter gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/login", limiter, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return router
}

func postFrom(router *gin.Engine, ip, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("X-Forwarded-For", ip)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestNewMemoryRateLimiter(t *testing.T) {
	limiter, err := NewMemoryRateLimiter(5)
	require.NoError(t, err)
	router := rateLimitedRouter(t, limiter)

	for i := range 5 {
		w := postFrom(router, "192.168.1.100", "")
		assert.Equal(t, http.StatusOK, w.Code, "request %d should succeed", i+1)
	}

	w := postFrom(router, "192.168.1.100", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
}

func TestRateLimiter_DifferentIPs(t *testing.T) {
	limiter, err := NewMemoryRateLimiter(2)
	require.NoError(t, err)
	router := rateLimitedRouter(t, limiter)

	for range 2 {
		assert.Equal(t, http.StatusOK, postFrom(router, "10.0.0.1", "").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, postFrom(router, "10.0.0.1", "").Code)
	assert.Equal(t, http.StatusOK, postFrom(router, "10.0.0.2", "").Code, "other clients are unaffected")
}

func TestRateLimiter_HTMLErrorResponse(t *testing.T) {
	limiter, err := NewMemoryRateLimiter(1)
	require.NoError(t, err)
	router := rateLimitedRouter(t, limiter)

	postFrom(router, "10.0.0.3", "text/html")
	w := postFrom(router, "10.0.0.3", "text/html,application/xhtml+xml")

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Rate Limit Exceeded")
}

func TestNewRateLimiter_RedisRequiresClient(t *testing.T) {
	_, err := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 5,
		StoreType:         RateLimitStoreRedis,
	})
	require.Error(t, err)
}

func TestCreateRedisClient_InvalidAddress(t *testing.T) {
	client, err := CreateRedisClient("127.0.0.1:1", "", 0)
	require.Error(t, err)
	assert.Nil(t, client)
}

func TestRedisRateLimiter_SharedAcrossInstances(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := CreateRedisClient(mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	newLimiter := func() gin.HandlerFunc {
		l, err := NewRateLimiter(RateLimitConfig{
			RequestsPerMinute: 3,
			StoreType:         RateLimitStoreRedis,
			RedisClient:       client,
			CleanupInterval:   time.Minute,
		})
		require.NoError(t, err)
		return l
	}

	// Two routers stand in for two server replicas sharing one Redis
	podA := rateLimitedRouter(t, newLimiter())
	podB := rateLimitedRouter(t, newLimiter())

	assert.Equal(t, http.StatusOK, postFrom(podA, "172.16.0.1", "").Code)
	assert.Equal(t, http.StatusOK, postFrom(podB, "172.16.0.1", "").Code)
	assert.Equal(t, http.StatusOK, postFrom(podA, "172.16.0.1", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, postFrom(podB, "172.16.0.1", "").Code)

	keys := mr.Keys()
	require.NotEmpty(t, keys)
	assert.Contains(t, keys[0], "idgate:ratelimit")
}
