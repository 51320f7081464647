package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiter_FixedWindow(t *testing.T) {
	rl := NewRateLimiter()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("auth:1.2.3.4", 3, time.Minute), "запрос %d должен пройти", i+1)
	}
	assert.False(t, rl.Allow("auth:1.2.3.4", 3, time.Minute))
	assert.True(t, rl.Allow("auth:5.6.7.8", 3, time.Minute), "у другого IP свое окно")

	assert.True(t, rl.Allow("short", 1, time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	assert.True(t, rl.Allow("short", 1, time.Millisecond), "после окна счетчик сбрасывается")
}

func TestRateLimiter_Prune(t *testing.T) {
	rl := NewRateLimiter()
	rl.Allow("a", 1, time.Millisecond)
	rl.Allow("b", 1, time.Hour)

	rl.Prune(time.Now().Add(time.Second))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.buckets, "a")
	assert.Contains(t, rl.buckets, "b")
}

func TestRedisLimiter_FailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond})
	defer client.Close()

	limiter := NewRedisLimiter(client, "test")
	require.NotNil(t, limiter)
	assert.True(t, limiter.Allow("auth:1.2.3.4", 1, time.Minute))
	assert.True(t, limiter.Allow("auth:1.2.3.4", 1, time.Minute))

	var nilLimiter *RedisLimiter
	assert.True(t, nilLimiter.Allow("x", 1, time.Minute))
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.POST("/login", RateLimit(NewRateLimiter(), "auth", 2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
