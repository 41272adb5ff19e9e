package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// setActor fixes the request's actor so the limiter keys per test rather than
// sharing the process-wide store across tests.
func setActor(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(actorKey, Actor{UserID: userID})
		c.Next()
	}
}

func hammer(r *gin.Engine, n int) (allowed, rejected int) {
	for i := 0; i < n; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		switch w.Code {
		case http.StatusOK:
			allowed++
		case http.StatusTooManyRequests:
			rejected++
		}
	}
	return allowed, rejected
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(setActor("rl-mem-user"), RateLimitMiddleware(1, 2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	allowed, rejected := hammer(r, 5)
	require.Equal(t, 2, allowed) // burst only; refill is 1 rps
	require.Equal(t, 3, rejected)
}

func TestRateLimitKeysAreIndependent(t *testing.T) {
	mk := func(user string) *gin.Engine {
		r := gin.New()
		r.Use(setActor(user), RateLimitMiddleware(1, 1))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	a, _ := hammer(mk("rl-user-a"), 1)
	b, _ := hammer(mk("rl-user-b"), 1)
	require.Equal(t, 1, a)
	require.Equal(t, 1, b) // a's bucket does not drain b's
}

func TestRedisRateLimitMiddleware(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	// long window so the 5 requests land in a single bucket
	r := gin.New()
	r.Use(setActor("rl-redis-user"), RedisRateLimitMiddleware(client, 0, 2, time.Minute))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	// floor(0*60)+2 = 2 allowed per window
	allowed, rejected := hammer(r, 5)
	require.Equal(t, 2, allowed)
	require.Equal(t, 3, rejected)
}

func TestRedisRateLimitNilClientFallsBack(t *testing.T) {
	r := gin.New()
	r.Use(setActor("rl-fallback-user"), RedisRateLimitMiddleware(nil, 1, 1, time.Second))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	allowed, _ := hammer(r, 1)
	require.Equal(t, 1, allowed)
}
