package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Burst(t *testing.T) {
	rl := NewRateLimiter(0.001, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := rl.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := rl.Allow(ctx, "10.0.0.1")
	assert.False(t, ok)

	ok, _ = rl.Allow(ctx, "10.0.0.2")
	assert.True(t, ok, "keys have separate buckets")
}

func TestRateLimiter_Sweep(t *testing.T) {
	rl := NewRateLimiter(1, 1, time.Minute)
	_, _ = rl.Allow(context.Background(), "10.0.0.1")

	rl.Sweep(time.Now())
	assert.Len(t, rl.visitors, 1)

	rl.Sweep(time.Now().Add(2 * time.Minute))
	assert.Empty(t, rl.visitors)
}

func TestRedisRateLimiter(t *testing.T) {
	client, mock := redismock.NewClientMock()
	rl := NewRedisRateLimiter(client, 2, time.Minute)
	now := time.Date(2025, 3, 1, 12, 0, 30, 0, time.UTC)
	rl.now = func() time.Time { return now }

	key := fmt.Sprintf("fitplatform:ratelimit:10.0.0.1:%d", now.UnixNano()/int64(time.Minute))
	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectExpire(key, time.Minute).SetVal(true)
	mock.ExpectIncr(key).SetVal(2)
	mock.ExpectIncr(key).SetVal(3)

	ctx := context.Background()
	for _, want := range []bool{true, true, false} {
		ok, err := rl.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.Equal(t, want, ok)
	}

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisRateLimiter_Error(t *testing.T) {
	client, mock := redismock.NewClientMock()
	rl := NewRedisRateLimiter(client, 2, time.Minute)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	key := fmt.Sprintf("fitplatform:ratelimit:10.0.0.1:%d", now.UnixNano()/int64(time.Minute))
	mock.ExpectIncr(key).SetErr(errors.New("connection refused"))

	_, err := rl.Allow(context.Background(), "10.0.0.1")
	assert.Error(t, err)
}

type stubLimiter struct {
	allowed bool
	err     error
}

func (s stubLimiter) Allow(context.Context, string) (bool, error) {
	return s.allowed, s.err
}

func TestRateLimitMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		limiter Limiter
		want    int
	}{
		{"allowed", stubLimiter{allowed: true}, http.StatusOK},
		{"denied", stubLimiter{allowed: false}, http.StatusTooManyRequests},
		{"limiter down", stubLimiter{err: errors.New("redis down")}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RateLimitMiddleware(tt.limiter))
			router.GET("/test", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"status": "ok"})
			})

			assert.Equal(t, tt.want, serve(router, http.MethodGet, "/test").Code)
		})
	}
}

func TestRateLimitMiddleware_InMemoryBurst(t *testing.T) {
	router := gin.New()
	router.Use(RateLimitMiddleware(NewRateLimiter(0.001, 3, time.Minute)))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/test").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, serve(router, http.MethodGet, "/test").Code)
}
