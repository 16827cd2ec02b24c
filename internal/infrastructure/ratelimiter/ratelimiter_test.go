package ratelimiter

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiter_BurstExhaustion(t *testing.T) {
	req := require.New(t)

	rl := New(Options{
		MaxRatePerSecond: 1,
		MaxBurst:         3,
		CacheTTL:         time.Minute,
	})

	for i := 0; i < 3; i++ {
		req.True(rl.Allow("client-a"), "request %d should pass within burst", i)
	}
	req.False(rl.Allow("client-a"))

	// Other sources are unaffected
	req.True(rl.Allow("client-b"))
}

func TestRateLimiter_Refill(t *testing.T) {
	req := require.New(t)

	rl := New(Options{
		MaxRatePerSecond: 1000,
		MaxBurst:         2,
		CacheTTL:         time.Minute,
	})

	req.True(rl.Allow("client-a"))
	req.True(rl.Allow("client-a"))
	req.False(rl.Allow("client-a"))

	// At 1000 tokens/s the bucket refills within a few milliseconds
	require.Eventually(t, func() bool {
		return rl.Allow("client-a")
	}, time.Second, 2*time.Millisecond)
}

func TestRateLimiter_Remaining(t *testing.T) {
	req := require.New(t)

	rl := New(Options{
		MaxRatePerSecond: 1,
		MaxBurst:         5,
		CacheTTL:         time.Minute,
	})

	req.Equal(5, rl.Remaining("client-a"))
	req.True(rl.Allow("client-a"))
	req.Equal(4, rl.Remaining("client-a"))
	req.Equal(5, rl.GetMaxBurst())
}

func TestRateLimiter_Close(t *testing.T) {
	req := require.New(t)

	rl := New(Options{
		MaxRatePerSecond: 1,
		MaxBurst:         2,
		CacheTTL:         time.Minute,
	})

	req.True(rl.Allow("client-a"))

	// Close is idempotent and leaves existing buckets readable
	rl.Close()
	rl.Close()
	req.Equal(1, rl.Remaining("client-a"))
}

func TestRateLimiter_SourceKey(t *testing.T) {
	req := require.New(t)

	rl := New(Options{
		MaxRatePerSecond: 1,
		SourceHeaderKey:  "X-Forwarded-For",
	})

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	req.Equal("10.0.0.1:1234", rl.GetSourceKey(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.7")
	req.Equal("203.0.113.7", rl.GetSourceKey(r))
}
