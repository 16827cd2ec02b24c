package ratelimiter

import (
	"math"
	"net/http"
	"sync"
	"time"
)

const defaultSourceKey = "X-RateLimit-Key"

type Limiter interface {
	Allow(sourceKey string) bool
	GetSourceKey(r *http.Request) string
	Remaining(sourceKey string) int
	GetMaxBurst() int
	Close()
}

// RateLimiter is a token bucket per source key. Buckets live in a TTL cache
// so idle sources fall away on their own.
type RateLimiter struct {
	ratePerMilli    float64
	maxBurst        int
	cache           *Cache
	cacheTTL        time.Duration
	sourceHeaderKey string

	// Per-key locks so refill and take are atomic per source.
	locks sync.Map // map[string]*sync.Mutex
}

type Options struct {
	MaxRatePerSecond int
	MaxBurst         int
	CacheTTL         time.Duration
	SourceHeaderKey  string
}

func New(options Options) Limiter {
	if options.CacheTTL == 0 {
		options.CacheTTL = 10 * time.Second
	}
	if options.MaxBurst <= 0 {
		options.MaxBurst = options.MaxRatePerSecond
	}
	if options.SourceHeaderKey == "" {
		options.SourceHeaderKey = defaultSourceKey
	}

	return &RateLimiter{
		ratePerMilli:    float64(options.MaxRatePerSecond) / 1000.0,
		maxBurst:        options.MaxBurst,
		cache:           NewCache(),
		cacheTTL:        options.CacheTTL,
		sourceHeaderKey: options.SourceHeaderKey,
	}
}

func (rl *RateLimiter) getLock(sourceKey string) *sync.Mutex {
	lock, _ := rl.locks.LoadOrStore(sourceKey, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func (rl *RateLimiter) Allow(sourceKey string) bool {
	lock := rl.getLock(sourceKey)
	lock.Lock()
	defer lock.Unlock()

	state := rl.refilled(sourceKey, time.Now().UnixMilli())
	if state.tokens <= 0 {
		rl.cache.Set(sourceKey, state, rl.cacheTTL)
		return false
	}

	state.tokens--
	rl.cache.Set(sourceKey, state, rl.cacheTTL)
	return true
}

func (rl *RateLimiter) Remaining(sourceKey string) int {
	lock := rl.getLock(sourceKey)
	lock.Lock()
	defer lock.Unlock()

	state := rl.refilled(sourceKey, time.Now().UnixMilli())
	rl.cache.Set(sourceKey, state, rl.cacheTTL)
	return state.tokens
}

func (rl *RateLimiter) GetMaxBurst() int {
	return rl.maxBurst
}

// Close stops the cache expiry goroutine. Safe to call more than once.
func (rl *RateLimiter) Close() {
	rl.cache.Close()
}

func (rl *RateLimiter) GetSourceKey(r *http.Request) string {
	if key := r.Header.Get(rl.sourceHeaderKey); key != "" {
		return key
	}
	return r.RemoteAddr
}

// refilled loads the bucket and credits tokens for the elapsed time. Unknown
// or expired sources start with a full bucket.
func (rl *RateLimiter) refilled(sourceKey string, now int64) bucketState {
	state, ok := rl.cache.Get(sourceKey)
	if !ok {
		return bucketState{tokens: rl.maxBurst, lastFill: now}
	}

	elapsed := now - state.lastFill
	if elapsed <= 0 {
		return state
	}

	newTokens := float64(state.tokens) + float64(elapsed)*rl.ratePerMilli
	if newTokens >= float64(rl.maxBurst) {
		return bucketState{tokens: rl.maxBurst, lastFill: now}
	}

	// Only whole tokens count; keep lastFill so fractional credit is not lost.
	whole := int(math.Floor(newTokens))
	if whole == state.tokens {
		return state
	}
	return bucketState{tokens: whole, lastFill: now}
}
