// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/instaiq-backend/internal/core"
)

type RateLimitConfig struct {
	Limit    redis_rate.Limit
	Prefix   string
	KeyFunc  func(*http.Request) string
	FailOpen bool
}

// RateLimiter enforces a GCRA limit in Redis and falls back to an
// in-process token bucket per key when Redis is unreachable.
type RateLimiter struct {
	limiter  *redis_rate.Limiter
	fallback *localLimiter
	config   RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "ratelimit"
	}

	return &RateLimiter{
		limiter:  redis_rate.NewLimiter(rdb),
		fallback: newLocalLimiter(),
		config:   cfg,
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := rl.config.Prefix + ":" + rl.config.KeyFunc(r)

		res, err := rl.allow(r.Context(), key)
		if err != nil {
			if rl.config.FailOpen {
				slog.Warn("rate limiter error, failing open",
					"error", err,
					"key", key,
				)
				next.ServeHTTP(w, r)
				return
			}
			core.JSON(w, http.StatusServiceUnavailable, core.ErrorResponse{
				Error: core.ErrorBody{
					Code:    "UNAVAILABLE",
					Message: "service unavailable",
				},
			})
			return
		}

		setRateLimitHeaders(w, res, rl.config.Limit)

		if res.Allowed == 0 {
			writeRateLimitExceeded(w, res)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(
	ctx context.Context,
	key string,
) (*redis_rate.Result, error) {
	res, err := rl.limiter.Allow(ctx, key, rl.config.Limit)
	if err != nil {
		slog.Debug("redis rate limit unavailable, using local bucket",
			"error", err,
		)
		return rl.fallback.allow(key, rl.config.Limit), nil
	}
	return res, nil
}

func KeyByIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return "ip:" + strings.TrimSpace(ips[len(ips)-1])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return "ip:" + xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	return "ip:" + ip
}

func KeyByUser(r *http.Request) string {
	if identity := GetIdentity(r.Context()); identity != nil {
		return "user:" + identity.ID
	}
	return KeyByIP(r)
}

func setRateLimitHeaders(
	w http.ResponseWriter,
	res *redis_rate.Result,
	limit redis_rate.Limit,
) {
	h := w.Header()

	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(
		time.Now().Add(res.ResetAfter).Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, res *redis_rate.Result) {
	retryAfter := int(res.RetryAfter.Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

	core.JSON(w, http.StatusTooManyRequests, core.ErrorResponse{
		Error: core.ErrorBody{
			Code: "RATE_LIMITED",
			Message: fmt.Sprintf(
				"too many requests, retry after %d seconds",
				retryAfter,
			),
		},
	})
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

type localLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	swept    time.Time
}

const entryTTL = 10 * time.Minute

func newLocalLimiter() *localLimiter {
	return &localLimiter{
		limiters: make(map[string]*limiterEntry),
		swept:    time.Now(),
	}
}

func (l *localLimiter) allow(
	key string,
	limit redis_rate.Limit,
) *redis_rate.Result {
	ratePerSec := float64(limit.Rate) / limit.Period.Seconds()
	now := time.Now()

	l.mu.Lock()
	l.sweep(now)
	entry, ok := l.limiters[key]
	if !ok {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Limit(ratePerSec), limit.Burst),
		}
		l.limiters[key] = entry
	}
	entry.lastAccess = now
	allowed := entry.limiter.AllowN(now, 1)
	remaining := int(entry.limiter.TokensAt(now))
	l.mu.Unlock()

	if remaining < 0 {
		remaining = 0
	}

	interval := time.Duration(float64(time.Second) / ratePerSec)

	res := &redis_rate.Result{
		Limit:      limit,
		Remaining:  remaining,
		RetryAfter: -1,
		ResetAfter: interval,
	}
	if allowed {
		res.Allowed = 1
	} else {
		res.RetryAfter = interval
	}

	return res
}

// sweep drops idle keys at most once per TTL. Caller holds l.mu.
func (l *localLimiter) sweep(now time.Time) {
	if now.Sub(l.swept) < entryTTL {
		return
	}

	cutoff := now.Add(-entryTTL)
	for key, entry := range l.limiters {
		if entry.lastAccess.Before(cutoff) {
			delete(l.limiters, key)
		}
	}
	l.swept = now
}

// Per builds a limit of n requests per window with the given burst.
func Per(n int, window time.Duration, burst int) redis_rate.Limit {
	if burst <= 0 {
		burst = n
	}
	return redis_rate.Limit{
		Rate:   n,
		Burst:  burst,
		Period: window,
	}
}
