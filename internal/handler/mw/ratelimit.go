package mw

import (
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// maxLimiters bounds the limiter map; it is reset once it grows past this.
const maxLimiters = 10000

// RateLimiter throttles requests per owner, falling back to the remote address
// for requests that are not authenticated.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	log      zerolog.Logger
}

func NewRateLimiter(rps, burst int, log zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
		log:      log,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if len(rl.limiters) > maxLimiters {
		rl.limiters = make(map[string]*rate.Limiter)
	}
	l, ok := rl.limiters[key]
	if !ok {
		l = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = l
	}
	return l
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)
		if id := UserID(r.Context()); id > 0 {
			key = "user:" + strconv.Itoa(id)
		}

		if !rl.limiter(key).Allow() {
			rl.log.Warn().Str("key", key).Str("method", r.Method).Str("path", r.URL.Path).Msg("rate limit exceeded")
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
