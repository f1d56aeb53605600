package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	httputil "facilityhub/pkg/http"
	"facilityhub/pkg/logger"

	"golang.org/x/time/rate"
)

// KeyExtractor picks the bucket a request is charged to. An empty key skips limiting.
type KeyExtractor func(r *http.Request) string

type actorLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// ActorRateLimiter keeps one token bucket per actor, refilled at requests per window.
type ActorRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*actorLimiter
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	keyFunc  KeyExtractor
	log      *logger.Logger
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewActorRateLimiter(requests int, window time.Duration, keyFunc KeyExtractor, log *logger.Logger) *ActorRateLimiter {
	if keyFunc == nil {
		keyFunc = DefaultActorKey
	}
	rl := &ActorRateLimiter{
		limiters: make(map[string]*actorLimiter),
		limit:    rate.Limit(float64(requests) / window.Seconds()),
		burst:    requests,
		idleTTL:  2 * window,
		keyFunc:  keyFunc,
		log:      log,
		stopCh:   make(chan struct{}),
	}
	go rl.cleanupLoop(window)
	return rl
}

func (rl *ActorRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

func (rl *ActorRateLimiter) Allow(key string) bool {
	if key == "" {
		return true
	}
	return rl.limiterFor(key).Allow()
}

func (rl *ActorRateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	al, ok := rl.limiters[key]
	if !ok {
		al = &actorLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = al
	}
	al.lastAccess = time.Now()
	return al.limiter
}

func (rl *ActorRateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

func (rl *ActorRateLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictIdle(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *ActorRateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, al := range rl.limiters {
		if now.Sub(al.lastAccess) > rl.idleTTL {
			delete(rl.limiters, key)
		}
	}
}

func RateLimit(rl *ActorRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rl.keyFunc(r)
			if rl.Allow(key) {
				next.ServeHTTP(w, r)
				return
			}

			rl.log.FromContext(r.Context()).Warn("Rate limit exceeded",
				"key", key,
				"path", r.URL.Path,
			)
			retryAfter := int(math.Ceil(1 / float64(rl.limit)))
			w.Header().Set("Retry-After", strconv.Itoa(max(retryAfter, 1)))
			_ = httputil.WriteJSON(w, http.StatusTooManyRequests, httputil.ErrorResponse{
				Error: "Rate limit exceeded",
			})
		})
	}
}

// DefaultActorKey charges requests to the X-User-ID header, falling back to the client IP.
func DefaultActorKey(r *http.Request) string {
	if id := r.Header.Get(httputil.HeaderUserID); id != "" {
		return "user:" + id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
