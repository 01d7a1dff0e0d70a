package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"newsportal/internal/response"
)

const defaultBucketIdle = 5 * time.Minute

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// IPRateLimiter keeps one token bucket per client IP; idle buckets are
// dropped by Sweep. The key is gin's ClientIP, so the engine's trusted
// proxies decide whether X-Forwarded-For is honoured.
type IPRateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
	idle    time.Duration
	now     func() time.Time
}

func NewIPRateLimiter(perSecond float64, burst int) *IPRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &IPRateLimiter{
		buckets: map[string]*bucket{},
		limit:   rate.Limit(perSecond),
		burst:   burst,
		idle:    defaultBucketIdle,
		now:     time.Now,
	}
}

func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[ip]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[ip] = b
	}
	b.seen = l.now()
	return b.lim.Allow()
}

// Sweep drops buckets not used for longer than the idle window and
// returns how many were removed.
func (l *IPRateLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	n := 0
	for ip, b := range l.buckets {
		if now.Sub(b.seen) > l.idle {
			delete(l.buckets, ip)
			n++
		}
	}
	return n
}

func (l *IPRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Run sweeps every interval until ctx is done.
func (l *IPRateLimiter) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// Middleware answers REQERR once the caller's bucket is empty.
func (l *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			response.Abort(c, response.REQERR, "")
			return
		}
		c.Next()
	}
}
