package api

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const maxClients = 1024

// limiter holds one token bucket per client ip.
type limiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	clients map[string]*rate.Limiter
}

func newLimiter(limit float64, burst int) *limiter {
	return &limiter{
		limit:   rate.Limit(limit),
		burst:   burst,
		clients: make(map[string]*rate.Limiter),
	}
}

func (l *limiter) get(client string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if bucket, ok := l.clients[client]; ok {
		return bucket
	}
	if len(l.clients) >= maxClients {
		l.prune(now)
	}
	bucket := rate.NewLimiter(l.limit, l.burst)
	l.clients[client] = bucket
	return bucket
}

// prune drops the buckets which are full again.
func (l *limiter) prune(now time.Time) {
	for client, bucket := range l.clients {
		if bucket.TokensAt(now) >= float64(l.burst) {
			delete(l.clients, client)
		}
	}
}

func (l *limiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		reservation := l.get(c.ClientIP(), now).ReserveN(now, 1)
		if !reservation.OK() {
			fail(c, http.StatusTooManyRequests, ErrorCodeRateLimited, "Too Many Requests")
			return
		}
		if delay := reservation.DelayFrom(now); delay > 0 {
			reservation.CancelAt(now)
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			fail(c, http.StatusTooManyRequests, ErrorCodeRateLimited, "Too Many Requests")
			return
		}
		c.Next()
	}
}
