package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"taskmanager/pkg/apierrors"
)

var ratePeriods = map[string]time.Duration{
	"s":      time.Second,
	"sec":    time.Second,
	"second": time.Second,
	"m":      time.Minute,
	"min":    time.Minute,
	"minute": time.Minute,
	"h":      time.Hour,
	"hour":   time.Hour,
	"d":      24 * time.Hour,
	"day":    24 * time.Hour,
}

// ParseRate reads "<requests>/<period>", e.g. "1000/day" or "5/m".
func ParseRate(value string) (requests int, period time.Duration, err error) {
	count, unit, found := strings.Cut(strings.TrimSpace(value), "/")
	if !found {
		return 0, 0, fmt.Errorf("rate %q: expected <requests>/<period>", value)
	}

	requests, err = strconv.Atoi(strings.TrimSpace(count))
	if err != nil || requests <= 0 {
		return 0, 0, fmt.Errorf("rate %q: invalid request count", value)
	}

	period, ok := ratePeriods[strings.ToLower(strings.TrimSpace(unit))]
	if !ok {
		return 0, 0, fmt.Errorf("rate %q: unknown period %q", value, unit)
	}
	return requests, period, nil
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per caller. A bucket holds requests
// tokens and refills over period.
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	period    time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(requests int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(requests) / period.Seconds()),
		burst:    requests,
		period:   period,
		now:      time.Now,
	}
}

// Reserve takes one token for key. It returns zero when the request may
// proceed, or how long the caller has to wait otherwise.
func (l *RateLimiter) Reserve(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now

	reservation := v.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return l.period
	}
	delay := reservation.DelayFrom(now)
	if delay > 0 {
		reservation.CancelAt(now)
	}
	return delay
}

// sweep drops buckets idle for a full period; those are full again anyway.
func (l *RateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.period {
		return
	}
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) >= l.period {
			delete(l.visitors, key)
		}
	}
	l.lastSweep = now
}

// Throttle answers 429 with Retry-After once the caller's bucket is empty.
// Callers identified by Identify are keyed by user id, others by client IP.
func Throttle(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if claims, ok := tokenClaims(c); ok {
			key = "user:" + strconv.FormatUint(claims.UserID, 10)
		}

		if wait := limiter.Reserve(key); wait > 0 {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			c.AbortWithStatusJSON(
				http.StatusTooManyRequests,
				apierrors.CreateError(http.StatusTooManyRequests, apierrors.MsgRequestThrottled, GetLang(c)),
			)
			return
		}
		c.Next()
	}
}
