package muxhandlers

import (
	"errors"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/vitalvas/kestrel/mux"
	"golang.org/x/time/rate"
)

// ErrInvalidRate is returned when RateLimitConfig.RequestsPerSecond or
// Burst is not greater than zero.
var ErrInvalidRate = errors.New("rate limit: requests per second and burst must be greater than zero")

const defaultLimiterIdle = 10 * time.Minute

// RateLimitConfig configures the Rate Limit middleware behaviour.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate allowed per key.
	RequestsPerSecond float64

	// Burst is the number of requests allowed above the sustained rate.
	Burst int

	// KeyFunc selects the bucket a request is counted against. Defaults to
	// ClientIP. Return an empty string to exempt a request.
	KeyFunc func(r *http.Request) string

	// IdleTimeout drops the bucket of a key not seen for this long.
	// Defaults to 10 minutes.
	IdleTimeout time.Duration
}

// RateLimitMiddleware returns a middleware applying a token bucket per key.
// Requests over the limit are answered with 429 Too Many Requests and a
// Retry-After header.
//
// It returns ErrInvalidRate if the rate or burst is not positive.
func RateLimitMiddleware(cfg RateLimitConfig) (mux.MiddlewareFunc, error) {
	if cfg.RequestsPerSecond <= 0 || cfg.Burst <= 0 {
		return nil, ErrInvalidRate
	}

	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = ClientIP
	}

	idle := cfg.IdleTimeout
	if idle <= 0 {
		idle = defaultLimiterIdle
	}

	limiters := &limiterSet{
		limit: rate.Limit(cfg.RequestsPerSecond),
		burst: cfg.Burst,
		idle:  idle,
		items: make(map[string]*limiterEntry),
	}

	return func(w http.ResponseWriter, r *http.Request, next mux.Next) error {
		key := keyFunc(r)
		if key == "" {
			return next()
		}

		res := limiters.get(key, time.Now()).Reserve()
		if delay := res.Delay(); delay > 0 {
			res.Cancel()
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return nil
		}

		return next()
	}, nil
}

// ClientIP returns the host part of r.RemoteAddr.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterSet struct {
	limit rate.Limit
	burst int
	idle  time.Duration

	mu        sync.Mutex
	items     map[string]*limiterEntry
	lastSweep time.Time
}

func (s *limiterSet) get(key string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) > s.idle {
		for k, e := range s.items {
			if now.Sub(e.lastSeen) > s.idle {
				delete(s.items, k)
			}
		}
		s.lastSweep = now
	}

	e, ok := s.items[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.items[key] = e
	}
	e.lastSeen = now

	return e.limiter
}
