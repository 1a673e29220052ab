package http

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles form submissions per client IP.
type RateLimiter struct {
	clients   map[string]*clientLimiter
	mu        sync.Mutex
	rate      rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(r rate.Limit, b int) *RateLimiter {
	return &RateLimiter{
		clients:   make(map[string]*clientLimiter),
		rate:      r,
		burst:     b,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > limiterIdleTTL {
		rl.sweep(now)
	}

	entry, exists := rl.clients[ip]
	if !exists {
		entry = &clientLimiter{
			limiter: rate.NewLimiter(rl.rate, rl.burst),
		}
		rl.clients[ip] = entry
	}
	entry.lastSeen = now

	return entry.limiter
}

// sweep drops idle clients. Caller holds rl.mu.
func (rl *RateLimiter) sweep(now time.Time) {
	cutoff := now.Add(-limiterIdleTTL)
	for ip, entry := range rl.clients {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
	rl.lastSweep = now
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.getLimiter(clientIP(r)).Allow() {
			http.Error(w, "Too many submissions. Please try again later.", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP only trusts RemoteAddr; forwarded headers are spoofable without a trusted proxy.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
