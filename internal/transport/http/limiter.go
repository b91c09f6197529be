package http

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const minClientIdle = 10 * time.Minute

type clientEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter rate-limits per remote address. Clients idle for longer than
// it takes their bucket to refill are forgotten.
type ClientLimiter struct {
	mu        sync.Mutex
	m         map[string]*clientEntry
	r         rate.Limit
	b         int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewClientLimiter allows reqPerSec per client with the given burst. A
// non-positive rate disables limiting.
func NewClientLimiter(reqPerSec float64, burst int) *ClientLimiter {
	r := rate.Limit(reqPerSec)
	if reqPerSec <= 0 {
		r = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	idle := minClientIdle
	if reqPerSec > 0 {
		if refill := time.Duration(float64(burst) / reqPerSec * float64(time.Second)); refill > idle {
			idle = refill
		}
	}
	return &ClientLimiter{
		m:    make(map[string]*clientEntry),
		r:    r,
		b:    burst,
		idle: idle,
		now:  time.Now,
	}
}

func (cl *ClientLimiter) limiterFor(client string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	now := cl.now()
	cl.sweepLocked(now)
	if e, ok := cl.m[client]; ok {
		e.lastSeen = now
		return e.lim
	}
	lim := rate.NewLimiter(cl.r, cl.b)
	cl.m[client] = &clientEntry{lim: lim, lastSeen: now}
	return lim
}

// sweepLocked runs at most once per idle period.
func (cl *ClientLimiter) sweepLocked(now time.Time) {
	if now.Sub(cl.lastSweep) < cl.idle {
		return
	}
	cl.lastSweep = now
	for client, e := range cl.m {
		if now.Sub(e.lastSeen) >= cl.idle {
			delete(cl.m, client)
		}
	}
}

// Len is the number of tracked clients.
func (cl *ClientLimiter) Len() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return len(cl.m)
}

// Allow reports whether the request's client still has budget.
func (cl *ClientLimiter) Allow(r *http.Request) bool {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		host = r.RemoteAddr
	}
	return cl.limiterFor(host).Allow()
}
