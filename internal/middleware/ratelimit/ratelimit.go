package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Limiter enforces a fixed-window request quota per client IP.
type Limiter struct {
	mu       sync.Mutex
	clients  map[string]*clientWindow
	limit    int
	window   time.Duration
	stopOnce sync.Once
	stop     chan struct{}
}

type clientWindow struct {
	count   int
	resetAt time.Time
}

func New(limit int, window time.Duration) *Limiter {
	l := &Limiter{
		clients: make(map[string]*clientWindow),
		limit:   limit,
		window:  window,
		stop:    make(chan struct{}),
	}
	go l.cleanup()
	return l
}

// Allow reports whether the client may proceed, and how long until the
// current window resets when it may not.
func (l *Limiter) Allow(client string) (bool, time.Duration) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.clients[client]
	if !ok || now.After(w.resetAt) {
		l.clients[client] = &clientWindow{count: 1, resetAt: now.Add(l.window)}
		return true, 0
	}
	if w.count >= l.limit {
		return false, time.Until(w.resetAt)
	}
	w.count++
	return true, 0
}

func (l *Limiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			now := time.Now()
			l.mu.Lock()
			for client, w := range l.clients {
				if now.After(w.resetAt) {
					delete(l.clients, client)
				}
			}
			l.mu.Unlock()
		}
	}
}

func (l *Limiter) Close() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// Middleware rejects requests over the quota with 429 and a Retry-After hint.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, retryAfter := l.Allow(clientIP(r))
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			http.Error(w, "too many requests", http.StatusTooManyRequests)
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
