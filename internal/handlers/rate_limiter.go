package handlers

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sakisou/api/internal/platform/httpx"
)

// RateLimiter applies a fixed-window request budget per client key.
// A nil limiter passes every request through.
type RateLimiter struct {
	limit  int
	window time.Duration
	clock  func() time.Time
	mu     sync.Mutex
	store  map[string]rateEntry
}

type rateEntry struct {
	count int
	reset time.Time
}

// NewRateLimiter constructs a limiter allowing limit requests per window.
// Non-positive inputs disable limiting.
func NewRateLimiter(limit int, window time.Duration, clock func() time.Time) *RateLimiter {
	if limit <= 0 || window <= 0 {
		return nil
	}
	if clock == nil {
		clock = time.Now
	}
	return &RateLimiter{
		limit:  limit,
		window: window,
		clock:  clock,
		store:  make(map[string]rateEntry),
	}
}

// allow records a request for key and reports whether it fits the
// window, along with the remaining budget and the window reset time.
func (l *RateLimiter) allow(key string) (bool, int, time.Time) {
	now := l.clock()
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.store[key]
	if !ok || !now.Before(entry.reset) {
		entry = rateEntry{count: 1, reset: now.Add(l.window)}
		l.store[key] = entry
		return true, l.limit - 1, entry.reset
	}

	if entry.count >= l.limit {
		return false, 0, entry.reset
	}
	entry.count++
	l.store[key] = entry
	return true, l.limit - entry.count, entry.reset
}

// Middleware enforces the limit and attaches the standard rate headers.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	if l == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, remaining, reset := l.allow(clientKey(r))

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if !allowed {
			httpx.WriteError(r.Context(), w, httpx.NewError("rate_limited", "too many requests, retry later", http.StatusTooManyRequests))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Sweep drops expired windows on the given interval until ctx is done.
func (l *RateLimiter) Sweep(ctx context.Context, interval time.Duration) {
	if l == nil || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.sweepExpired()
		}
	}
}

func (l *RateLimiter) sweepExpired() {
	now := l.clock()
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, entry := range l.store {
		if !now.Before(entry.reset) {
			delete(l.store, key)
		}
	}
}

// clientKey identifies the caller: an explicit user id when the request
// carries one, the client IP otherwise.
func clientKey(r *http.Request) string {
	if userID := strings.TrimSpace(r.Header.Get("X-User-ID")); userID != "" {
		return "user|" + userID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		host = r.RemoteAddr
	}
	if host == "" {
		host = "anonymous"
	}
	return "ip|" + host
}
