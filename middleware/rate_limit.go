package middleware

import (
	"net/http"
	"sync"
	"time"

	"matchmaking_server/utils"

	"golang.org/x/time/rate"
)

// UserRateLimiter keeps one token bucket per user id.
type UserRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewUserRateLimiter allows perMinute requests per user with a burst of perMinute.
func NewUserRateLimiter(perMinute int) *UserRateLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	return &UserRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
	}
}

// Allow reports whether userID may make a request now.
func (l *UserRateLimiter) Allow(userID string) bool {
	l.mu.Lock()
	lim, ok := l.limiters[userID]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[userID] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

// Middleware rejects requests over the user's budget. It must run after Auth.
func (l *UserRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(UserIDFromContext(r.Context())) {
			utils.RespondError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}
