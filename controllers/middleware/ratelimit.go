package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"playlist-courses-backend/controllers/authentication"
	"playlist-courses-backend/controllers/respond"
)

// UserRateLimiter limits requests per authenticated user. It must run after
// authentication.Gate.RequireAuth.
type UserRateLimiter struct {
	mu       sync.Mutex
	limiters map[uint]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewUserRateLimiter allows perMinute requests per user and minute, with
// bursts of up to perMinute. perMinute <= 0 disables limiting.
func NewUserRateLimiter(perMinute int) *UserRateLimiter {
	l := &UserRateLimiter{
		limiters: make(map[uint]*rate.Limiter),
		limit:    rate.Inf,
		burst:    1,
	}
	if perMinute > 0 {
		l.limit = rate.Every(time.Minute / time.Duration(perMinute))
		l.burst = perMinute
	}
	return l
}

func (l *UserRateLimiter) limiter(userID uint) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[userID]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[userID] = lim
	}
	return lim
}

func (l *UserRateLimiter) Limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := authentication.UserFromContext(r.Context())
		if ok && !l.limiter(user.ID).Allow() {
			w.Header().Set("Retry-After", "60")
			respond.Message(w, http.StatusTooManyRequests, "too many imports, try again later")
			return
		}
		next(w, r)
	}
}
