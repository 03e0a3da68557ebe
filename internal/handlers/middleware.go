package handlers

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"tenders/internal/auth"
	"tenders/models"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// TokenParser проверяет bearer-токен и возвращает id сотрудника.
type TokenParser interface {
	Parse(token string) (uuid.UUID, error)
}

// Authenticate требует заголовок "Authorization: Bearer <token>" и кладёт id сотрудника
// в контекст. Существование сотрудника проверяет уже сервис.
func Authenticate(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") {
				WriteError(w, r, fmt.Errorf("%w: missing bearer token", models.ErrUnauthenticated))
				return
			}
			id, err := tokens.Parse(token)
			if err != nil {
				WriteError(w, r, fmt.Errorf("%w: could not validate credentials", models.ErrUnauthenticated))
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.ContextWithEmployee(r.Context(), id)))
		})
	}
}

// IPRateLimiter - token bucket на каждый IP клиента.
type IPRateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

func NewIPRateLimiter(perSecond float64, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		buckets: make(map[string]*bucket),
		limit:   rate.Limit(perSecond),
		burst:   burst,
		ttl:     5 * time.Minute,
		now:     time.Now,
	}
}

// Allow расходует один токен из корзины ip. Корзины, простоявшие дольше ttl, удаляются.
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > time.Minute {
		for k, b := range l.buckets {
			if now.Sub(b.seen) > l.ttl {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[ip]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[ip] = b
	}
	b.seen = now
	return b.lim.AllowN(now, 1)
}

// Middleware отвечает 429, когда корзина клиента пуста.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientIP(r)) {
			writeErrorCode(w, http.StatusTooManyRequests, CodeRateLimited, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP берёт хост из RemoteAddr; X-Forwarded-For уже разобран middleware.RealIP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
