package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"voltamax-backend/internal/models"
)

// RateLimitStore persists one counter record per key across requests.
type RateLimitStore interface {
	Get(ctx context.Context, key string) (*models.RateLimitRecord, error)
	Upsert(ctx context.Context, key string, count int, windowStart int64) error
}

// RateLimiter counts requests per client in fixed windows backed by a
// persisted store. It is a courtesy control, not a security boundary: any
// store error fails open.
type RateLimiter struct {
	store     RateLimitStore
	namespace string
	limit     int
	window    time.Duration
	now       func() time.Time
}

func NewRateLimiter(store RateLimitStore, namespace string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		store:     store,
		namespace: namespace,
		limit:     limit,
		window:    window,
		now:       time.Now,
	}
}

// Allow reports whether a request from clientID may proceed, updating the
// stored counter. The decision is made from the read; the write is a plain
// upsert, so concurrent requests in the same window may undercount.
func (rl *RateLimiter) Allow(ctx context.Context, clientID string) bool {
	key := rl.namespace + ":" + clientID
	now := rl.now().Unix()

	rec, err := rl.store.Get(ctx, key)
	if err != nil {
		log.Printf("rate limit lookup failed for %s, allowing: %v", key, err)
		return true
	}

	if rec == nil || now-rec.WindowStart >= int64(rl.window.Seconds()) {
		// First request for this key, or the window has expired
		if err := rl.store.Upsert(ctx, key, 1, now); err != nil {
			log.Printf("rate limit write failed for %s, allowing: %v", key, err)
		}
		return true
	}

	if rec.Count >= rl.limit {
		return false
	}

	if err := rl.store.Upsert(ctx, key, rec.Count+1, rec.WindowStart); err != nil {
		log.Printf("rate limit write failed for %s, allowing: %v", key, err)
	}
	return true
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := ClientID(r)

		if !rl.Allow(r.Context(), clientID) {
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.", r)
			return
		}

		ctx := context.WithValue(r.Context(), ClientIDKey, clientID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

const ClientIDKey contextKey = "client_id"

// ClientID derives the limiter key from forwarded-for headers, falling back
// to "unknown" when no network identity is available.
func ClientID(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// First hop is the original client
		if idx := strings.Index(fwd, ","); idx >= 0 {
			fwd = fwd[:idx]
		}
		if ip := strings.TrimSpace(fwd); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return "unknown"
}

// GetClientID extracts the limiter client id from request context.
func GetClientID(ctx context.Context) string {
	id, _ := ctx.Value(ClientIDKey).(string)
	return id
}
