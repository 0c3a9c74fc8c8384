package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"voltamax-backend/internal/models"
)

type fakeStore struct {
	records map[string]*models.RateLimitRecord
	getErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*models.RateLimitRecord)}
}

func (s *fakeStore) Get(ctx context.Context, key string) (*models.RateLimitRecord, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	rec, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (s *fakeStore) Upsert(ctx context.Context, key string, count int, windowStart int64) error {
	s.records[key] = &models.RateLimitRecord{Key: key, Count: count, WindowStart: windowStart}
	return nil
}

func newTestLimiter(store RateLimitStore, at time.Time) *RateLimiter {
	rl := NewRateLimiter(store, "chat", 20, time.Hour)
	rl.now = func() time.Time { return at }
	return rl
}

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	store := newFakeStore()
	rl := newTestLimiter(store, time.Unix(1000, 0))

	for i := 0; i < 20; i++ {
		if !rl.Allow(context.Background(), "1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	if rl.Allow(context.Background(), "1.2.3.4") {
		t.Error("21st request in the same window should be rejected")
	}
}

func TestRateLimiter_WindowReset(t *testing.T) {
	store := newFakeStore()
	rl := newTestLimiter(store, time.Unix(1000, 0))

	for i := 0; i < 21; i++ {
		rl.Allow(context.Background(), "1.2.3.4")
	}

	// Advance past the window
	rl.now = func() time.Time { return time.Unix(1000+3600, 0) }

	if !rl.Allow(context.Background(), "1.2.3.4") {
		t.Error("request after window expiry should be allowed")
	}

	rec := store.records["chat:1.2.3.4"]
	if rec == nil {
		t.Fatal("expected record to exist")
	}
	if rec.Count != 1 {
		t.Errorf("expected counter reset to 1, got %d", rec.Count)
	}
	if rec.WindowStart != 1000+3600 {
		t.Errorf("expected new window start 4600, got %d", rec.WindowStart)
	}
}

func TestRateLimiter_FirstRequestCreatesRecord(t *testing.T) {
	store := newFakeStore()
	rl := newTestLimiter(store, time.Unix(500, 0))

	if !rl.Allow(context.Background(), "9.9.9.9") {
		t.Fatal("first request should be allowed")
	}

	rec := store.records["chat:9.9.9.9"]
	if rec == nil {
		t.Fatal("expected record to be created")
	}
	if rec.Count != 1 || rec.WindowStart != 500 {
		t.Errorf("expected count=1 window_start=500, got count=%d window_start=%d", rec.Count, rec.WindowStart)
	}
}

func TestRateLimiter_FailsOpenOnStoreError(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("connection refused")
	rl := newTestLimiter(store, time.Unix(1000, 0))

	if !rl.Allow(context.Background(), "1.2.3.4") {
		t.Error("store errors must fail open")
	}
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	store := newFakeStore()
	rl := newTestLimiter(store, time.Unix(1000, 0))

	for i := 0; i < 21; i++ {
		rl.Allow(context.Background(), "1.2.3.4")
	}

	if !rl.Allow(context.Background(), "5.6.7.8") {
		t.Error("different client must not be affected by another client's limit")
	}
}

func TestRateLimiter_Middleware429(t *testing.T) {
	store := newFakeStore()
	rl := newTestLimiter(store, time.Unix(1000, 0))

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var last *httptest.ResponseRecorder
	for i := 0; i < 21; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", nil)
		req.Header.Set("X-Forwarded-For", "1.2.3.4")
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, req)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 on 21st request, got %d", last.Code)
	}
}

func TestClientID(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		expected string
	}{
		{"forwarded-for single", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "1.2.3.4"},
		{"forwarded-for chain", map[string]string{"X-Forwarded-For": "1.2.3.4, 10.0.0.1"}, "1.2.3.4"},
		{"real-ip fallback", map[string]string{"X-Real-IP": "5.6.7.8"}, "5.6.7.8"},
		{"no headers", nil, "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			if got := ClientID(req); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}
