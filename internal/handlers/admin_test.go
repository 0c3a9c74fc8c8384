package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"voltamax-backend/internal/middleware"
	"voltamax-backend/internal/models"
)

type fakeAdminRepos struct{}

func (fakeAdminRepos) List(ctx context.Context) ([]models.Subscriber, error) { return nil, nil }

type fakeAdminQuotes struct{}

func (fakeAdminQuotes) List(ctx context.Context) ([]models.QuoteRequest, error) { return nil, nil }

func newTestAdminHandler(t *testing.T, password string) *AdminHandler {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return NewAdminHandler(middleware.NewJWTAuth("test-secret"), string(hash), fakeAdminRepos{}, fakeAdminQuotes{})
}

func postLogin(t *testing.T, handler *AdminHandler, password string) *httptest.ResponseRecorder {
	t.Helper()
	jsonBody, _ := json.Marshal(map[string]string{"password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", bytes.NewReader(jsonBody))
	rr := httptest.NewRecorder()
	handler.Login(rr, req)
	return rr
}

func TestAdminLogin_CorrectPassword(t *testing.T) {
	handler := newTestAdminHandler(t, "hunter2")
	rr := postLogin(t, handler, "hunter2")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["token"] == "" {
		t.Error("expected a token in the response")
	}
}

func TestAdminLogin_WrongPassword(t *testing.T) {
	handler := newTestAdminHandler(t, "hunter2")
	rr := postLogin(t, handler, "wrong")

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
}

func TestAdminLogin_NotConfigured(t *testing.T) {
	handler := NewAdminHandler(middleware.NewJWTAuth("test-secret"), "", fakeAdminRepos{}, fakeAdminQuotes{})
	rr := postLogin(t, handler, "anything")

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 when admin is not configured, got %d", rr.Code)
	}
}

func TestAdminToken_PassesMiddleware(t *testing.T) {
	jwtAuth := middleware.NewJWTAuth("test-secret")
	token, err := jwtAuth.GenerateAdminToken()
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	protected := jwtAuth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/subscribers", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	protected.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected token to pass middleware, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/subscribers", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr = httptest.NewRecorder()
	protected.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for a bad token, got %d", rr.Code)
	}
}
