package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"voltamax-backend/internal/middleware"
	"voltamax-backend/internal/models"
)

type adminListRepository interface {
	List(ctx context.Context) ([]models.Subscriber, error)
}

type adminQuoteRepository interface {
	List(ctx context.Context) ([]models.QuoteRequest, error)
}

// AdminHandler backs the small marketing dashboard: password login and
// read-only listings of signups and quote requests.
type AdminHandler struct {
	jwtAuth        *middleware.JWTAuth
	passwordHash   string
	newsletterRepo adminListRepository
	quoteRepo      adminQuoteRepository
}

func NewAdminHandler(jwtAuth *middleware.JWTAuth, passwordHash string, newsletterRepo adminListRepository, quoteRepo adminQuoteRepository) *AdminHandler {
	return &AdminHandler{
		jwtAuth:        jwtAuth,
		passwordHash:   passwordHash,
		newsletterRepo: newsletterRepo,
		quoteRepo:      quoteRepo,
	}
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if h.passwordHash == "" {
		writeJSON(w, http.StatusServiceUnavailable, errorResp("ADMIN_DISABLED", "Admin access is not configured", r))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.passwordHash), []byte(req.Password)); err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResp("UNAUTHORIZED", "Invalid password", r))
		return
	}

	token, err := h.jwtAuth.GenerateAdminToken()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to issue token", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *AdminHandler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	subs, err := h.newsletterRepo.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list subscribers", r))
		return
	}
	if subs == nil {
		subs = []models.Subscriber{}
	}
	writeJSON(w, http.StatusOK, subs)
}

func (h *AdminHandler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.quoteRepo.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list quote requests", r))
		return
	}
	if quotes == nil {
		quotes = []models.QuoteRequest{}
	}
	writeJSON(w, http.StatusOK, quotes)
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func errorRespWithFields(code, message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			Fields:    fields,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}
