package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type newsletterRepository interface {
	Subscribe(ctx context.Context, email string) error
}

type NewsletterHandler struct {
	repo newsletterRepository
}

func NewNewsletterHandler(repo newsletterRepository) *NewsletterHandler {
	return &NewsletterHandler{repo: repo}
}

func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !emailPattern.MatchString(email) {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "A valid email address is required", r))
		return
	}

	if err := h.repo.Subscribe(r.Context(), email); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to subscribe", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Subscribed"})
}
