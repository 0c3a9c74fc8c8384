package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"voltamax-backend/internal/models"
)

type quoteRepository interface {
	Create(ctx context.Context, q *models.QuoteRequest) error
}

type QuoteHandler struct {
	repo  quoteRepository
	queue *redis.Client
}

func NewQuoteHandler(repo quoteRepository, queue *redis.Client) *QuoteHandler {
	return &QuoteHandler{repo: repo, queue: queue}
}

func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Company  string `json:"company"`
		Quantity int    `json:"quantity"`
		Message  string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := map[string]string{}
	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = "Name is required"
	}
	if !emailPattern.MatchString(strings.TrimSpace(req.Email)) {
		fields["email"] = "A valid email address is required"
	}
	if strings.TrimSpace(req.Message) == "" {
		fields["message"] = "Message is required"
	}
	if req.Quantity < 0 {
		fields["quantity"] = "Quantity cannot be negative"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Invalid quote request", fields, r))
		return
	}

	quote := &models.QuoteRequest{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Company:  strings.TrimSpace(req.Company),
		Quantity: req.Quantity,
		Message:  strings.TrimSpace(req.Message),
	}

	if err := h.repo.Create(r.Context(), quote); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save quote request", r))
		return
	}

	h.enqueueEmail(quote.ID)

	writeJSON(w, http.StatusCreated, map[string]string{"id": quote.ID.String()})
}

func (h *QuoteHandler) enqueueEmail(quoteID uuid.UUID) {
	if h.queue == nil {
		return
	}

	payload, _ := json.Marshal(models.QuoteEmailPayload{QuoteID: quoteID})
	jobBytes, _ := json.Marshal(models.Job{
		ID:          uuid.New(),
		Type:        "quote-email",
		PayloadJSON: payload,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.queue.LPush(ctx, "queue:email-notifications", string(jobBytes)).Err(); err != nil {
		log.Printf("failed to enqueue quote email for %s: %v", quoteID, err)
	}
}
