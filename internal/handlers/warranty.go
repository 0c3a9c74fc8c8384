package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"voltamax-backend/internal/models"
	"voltamax-backend/internal/repository"
)

type warrantyRepository interface {
	Create(ctx context.Context, w *models.WarrantyRegistration) error
	GetBySerial(ctx context.Context, serial string) (*models.WarrantyRegistration, error)
}

type WarrantyHandler struct {
	repo  warrantyRepository
	queue *redis.Client
}

func NewWarrantyHandler(repo warrantyRepository, queue *redis.Client) *WarrantyHandler {
	return &WarrantyHandler{repo: repo, queue: queue}
}

func (h *WarrantyHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Serial      string `json:"serial"`
		Email       string `json:"email"`
		PurchasedAt string `json:"purchased_at"` // YYYY-MM-DD, defaults to today
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	serial := strings.ToUpper(strings.TrimSpace(req.Serial))
	if serial == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Serial number is required", r))
		return
	}
	if !emailPattern.MatchString(strings.TrimSpace(req.Email)) {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "A valid email address is required", r))
		return
	}

	purchasedAt := time.Now().UTC().Truncate(24 * time.Hour)
	if req.PurchasedAt != "" {
		parsed, err := time.Parse("2006-01-02", req.PurchasedAt)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "purchased_at must be formatted as YYYY-MM-DD", r))
			return
		}
		if parsed.After(time.Now()) {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "purchased_at cannot be in the future", r))
			return
		}
		purchasedAt = parsed
	}

	reg := &models.WarrantyRegistration{
		Serial:      serial,
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		PurchasedAt: purchasedAt,
	}

	if err := h.repo.Create(r.Context(), reg); err != nil {
		if errors.Is(err, repository.ErrSerialTaken) {
			writeJSON(w, http.StatusConflict, errorResp("ALREADY_REGISTERED", "This serial number is already registered", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to register warranty", r))
		return
	}

	h.enqueueConfirmation(reg.Serial)

	writeJSON(w, http.StatusCreated, models.WarrantyStatus{
		Serial:      reg.Serial,
		PurchasedAt: reg.PurchasedAt,
		ExpiresAt:   reg.ExpiresAt(),
		Active:      true,
	})
}

func (h *WarrantyHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	serial := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "serial")))
	if serial == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Serial number is required", r))
		return
	}

	reg, err := h.repo.GetBySerial(r.Context(), serial)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "No warranty registration for this serial number", r))
		return
	}

	writeJSON(w, http.StatusOK, models.WarrantyStatus{
		Serial:      reg.Serial,
		PurchasedAt: reg.PurchasedAt,
		ExpiresAt:   reg.ExpiresAt(),
		Active:      time.Now().Before(reg.ExpiresAt()),
	})
}

func (h *WarrantyHandler) enqueueConfirmation(serial string) {
	if h.queue == nil {
		return
	}

	payload, _ := json.Marshal(models.WarrantyEmailPayload{Serial: serial})
	jobBytes, _ := json.Marshal(models.Job{
		ID:          uuid.New(),
		Type:        "warranty-email",
		PayloadJSON: payload,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.queue.LPush(ctx, "queue:email-notifications", string(jobBytes)).Err(); err != nil {
		log.Printf("failed to enqueue warranty email for %s: %v", serial, err)
	}
}
