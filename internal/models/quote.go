package models

import (
	"time"

	"github.com/google/uuid"
)

// QuoteRequest is a bulk-pricing inquiry submitted from the storefront.
type QuoteRequest struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company,omitempty"`
	Quantity  int       `json:"quantity,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
