package models

import (
	"time"

	"github.com/google/uuid"
)

// WarrantyYears is the coverage period for every registered product.
const WarrantyYears = 5

// WarrantyRegistration ties a product serial number to a customer.
type WarrantyRegistration struct {
	ID          uuid.UUID `json:"id"`
	Serial      string    `json:"serial"`
	Email       string    `json:"email"`
	PurchasedAt time.Time `json:"purchased_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExpiresAt returns the end of the coverage period.
func (w *WarrantyRegistration) ExpiresAt() time.Time {
	return w.PurchasedAt.AddDate(WarrantyYears, 0, 0)
}

// WarrantyStatus is the lookup response for a serial number.
type WarrantyStatus struct {
	Serial      string    `json:"serial"`
	PurchasedAt time.Time `json:"purchased_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Active      bool      `json:"active"`
}
