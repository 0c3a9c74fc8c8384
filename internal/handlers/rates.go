package handlers

import (
	"net/http"

	"voltamax-backend/internal/services"
)

type RatesHandler struct {
	rates *services.RatesService
}

func NewRatesHandler(rates *services.RatesService) *RatesHandler {
	return &RatesHandler{rates: rates}
}

// Get serves exchange rates for the storefront currency switcher. The
// service falls back to a static table on provider failure, so this never
// returns an error to the caller.
func (h *RatesHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.rates.GetRates(r.Context()))
}
