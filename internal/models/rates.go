package models

// ExchangeRates is the currency payload served to the storefront. Source is
// "live" when fetched from the rates provider, "cache" when served from
// redis, and "fallback" when the static table was used.
type ExchangeRates struct {
	Base   string             `json:"base"`
	Rates  map[string]float64 `json:"rates"`
	Source string             `json:"source"`
}
