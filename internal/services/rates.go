package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"voltamax-backend/internal/models"
)

// fallbackRates covers the storefront's markets when the rates provider or
// cache is unreachable. Updated manually on release.
var fallbackRates = map[string]float64{
	"USD": 1.0,
	"EUR": 0.92,
	"GBP": 0.79,
	"CAD": 1.36,
	"AUD": 1.52,
	"JPY": 149.5,
}

type ratesCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type redisRatesCache struct {
	client *redis.Client
}

func (c *redisRatesCache) Get(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, key).Result()
}

func (c *redisRatesCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// RatesService serves currency exchange rates with a redis TTL cache and a
// static fallback table. Lookups never fail: worst case the storefront shows
// prices converted with stale built-in rates.
type RatesService struct {
	cache      ratesCache
	apiURL     string
	ttl        time.Duration
	httpClient *http.Client
}

func NewRatesService(redisClient *redis.Client, apiURL string, ttl time.Duration) *RatesService {
	return &RatesService{
		cache:      &redisRatesCache{client: redisClient},
		apiURL:     apiURL,
		ttl:        ttl,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetRates returns USD-based rates for the storefront's currency switcher.
func (s *RatesService) GetRates(ctx context.Context) *models.ExchangeRates {
	cacheKey := "rates:USD"

	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		var rates map[string]float64
		if err := json.Unmarshal([]byte(cached), &rates); err == nil && len(rates) > 0 {
			return &models.ExchangeRates{Base: "USD", Rates: rates, Source: "cache"}
		}
	}

	rates, err := s.fetch(ctx)
	if err != nil {
		log.Printf("rates fetch failed, serving fallback table: %v", err)
		return &models.ExchangeRates{Base: "USD", Rates: fallbackRates, Source: "fallback"}
	}

	if data, err := json.Marshal(rates); err == nil {
		if err := s.cache.Set(ctx, cacheKey, string(data), s.ttl); err != nil {
			log.Printf("failed to cache rates: %v", err)
		}
	}

	return &models.ExchangeRates{Base: "USD", Rates: rates, Source: "live"}
}

func (s *RatesService) fetch(ctx context.Context) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rates provider returned status %d", resp.StatusCode)
	}

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode rates response: %w", err)
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("rates provider returned no rates")
	}

	return payload.Rates, nil
}
