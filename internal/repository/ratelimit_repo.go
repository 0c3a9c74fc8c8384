package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"voltamax-backend/internal/models"
)

type RateLimitRepo struct {
	pool *pgxpool.Pool
}

func NewRateLimitRepo(pool *pgxpool.Pool) *RateLimitRepo {
	return &RateLimitRepo{pool: pool}
}

// Get returns the record for key, or nil when no window has been started yet.
func (r *RateLimitRepo) Get(ctx context.Context, key string) (*models.RateLimitRecord, error) {
	rec := &models.RateLimitRecord{Key: key}
	query := "SELECT count, window_start FROM rate_limits WHERE key = $1"

	err := r.pool.QueryRow(ctx, query, key).Scan(&rec.Count, &rec.WindowStart)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Upsert writes the counter state for key. Concurrent requests in the same
// window race read-then-write and can undercount; that is accepted.
func (r *RateLimitRepo) Upsert(ctx context.Context, key string, count int, windowStart int64) error {
	query := `INSERT INTO rate_limits (key, count, window_start) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET count = $2, window_start = $3`

	_, err := r.pool.Exec(ctx, query, key, count, windowStart)
	return err
}
