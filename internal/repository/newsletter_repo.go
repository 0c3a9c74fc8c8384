package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"voltamax-backend/internal/models"
)

type NewsletterRepo struct {
	pool *pgxpool.Pool
}

func NewNewsletterRepo(pool *pgxpool.Pool) *NewsletterRepo {
	return &NewsletterRepo{pool: pool}
}

// Subscribe is idempotent: re-subscribing an existing address is a no-op.
func (r *NewsletterRepo) Subscribe(ctx context.Context, email string) error {
	query := "INSERT INTO newsletter_subscribers (email) VALUES ($1) ON CONFLICT (email) DO NOTHING"
	_, err := r.pool.Exec(ctx, query, email)
	return err
}

func (r *NewsletterRepo) List(ctx context.Context) ([]models.Subscriber, error) {
	query := "SELECT email, created_at FROM newsletter_subscribers ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []models.Subscriber
	for rows.Next() {
		var s models.Subscriber
		if err := rows.Scan(&s.Email, &s.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
