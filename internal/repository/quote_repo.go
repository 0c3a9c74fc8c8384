package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"voltamax-backend/internal/models"
)

type QuoteRepo struct {
	pool *pgxpool.Pool
}

func NewQuoteRepo(pool *pgxpool.Pool) *QuoteRepo {
	return &QuoteRepo{pool: pool}
}

func (r *QuoteRepo) Create(ctx context.Context, q *models.QuoteRequest) error {
	q.ID = uuid.New()

	query := `INSERT INTO quote_requests (id, name, email, company, quantity, message)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		q.ID, q.Name, q.Email, q.Company, q.Quantity, q.Message,
	).Scan(&q.CreatedAt)
}

func (r *QuoteRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.QuoteRequest, error) {
	q := &models.QuoteRequest{}
	query := `SELECT id, name, email, company, quantity, message, created_at
		FROM quote_requests WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&q.ID, &q.Name, &q.Email, &q.Company, &q.Quantity, &q.Message, &q.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (r *QuoteRepo) List(ctx context.Context) ([]models.QuoteRequest, error) {
	query := `SELECT id, name, email, company, quantity, message, created_at
		FROM quote_requests ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []models.QuoteRequest
	for rows.Next() {
		var q models.QuoteRequest
		if err := rows.Scan(&q.ID, &q.Name, &q.Email, &q.Company, &q.Quantity, &q.Message, &q.CreatedAt); err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}
