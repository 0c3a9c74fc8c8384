package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"voltamax-backend/internal/models"
)

// ErrSerialTaken is returned when a serial number is already registered.
var ErrSerialTaken = errors.New("serial number already registered")

type WarrantyRepo struct {
	pool *pgxpool.Pool
}

func NewWarrantyRepo(pool *pgxpool.Pool) *WarrantyRepo {
	return &WarrantyRepo{pool: pool}
}

func (r *WarrantyRepo) Create(ctx context.Context, w *models.WarrantyRegistration) error {
	w.ID = uuid.New()

	query := `INSERT INTO warranty_registrations (id, serial, email, purchased_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (serial) DO NOTHING
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query, w.ID, w.Serial, w.Email, w.PurchasedAt).Scan(&w.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrSerialTaken
	}
	return err
}

func (r *WarrantyRepo) GetBySerial(ctx context.Context, serial string) (*models.WarrantyRegistration, error) {
	w := &models.WarrantyRegistration{}
	query := `SELECT id, serial, email, purchased_at, created_at
		FROM warranty_registrations WHERE serial = $1`

	err := r.pool.QueryRow(ctx, query, serial).Scan(
		&w.ID, &w.Serial, &w.Email, &w.PurchasedAt, &w.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return w, nil
}
