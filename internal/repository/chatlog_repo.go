package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ChatLogRepo records per-request chat usage (client id and message count
// only, never message content). Writes happen from the worker, outside the
// chat request path.
type ChatLogRepo struct {
	pool *pgxpool.Pool
}

func NewChatLogRepo(pool *pgxpool.Pool) *ChatLogRepo {
	return &ChatLogRepo{pool: pool}
}

func (r *ChatLogRepo) Create(ctx context.Context, clientID string, messageCount int, at time.Time) error {
	query := "INSERT INTO chat_logs (client_id, message_count, created_at) VALUES ($1, $2, $3)"
	_, err := r.pool.Exec(ctx, query, clientID, messageCount, at)
	return err
}
