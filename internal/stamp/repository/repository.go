package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/verygoodisland/backend/internal/stamp/domain"
)

type Repository interface {
	InsertBatch(ctx context.Context, userID int64, name string, count int) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Stamp, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) InsertBatch(ctx context.Context, userID int64, name string, count int) error {
	batch := &pgx.Batch{}
	for i := 0; i < count; i++ {
		batch.Queue(
			`INSERT INTO stamps (user_id, name) VALUES ($1, $2)`,
			userID,
			name,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < count; i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert stamp %d/%d: %w", i+1, count, err)
		}
	}
	return nil
}

func (r *PgRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Stamp, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, user_id, name, created_at FROM stamps WHERE user_id = $1 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list stamps: %w", err)
	}
	defer rows.Close()

	var stamps []domain.Stamp
	for rows.Next() {
		var s domain.Stamp
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stamp: %w", err)
		}
		stamps = append(stamps, s)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows iteration error: %w", rows.Err())
	}

	return stamps, nil
}
