package reorder

import (
	"context"
	"time"

	"pharmacy-inventory/internal/common/database"
	"pharmacy-inventory/internal/common/errors"
)

// PostgresStore persists reorder requests to the reorder_requests table.
type PostgresStore struct {
	db *database.PostgresClient
}

func NewPostgresStore(db *database.PostgresClient) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the reorder_requests table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS reorder_requests (
			id SERIAL PRIMARY KEY,
			request_id TEXT NOT NULL UNIQUE,
			medicine TEXT NOT NULL,
			stock INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return errors.NewReorderPersistFailedError(err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, requestID, medicine string, stock int, createdAt time.Time) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO reorder_requests (request_id, medicine, stock, created_at)
		VALUES ($1, $2, $3, $4)`,
		requestID, medicine, stock, createdAt)
	if err != nil {
		return errors.NewReorderPersistFailedError(err)
	}
	return nil
}

// Recent returns the latest requests, newest first.
func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]Request, error) {
	rows, err := s.db.Query(ctx, `
		SELECT request_id, medicine, stock, created_at
		FROM reorder_requests
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, errors.NewReorderPersistFailedError(err)
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		var r Request
		if err := rows.Scan(&r.RequestID, &r.Medicine, &r.Stock, &r.CreatedAt); err != nil {
			return nil, errors.NewReorderPersistFailedError(err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Request is one persisted reorder request.
type Request struct {
	RequestID string    `json:"request_id"`
	Medicine  string    `json:"medicine"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
}
