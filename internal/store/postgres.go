package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fieldhouse/bracket/internal/domain"
)

// PostgresStore is the BlobStore backed by a single `tournaments` table
// with one JSONB column. Migrations are applied out of band; Ensure creates
// the table for local development and tests.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS tournaments (
    id         TEXT PRIMARY KEY,
    data       JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Ensure creates the backing table if it does not already exist.
func (s *PostgresStore) Ensure(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("store: ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*domain.Tournament, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM tournaments WHERE id = $1`, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get %s: %w", id, err)
	}
	var t domain.Tournament
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", id, err)
	}
	return &t, nil
}

func (s *PostgresStore) Put(ctx context.Context, t *domain.Tournament) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", t.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tournaments (id, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
	`, t.ID, raw)
	if err != nil {
		return fmt.Errorf("store: put %s: %w", t.ID, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*domain.Tournament, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM tournaments ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer rows.Close()

	var out []*domain.Tournament
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("store: list: %w", err)
		}
		var t domain.Tournament
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("store: list decode: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}
