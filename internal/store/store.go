// Package store persists tournaments as opaque JSON blobs keyed by id,
// exactly as spec.md's external interface for the blob store describes —
// the Postgres table has no column for any individual tournament or match
// field, only the blob and a timestamp.
package store

import (
	"context"
	"errors"

	"github.com/fieldhouse/bracket/internal/domain"
)

// ErrNotFound is returned by Get, Delete when no row exists for an id.
var ErrNotFound = errors.New("store: tournament not found")

// BlobStore is the persistence boundary the service layer depends on.
// Implementations round-trip a *domain.Tournament through JSON without
// interpreting its contents.
type BlobStore interface {
	Get(ctx context.Context, id string) (*domain.Tournament, error)
	Put(ctx context.Context, t *domain.Tournament) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Tournament, error)
}
