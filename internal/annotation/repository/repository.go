package repository

import (
	"context"
	"errors"

	"github.com/fritterhq/fritter-services/internal/annotation"
)

var (
	// ErrNotFound is returned when no record matches the given key.
	ErrNotFound = errors.New("annotation not found")
	// ErrDuplicate is returned by Insert when a record already occupies the
	// uniqueness key. It comes out of the write itself, so concurrent adds
	// for the same key cannot both succeed.
	ErrDuplicate = errors.New("annotation already exists")
)

// Store is the persistence contract for annotation records.
//
// Uniqueness lives here, not in the callers: Insert is conditional on the
// record's UniqueKey being free, and ReplaceByKey atomically swaps whatever
// holds the key for the new record (the pin replace). Callers may still probe
// Exists for a fast precondition answer, but correctness never depends on it.
type Store interface {
	Insert(ctx context.Context, a *annotation.Annotation) error
	ReplaceByKey(ctx context.Context, a *annotation.Annotation) (replaced bool, err error)
	DeleteByKey(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	FindByKey(ctx context.Context, key string) (*annotation.Annotation, error)
	// ListAll and ListByAuthor return records ordered by createdAt descending;
	// equal timestamps fall back to insertion order (newest first).
	ListAll(ctx context.Context, kind annotation.Kind) ([]*annotation.Annotation, error)
	ListByAuthor(ctx context.Context, kind annotation.Kind, authorID string) ([]*annotation.Annotation, error)
	CountByKey(ctx context.Context, key string) (int64, error)
}
