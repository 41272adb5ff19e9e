package repository

import (
	"context"
	"errors"

	"github.com/fritterhq/fritter-services/internal/freets"
)

var ErrNotFound = errors.New("freet not found")

// Repository is the persistence contract for freets.
type Repository interface {
	Create(ctx context.Context, f *freets.Freet) (string, error)
	Get(ctx context.Context, id string) (*freets.Freet, error)
	List(ctx context.Context) ([]*freets.Freet, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*freets.Freet, error)
	Update(ctx context.Context, id, content string) error
	Delete(ctx context.Context, id string) error
}
