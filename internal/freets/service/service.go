package service

import (
	"context"
	"errors"
	"strings"

	"github.com/fritterhq/fritter-services/internal/apperr"
	"github.com/fritterhq/fritter-services/internal/freets"
	"github.com/fritterhq/fritter-services/internal/freets/repository"
)

// Service wraps the freet repository with business rules. It doubles as the
// freet-lookup collaborator the annotation engine consumes.
type Service struct {
	repo repository.Repository
}

func NewService(r repository.Repository) *Service {
	return &Service{repo: r}
}

// Create stores a new freet for the given author.
func (s *Service) Create(ctx context.Context, authorID, content string) (*freets.Freet, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperr.Conflict("freet content must not be empty")
	}
	f := &freets.Freet{AuthorID: authorID, Content: content}
	if _, err := s.repo.Create(ctx, f); err != nil {
		return nil, apperr.Infrastructure("create freet", err)
	}
	return f, nil
}

// Get returns the freet or a typed not-found error. The annotation handlers
// use this as their freet-exists precondition.
func (s *Service) Get(ctx context.Context, id string) (*freets.Freet, error) {
	f, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("freet", id)
		}
		return nil, apperr.Infrastructure("get freet", err)
	}
	return f, nil
}

func (s *Service) List(ctx context.Context) ([]*freets.Freet, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Infrastructure("list freets", err)
	}
	return out, nil
}

func (s *Service) ListByAuthor(ctx context.Context, authorID string) ([]*freets.Freet, error) {
	out, err := s.repo.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, apperr.Infrastructure("list freets", err)
	}
	return out, nil
}

// Update edits a freet's content. Only the freet's author may edit.
func (s *Service) Update(ctx context.Context, actorID, id, content string) (*freets.Freet, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.AuthorID != actorID {
		return nil, apperr.Unauthorized("only the freet's author can edit it")
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperr.Conflict("freet content must not be empty")
	}
	if err := s.repo.Update(ctx, id, content); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("freet", id)
		}
		return nil, apperr.Infrastructure("update freet", err)
	}
	return s.Get(ctx, id)
}

// Delete removes a freet. Only the freet's author may delete.
func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	f, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if f.AuthorID != actorID {
		return apperr.Unauthorized("only the freet's author can delete it")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("freet", id)
		}
		return apperr.Infrastructure("delete freet", err)
	}
	return nil
}
