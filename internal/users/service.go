package users

import (
	"context"
	"errors"
	"strings"

	"github.com/fritterhq/fritter-services/internal/apperr"
	"github.com/fritterhq/fritter-services/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Service encapsulates account logic and the username→ID scope resolution the
// annotation queries depend on.
type Service struct {
	repo UserRepository
}

func NewService(r UserRepository) *Service {
	return &Service{repo: r}
}

// Register creates a local account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperr.Conflict("username and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Infrastructure("hash password", err)
	}
	u := &models.User{Username: username, PasswordHash: string(hash)}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, apperr.Conflict("username %q is already taken", username)
		}
		return nil, apperr.Infrastructure("create user", err)
	}
	return u, nil
}

// Authenticate checks the credentials and returns the account.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.Unauthorized("invalid username or password")
		}
		return nil, apperr.Infrastructure("lookup user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, apperr.Unauthorized("invalid username or password")
	}
	return u, nil
}

// Resolve maps a human-facing username to the account, failing with a typed
// not-found error for unknown usernames. Pure lookup, no caching.
func (s *Service) Resolve(ctx context.Context, username string) (*models.User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("user", username)
		}
		return nil, apperr.Infrastructure("resolve user", err)
	}
	return u, nil
}

// GetByID loads an account by its internal key.
func (s *Service) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("user", id)
		}
		return nil, apperr.Infrastructure("lookup user", err)
	}
	return u, nil
}
