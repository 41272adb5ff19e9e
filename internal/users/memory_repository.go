package users

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fritterhq/fritter-services/internal/models"
)

// MemoryUserRepository is an in-memory UserRepository for tests and the
// standalone binary.
type MemoryUserRepository struct {
	mu         sync.RWMutex
	byUsername map[string]*models.User
	byID       map[string]*models.User
	next       int
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byUsername: make(map[string]*models.User),
		byID:       make(map[string]*models.User),
	}
}

func (r *MemoryUserRepository) Create(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byUsername[u.Username]; ok {
		return ErrDuplicate
	}
	r.next++
	if u.ID == "" {
		u.ID = fmt.Sprintf("user_%d", r.next)
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	cp := *u
	r.byUsername[u.Username] = &cp
	r.byID[u.ID] = &cp
	return nil
}

func (r *MemoryUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byUsername[username]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}
