package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fritterhq/fritter-services/internal/freets"
)

// MemoryRepo is an in-memory Repository for tests and the standalone binary.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*freets.Freet
	seq   map[string]int64
	next  int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*freets.Freet), seq: make(map[string]int64)}
}

func (m *MemoryRepo) Create(ctx context.Context, f *freets.Freet) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	if f.ID == "" {
		f.ID = fmt.Sprintf("freet_%d", m.next)
	}
	now := time.Now().UTC()
	f.DateCreated = now
	f.DateModified = now
	cp := *f
	m.store[f.ID] = &cp
	m.seq[f.ID] = m.next
	return f.ID, nil
}

func (m *MemoryRepo) Get(ctx context.Context, id string) (*freets.Freet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *MemoryRepo) List(ctx context.Context) ([]*freets.Freet, error) {
	return m.list(func(*freets.Freet) bool { return true }), nil
}

func (m *MemoryRepo) ListByAuthor(ctx context.Context, authorID string) ([]*freets.Freet, error) {
	return m.list(func(f *freets.Freet) bool { return f.AuthorID == authorID }), nil
}

func (m *MemoryRepo) Update(ctx context.Context, id, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	f.Content = content
	f.DateModified = time.Now().UTC()
	return nil
}

func (m *MemoryRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	delete(m.seq, id)
	return nil
}

func (m *MemoryRepo) list(keep func(*freets.Freet) bool) []*freets.Freet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*freets.Freet{}
	for _, f := range m.store {
		if keep(f) {
			cp := *f
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DateCreated.Equal(out[j].DateCreated) {
			return out[i].DateCreated.After(out[j].DateCreated)
		}
		return m.seq[out[i].ID] > m.seq[out[j].ID]
	})
	return out
}
