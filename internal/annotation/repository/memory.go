package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fritterhq/fritter-services/internal/annotation"
)

// MemoryStore is an in-memory Store used by unit tests and the standalone
// binary. The map keyed by uniqueKey gives it the same conditional-insert and
// keyed-replace semantics as the Mongo implementation.
type MemoryStore struct {
	mu    sync.Mutex
	byKey map[string]*memEntry
	seq   int64
}

type memEntry struct {
	rec *annotation.Annotation
	seq int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byKey: make(map[string]*memEntry)}
}

func (m *MemoryStore) Insert(ctx context.Context, a *annotation.Annotation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byKey[a.UniqueKey]; ok {
		return ErrDuplicate
	}
	m.put(a)
	return nil
}

func (m *MemoryStore) ReplaceByKey(ctx context.Context, a *annotation.Annotation) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, replaced := m.byKey[a.UniqueKey]
	m.put(a)
	return replaced, nil
}

// put assumes m.mu is held.
func (m *MemoryStore) put(a *annotation.Annotation) {
	m.seq++
	if a.ID == "" {
		a.ID = fmt.Sprintf("ann_%d", m.seq)
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	cp := *a
	m.byKey[a.UniqueKey] = &memEntry{rec: &cp, seq: m.seq}
}

func (m *MemoryStore) DeleteByKey(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byKey[key]; !ok {
		return ErrNotFound
	}
	delete(m.byKey, key)
	return nil
}

func (m *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byKey[key]
	return ok, nil
}

func (m *MemoryStore) FindByKey(ctx context.Context, key string) (*annotation.Annotation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.byKey[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *e.rec
	return &cp, nil
}

func (m *MemoryStore) ListAll(ctx context.Context, kind annotation.Kind) ([]*annotation.Annotation, error) {
	return m.list(func(a *annotation.Annotation) bool { return a.Kind == kind }), nil
}

func (m *MemoryStore) ListByAuthor(ctx context.Context, kind annotation.Kind, authorID string) ([]*annotation.Annotation, error) {
	return m.list(func(a *annotation.Annotation) bool {
		return a.Kind == kind && a.AuthorID == authorID
	}), nil
}

func (m *MemoryStore) CountByKey(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byKey[key]; ok {
		return 1, nil
	}
	return 0, nil
}

func (m *MemoryStore) list(keep func(*annotation.Annotation) bool) []*annotation.Annotation {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := make([]*memEntry, 0, len(m.byKey))
	for _, e := range m.byKey {
		if keep(e.rec) {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.rec.CreatedAt.Equal(b.rec.CreatedAt) {
			return a.rec.CreatedAt.After(b.rec.CreatedAt)
		}
		return a.seq > b.seq
	})
	out := make([]*annotation.Annotation, len(entries))
	for i, e := range entries {
		cp := *e.rec
		out[i] = &cp
	}
	return out
}
