package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fritterhq/fritter-services/internal/annotation"
	"github.com/stretchr/testify/require"
)

func newLike(freetID, authorID string) *annotation.Annotation {
	return &annotation.Annotation{
		Kind:      annotation.KindLike,
		FreetID:   freetID,
		AuthorID:  authorID,
		UniqueKey: annotation.KindLike.Key(freetID, authorID),
	}
}

func newPin(freetID, authorID string) *annotation.Annotation {
	return &annotation.Annotation{
		Kind:      annotation.KindPin,
		FreetID:   freetID,
		AuthorID:  authorID,
		UniqueKey: annotation.KindPin.Key(freetID, authorID),
	}
}

func TestMemoryStore_InsertRejectsDuplicateKey(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, newLike("f1", "alice")))
	err := s.Insert(ctx, newLike("f1", "alice"))
	require.ErrorIs(t, err, ErrDuplicate)

	// different author, same freet: distinct key, allowed
	require.NoError(t, s.Insert(ctx, newLike("f1", "bob")))
}

func TestMemoryStore_DeleteByKey(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, newLike("f1", "alice")))
	key := annotation.KindLike.Key("f1", "alice")

	require.NoError(t, s.DeleteByKey(ctx, key))
	require.ErrorIs(t, s.DeleteByKey(ctx, key), ErrNotFound)

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStore_ReplaceByKey(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	replaced, err := s.ReplaceByKey(ctx, newPin("f1", "bob"))
	require.NoError(t, err)
	require.False(t, replaced)

	replaced, err = s.ReplaceByKey(ctx, newPin("f2", "bob"))
	require.NoError(t, err)
	require.True(t, replaced)

	key := annotation.KindPin.Key("", "bob")
	got, err := s.FindByKey(ctx, key)
	require.NoError(t, err)
	require.Equal(t, "f2", got.FreetID)

	n, err := s.CountByKey(ctx, key)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestMemoryStore_ConcurrentReplaceLeavesOneRecord(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	const n = 32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.ReplaceByKey(ctx, newPin(fmt.Sprintf("f%d", i), "bob"))
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()

	key := annotation.KindPin.Key("", "bob")
	cnt, err := s.CountByKey(ctx, key)
	require.NoError(t, err)
	require.EqualValues(t, 1, cnt)

	got, err := s.FindByKey(ctx, key)
	require.NoError(t, err)
	require.Contains(t, got.FreetID, "f") // one of the contenders won intact
}

func TestMemoryStore_ListOrdering(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	base := time.Now().UTC()
	a := newLike("f1", "alice")
	a.CreatedAt = base
	b := newLike("f2", "alice")
	b.CreatedAt = base.Add(time.Second)
	c := newLike("f3", "alice")
	c.CreatedAt = base.Add(time.Second) // tie with b, inserted later

	require.NoError(t, s.Insert(ctx, a))
	require.NoError(t, s.Insert(ctx, b))
	require.NoError(t, s.Insert(ctx, c))

	list, err := s.ListAll(ctx, annotation.KindLike)
	require.NoError(t, err)
	require.Len(t, list, 3)
	// newest first; tie broken by insertion order (c after b)
	require.Equal(t, "f3", list[0].FreetID)
	require.Equal(t, "f2", list[1].FreetID)
	require.Equal(t, "f1", list[2].FreetID)
}

func TestMemoryStore_ListByAuthor(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, newLike("f1", "alice")))
	require.NoError(t, s.Insert(ctx, newLike("f2", "bob")))
	require.NoError(t, s.Insert(ctx, newLike("f3", "alice")))

	list, err := s.ListByAuthor(ctx, annotation.KindLike, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, a := range list {
		require.Equal(t, "alice", a.AuthorID)
	}
}
