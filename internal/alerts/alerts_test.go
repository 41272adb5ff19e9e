package alerts

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, ttl), mr
}

func TestStore_PutAndList(t *testing.T) {
	s, _ := newTestStore(t, 5*time.Second)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "u1", "You successfully liked freet f1.", "success"))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, s.Put(ctx, "u1", "You successfully pinned freet f2.", "success"))
	require.NoError(t, s.Put(ctx, "u2", "someone else's alert", "success"))

	got, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	// oldest first
	require.Equal(t, "You successfully liked freet f1.", got[0].Message)
	require.Equal(t, "You successfully pinned freet f2.", got[1].Message)
	require.Equal(t, "success", got[0].Status)
}

func TestStore_AlertsExpire(t *testing.T) {
	s, mr := newTestStore(t, 3*time.Second)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "u1", "short lived", "success"))

	got, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)

	mr.FastForward(4 * time.Second)

	got, err = s.List(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestStore_RepeatMessageCollapses(t *testing.T) {
	s, _ := newTestStore(t, 5*time.Second)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "u1", "same words", "success"))
	require.NoError(t, s.Put(ctx, "u1", "same words", "success"))

	got, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestStore_NilClientIsNoop(t *testing.T) {
	s := NewStore(nil, 0)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "u1", "dropped", "success"))
	got, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, got)
}
