package alerts

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

// Alert is a short-lived success/error message produced by a mutation and
// shown to the user who performed it.
type Alert struct {
	Message   string    `json:"message"`
	Status    string    `json:"status"` // "success" | "error"
	CreatedAt time.Time `json:"createdAt"`
}

// Store keeps per-user alerts as Redis entries with a TTL. Each entry expires
// on its own; there is no process-wide alert map and no timer goroutines.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewStore creates an alert store. ttl <= 0 falls back to 3 seconds, matching
// the dismiss delay users expect.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 3 * time.Second
	}
	return &Store{client: client, prefix: "alert:", ttl: ttl}
}

func (s *Store) key(userID, message string) string {
	sum := sha1.Sum([]byte(message))
	return s.prefix + userID + ":" + hex.EncodeToString(sum[:8])
}

// Put records an alert for the user; it expires after the store TTL.
func (s *Store) Put(ctx context.Context, userID, message, status string) error {
	if s == nil || s.client == nil {
		return nil
	}
	a := Alert{Message: message, Status: status, CreatedAt: time.Now().UTC()}
	b, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(userID, message), b, s.ttl).Err()
}

// List returns the user's live alerts, oldest first.
func (s *Store) List(ctx context.Context, userID string) ([]Alert, error) {
	if s == nil || s.client == nil {
		return []Alert{}, nil
	}
	out := []Alert{}
	iter := s.client.Scan(ctx, 0, s.prefix+userID+":*", 100).Iterator()
	for iter.Next(ctx) {
		b, err := s.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			if err == redis.Nil {
				continue // expired between scan and get
			}
			return nil, err
		}
		var a Alert
		if err := json.Unmarshal(b, &a); err != nil {
			continue
		}
		out = append(out, a)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
