package presence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Tracker keeps per-user presence in Redis so it survives process
// restarts and is shared across instances. A nil client disables
// tracking; every method is nil-safe so callers don't have to care.
type Tracker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

type record struct {
	Status   string `json:"status"`
	LastSeen int64  `json:"last_seen"`
}

func NewTracker(client *redis.Client, prefix string) *Tracker {
	return &Tracker{client: client, prefix: prefix, ttl: 5 * time.Minute}
}

func (t *Tracker) key(userID string) string {
	return fmt.Sprintf("%s:presence:%s", t.prefix, userID)
}

// Touch marks the user online now. The key expires after the TTL, which
// is what flips a silent user back to offline.
func (t *Tracker) Touch(ctx context.Context, userID string) error {
	if t == nil || t.client == nil {
		return nil
	}
	b, _ := json.Marshal(record{Status: "online", LastSeen: time.Now().Unix()})
	return t.client.Set(ctx, t.key(userID), b, t.ttl).Err()
}

// Get returns the user's presence. Missing key means offline with no
// known lastSeen; the caller falls back to the stored user record.
func (t *Tracker) Get(ctx context.Context, userID string) (online bool, lastSeen time.Time, err error) {
	if t == nil || t.client == nil {
		return false, time.Time{}, nil
	}
	b, err := t.client.Get(ctx, t.key(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, time.Time{}, nil
		}
		return false, time.Time{}, err
	}
	var rec record
	if err := json.Unmarshal(b, &rec); err != nil {
		return false, time.Time{}, err
	}
	return rec.Status == "online", time.Unix(rec.LastSeen, 0), nil
}
