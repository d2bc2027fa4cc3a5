package lastseen

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"geomark/pkg/platform/sentinel"
)

// Redis key prefix for per-client admission markers.
const admitKeyPrefix = "geomark:rl:"

// RedisStore implements Store on Redis so multiple instances share admission
// state. SET NX PX gives the atomic check-and-update: the key exists exactly
// for the rate window following the last accepted request.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a Redis-backed last-seen store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Admit is admitted iff no marker exists for key; admission sets the marker
// with a TTL of the window. Denied requests leave the TTL untouched.
func (s *RedisStore) Admit(ctx context.Context, key string, _ time.Time, window time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, admitKeyPrefix+key, 1, window).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit admit: %w: %w", sentinel.ErrUnavailable, err)
	}
	return ok, nil
}
