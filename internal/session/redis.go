package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Clark-Hu/moviebooking/internal/domain"
)

// RedisStorage keeps one session per profile under moviebook:session:<profile>.
// Sessions with an expiry are stored with a matching TTL so Redis drops them
// on its own.
type RedisStorage struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

// NewRedisStorage binds storage to profile. ttl applies to sessions without a
// known expiry; zero keeps them until cleared.
func NewRedisStorage(client redis.UniversalClient, profile string, ttl time.Duration) *RedisStorage {
	if profile == "" {
		profile = "default"
	}
	return &RedisStorage{client: client, key: "moviebook:session:" + profile, ttl: ttl}
}

func (r *RedisStorage) Load(ctx context.Context) (domain.Session, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Session{}, ErrNoSession
		}
		return domain.Session{}, fmt.Errorf("redis get %s: %w", r.key, err)
	}

	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.Session{}, fmt.Errorf("decode session %s: %w", r.key, err)
	}
	return s, nil
}

func (r *RedisStorage) Save(ctx context.Context, s domain.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}

	ttl := r.ttl
	if s.ExpiresAt != nil {
		ttl = time.Until(*s.ExpiresAt)
		if ttl <= 0 {
			return r.Clear(ctx)
		}
	}
	if err := r.client.Set(ctx, r.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}

func (r *RedisStorage) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", r.key, err)
	}
	return nil
}
