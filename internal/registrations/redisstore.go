package registrations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jornageo/registration/internal/models"
)

const (
	redisKeyPrefix = "registration:"
	redisScanCount = 200
)

// RedisStore keeps one JSON document per registration under registration:<email>.
// Used for local and self-hosted runs where DynamoDB is not available.
type RedisStore struct {
	client redis.Cmdable
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(email string) string { return redisKeyPrefix + email }

// Put overwrites any existing value for the email.
func (s *RedisStore) Put(ctx context.Context, reg *models.Registration) error {
	raw, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("marshal registration: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(reg.Email), raw, 0).Err(); err != nil {
		return fmt.Errorf("set: %w", err)
	}
	return nil
}

// PutIfAbsent uses SETNX so only the first writer for an email wins.
func (s *RedisStore) PutIfAbsent(ctx context.Context, reg *models.Registration) error {
	raw, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("marshal registration: %w", err)
	}
	ok, err := s.client.SetNX(ctx, redisKey(reg.Email), raw, 0).Result()
	if err != nil {
		return fmt.Errorf("setnx: %w", err)
	}
	if !ok {
		return ErrDuplicate
	}
	return nil
}

// Get returns nil when the key does not exist.
func (s *RedisStore) Get(ctx context.Context, email string) (*models.Registration, error) {
	raw, err := s.client.Get(ctx, redisKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get: %w", err)
	}
	var reg models.Registration
	if err := json.Unmarshal(raw, &reg); err != nil {
		return nil, fmt.Errorf("unmarshal registration: %w", err)
	}
	return &reg, nil
}

// Scan iterates the keyspace with SCAN and loads values with MGET per batch.
func (s *RedisStore) Scan(ctx context.Context) ([]models.Registration, error) {
	list := make([]models.Registration, 0)
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, redisKeyPrefix+"*", redisScanCount).Result()
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if len(keys) > 0 {
			vals, err := s.client.MGet(ctx, keys...).Result()
			if err != nil {
				return nil, fmt.Errorf("mget: %w", err)
			}
			for _, v := range vals {
				str, ok := v.(string)
				if !ok {
					// key expired or was removed between SCAN and MGET
					continue
				}
				var reg models.Registration
				if err := json.Unmarshal([]byte(str), &reg); err != nil {
					return nil, fmt.Errorf("unmarshal registration: %w", err)
				}
				list = append(list, reg)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return list, nil
}
