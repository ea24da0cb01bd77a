package revocation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"badgehub/internal/domain"
)

// Redis key prefix for revoked awards.
const revokedAwardKeyPrefix = "rvk:uid:"

// RedisStore is a Redis-backed revocation registry for deployments where
// multiple instances must share revocation state. Revocations never expire,
// so entries are written without TTL.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Add(ctx context.Context, revocation domain.Revocation) error {
	key := revokedAwardKeyPrefix + revocation.AwardUID
	if err := s.client.Set(ctx, key, revocation.Reason, 0).Err(); err != nil {
		return fmt.Errorf("add revocation: %w", err)
	}
	return nil
}

func (s *RedisStore) Exists(ctx context.Context, awardUID string) (bool, error) {
	key := revokedAwardKeyPrefix + awardUID
	_, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return true, nil
}

func (s *RedisStore) List(ctx context.Context) ([]domain.Revocation, error) {
	var (
		revocations []domain.Revocation
		cursor      uint64
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, revokedAwardKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scan revocations: %w", err)
		}
		for _, key := range keys {
			reason, err := s.client.Get(ctx, key).Result()
			if errors.Is(err, redis.Nil) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("read revocation %s: %w", key, err)
			}
			revocations = append(revocations, domain.Revocation{
				AwardUID: strings.TrimPrefix(key, revokedAwardKeyPrefix),
				Reason:   reason,
			})
		}
		if next == 0 {
			return revocations, nil
		}
		cursor = next
	}
}
