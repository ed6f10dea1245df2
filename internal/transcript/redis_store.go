package transcript

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "conversation:"

// RedisStore keeps each transcript as a Redis list, one entry per element.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new RedisStore.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Append pushes one entry onto the end of the conversation's list.
func (s *RedisStore) Append(ctx context.Context, conversationID, entry string) error {
	if err := s.client.RPush(ctx, redisKeyPrefix+conversationID, entry).Err(); err != nil {
		return fmt.Errorf("failed to append to transcript '%s': %w", conversationID, err)
	}
	return nil
}

// Load returns the whole conversation, oldest entry first.
func (s *RedisStore) Load(ctx context.Context, conversationID string) (string, error) {
	entries, err := s.client.LRange(ctx, redisKeyPrefix+conversationID, 0, -1).Result()
	if err != nil {
		return "", fmt.Errorf("failed to load transcript '%s': %w", conversationID, err)
	}
	return strings.Join(entries, "\n"), nil
}
