package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xavierau/chatbot-showeasy/internal/core"
)

// RedisStore keeps each session transcript in a Redis list. Every read and
// append touches the key TTL so active conversations stay alive and idle
// ones age out on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ core.ConversationStore = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("conversation:%s:messages", sessionID)
}

func (s *RedisStore) History(ctx context.Context, sessionID string) ([]core.Message, error) {
	key := sessionKey(sessionID)
	vals, err := s.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", key, err)
	}
	if s.ttl > 0 && len(vals) > 0 {
		s.client.Expire(ctx, key, s.ttl)
	}

	history := make([]core.Message, 0, len(vals))
	for _, v := range vals {
		var m core.Message
		if err := json.Unmarshal([]byte(v), &m); err != nil {
			continue // skip malformed entries
		}
		history = append(history, m)
	}
	return history, nil
}

func (s *RedisStore) Append(ctx context.Context, sessionID string, turns ...core.Message) error {
	if len(turns) == 0 {
		return nil
	}
	key := sessionKey(sessionID)

	pipe := s.client.Pipeline()
	for _, m := range turns {
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("encode turn: %w", err)
		}
		pipe.RPush(ctx, key, string(data))
	}
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("pipeline exec for %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKey(sessionID)).Err()
}
