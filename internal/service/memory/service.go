package memory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/xavierau/chatbot-showeasy/internal/config"
	"github.com/xavierau/chatbot-showeasy/internal/core"
	"github.com/xavierau/chatbot-showeasy/internal/storage/sqlite"
	"github.com/xavierau/chatbot-showeasy/pkg/log"
)

// NewStore builds the conversation backend selected by MEMORY_BACKEND.
// The sqlite backend shares the platform database handle; file and redis
// keep transcripts out of it entirely.
func NewStore(ctx context.Context, cfg *config.MemoryConfig, db *sql.DB) (core.ConversationStore, error) {
	switch cfg.Backend {
	case "file", "":
		return NewFileStore(cfg.Dir)
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		log.FromCtx(ctx).Info().Str("addr", cfg.RedisAddr).Msg("using redis conversation store")
		return NewRedisStore(client, cfg.SessionTTL), nil
	case "sqlite":
		if db == nil {
			return nil, fmt.Errorf("sqlite conversation store needs a database handle")
		}
		return sqlite.NewMessageRepo(db), nil
	default:
		return nil, fmt.Errorf("unknown memory backend %q", cfg.Backend)
	}
}
