package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/xavierau/chatbot-showeasy/pkg/log"
)

type MemoryConfig struct {
	// Backend selects where session transcripts live: file, redis or sqlite.
	Backend string `env:"MEMORY_BACKEND" envDefault:"file"`

	Dir string `env:"MEMORY_DIR" envDefault:""`

	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	SessionTTL    time.Duration `env:"MEMORY_SESSION_TTL" envDefault:"72h"`

	// TokenBudget bounds how much history reaches the reasoning prompt.
	TokenBudget   int    `env:"MEMORY_TOKEN_BUDGET" envDefault:"3000"`
	TokenEncoding string `env:"MEMORY_TOKEN_ENCODING" envDefault:"cl100k_base"`
}

func NewMemoryConfig(ctx context.Context) *MemoryConfig {
	c := &MemoryConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Memory config")
	}
	return c
}
