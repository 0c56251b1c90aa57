package config

import (
	"context"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/xavierau/chatbot-showeasy/pkg/log"
)

// PlatformConfig points at the public event platform that search-result links
// must target.
type PlatformConfig struct {
	BaseURL string `env:"EVENT_PLATFORM_BASE_URL" envDefault:"https://eventplatform.test"`
}

func NewPlatformConfig(ctx context.Context) *PlatformConfig {
	c := &PlatformConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Platform config")
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	return c
}
