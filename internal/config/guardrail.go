package config

import (
	"context"

	"github.com/caarlos0/env/v11"

	"github.com/xavierau/chatbot-showeasy/pkg/log"
)

type GuardrailConfig struct {
	// StrictMode turns semantic-layer rejections into hard errors instead
	// of redirect replies. Off in production.
	StrictMode    bool `env:"GUARDRAIL_STRICT_MODE" envDefault:"false"`
	AutoSanitize  bool `env:"GUARDRAIL_AUTO_SANITIZE" envDefault:"true"`
	LogViolations bool `env:"GUARDRAIL_LOG_VIOLATIONS" envDefault:"true"`
}

func NewGuardrailConfig(ctx context.Context) *GuardrailConfig {
	c := &GuardrailConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Guardrail config")
	}
	return c
}
