package config

import (
	"context"

	"github.com/caarlos0/env/v11"

	"github.com/xavierau/chatbot-showeasy/pkg/log"
)

type NotifyConfig struct {
	// Channel picks the delivery strategy: log or webhook. The email value
	// is reserved but not implemented.
	Channel    string `env:"NOTIFICATION_CHANNEL" envDefault:"log"`
	WebhookURL string `env:"NOTIFICATION_WEBHOOK_URL" envDefault:""`
}

func NewNotifyConfig(ctx context.Context) *NotifyConfig {
	c := &NotifyConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Notify config")
	}
	return c
}
