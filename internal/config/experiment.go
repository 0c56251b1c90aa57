package config

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/xavierau/chatbot-showeasy/pkg/log"
)

// ExperimentConfig is the immutable A/B rollout configuration. It is read once
// and passed through the pipeline explicitly; nothing re-reads the environment
// mid-request.
type ExperimentConfig struct {
	Enabled bool   `env:"AB_TEST_ENABLED" envDefault:"false"`
	Module  string `env:"AB_TEST_MODULE" envDefault:""`
	RatioA  int    `env:"AB_TEST_VARIANT_A_RATIO" envDefault:"50"`
	RatioB  int    `env:"AB_TEST_VARIANT_B_RATIO" envDefault:"0"`

	// Loop bounds the agent module runs under: the default, and the
	// tightened one applied to variant_a.
	AgentIterations         int `env:"AGENT_MAX_ITERATIONS" envDefault:"10"`
	AgentVariantAIterations int `env:"AGENT_VARIANT_A_ITERATIONS" envDefault:"5"`
}

func NewExperimentConfig(ctx context.Context) *ExperimentConfig {
	c := &ExperimentConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Experiment config")
	}
	if err := c.Validate(); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("invalid experiment config")
	}
	return c
}

// Validate enforces the bucketing precondition: ratios are percentages and
// together must not exceed the bucket space.
func (c *ExperimentConfig) Validate() error {
	if c.RatioA < 0 || c.RatioB < 0 {
		return fmt.Errorf("experiment ratios must be non-negative, got a=%d b=%d", c.RatioA, c.RatioB)
	}
	if c.RatioA+c.RatioB > 100 {
		return fmt.Errorf("experiment ratios must sum to at most 100, got a=%d b=%d", c.RatioA, c.RatioB)
	}
	return nil
}
