package config

import (
	"context"

	"github.com/caarlos0/env/v11"

	"github.com/xavierau/chatbot-showeasy/pkg/log"
)

type LLMConfig struct {
	Provider string `env:"LLM_PROVIDER" envDefault:"openai"`
	Model    string `env:"LLM_MODEL" envDefault:"gpt-4.1-mini"`

	OpenAIAPIKey     string `env:"OPENAI_API_KEY" envDefault:""`
	OpenRouterAPIKey string `env:"OPENROUTER_API_KEY" envDefault:""`
	OllamaBaseURL    string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	CustomBaseURL    string `env:"CUSTOM_OPENAI_BASE_URL" envDefault:""`
	CustomAPIKey     string `env:"CUSTOM_OPENAI_API_KEY" envDefault:""`
}

func NewLLMConfig(ctx context.Context) *LLMConfig {
	c := &LLMConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse LLM config")
	}
	return c
}

func (c *LLMConfig) GetProvider() string         { return c.Provider }
func (c *LLMConfig) GetModel() string            { return c.Model }
func (c *LLMConfig) GetOpenAIAPIKey() string     { return c.OpenAIAPIKey }
func (c *LLMConfig) GetOpenRouterAPIKey() string { return c.OpenRouterAPIKey }
func (c *LLMConfig) GetOllamaBaseURL() string    { return c.OllamaBaseURL }
func (c *LLMConfig) GetCustomBaseURL() string    { return c.CustomBaseURL }
func (c *LLMConfig) GetCustomAPIKey() string     { return c.CustomAPIKey }
