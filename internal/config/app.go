package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v9"

	"github.com/xavierau/chatbot-showeasy/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"SHOWEASY_RUNTIME_PATH" envDefault:".showeasy"`

	// Transport flags
	EnableHTTP     bool `env:"ENABLE_HTTP" envDefault:"true"`
	EnableTelegram bool `env:"ENABLE_TELEGRAM" envDefault:"false"`
	EnableCLI      bool `env:"ENABLE_CLI" envDefault:"false"`

	// Override for the embedded reference documents.
	DocsDir string `env:"DOCS_DIR" envDefault:""`

	// Path overrides; empty means derived from RuntimePath.
	DatabasePath   string `env:"DATABASE_PATH" envDefault:""`
	MCPServersPath string `env:"MCP_SERVERS_PATH" envDefault:""`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetDatabasePath() string {
	if c.DatabasePath != "" {
		return c.DatabasePath
	}
	return filepath.Join(c.RuntimePath, "showeasy.db")
}

func (c AppConfig) GetMCPConfigPath() string {
	if c.MCPServersPath != "" {
		return c.MCPServersPath
	}
	return filepath.Join(c.RuntimePath, "mcp_config.json")
}

func (c AppConfig) GetMemoryDir() string {
	return filepath.Join(c.RuntimePath, "conversations")
}
