package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/xavierau/chatbot-showeasy/internal/config"
	"github.com/xavierau/chatbot-showeasy/internal/providers/llm"
	"github.com/xavierau/chatbot-showeasy/internal/providers/mcp"
	"github.com/xavierau/chatbot-showeasy/internal/providers/tools"
	"github.com/xavierau/chatbot-showeasy/internal/providers/web"
	"github.com/xavierau/chatbot-showeasy/internal/service/agent"
	"github.com/xavierau/chatbot-showeasy/internal/service/command"
	"github.com/xavierau/chatbot-showeasy/internal/service/docs"
	"github.com/xavierau/chatbot-showeasy/internal/service/enquiry"
	"github.com/xavierau/chatbot-showeasy/internal/service/insights"
	"github.com/xavierau/chatbot-showeasy/internal/service/memory"
	"github.com/xavierau/chatbot-showeasy/internal/service/notify"
	"github.com/xavierau/chatbot-showeasy/internal/service/pipeline"
	"github.com/xavierau/chatbot-showeasy/internal/service/search"
	"github.com/xavierau/chatbot-showeasy/internal/storage/sqlite"
	"github.com/xavierau/chatbot-showeasy/internal/transport/cli"
	transporthttp "github.com/xavierau/chatbot-showeasy/internal/transport/http"
	"github.com/xavierau/chatbot-showeasy/internal/transport/telegram"
	"github.com/xavierau/chatbot-showeasy/pkg/log"
	"github.com/xavierau/chatbot-showeasy/pkg/srv"
)

// NewServices wires the whole dependency graph and returns the long-running
// service set in start order.
func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	appCfg := config.NewAppConfig(ctx)

	llmCfg := config.NewLLMConfig(ctx)
	expCfg := config.NewExperimentConfig(ctx)
	guardCfg := config.NewGuardrailConfig(ctx)
	memCfg := config.NewMemoryConfig(ctx)
	notifyCfg := config.NewNotifyConfig(ctx)
	platformCfg := config.NewPlatformConfig(ctx)

	// Platform storage
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	executor := sqlite.NewExecutor(db)
	enquiries := sqlite.NewEnquiryRepo(db)
	organizers := sqlite.NewOrganizerRepo(db)
	aggregates := sqlite.NewAggregateRepo(db)

	// Reasoning capability
	provider, err := llm.NewProvider(ctx, llmCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}

	// Dataset insights and query synthesis
	generator := insights.NewGenerator(aggregates, insights.NewCache(insights.DefaultTTL))
	formatter := search.NewResultFormatter(platformCfg.BaseURL)
	synthesizer := search.NewSynthesizer(provider, executor, generator, formatter)

	// Reference documents
	docStore, err := docs.NewStore(appCfg.DocsDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load reference documents")
	}

	// Enquiry flows
	notifier := notify.New(ctx, notifyCfg)
	enquiryService := enquiry.NewService(enquiries, organizers, notifier)
	replyFlow := enquiry.NewReplyFlow(enquiries, provider, notifier)

	// Capability registry
	registry := agent.NewRegistry()
	registry.RegisterToolset(tools.NewSearch(synthesizer))
	registry.RegisterToolset(tools.NewDocuments(docStore))
	registry.RegisterToolset(tools.NewBooking(enquiryService))
	registry.RegisterToolset(tools.NewThinking())
	registry.RegisterToolset(tools.NewInfo())

	// External capability servers, native names win collisions
	mcpCfg, err := mcp.LoadConfig(appCfg.GetMCPConfigPath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load mcp config")
	}
	mcpManager := mcp.NewManager(mcpCfg)
	if mcpManager.Enabled() {
		if err := mcpManager.Start(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to start mcp manager")
		}
		if err := registry.MountServer(ctx, mcpManager); err != nil {
			logger.Error().Err(err).Msg("failed to mount external capabilities")
		}
		services = append(services, srv.NewCleanup(func() error {
			return mcpManager.Shutdown(ctx)
		}))
	}

	// Conversation memory
	store, err := memory.NewStore(ctx, memCfg, db)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize conversation store")
	}

	p := pipeline.New(expCfg, guardCfg, provider, registry)

	// Transports
	if appCfg.EnableHTTP {
		httpCfg := config.NewHTTPConfig(ctx)
		handler := transporthttp.NewHandler(p, store, replyFlow, web.NewScraper(), memCfg.TokenBudget, memCfg.TokenEncoding)
		services = append(services, transporthttp.NewServer(ctx, httpCfg, handler))
	}

	if appCfg.EnableTelegram {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, p, store, memCfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize telegram bot")
		}
		services = append(services, bot)
	}

	if appCfg.EnableCLI {
		commands := command.NewRouter(store, generator, expCfg)
		repl, err := cli.NewReadLine(p, store, commands, memCfg.TokenBudget, memCfg.TokenEncoding, config.GetRuntimePath())
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize interactive chat")
		}
		services = append(services, repl)
	}

	return services
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	if envFile == "" {
		envFile = filepath.Join(runtimePath, ".env")
	}

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
