package installer

// SetupConfig collects everything the wizard asks for. The env tags drive the
// .env serialization; zero values are omitted so the runtime defaults apply.
type SetupConfig struct {
	Provider string `env:"LLM_PROVIDER"`
	Model    string `env:"LLM_MODEL"`

	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	OpenRouterAPIKey string `env:"OPENROUTER_API_KEY"`
	OllamaBaseURL    string `env:"OLLAMA_BASE_URL"`
	CustomBaseURL    string `env:"CUSTOM_OPENAI_BASE_URL"`
	CustomAPIKey     string `env:"CUSTOM_OPENAI_API_KEY"`

	PlatformBaseURL string `env:"EVENT_PLATFORM_BASE_URL"`
	DatabasePath    string `env:"DATABASE_PATH"`

	EnableHTTP     bool   `env:"ENABLE_HTTP"`
	EnableTelegram bool   `env:"ENABLE_TELEGRAM"`
	EnableCLI      bool   `env:"ENABLE_CLI"`
	TelegramToken  string `env:"TELEGRAM_TOKEN"`

	MemoryBackend string `env:"MEMORY_BACKEND"`
	RedisAddr     string `env:"REDIS_ADDR"`

	NotifyChannel string `env:"NOTIFICATION_CHANNEL"`
	WebhookURL    string `env:"NOTIFICATION_WEBHOOK_URL"`

	ABTestEnabled bool   `env:"AB_TEST_ENABLED"`
	ABTestModule  string `env:"AB_TEST_MODULE"`
	ABTestRatioA  int    `env:"AB_TEST_VARIANT_A_RATIO"`
}

type SetupState struct {
	Config *SetupConfig
}

func NewSetupState() *SetupState {
	return &SetupState{Config: &SetupConfig{}}
}
