package core

// ProviderConfig is what the chat-provider factory needs to know, kept as an
// interface so transports and the setup wizard can share one config value.
type ProviderConfig interface {
	GetProvider() string
	GetModel() string
	GetOpenAIAPIKey() string
	GetOpenRouterAPIKey() string
	GetOllamaBaseURL() string
	GetCustomBaseURL() string
	GetCustomAPIKey() string
}
