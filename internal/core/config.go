package core

type ProviderConfig interface {
	GetModel() string
	SetModel(model string) error
	GetProvider() string
	GetTemperature() float64
	GetMaxTokens() int
	GetAnthropicAPIKey() string
	GetOpenAIAPIKey() string
	GetOpenRouterAPIKey() string
	GetOllamaAPIKey() string
	GetOllamaBaseURL() string
	GetCustomOpenAIBaseURL() string
	GetCustomOpenAIAPIKey() string
}
