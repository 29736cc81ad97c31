package installer

import (
	"strings"

	"github.com/sandevgo/twinbot/internal/config"
)

const (
	ChannelHTTP     = "HTTP API"
	ChannelTelegram = "Telegram"
	ChannelBoth     = "HTTP API + Telegram"
)

// Setup is the subset of configuration collected by the wizard and written to .env.
type Setup struct {
	SubjectName string `env:"TWIN_SUBJECT_NAME"`
	Timezone    string `env:"TWIN_TIMEZONE"`

	Provider            string `env:"TWIN_LLM_PROVIDER"`
	Model               string `env:"TWIN_LLM_MODEL"`
	OpenAIAPIKey        string `env:"TWIN_OPENAI_API_KEY"`
	AnthropicAPIKey     string `env:"TWIN_ANTHROPIC_API_KEY"`
	OpenRouterAPIKey    string `env:"TWIN_OPENROUTER_API_KEY"`
	OllamaBaseURL       string `env:"TWIN_OLLAMA_BASE_URL"`
	OllamaAPIKey        string `env:"TWIN_OLLAMA_API_KEY"`
	CustomOpenAIBaseURL string `env:"TWIN_CUSTOM_OPENAI_BASE_URL"`
	CustomOpenAIAPIKey  string `env:"TWIN_CUSTOM_OPENAI_API_KEY"`

	EmbeddingBaseURL string `env:"TWIN_EMBEDDING_BASE_URL"`
	EmbeddingModel   string `env:"TWIN_EMBEDDING_MODEL"`
	EmbeddingAPIKey  string `env:"TWIN_EMBEDDING_API_KEY"`

	EnableHTTP      string `env:"TWIN_ENABLE_HTTP"`
	EnableTelegram  string `env:"TWIN_ENABLE_TELEGRAM"`
	TelegramToken   string `env:"TWIN_TELEGRAM_TOKEN"`
	TelegramOwnerID string `env:"TWIN_TELEGRAM_OWNER_ID"`

	Debug string `env:"TWIN_DEBUG"`
}

type InstallState struct {
	Setup   Setup
	Channel string
}

func NewInstallState() *InstallState {
	return &InstallState{}
}

func (s *InstallState) wantsTelegram() bool {
	return s.Channel == ChannelTelegram || s.Channel == ChannelBoth
}

// LLMConfig builds a provider config from the collected values, without persistence.
func (s *InstallState) LLMConfig() *config.LLMConfig {
	return &config.LLMConfig{
		Provider:            s.Setup.Provider,
		Model:               s.Setup.Model,
		OpenAIAPIKey:        s.Setup.OpenAIAPIKey,
		AnthropicAPIKey:     s.Setup.AnthropicAPIKey,
		OpenRouterAPIKey:    s.Setup.OpenRouterAPIKey,
		OllamaBaseURL:       s.Setup.OllamaBaseURL,
		OllamaAPIKey:        s.Setup.OllamaAPIKey,
		CustomOpenAIBaseURL: s.Setup.CustomOpenAIBaseURL,
		CustomOpenAIAPIKey:  s.Setup.CustomOpenAIAPIKey,
	}
}

// Finalize fills derived values once every step has run.
func (s *InstallState) Finalize() {
	if s.Channel == "" {
		s.Channel = ChannelHTTP
	}
	s.Setup.EnableHTTP = "false"
	if s.Channel == ChannelHTTP || s.Channel == ChannelBoth {
		s.Setup.EnableHTTP = "true"
	}
	s.Setup.EnableTelegram = "false"
	if s.wantsTelegram() && s.Setup.TelegramToken != "" {
		s.Setup.EnableTelegram = "true"
	}

	// OpenAI keys serve embeddings too
	if s.Setup.EmbeddingAPIKey == "" && s.Setup.Provider == "openai" {
		s.Setup.EmbeddingAPIKey = s.Setup.OpenAIAPIKey
	}
	if s.Setup.Debug == "" {
		s.Setup.Debug = "0"
	}
	s.Setup.SubjectName = strings.TrimSpace(s.Setup.SubjectName)
}
