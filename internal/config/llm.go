package config

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sandevgo/twinbot/pkg/log"
)

type LLMConfig struct {
	Provider    string  `env:"TWIN_LLM_PROVIDER" envDefault:"openai"`
	Model       string  `env:"TWIN_LLM_MODEL" envDefault:"gpt-4o-mini"`
	Temperature float64 `env:"TWIN_LLM_TEMPERATURE" envDefault:"0.5"`
	MaxTokens   int     `env:"TWIN_LLM_MAX_TOKENS" envDefault:"500"`

	OpenAIAPIKey        string `env:"TWIN_OPENAI_API_KEY"`
	AnthropicAPIKey     string `env:"TWIN_ANTHROPIC_API_KEY"`
	OpenRouterAPIKey    string `env:"TWIN_OPENROUTER_API_KEY"`
	OllamaBaseURL       string `env:"TWIN_OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaAPIKey        string `env:"TWIN_OLLAMA_API_KEY"`
	CustomOpenAIBaseURL string `env:"TWIN_CUSTOM_OPENAI_BASE_URL"`
	CustomOpenAIAPIKey  string `env:"TWIN_CUSTOM_OPENAI_API_KEY"`

	// envPath is where model changes are persisted. Empty disables persistence.
	envPath string
	mu      sync.RWMutex
}

func NewLLMConfig(ctx context.Context) *LLMConfig {
	c := &LLMConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse LLM config")
	}
	c.envPath = GetEnvPath()
	return c
}

func (c *LLMConfig) GetProvider() string { return c.Provider }

func (c *LLMConfig) GetModel() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Model
}

// SetModel switches the model and writes TWIN_LLM_MODEL back to the .env file.
func (c *LLMConfig) SetModel(model string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.envPath != "" {
		vars, err := godotenv.Read(c.envPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return fmt.Errorf("read env: %w", err)
			}
			vars = map[string]string{}
		}
		vars["TWIN_LLM_MODEL"] = model
		if err := godotenv.Write(vars, c.envPath); err != nil {
			return fmt.Errorf("write env: %w", err)
		}
	}

	c.Model = model
	return nil
}

func (c *LLMConfig) GetTemperature() float64 { return c.Temperature }
func (c *LLMConfig) GetMaxTokens() int       { return c.MaxTokens }

func (c *LLMConfig) GetOpenAIAPIKey() string        { return c.OpenAIAPIKey }
func (c *LLMConfig) GetAnthropicAPIKey() string     { return c.AnthropicAPIKey }
func (c *LLMConfig) GetOpenRouterAPIKey() string    { return c.OpenRouterAPIKey }
func (c *LLMConfig) GetOllamaBaseURL() string       { return c.OllamaBaseURL }
func (c *LLMConfig) GetOllamaAPIKey() string        { return c.OllamaAPIKey }
func (c *LLMConfig) GetCustomOpenAIBaseURL() string { return c.CustomOpenAIBaseURL }
func (c *LLMConfig) GetCustomOpenAIAPIKey() string  { return c.CustomOpenAIAPIKey }
