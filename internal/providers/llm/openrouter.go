package llm

import "github.com/sandevgo/twinbot/internal/core"

const openRouterBaseURL = "https://openrouter.ai/api"

func NewOpenRouter(apiKey, model string) *OpenAICompatible {
	return NewOpenAICompatible(OpenAICompatibleConfig{
		Name:       "openrouter",
		BaseURL:    openRouterBaseURL,
		APIKey:     apiKey,
		Model:      model,
		AuthHeader: "Authorization",
		AuthPrefix: "Bearer ",
		ExtraHeaders: map[string]string{
			"HTTP-Referer": core.TwinRepositoryURL,
			"X-Title":      core.TwinName,
		},
	})
}
