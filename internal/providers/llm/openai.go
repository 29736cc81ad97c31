package llm

const openAIBaseURL = "https://api.openai.com"

// NewOpenAI creates a provider for the OpenAI chat completions API.
func NewOpenAI(apiKey, model string) *OpenAICompatible {
	return NewOpenAICompatible(OpenAICompatibleConfig{
		Name:       "openai",
		BaseURL:    openAIBaseURL,
		APIKey:     apiKey,
		Model:      model,
		AuthHeader: "Authorization",
		AuthPrefix: "Bearer ",
	})
}
