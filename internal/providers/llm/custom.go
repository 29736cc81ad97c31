package llm

import "strings"

// NewCustomOpenAI targets any server speaking the OpenAI chat completions protocol.
// A trailing /v1 in baseURL is tolerated.
func NewCustomOpenAI(baseURL, apiKey, model string) *OpenAICompatible {
	return NewOpenAICompatible(OpenAICompatibleConfig{
		Name:       "custom",
		BaseURL:    strings.TrimSuffix(strings.TrimRight(baseURL, "/"), "/v1"),
		APIKey:     apiKey,
		Model:      model,
		AuthHeader: "Authorization",
		AuthPrefix: "Bearer ",
	})
}
