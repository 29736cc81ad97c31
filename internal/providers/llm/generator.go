package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/twinbot/internal/core"
)

const DefaultMaxTokens = 500

// Generator turns a grounded request into a single chat completion.
// Temperature is passed through as configured, including 0.
type Generator struct {
	provider core.AIProvider
	opts     core.ChatOptions
}

func NewGenerator(provider core.AIProvider, opts core.ChatOptions) *Generator {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	return &Generator{provider: provider, opts: opts}
}

func (g *Generator) Generate(ctx context.Context, req core.GenerateRequest) (string, error) {
	reply, err := g.provider.Chat(ctx, BuildMessages(req), g.opts)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(reply.Content)
	if text == "" {
		return "", core.NewProviderError("llm", "chat", fmt.Errorf("empty completion"))
	}
	return text, nil
}

// BuildMessages lays out system prompt, prior turns and the grounded question.
func BuildMessages(req core.GenerateRequest) []core.Message {
	messages := make([]core.Message, 0, len(req.History)+2)
	messages = append(messages, core.Message{Role: core.RoleSystem, Content: req.SystemPrompt})
	messages = append(messages, req.History...)
	messages = append(messages, core.Message{
		Role:    core.RoleUser,
		Content: "Context from my personal data:\n" + req.Context + "\n\nQuestion: " + req.Query,
	})
	return messages
}
