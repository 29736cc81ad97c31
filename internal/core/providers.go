package core

import (
	"context"
	"time"
)

type ChatOptions struct {
	Temperature float64
	MaxTokens   int
}

type AIProvider interface {
	Chat(ctx context.Context, messages []Message, opts ChatOptions) (Message, error)
	Models(ctx context.Context) ([]Model, error)
}

type GenerateRequest struct {
	SystemPrompt string
	Context      string
	Query        string
	History      []Message
}

type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

type CalendarProvider interface {
	ListCalendars(ctx context.Context) ([]CalendarInfo, FetchOutcome)
	FetchEvents(ctx context.Context, calendarID string, windowDays int) ([]CalendarEvent, FetchOutcome)
}

// CorpusLoader yields the embedded documents covering windowDays of calendar lookahead.
type CorpusLoader interface {
	Load(ctx context.Context, windowDays int) ([]Document, error)
}

type Clock func() time.Time
