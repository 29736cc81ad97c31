package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/twinbot/pkg/log"
)

type EmbeddingConfig struct {
	BaseURL string `env:"TWIN_EMBEDDING_BASE_URL" envDefault:"https://api.openai.com/v1"`
	Model   string `env:"TWIN_EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	APIKey  string `env:"TWIN_EMBEDDING_API_KEY"`
}

func NewEmbeddingConfig(ctx context.Context) *EmbeddingConfig {
	c := &EmbeddingConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Embedding config")
	}
	return c
}
