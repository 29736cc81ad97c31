package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/twinbot/pkg/log"
)

type HTTPConfig struct {
	Addr           string        `env:"TWIN_HTTP_ADDR" envDefault:":3001"`
	AllowedOrigins []string      `env:"TWIN_HTTP_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	ReadTimeout    time.Duration `env:"TWIN_HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout   time.Duration `env:"TWIN_HTTP_WRITE_TIMEOUT" envDefault:"120s"`
}

func NewHTTPConfig(ctx context.Context) *HTTPConfig {
	c := &HTTPConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse HTTP config")
	}
	return c
}
