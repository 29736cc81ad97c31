package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/twinbot/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"TWIN_RUNTIME_PATH" envDefault:".twinbot"`
	SubjectName string `env:"TWIN_SUBJECT_NAME" envDefault:"TwinBot"`
	Timezone    string `env:"TWIN_TIMEZONE"`
	FactsPath   string `env:"TWIN_FACTS_PATH"`
	PersonaPath string `env:"TWIN_PERSONA_PATH"`

	// Transport Flags
	EnableHTTP     bool `env:"TWIN_ENABLE_HTTP" envDefault:"true"`
	EnableTelegram bool `env:"TWIN_ENABLE_TELEGRAM" envDefault:"false"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	c.RuntimePath = GetRuntimePath()
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "twinbot.db")
}

func (c AppConfig) GetFactsPath() string {
	if c.FactsPath != "" {
		return c.FactsPath
	}
	return filepath.Join(c.RuntimePath, "personal_data.json")
}

func (c AppConfig) GetPersonaPath() string {
	if c.PersonaPath != "" {
		return c.PersonaPath
	}
	return filepath.Join(c.RuntimePath, "PERSONA.md")
}

func (c AppConfig) GetEvalPath() string {
	return filepath.Join(c.RuntimePath, "eval_cases.yaml")
}

// Location resolves TWIN_TIMEZONE, defaulting to the process local zone.
func (c AppConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
