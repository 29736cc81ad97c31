package config

import (
	"context"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/twinbot/pkg/log"
)

type CalendarConfig struct {
	// Match lists calendar name fragments to read; empty means the primary calendar.
	Match []string `env:"TWIN_CALENDAR_MATCH" envSeparator:","`

	Credentials     string `env:"TWIN_GOOGLE_CREDENTIALS"`
	Token           string `env:"TWIN_GOOGLE_TOKEN"`
	CredentialsFile string `env:"TWIN_GOOGLE_CREDENTIALS_FILE"`
	TokenFile       string `env:"TWIN_GOOGLE_TOKEN_FILE"`

	RequestsPerSecond float64 `env:"TWIN_CALENDAR_RPS" envDefault:"5"`
	Burst             int     `env:"TWIN_CALENDAR_BURST" envDefault:"10"`
}

func NewCalendarConfig(ctx context.Context) *CalendarConfig {
	c := &CalendarConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Calendar config")
	}
	return c
}

// Configured reports whether any Google credentials were provided.
func (c CalendarConfig) Configured() bool {
	return (c.Credentials != "" || c.CredentialsFile != "") && (c.Token != "" || c.TokenFile != "")
}

// CredentialsJSON returns the OAuth client and token documents, preferring inline values over files.
func (c CalendarConfig) CredentialsJSON() ([]byte, []byte, error) {
	creds, err := inlineOrFile(c.Credentials, c.CredentialsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("google credentials: %w", err)
	}
	token, err := inlineOrFile(c.Token, c.TokenFile)
	if err != nil {
		return nil, nil, fmt.Errorf("google token: %w", err)
	}
	return creds, token, nil
}

func inlineOrFile(inline, path string) ([]byte, error) {
	if inline != "" {
		return []byte(inline), nil
	}
	if path == "" {
		return nil, fmt.Errorf("not configured")
	}
	return os.ReadFile(path)
}
