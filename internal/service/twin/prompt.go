package twin

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"text/template"

	"github.com/sandevgo/twinbot/configs"
	"github.com/sandevgo/twinbot/pkg/log"
)

type PersonaData struct {
	Name string
}

// LoadPersona reads the behavioural prompt from path, falling back to the embedded default.
// The prompt is a text/template rendered with the subject's name.
func LoadPersona(ctx context.Context, path, subject string) (string, error) {
	logger := log.FromCtx(ctx)

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("read persona: %w", err)
		}
		logger.Debug().Str("path", path).Msg("persona file not found, using embedded default")
		raw, err = configs.FS.ReadFile(configs.PersonaFile)
		if err != nil {
			return "", fmt.Errorf("read embedded persona: %w", err)
		}
	}

	tmpl, err := template.New("persona").Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("parse persona: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, PersonaData{Name: subject}); err != nil {
		return "", fmt.Errorf("render persona: %w", err)
	}
	return buf.String(), nil
}
