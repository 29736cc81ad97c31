package facts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/sandevgo/twinbot/internal/core"
)

// JSONSource reads static facts from a JSON array of {id, category, content}.
type JSONSource struct {
	path string
}

func NewJSONSource(path string) *JSONSource {
	return &JSONSource{path: path}
}

func (s *JSONSource) Facts(ctx context.Context) ([]core.StaticFact, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("facts file %s: %w", s.path, core.ErrDataUnavailable)
		}
		return nil, fmt.Errorf("read facts: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a facts document. Ids must be unique and content non-empty.
func Parse(data []byte) ([]core.StaticFact, error) {
	var facts []core.StaticFact
	if err := json.Unmarshal(data, &facts); err != nil {
		return nil, fmt.Errorf("decode facts: %w", err)
	}

	seen := make(map[string]struct{}, len(facts))
	out := facts[:0]
	for i, f := range facts {
		f.ID = strings.TrimSpace(f.ID)
		f.Content = strings.TrimSpace(f.Content)
		if f.ID == "" {
			return nil, fmt.Errorf("fact %d: missing id", i)
		}
		if _, dup := seen[f.ID]; dup {
			return nil, fmt.Errorf("fact %d: duplicate id %q", i, f.ID)
		}
		seen[f.ID] = struct{}{}
		if f.Content == "" {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}
