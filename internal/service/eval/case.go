package eval

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sandevgo/twinbot/configs"
	"gopkg.in/yaml.v3"
)

const HallucinationCategory = "hallucination_test"

// Case is one scripted question with the expectations its answer must meet.
type Case struct {
	Name              string   `yaml:"name"`
	Query             string   `yaml:"query"`
	Category          string   `yaml:"category"`
	ExpectedTopics    []string `yaml:"expected_topics"`
	ShouldNotContain  []string `yaml:"should_not_contain"`
	MinimumConfidence float64  `yaml:"minimum_confidence"`
}

type caseFile struct {
	Cases []Case `yaml:"cases"`
}

// LoadCases reads cases from path, or the bundled suite when path does not exist.
func LoadCases(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read cases: %w", err)
		}
		data, err = configs.FS.ReadFile(configs.EvalFile)
		if err != nil {
			return nil, fmt.Errorf("read embedded cases: %w", err)
		}
	}
	return ParseCases(data)
}

func ParseCases(data []byte) ([]Case, error) {
	var f caseFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode cases: %w", err)
	}
	for i, c := range f.Cases {
		if c.Query == "" {
			return nil, fmt.Errorf("case %d (%s): empty query", i, c.Name)
		}
		if c.Category == "" {
			f.Cases[i].Category = "uncategorized"
		}
	}
	return f.Cases, nil
}
