package installer

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ProviderStep selects the answer-generation provider.
type ProviderStep struct {
	choices []string
	cursor  int
}

func NewProviderStep() Step {
	return &ProviderStep{
		choices: []string{"OpenAI", "Anthropic", "OpenRouter", "Ollama", "Custom"},
	}
}

func (s *ProviderStep) Init() tea.Cmd {
	return nil
}

func (s *ProviderStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if key.String() == "enter" {
			state.Setup.Provider = strings.ToLower(s.choices[s.cursor])
			return nil, nil
		}
		s.cursor = moveCursor(key.String(), s.cursor, len(s.choices))
	}
	return s, nil
}

func (s *ProviderStep) View(state *InstallState) string {
	return renderChoices("Select the language model provider:", s.choices, s.cursor)
}
