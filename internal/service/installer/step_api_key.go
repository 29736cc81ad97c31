package installer

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// APIKeyStep collects the key for the selected provider.
type APIKeyStep struct {
	input      textinput.Model
	provider   string
	target     *string
	title      string
	isOptional bool
}

func NewAPIKeyStep() Step {
	return &APIKeyStep{}
}

func (s *APIKeyStep) Init() tea.Cmd {
	return nil
}

func (s *APIKeyStep) initProvider(state *InstallState) bool {
	s.provider = state.Setup.Provider

	s.input = textinput.New()
	s.input.Focus()
	s.input.CharLimit = 255
	s.input.Width = 40
	s.input.EchoMode = textinput.EchoPassword
	s.input.EchoCharacter = '•'

	switch s.provider {
	case "openai":
		s.target, s.title = &state.Setup.OpenAIAPIKey, "OpenAI API key"
		s.input.Placeholder = "sk-..."
	case "anthropic":
		s.target, s.title = &state.Setup.AnthropicAPIKey, "Anthropic API key"
		s.input.Placeholder = "sk-ant-..."
	case "openrouter":
		s.target, s.title = &state.Setup.OpenRouterAPIKey, "OpenRouter API key"
		s.input.Placeholder = "sk-or-v1-..."
	case "ollama":
		s.target, s.title = &state.Setup.OllamaAPIKey, "Ollama API key"
		s.isOptional = true
		s.input.EchoMode = textinput.EchoNormal
	case "custom":
		s.target, s.title = &state.Setup.CustomOpenAIAPIKey, "API key for the custom endpoint"
		s.isOptional = true
	default:
		return false
	}
	if s.isOptional {
		s.input.Placeholder = "optional, press enter to skip"
	}
	return true
}

func (s *APIKeyStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.target == nil {
		if !s.initProvider(state) {
			return nil, nil
		}
		return s, textinput.Blink
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if s.input.Value() == "" && !s.isOptional {
			return s, cmd
		}
		*s.target = s.input.Value()
		return nil, nil
	}
	return s, cmd
}

func (s *APIKeyStep) View(state *InstallState) string {
	if s.target == nil {
		return "Loading...\n"
	}
	return fmt.Sprintf("Enter the %s:\n\n%s\n\n(press enter to confirm)\n", s.title, s.input.View())
}
