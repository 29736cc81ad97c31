package installer

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// EmbeddingKeyStep collects an OpenAI key for embeddings when the chat provider
// cannot serve them. Ollama users get its OpenAI-compatible endpoint instead.
type EmbeddingKeyStep struct {
	input textinput.Model
}

func NewEmbeddingKeyStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 40
	ti.Placeholder = "sk-..."
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'

	return &EmbeddingKeyStep{input: ti}
}

func (s *EmbeddingKeyStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *EmbeddingKeyStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	switch state.Setup.Provider {
	case "openai":
		return nil, nil
	case "ollama":
		state.Setup.EmbeddingBaseURL = state.Setup.OllamaBaseURL + "/v1"
		state.Setup.EmbeddingModel = "nomic-embed-text"
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" && s.input.Value() != "" {
		state.Setup.EmbeddingAPIKey = s.input.Value()
		return nil, nil
	}
	return s, cmd
}

func (s *EmbeddingKeyStep) View(state *InstallState) string {
	return "Enter an OpenAI API key for embeddings:\n\n" +
		s.input.View() + "\n\n" +
		"(press enter to confirm)\n"
}
