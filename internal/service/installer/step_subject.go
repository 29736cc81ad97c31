package installer

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// SubjectStep asks whose twin this is.
type SubjectStep struct {
	input textinput.Model
}

func NewSubjectStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 40
	ti.Placeholder = "Jane Doe"
	return &SubjectStep{input: ti}
}

func (s *SubjectStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *SubjectStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if name := strings.TrimSpace(s.input.Value()); name != "" {
			state.Setup.SubjectName = name
			return nil, nil
		}
	}
	return s, cmd
}

func (s *SubjectStep) View(state *InstallState) string {
	return "Whose digital twin is this? Enter the full name:\n\n" + s.input.View() + "\n\n(press enter to confirm)\n"
}
