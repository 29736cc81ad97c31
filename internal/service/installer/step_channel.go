package installer

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ChannelStep selects which transports `twin start` runs.
type ChannelStep struct {
	choices []string
	cursor  int
}

func NewChannelStep() Step {
	return &ChannelStep{
		choices: []string{ChannelHTTP, ChannelTelegram, ChannelBoth},
	}
}

func (s *ChannelStep) Init() tea.Cmd {
	return nil
}

func (s *ChannelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if key.String() == "enter" {
			state.Channel = s.choices[s.cursor]
			return nil, nil
		}
		s.cursor = moveCursor(key.String(), s.cursor, len(s.choices))
	}
	return s, nil
}

func (s *ChannelStep) View(state *InstallState) string {
	return renderChoices("How should people reach the twin?", s.choices, s.cursor)
}
