package command

import (
	"github.com/sandevgo/twinbot/internal/core"
)

func NewCommands(
	provider string,
	models ModelSwitcher,
	corpus core.CorpusAdmin,
	messages core.MessagesRepository,
) []core.Command {
	return []core.Command{
		NewModelCommand(provider, models),
		NewStatusCommand(corpus),
		NewRefreshCommand(corpus),
		NewResetCommand(messages),
	}
}
