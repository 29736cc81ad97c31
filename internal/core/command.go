package core

import "context"

// Asker answers a single question about the subject.
type Asker interface {
	Ask(ctx context.Context, query string, history []Message) (Answer, error)
}

// CorpusAdmin exposes cache maintenance to transports and commands.
type CorpusAdmin interface {
	Refresh(ctx context.Context) (int, error)
	Status() CorpusStatus
}

type CmdRouter interface {
	Execute(ctx context.Context, sessionID, input string) (string, bool)
	ListCommands() []Command
}

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, sessionID string, args []string) (string, error)
}
