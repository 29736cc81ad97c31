package chat

import (
	"context"
	"fmt"

	"github.com/sandevgo/twinbot/internal/core"
	"github.com/sandevgo/twinbot/internal/service/twin"
	"github.com/sandevgo/twinbot/pkg/log"
)

// Reply is either a command result or an answer from the twin.
type Reply struct {
	IsCommand bool
	Text      string
	Answer    core.Answer
}

// Service serves conversational transports: it routes slash commands and
// keeps per-session history for questions.
type Service struct {
	asker    core.Asker
	messages core.MessagesRepository
	router   core.CmdRouter
}

func New(asker core.Asker, messages core.MessagesRepository, router core.CmdRouter) *Service {
	return &Service{asker: asker, messages: messages, router: router}
}

func (s *Service) Handle(ctx context.Context, sessionID, input string) (Reply, error) {
	logger := log.FromCtx(ctx).With().Str("session", sessionID).Logger()

	if s.router != nil {
		if out, ok := s.router.Execute(ctx, sessionID, input); ok {
			return Reply{IsCommand: true, Text: out}, nil
		}
	}

	history, err := s.messages.GetMessages(ctx, sessionID, twin.MaxHistoryTurns)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load history, answering without it")
		history = nil
	}

	answer, err := s.asker.Ask(ctx, input, history)
	if err != nil {
		return Reply{}, fmt.Errorf("ask: %w", err)
	}

	for _, msg := range []core.Message{
		{Role: core.RoleUser, Content: input},
		{Role: core.RoleAssistant, Content: answer.Text},
	} {
		if err := s.messages.AddMessage(ctx, sessionID, msg); err != nil {
			logger.Warn().Err(err).Msg("failed to store message")
		}
	}

	return Reply{Text: answer.Text, Answer: answer}, nil
}
