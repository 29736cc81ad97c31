package command

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sandevgo/twinbot/internal/core"
)

type StatusCommand struct {
	corpus    core.CorpusAdmin
	formatter *ResponseFormatter
}

func NewStatusCommand(corpus core.CorpusAdmin) *StatusCommand {
	return &StatusCommand{corpus: corpus, formatter: NewResponseFormatter()}
}

func (c *StatusCommand) Name() string        { return "status" }
func (c *StatusCommand) Description() string { return "Show the personal data cache state" }

func (c *StatusCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	st := c.corpus.Status()
	if !st.Valid {
		return c.formatter.Combine(
			c.formatter.Info("Corpus"),
			c.formatter.Label("Cache", "empty"),
			c.formatter.Label("Calendar", st.CalendarStatus),
			c.formatter.Tip("the cache fills on the next question"),
		), nil
	}

	return c.formatter.Combine(
		c.formatter.Info("Corpus"),
		c.formatter.Label("Fetched", st.FetchedAt.Format(time.DateTime)),
		c.formatter.Label("Window", strconv.Itoa(st.WindowDays)+" days"),
		c.formatter.Label("Static facts", strconv.Itoa(st.StaticCount)),
		c.formatter.Label("Calendar events", strconv.Itoa(st.CalendarCount)),
		c.formatter.Label("Calendar", st.CalendarStatus),
	), nil
}

type RefreshCommand struct {
	corpus    core.CorpusAdmin
	formatter *ResponseFormatter
}

func NewRefreshCommand(corpus core.CorpusAdmin) *RefreshCommand {
	return &RefreshCommand{corpus: corpus, formatter: NewResponseFormatter()}
}

func (c *RefreshCommand) Name() string        { return "refresh" }
func (c *RefreshCommand) Description() string { return "Re-embed personal facts and drop the cache" }

func (c *RefreshCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	n, err := c.corpus.Refresh(ctx)
	if err != nil {
		return "", err
	}
	return c.formatter.Success(fmt.Sprintf("Re-embedded %d facts", n)), nil
}

type ResetCommand struct {
	messages  core.MessagesRepository
	formatter *ResponseFormatter
}

func NewResetCommand(messages core.MessagesRepository) *ResetCommand {
	return &ResetCommand{messages: messages, formatter: NewResponseFormatter()}
}

func (c *ResetCommand) Name() string        { return "reset" }
func (c *ResetCommand) Description() string { return "Forget this conversation" }

func (c *ResetCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if err := c.messages.ClearSession(ctx, sessionID); err != nil {
		return "", err
	}
	return c.formatter.Success("Conversation cleared"), nil
}
