package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/twinbot/internal/config"
	"github.com/sandevgo/twinbot/internal/service/chat"
	"github.com/sandevgo/twinbot/pkg/conv"
	"github.com/sandevgo/twinbot/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

// Handler answers a single chat turn.
type Handler interface {
	Handle(ctx context.Context, sessionID, input string) (chat.Reply, error)
}

type Bot struct {
	bot     *tele.Bot
	sender  *sender
	handler Handler
	ownerID int64
}

func NewBot(ctx context.Context, cfg *config.TelegramConfig, handler Handler) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		sender:  newSender(b),
		handler: handler,
		ownerID: cfg.OwnerID,
	}

	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Only the owner may talk to the twin
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || c.Sender().ID != bot.ownerID {
				return nil
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("bot", b.bot.Me.Username).Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)
	sessionID := fmt.Sprintf("telegram-%d", c.Chat().ID)

	_ = c.Notify(tele.Typing)

	reply, err := b.handler.Handle(ctx, sessionID, c.Text())
	if err != nil {
		logger.Error().Err(err).Str("session", sessionID).Msg("chat turn failed")
		return c.Send("Sorry, I could not answer that right now. Please try again later.")
	}

	if reply.IsCommand {
		return b.sender.sendMarkdown(ctx, c.Recipient(), reply.Text, false)
	}

	for i, part := range answerMessages(reply) {
		if err := c.Send(part, tele.ModeHTML); err != nil {
			logger.Error().Err(err).Int("chunk", i).Msg("failed to send telegram message")
			return err
		}
		_ = c.Notify(tele.Typing)
	}
	return nil
}

// answerMessages renders each answer chunk as its own Telegram HTML message.
func answerMessages(reply chat.Reply) []string {
	parts := reply.Answer.Chunks
	if len(parts) == 0 {
		parts = []string{reply.Text}
	}

	var out []string
	for _, html := range conv.ChunksToTelegramHTML(parts) {
		out = append(out, splitHTML(html, maxTelegramMsgLen)...)
	}
	return out
}
