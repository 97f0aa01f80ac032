package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/chatmtl/internal/config"
	"github.com/sandevgo/chatmtl/internal/core"
	"github.com/sandevgo/chatmtl/internal/service/session"
	"github.com/sandevgo/chatmtl/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

// Submitter queues user input for the conversation.
type Submitter interface {
	Submit(ctx context.Context, text string) (<-chan session.Result, error)
}

// Bot is the Telegram transport for the owner's chat. Input goes to the
// session; bot turns come back through Display.
type Bot struct {
	ctx       context.Context
	bot       *tele.Bot
	sender    *sender
	submitter Submitter
	greeting  string
	ownerID   int64
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	submitter Submitter,
	greeting string,
) (*Bot, error) {
	if cfg.OwnerID == 0 {
		return nil, errors.New("telegram owner id is not set")
	}

	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		ctx:       log.WithComponent(ctx, "telegram"),
		bot:       b,
		sender:    newSender(b),
		submitter: submitter,
		greeting:  greeting,
		ownerID:   cfg.OwnerID,
	}

	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, bot.ctx)
			return next(c)
		}
	})

	// owner only, everyone else is ignored
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || c.Sender().ID != bot.ownerID {
				return nil
			}
			return next(c)
		}
	})

	b.Handle("/start", bot.handleStart)
	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Int64("owner", b.ownerID).Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

// Display sends bot turns to the owner. User turns are already in the chat.
func (b *Bot) Display(sender, message string) {
	if !shouldSend(sender, message) {
		return
	}
	if err := b.sender.sendMarkdown(b.ctx, tele.ChatID(b.ownerID), message, false); err != nil {
		log.FromCtx(b.ctx).Error().Err(err).Msg("failed to deliver bot turn")
	}
}

func shouldSend(sender, message string) bool {
	return sender == core.SenderBot && message != ""
}

func (b *Bot) handleStart(c tele.Context) error {
	if b.greeting == "" {
		return nil
	}
	return c.Send(b.greeting)
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)

	_ = c.Notify(tele.Typing)

	if _, err := b.submitter.Submit(ctx, c.Text()); err != nil {
		if errors.Is(err, session.ErrEmptyMessage) {
			return nil
		}
		logger.Warn().Err(err).Msg("message rejected")
		return c.Send(err.Error())
	}
	return nil
}
