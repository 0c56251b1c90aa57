package telegram

import (
	"context"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/xavierau/chatbot-showeasy/internal/config"
	"github.com/xavierau/chatbot-showeasy/internal/core"
	"github.com/xavierau/chatbot-showeasy/internal/service/memory"
	"github.com/xavierau/chatbot-showeasy/internal/service/pipeline"
	"github.com/xavierau/chatbot-showeasy/pkg/log"
	"github.com/xavierau/chatbot-showeasy/pkg/srv"
)

const baseContextKey = "base_context"

type Bot struct {
	bot      *tele.Bot
	cfg      *config.TelegramConfig
	pipeline *pipeline.Pipeline
	store    core.ConversationStore
	sender   *sender

	tokenBudget int
	encoding    string
}

var _ srv.Service = (*Bot)(nil)

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	p *pipeline.Pipeline,
	store core.ConversationStore,
	memCfg *config.MemoryConfig,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:         b,
		cfg:         cfg,
		pipeline:    p,
		store:       store,
		sender:      newSender(b),
		tokenBudget: memCfg.TokenBudget,
		encoding:    memCfg.TokenEncoding,
	}

	// Carry the process context so handlers see the logger.
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Drop updates from chats outside the allow-list.
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if !cfg.Allowed(c.Sender().ID) {
				return nil
			}
			return next(c)
		}
	})

	b.Handle("/clear", bot.handleClear)
	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	sessionID := fmt.Sprintf("telegram-%d", c.Chat().ID)
	userID := fmt.Sprintf("%d", c.Sender().ID)
	ctx = log.WithSession(ctx, sessionID, userID)
	logger := log.FromCtx(ctx)

	_ = c.Notify(tele.Typing)

	history, err := b.store.History(ctx, sessionID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load history")
	}
	history = memory.TrimToBudget(history, b.tokenBudget, b.encoding)

	result := b.pipeline.Process(ctx, pipeline.Input{
		UserID:    userID,
		SessionID: sessionID,
		Message:   c.Text(),
		History:   history,
	})

	if err := b.store.Append(ctx, sessionID,
		core.Message{Role: core.RoleUser, Content: c.Text()},
		core.Message{Role: core.RoleAssistant, Content: result.Reply},
	); err != nil {
		logger.Error().Err(err).Msg("failed to append turns")
	}

	if err := b.sender.sendMarkdown(ctx, c.Chat(), result.Reply, false); err != nil {
		// HTML rendering can trip Telegram's parser; plain text still
		// gets the answer across.
		logger.Warn().Err(err).Msg("html send failed, falling back to plain text")
		return c.Send(result.Reply)
	}
	return nil
}

func (b *Bot) handleClear(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	sessionID := fmt.Sprintf("telegram-%d", c.Chat().ID)

	if err := b.store.Clear(ctx, sessionID); err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to clear session")
		return c.Send("Could not clear the conversation, please try again.")
	}
	return c.Send("Conversation cleared.")
}
