package bot

import (
	"context"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"highrollers/internal/config"
	"highrollers/internal/player"
	"highrollers/internal/session"
)

type Bot struct {
	api     *tgbotapi.BotAPI
	handler *Handler
	logger  *log.Logger
}

func New(cfg *config.Config, sessions *session.Manager, repo player.Repository, logger *log.Logger) (*Bot, error) {
	if cfg.BotToken == "" {
		return nil, config.ErrNoBotToken
	}
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:     api,
		handler: NewHandler(api, cfg, sessions, repo, logger),
		logger:  logger,
	}, nil
}

// Run polls for updates until ctx is cancelled. Each update is handled on
// its own goroutine; the table serializes actions per chat.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Bot started", "username", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Bot stopping")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.CallbackQuery != nil {
				go b.handler.HandleCallback(ctx, update.CallbackQuery)
				continue
			}
			if update.Message != nil {
				go b.handler.HandleMessage(ctx, update.Message)
			}
		}
	}
}
