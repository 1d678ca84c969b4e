package notifier

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"backend/internal/config"
)

// Bot sends download lifecycle notifications to a Telegram chat.
type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

// NewBot creates a new Telegram notifier. It returns nil when the notifier
// is disabled; all methods are nil-safe, so call sites need no guards.
func NewBot(cfg *config.Config, logger *zap.Logger) (*Bot, error) {
	if !cfg.Notifier.Enabled || cfg.Notifier.TelegramBotToken == "" {
		logger.Info("Telegram notifier is disabled (notifier.enabled=false or token is empty)")
		return nil, nil
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Notifier.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %w", err)
	}

	logger.Info("Telegram notifier authorized", zap.String("username", botAPI.Self.UserName))

	return &Bot{
		api:    botAPI,
		chatID: cfg.Notifier.TelegramChatID,
		logger: logger,
	}, nil
}

// Notify sends a plain-text message to the configured chat.
func (b *Bot) Notify(text string) {
	if b == nil {
		return
	}

	msg := tgbotapi.NewMessage(b.chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send Telegram notification", zap.Error(err))
	}
}
