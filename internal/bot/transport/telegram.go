package transport

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/potatotracker/internal/config"
)

// Telegram is a long-polling Telegram transport adapter
type Telegram struct {
	bot         *tgbotapi.BotAPI
	logger      *slog.Logger
	pollTimeout int // seconds, per GetUpdates call
}

// NewTelegram authenticates against the Telegram Bot API
func NewTelegram(logger *slog.Logger, cfg *config.TelegramConfig) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot client: %w", err)
	}

	logger.Info("Telegram transport authorized", "username", bot.Self.UserName)

	return &Telegram{
		bot:         bot,
		logger:      logger,
		pollTimeout: int(cfg.PollTimeout.Seconds()),
	}, nil
}

// Listen starts long-polling for updates and returns the inbound message
// stream. The channel is closed when ctx is cancelled. Non-text updates
// are skipped.
func (t *Telegram) Listen(ctx context.Context) <-chan Message {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = t.pollTimeout
	updates := t.bot.GetUpdatesChan(u)

	out := make(chan Message)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				t.bot.StopReceivingUpdates()
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				if update.Message == nil || update.Message.Text == "" {
					continue
				}
				out <- Message{
					ChatID: strconv.FormatInt(update.Message.Chat.ID, 10),
					Text:   update.Message.Text,
				}
			}
		}
	}()
	return out
}

// Send delivers a plain text reply to a chat
func (t *Telegram) Send(_ context.Context, chatID, text string) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat id %q: %w", chatID, err)
	}

	if _, err := t.bot.Send(tgbotapi.NewMessage(id, text)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// SendKeyboard delivers a reply with a one-time reply keyboard attached
func (t *Telegram) SendKeyboard(_ context.Context, chatID, text string, keyboard Keyboard) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat id %q: %w", chatID, err)
	}

	rows := make([][]tgbotapi.KeyboardButton, 0, len(keyboard))
	for _, row := range keyboard {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
		}
		rows = append(rows, buttons)
	}

	markup := tgbotapi.NewReplyKeyboard(rows...)
	markup.OneTimeKeyboard = true

	msg := tgbotapi.NewMessage(id, text)
	msg.ReplyMarkup = markup

	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send keyboard message: %w", err)
	}
	return nil
}
