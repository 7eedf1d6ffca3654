package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Bot struct {
	api         *tgbotapi.BotAPI
	pollTimeout int
}

type CommandUpdate struct {
	ChatID    int64
	UserID    int64
	FirstName string
	Command   string
	Args      string
}

type TextUpdate struct {
	ChatID    int64
	UserID    int64
	FirstName string
	Text      string
}

type Handlers struct {
	OnCommand func(context.Context, CommandUpdate) error
	OnText    func(context.Context, TextUpdate) error
}

// Message is an outgoing chat message. A non-empty ButtonURL attaches one inline button
// that opens the link.
type Message struct {
	ChatID     int64
	Text       string
	Markdown   bool
	ButtonText string
	ButtonURL  string
}

func NewBot(token string, pollTimeoutSec int) (*Bot, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("telegram bot token is empty")
	}

	api, err := tgbotapi.NewBotAPI(strings.TrimSpace(token))
	if err != nil {
		return nil, fmt.Errorf("create telegram bot api: %w", err)
	}
	if pollTimeoutSec <= 0 {
		pollTimeoutSec = 30
	}

	return &Bot{
		api:         api,
		pollTimeout: pollTimeoutSec,
	}, nil
}

func (b *Bot) Username() string {
	if b == nil || b.api == nil {
		return ""
	}
	return b.api.Self.UserName
}

// Listen dispatches updates until ctx is done. A handler error stops the loop.
func (b *Bot) Listen(ctx context.Context, handlers Handlers) error {
	if b == nil || b.api == nil {
		return fmt.Errorf("telegram bot is not initialized")
	}

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(updateCfg)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-updates:
			msg := update.Message
			if msg == nil || msg.From == nil {
				continue
			}

			if msg.IsCommand() {
				if handlers.OnCommand == nil {
					continue
				}
				if err := handlers.OnCommand(ctx, CommandUpdate{
					ChatID:    msg.Chat.ID,
					UserID:    msg.From.ID,
					FirstName: msg.From.FirstName,
					Command:   msg.Command(),
					Args:      msg.CommandArguments(),
				}); err != nil {
					return err
				}
				continue
			}

			text := strings.TrimSpace(msg.Text)
			if text != "" && handlers.OnText != nil {
				if err := handlers.OnText(ctx, TextUpdate{
					ChatID:    msg.Chat.ID,
					UserID:    msg.From.ID,
					FirstName: msg.From.FirstName,
					Text:      text,
				}); err != nil {
					return err
				}
			}
		}
	}
}

func (b *Bot) Send(ctx context.Context, m Message) error {
	if b == nil || b.api == nil {
		return fmt.Errorf("telegram bot is not initialized")
	}
	if m.ChatID == 0 {
		return fmt.Errorf("chat id is required")
	}

	msg := tgbotapi.NewMessage(m.ChatID, m.Text)
	if m.Markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}
	if m.ButtonURL != "" {
		label := m.ButtonText
		if label == "" {
			label = m.ButtonURL
		}
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL(label, m.ButtonURL),
			),
		)
	}

	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	_ = ctx
	return nil
}
