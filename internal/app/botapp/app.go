package botapp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ivankudzin/spark/internal/config"
	tginfra "github.com/ivankudzin/spark/internal/infra/telegram"
)

const (
	openButtonText = "💘 Открыть Spark"
	defaultName    = "друг"

	helpText = "📖 *Как пользоваться Spark:*\n\n" +
		"• *Лента* — смотри анкеты рядом\n" +
		"• *Свайп* — листай карточки (вправо = ❤️, влево = ✗)\n" +
		"• *Профиль* — редактируй свою анкету\n\n" +
		"❤️ Если вы оба поставили лайк — это Матч!\n\n" +
		"/start — открыть приложение"

	fallbackText = "Нажми кнопку, чтобы открыть приложение 👇"
)

type Sender interface {
	Send(ctx context.Context, m tginfra.Message) error
}

type listener interface {
	Listen(ctx context.Context, handlers tginfra.Handlers) error
}

// App is the chat front door: it only hands users the entry link.
type App struct {
	logger    *zap.Logger
	sender    Sender
	listener  listener
	webAppURL string
}

func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	if strings.TrimSpace(cfg.Bot.Token) == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required for the bot")
	}
	if strings.TrimSpace(cfg.Bot.WebAppURL) == "" {
		return nil, fmt.Errorf("WEBAPP_URL is required for the bot")
	}

	bot, err := tginfra.NewBot(cfg.Bot.Token, int(cfg.Bot.PollTimeout.Seconds()))
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	logger.Info("telegram bot authorized", zap.String("username", bot.Username()))

	return &App{
		logger:    logger,
		sender:    bot,
		listener:  bot,
		webAppURL: strings.TrimSpace(cfg.Bot.WebAppURL),
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("bot app started", zap.String("webapp_url", a.webAppURL))

	err := a.listener.Listen(ctx, tginfra.Handlers{
		OnCommand: a.handleCommand,
		OnText:    a.handleText,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	a.logger.Info("bot app stopped")
	return nil
}

func (a *App) handleCommand(ctx context.Context, upd tginfra.CommandUpdate) error {
	var msg tginfra.Message
	switch strings.ToLower(upd.Command) {
	case "start":
		msg = tginfra.Message{
			ChatID:     upd.ChatID,
			Text:       greeting(upd.FirstName),
			Markdown:   true,
			ButtonText: openButtonText,
			ButtonURL:  a.webAppURL,
		}
	case "help":
		msg = tginfra.Message{
			ChatID:   upd.ChatID,
			Text:     helpText,
			Markdown: true,
		}
	default:
		msg = a.fallback(upd.ChatID)
	}

	a.send(ctx, msg, zap.String("command", upd.Command), zap.Int64("user_id", upd.UserID))
	return nil
}

func (a *App) handleText(ctx context.Context, upd tginfra.TextUpdate) error {
	a.send(ctx, a.fallback(upd.ChatID), zap.Int64("user_id", upd.UserID))
	return nil
}

func (a *App) fallback(chatID int64) tginfra.Message {
	return tginfra.Message{
		ChatID:     chatID,
		Text:       fallbackText,
		ButtonText: openButtonText,
		ButtonURL:  a.webAppURL,
	}
}

// send logs delivery failures instead of returning them; one blocked chat must not stop the loop.
func (a *App) send(ctx context.Context, msg tginfra.Message, fields ...zap.Field) {
	if err := a.sender.Send(ctx, msg); err != nil {
		a.logger.Warn("failed to send bot reply", append(fields, zap.Int64("chat_id", msg.ChatID), zap.Error(err))...)
	}
}

func greeting(firstName string) string {
	name := strings.TrimSpace(firstName)
	if name == "" {
		name = defaultName
	}
	return "Привет, " + name + "! 👋\n\n" +
		"✨ *Spark* — приложение для знакомств прямо в Telegram.\n\n" +
		"🔥 Свайпай, ставь лайки и находи свою половинку!\n\n" +
		"Нажми кнопку ниже, чтобы начать:"
}
