package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"lifesync/internal/assistant"
	"lifesync/pkg/logger"
)

const helpMessage = "I'm the LifeSync assistant. Ask me anything about fitness, nutrition or mental wellness. Use /start to see the greeting again."

// Replier answers one chat message.
type Replier interface {
	Welcome() string
	Reply(ctx context.Context, message string) (string, error)
}

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramBot exposes the chat assistant over Telegram.
type TelegramBot struct {
	bot       *tgbotapi.BotAPI
	sender    sender
	assistant Replier
	logger    *logger.Logger
	timeout   time.Duration
}

func NewTelegramBot(token string, assistant Replier, logger *logger.Logger) (*TelegramBot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	logger.Infow("Authorized on Telegram", "username", bot.Self.UserName)

	return &TelegramBot{
		bot:       bot,
		sender:    bot,
		assistant: assistant,
		logger:    logger,
		timeout:   60 * time.Second,
	}, nil
}

// Start begins receiving updates from Telegram via polling
func (t *TelegramBot) Start(ctx context.Context) error {
	// Polling and webhooks are mutually exclusive.
	t.logger.Info("Removing any existing webhook")
	_, err := t.bot.Request(tgbotapi.DeleteWebhookConfig{
		DropPendingUpdates: true,
	})
	if err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := t.bot.GetUpdatesChan(updateConfig)

	t.logger.Info("Started receiving Telegram updates")

	go t.handleUpdates(ctx, updates)

	return nil
}

func (t *TelegramBot) handleUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		go func(update tgbotapi.Update) {
			defer func() {
				if r := recover(); r != nil {
					t.logger.Errorw("Recovered from panic while processing update", "error", r)
				}
			}()

			t.handleUpdate(ctx, update)
		}(update)
	}
}

func (t *TelegramBot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}

	t.logger.Infow("Received message",
		"update_id", update.UpdateID,
		"chat_id", update.Message.Chat.ID)

	if update.Message.IsCommand() {
		t.handleCommand(update.Message)
		return
	}
	t.handleMessage(ctx, update.Message)
}

func (t *TelegramBot) handleCommand(message *tgbotapi.Message) {
	command := message.Command()
	chatID := message.Chat.ID

	switch command {
	case "start":
		t.send(chatID, t.assistant.Welcome())
	case "help":
		t.send(chatID, helpMessage)
	default:
		t.send(chatID, "Unknown command. Use /help to see what I can do.")
	}
}

func (t *TelegramBot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	reply, err := t.assistant.Reply(ctx, message.Text)
	if errors.Is(err, assistant.ErrEmptyMessage) {
		t.send(message.Chat.ID, "Please type a question.")
		return
	}
	if err != nil {
		t.logger.Errorw("Failed to build reply", "error", err, "chat_id", message.Chat.ID)
		t.send(message.Chat.ID, "Sorry, I encountered an error. Please try again.")
		return
	}
	t.send(message.Chat.ID, reply)
}

func (t *TelegramBot) send(chatID int64, text string) {
	if _, err := t.sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		t.logger.Errorw("Failed to send message", "error", err, "chat_id", chatID)
	}
}

// Stop gracefully shuts down the bot
func (t *TelegramBot) Stop(ctx context.Context) error {
	t.bot.StopReceivingUpdates()

	// Allow time for handlers to complete
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(500 * time.Millisecond):
		return nil
	}
}
