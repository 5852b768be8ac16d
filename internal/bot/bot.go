package bot

import (
	"context"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/revtrack/internal/spaced_repetition"
	"github.com/example/revtrack/internal/tracker"
	"github.com/example/revtrack/pkg/models"
)

// TopicService is the tracker surface used by chat commands
type TopicService interface {
	ListTopics(ctx context.Context) ([]models.TopicRow, error)
	ListDueToday(ctx context.Context, today time.Time) ([]models.TopicRow, error)
	ListOverdue(ctx context.Context, today time.Time) ([]models.TopicRow, error)
	MarkStatus(ctx context.Context, rowIndex int, newStatus models.Status, today time.Time) (spaced_repetition.Update, error)
	AddTopic(ctx context.Context, subject, topic, notes, dateStudied string) error
}

// Bot represents the Telegram bot application
type Bot struct {
	api    *tgbotapi.BotAPI
	svc    TopicService
	chatID int64
	now    func() time.Time
}

// New connects to Telegram. Only messages from chatID are answered and
// digests are sent there.
func New(token string, chatID int64, svc TopicService, now func() time.Time) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}
	if chatID == 0 {
		return nil, fmt.Errorf("TELEGRAM_CHAT_ID is not set")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	log.Printf("Authorized on account %s", api.Self.UserName)

	return newBot(api, chatID, svc, now), nil
}

func newBot(api *tgbotapi.BotAPI, chatID int64, svc TopicService, now func() time.Time) *Bot {
	if now == nil {
		now = time.Now
	}
	return &Bot{api: api, svc: svc, chatID: chatID, now: now}
}

// Start receives updates until ctx is canceled
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// Stop stops receiving updates
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || !msg.IsCommand() {
		return
	}
	if msg.Chat.ID != b.chatID {
		log.Printf("Ignoring command from chat %d", msg.Chat.ID)
		return
	}

	reply := b.HandleCommand(ctx, msg.Command(), msg.CommandArguments())
	if err := b.send(reply); err != nil {
		log.Printf("Error sending reply: %v", err)
	}
}

// SendDigest posts the daily digest to the configured chat
func (b *Bot) SendDigest(ctx context.Context, digest *tracker.Digest) error {
	return b.send(FormatDigest(digest))
}

func (b *Bot) send(text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(b.chatID, text))
	return err
}
