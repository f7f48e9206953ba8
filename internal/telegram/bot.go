package telegram

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"twitter-chatter/internal/session"
)

// SessionFactory creates an isolated pipeline (own context, own dispatcher)
// for a chat. Sessions are never shared between chats.
type SessionFactory func() *session.Session

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type botAPISender struct{ api *tgbotapi.BotAPI }

func (s botAPISender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	return s.api.Send(c)
}

type Bot struct {
	api        *tgbotapi.BotAPI
	s          sender
	allowed    map[int64]bool
	newSession SessionFactory
	sessions   map[int64]*session.Session
}

func New(botToken string, allowedUsers []int64, newSession SessionFactory) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	b := &Bot{
		api:        api,
		s:          botAPISender{api: api},
		allowed:    make(map[int64]bool),
		newSession: newSession,
		sessions:   make(map[int64]*session.Session),
	}
	for _, id := range allowedUsers {
		b.allowed[id] = true
	}
	return b, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	// Updates are handled sequentially, so every session stays
	// single-threaded.
	for update := range updates {
		if update.Message != nil {
			b.handleIncomingMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	if len(b.allowed) > 0 && !b.allowed[msg.From.ID] {
		log.Printf("Unauthorized access attempt by user ID: %d, username: @%s", msg.From.ID, msg.From.UserName)
		b.sendMessage(msg.Chat.ID, "You are not on the allowlist for this bot.")
		return
	}

	log.Printf("Incoming query from %d (@%s): %q", msg.From.ID, msg.From.UserName, msg.Text)

	sess := b.sessionFor(msg.Chat.ID)
	res, err := sess.HandleQuery(ctx, msg.Text)
	if err != nil {
		b.sendMessage(msg.Chat.ID, fmt.Sprintf("Error: %v", err))
		return
	}

	b.sendMessage(msg.Chat.ID, renderResult(res))
}

func (b *Bot) sessionFor(chatID int64) *session.Session {
	if sess, ok := b.sessions[chatID]; ok {
		return sess
	}
	sess := b.newSession()
	b.sessions[chatID] = sess
	return sess
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}
