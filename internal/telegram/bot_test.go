package telegram

import (
	"context"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"twitter-chatter/internal/llm"
	"twitter-chatter/internal/nlp"
	"twitter-chatter/internal/session"
	"twitter-chatter/internal/twitter"
)

type fakeSender struct{ sent []string }

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	sw := c.(tgbotapi.MessageConfig)
	f.sent = append(f.sent, sw.Text)
	return tgbotapi.Message{}, nil
}

type fakeLLM struct{ reply string }

func (f fakeLLM) Generate(ctx context.Context, msgs []llm.Message) (llm.Response, error) {
	return llm.Response{Content: f.reply}, nil
}

func (f fakeLLM) GenerateJSON(ctx context.Context, msgs []llm.Message) (llm.Response, error) {
	return llm.Response{Content: f.reply}, nil
}

type okAPI struct{}

func (okAPI) GetUserInfo(ctx context.Context, username string) (map[string]any, error) {
	return map[string]any{"data": map[string]any{"id": "7"}}, nil
}
func (okAPI) GetUserTweets(ctx context.Context, userID string, limit int) (map[string]any, error) {
	return map[string]any{"data": []any{}}, nil
}
func (okAPI) SearchTweets(ctx context.Context, query string, limit int) (map[string]any, error) {
	return map[string]any{"data": []any{}}, nil
}
func (okAPI) CreateTweet(ctx context.Context, text, mediaPath, replyToID string) (map[string]any, error) {
	return map[string]any{"data": map[string]any{"id": "8"}}, nil
}
func (okAPI) LikeTweet(ctx context.Context, tweetID string) (map[string]any, error) {
	return map[string]any{"data": map[string]any{"liked": true}}, nil
}
func (okAPI) UnlikeTweet(ctx context.Context, tweetID string) (map[string]any, error) {
	return map[string]any{"data": map[string]any{"liked": false}}, nil
}
func (okAPI) GetHomeTimeline(ctx context.Context, limit int) (map[string]any, error) {
	return map[string]any{"data": []any{}}, nil
}
func (okAPI) DeleteTweet(ctx context.Context, tweetID string) (map[string]any, error) {
	return map[string]any{"data": map[string]any{"deleted": true}}, nil
}

func newTestBot(fs *fakeSender, allowed []int64) *Bot {
	factory := func() *session.Session {
		return session.New(
			nlp.New(fakeLLM{reply: `{"operation": "user", "params": {"username": "elonmusk"}}`}, 1, time.Millisecond),
			twitter.NewDispatcher(okAPI{}),
			nil,
		)
	}
	b := &Bot{
		s:          fs,
		allowed:    make(map[int64]bool),
		newSession: factory,
		sessions:   make(map[int64]*session.Session),
	}
	for _, id := range allowed {
		b.allowed[id] = true
	}
	return b
}

func TestUnauthorizedUserIsRejected(t *testing.T) {
	fs := &fakeSender{}
	b := newTestBot(fs, []int64{1})

	msg := &tgbotapi.Message{
		From: &tgbotapi.User{ID: 2, UserName: "stranger"},
		Chat: &tgbotapi.Chat{ID: 2},
		Text: "get user elonmusk",
	}
	b.handleIncomingMessage(context.Background(), msg)

	if len(fs.sent) != 1 || !strings.Contains(fs.sent[0], "allowlist") {
		t.Fatalf("rejection not sent: %+v", fs.sent)
	}
}

func TestChatsGetIsolatedSessions(t *testing.T) {
	fs := &fakeSender{}
	b := newTestBot(fs, nil)

	for _, chatID := range []int64{10, 20} {
		msg := &tgbotapi.Message{
			From: &tgbotapi.User{ID: chatID, UserName: "someone"},
			Chat: &tgbotapi.Chat{ID: chatID},
			Text: "get user elonmusk",
		}
		b.handleIncomingMessage(context.Background(), msg)
	}

	if len(b.sessions) != 2 {
		t.Fatalf("expected one session per chat, got %d", len(b.sessions))
	}
	if b.sessions[10] == b.sessions[20] {
		t.Fatalf("sessions must not be shared between chats")
	}
	if len(fs.sent) != 2 || !strings.Contains(fs.sent[0], `"operation": "user"`) {
		t.Fatalf("unexpected replies: %+v", fs.sent)
	}
}
