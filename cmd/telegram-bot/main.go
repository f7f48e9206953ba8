package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"twitter-chatter/internal/config"
	"twitter-chatter/internal/llm"
	"twitter-chatter/internal/nlp"
	"twitter-chatter/internal/session"
	"twitter-chatter/internal/storage"
	"twitter-chatter/internal/telegram"
	"twitter-chatter/internal/twitter"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	if cfg.TelegramBotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	llmClient, err := llm.NewClient(cfg)
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}

	api := twitter.NewHTTPClient(cfg.TwitterBearerToken, cfg.TwitterBaseURL)

	var rec storage.Recorder
	if cfg.TranscriptFilePath != "" {
		fr, err := storage.NewFileRecorder(cfg.TranscriptFilePath)
		if err != nil {
			log.Printf("failed to init transcript recorder: %v", err)
		} else {
			rec = fr
		}
	}

	// The LLM client, API client and recorder are shared; every chat gets
	// its own context and dispatcher.
	factory := func() *session.Session {
		return session.New(
			nlp.New(llmClient, cfg.TranslateMaxRetries, cfg.TranslateRetryDelay),
			twitter.NewDispatcher(api),
			rec,
		)
	}

	bot, err := telegram.New(cfg.TelegramBotToken, cfg.AllowedUsers, factory)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	bot.Start(context.Background())
}
