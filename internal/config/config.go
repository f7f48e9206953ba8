package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	// LLM settings
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Twitter API
	TwitterBearerToken string `env:"TWITTER_BEARER_TOKEN"`
	TwitterBaseURL     string `env:"TWITTER_BASE_URL" envDefault:"https://api.twitter.com"`

	// Query translation retry
	TranslateMaxRetries int           `env:"TRANSLATE_MAX_RETRIES" envDefault:"3"`
	TranslateRetryDelay time.Duration `env:"TRANSLATE_RETRY_DELAY" envDefault:"1s"`

	// Storage (empty path disables the transcript)
	TranscriptFilePath string `env:"TRANSCRIPT_FILE_PATH" envDefault:"logs/transcript.jsonl"`

	// Timeline digest (empty cron spec disables it)
	DigestCronSpec string `env:"DIGEST_CRON_SPEC"`
	DigestLimit    int    `env:"DIGEST_LIMIT" envDefault:"20"`

	// Telegram front end
	TelegramBotToken string  `env:"TELEGRAM_BOT_TOKEN"`
	AllowedUsers     []int64 `env:"ALLOWED_USERS" envSeparator:":"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
