package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"twitter-chatter/internal/config"
	"twitter-chatter/internal/llm"
	"twitter-chatter/internal/nlp"
	"twitter-chatter/internal/scheduler"
	"twitter-chatter/internal/session"
	"twitter-chatter/internal/storage"
	"twitter-chatter/internal/twitter"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

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

	sess := session.New(
		nlp.New(llmClient, cfg.TranslateMaxRetries, cfg.TranslateRetryDelay),
		twitter.NewDispatcher(api),
		rec,
	)

	if cfg.DigestCronSpec != "" {
		// The digest runs on the cron goroutine and gets its own dispatcher.
		sched := scheduler.New(cfg.DigestCronSpec)
		sched.SetDigestFunction(scheduler.TimelineDigest(
			twitter.NewDispatcher(api),
			llmClient,
			cfg.DigestLimit,
			func(digest string) { fmt.Printf("\nTimeline digest:\n%s\n", digest) },
		))
		if err := sched.Start(); err != nil {
			log.Printf("failed to start digest scheduler: %v", err)
		} else {
			defer sched.Stop()
		}
	}

	runInteractive(context.Background(), sess)
}

func runInteractive(ctx context.Context, sess *session.Session) {
	fmt.Println("\n=== Twitter API Interactive Session ===")
	fmt.Println("Available commands:")
	fmt.Println("- user <username>: Get user information")
	fmt.Println("- tweets <username> [limit]: Get user's tweets")
	fmt.Println("- search <query> [limit]: Search for tweets")
	fmt.Println("- timeline [limit]: Get your home timeline")
	fmt.Println("- like <tweet_id>: Like a tweet")
	fmt.Println("- unlike <tweet_id>: Unlike a tweet")
	fmt.Println("- post <text>: Post a new tweet")
	fmt.Println("Type 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nYou: ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		switch strings.ToLower(query) {
		case "exit", "quit", "bye":
			fmt.Println("\nGoodbye!")
			return
		}

		fmt.Println("\nProcessing query...")
		res, err := sess.HandleQuery(ctx, query)
		if err != nil {
			fmt.Printf("\nError: %v\n", err)
			continue
		}

		fmt.Println("\nGenerated API request:")
		fmt.Println(indentJSON(res.Request))
		fmt.Println("\nAPI response:")
		fmt.Println(indentJSON(res.Response))

		if n := sess.CachedUsers(); n > 0 {
			fmt.Printf("\nUser ID cache: %d users cached\n", n)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("failed to read input: %v", err)
	}
}

func indentJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}
