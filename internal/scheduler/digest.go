package scheduler

import (
	"context"
	"encoding/json"
	"fmt"

	"twitter-chatter/internal/llm"
	"twitter-chatter/internal/twitter"
)

// TimelineDigest builds the digest function: fetch the home timeline
// through its own dispatcher, summarize it with the model, hand the text to
// deliver. The dispatcher must not be shared with an interactive session;
// the digest runs on the cron goroutine.
func TimelineDigest(dispatcher *twitter.Dispatcher, llmClient llm.Client, limit int, deliver func(string)) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		resp := dispatcher.Execute(ctx, twitter.Request{
			Operation: twitter.OpTimeline,
			Params:    map[string]any{"limit": limit},
		})
		if !resp.Success {
			return fmt.Errorf("timeline fetch failed: %s", resp.Error)
		}

		payload, err := json.Marshal(resp.Data)
		if err != nil {
			return fmt.Errorf("failed to encode timeline: %w", err)
		}

		summary, err := llmClient.Generate(ctx, []llm.Message{
			{Role: "system", Content: "You summarize Twitter timelines. Produce a short digest of the main topics and notable tweets in plain text."},
			{Role: "user", Content: string(payload)},
		})
		if err != nil {
			return fmt.Errorf("failed to summarize timeline: %w", err)
		}

		deliver(summary.Content)
		return nil
	}
}
