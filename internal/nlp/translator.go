package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"twitter-chatter/internal/history"
	"twitter-chatter/internal/llm"
	"twitter-chatter/internal/twitter"
)

const systemPrompt = `You are a Twitter API request converter. Convert natural language queries into structured API requests.
Available operations and their parameters:
- user: {"username": string}
- tweets: {"username": string, "limit": number}
- search: {"query": string, "limit": number}
- post: {"text": string, "media_path": optional string, "reply_to_id": optional string}
- like: {"tweet_id": string}
- unlike: {"tweet_id": string}
- timeline: {"limit": number}
- delete: {"tweet_id": string}

Respond with a single JSON object of the form {"operation": "...", "params": {...}}.
Consider the conversation history and last API response when converting new queries.
If a query references previous results, use that context to form the request.`

const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = time.Second
)

// Translator turns free-form queries into structured Twitter requests by
// driving the model with the full conversation history.
type Translator struct {
	llm        llm.Client
	maxRetries int
	retryDelay time.Duration
}

func New(client llm.Client, maxRetries int, retryDelay time.Duration) *Translator {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}
	return &Translator{llm: client, maxRetries: maxRetries, retryDelay: retryDelay}
}

// Translate parses the model's JSON reply into a request, retrying on
// malformed output with a constant delay between attempts. The conversation
// context is read, never mutated; appending the turns is the caller's job.
func (t *Translator) Translate(ctx context.Context, query string, conv *history.Context) (twitter.Request, error) {
	messages := t.buildMessages(query, conv)

	var req twitter.Request
	attempt := 0
	run := func() error {
		attempt++
		r, err := t.attempt(ctx, messages)
		if err != nil {
			log.Printf("translation attempt %d/%d failed: %v", attempt, t.maxRetries, err)
			return err
		}
		req = r
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(t.retryDelay), uint64(t.maxRetries-1)),
		ctx,
	)
	if err := backoff.Retry(run, policy); err != nil {
		return twitter.Request{}, fmt.Errorf("failed to translate query after %d attempts: %w", t.maxRetries, err)
	}
	return req, nil
}

func (t *Translator) buildMessages(query string, conv *history.Context) []llm.Message {
	messages := []llm.Message{{Role: "system", Content: systemPrompt}}
	if conv != nil {
		messages = append(messages, conv.Messages()...)
	}
	messages = append(messages, llm.Message{
		Role:    "user",
		Content: "Convert this query to a Twitter API request (considering previous context if relevant): " + query,
	})
	return messages
}

func (t *Translator) attempt(ctx context.Context, messages []llm.Message) (twitter.Request, error) {
	resp, err := t.llm.GenerateJSON(ctx, messages)
	if err != nil {
		return twitter.Request{}, fmt.Errorf("llm request failed: %w", err)
	}

	content := extractJSON(resp.Content)
	if content == "" {
		return twitter.Request{}, fmt.Errorf("llm returned empty response")
	}

	var req twitter.Request
	if err := json.Unmarshal([]byte(content), &req); err != nil {
		return twitter.Request{}, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	if req.Operation == "" {
		return twitter.Request{}, fmt.Errorf("response is missing the operation field")
	}
	if req.Params == nil {
		return twitter.Request{}, fmt.Errorf("response is missing the params mapping")
	}
	return req, nil
}

// extractJSON strips the markdown fences some models wrap around JSON even
// in JSON output mode.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	if strings.Contains(content, "```json") {
		start := strings.Index(content, "```json") + 7
		end := strings.Index(content[start:], "```")
		if end > 0 {
			return strings.TrimSpace(content[start : start+end])
		}
	} else if strings.Contains(content, "```") {
		start := strings.Index(content, "```") + 3
		end := strings.Index(content[start:], "```")
		if end > 0 {
			candidate := strings.TrimSpace(content[start : start+end])
			if strings.HasPrefix(candidate, "{") {
				return candidate
			}
		}
	}
	return content
}
