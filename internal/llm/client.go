package llm

import "context"

type Message struct {
	Role    string
	Content string
}

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Client is a chat-completion provider.
// GenerateJSON asks the model for a single JSON object reply; providers
// without a native JSON output mode emulate it with an extra instruction.
type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
	GenerateJSON(ctx context.Context, messages []Message) (Response, error)
}
