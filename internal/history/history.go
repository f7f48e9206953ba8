package history

import (
	"encoding/json"
	"time"

	"twitter-chatter/internal/llm"
)

// Turn is a single conversation entry. Turns are immutable once appended.
type Turn struct {
	Role        string
	Content     string
	APIResponse map[string]any
	Timestamp   time.Time
}

// Context holds the ordered conversation log of one session plus the most
// recent assistant API response. A Context is owned by exactly one session
// and is not safe for concurrent use.
type Context struct {
	turns        []Turn
	lastResponse map[string]any
}

func NewContext() *Context {
	return &Context{}
}

func (c *Context) AddUserMessage(text string) {
	c.turns = append(c.turns, Turn{Role: "user", Content: text, Timestamp: time.Now()})
}

// AddAssistantMessage appends an assistant turn and unconditionally
// overwrites the last API response; a nil apiResponse clears it.
func (c *Context) AddAssistantMessage(text string, apiResponse map[string]any) {
	c.turns = append(c.turns, Turn{
		Role:        "assistant",
		Content:     text,
		APIResponse: apiResponse,
		Timestamp:   time.Now(),
	})
	c.lastResponse = apiResponse
}

// Turns returns a copy of the log; appending to it does not affect the
// internal state.
func (c *Context) Turns() []Turn {
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

func (c *Context) LastResponse() map[string]any {
	return c.lastResponse
}

func (c *Context) Len() int {
	return len(c.turns)
}

// Messages renders the log in original order for the model. Chat APIs only
// carry role and content, so assistant API responses are inlined as a
// compact JSON suffix on the turn content.
func (c *Context) Messages() []llm.Message {
	out := make([]llm.Message, 0, len(c.turns))
	for _, t := range c.turns {
		content := t.Content
		if t.APIResponse != nil {
			if b, err := json.Marshal(t.APIResponse); err == nil {
				content += "\nAPI response: " + string(b)
			}
		}
		out = append(out, llm.Message{Role: t.Role, Content: content})
	}
	return out
}
