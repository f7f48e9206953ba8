package history

import (
	"strings"
	"testing"
)

func TestContextAppendOrder(t *testing.T) {
	c := NewContext()

	c.AddUserMessage("get user elonmusk")
	c.AddAssistantMessage("Successfully executed user operation.", map[string]any{"id": "44196397"})
	c.AddUserMessage("show their tweets")

	turns := c.Turns()
	if len(turns) != 3 {
		t.Fatalf("unexpected turn count: %d", len(turns))
	}
	if turns[0].Role != "user" || turns[0].Content != "get user elonmusk" {
		t.Fatalf("unexpected turn[0]: %+v", turns[0])
	}
	if turns[1].Role != "assistant" {
		t.Fatalf("unexpected turn[1]: %+v", turns[1])
	}
	if turns[2].Role != "user" || turns[2].Content != "show their tweets" {
		t.Fatalf("unexpected turn[2]: %+v", turns[2])
	}

	// Ensure copy semantics (modifying returned slice does not affect internal state)
	turns[0] = Turn{Role: "user", Content: "mutated"}
	if c.Turns()[0].Content != "get user elonmusk" {
		t.Fatalf("internal state mutated via returned slice")
	}
}

func TestLastResponseOverwrite(t *testing.T) {
	c := NewContext()

	c.AddAssistantMessage("ok", map[string]any{"id": "1"})
	if c.LastResponse() == nil {
		t.Fatalf("last response not set")
	}

	c.AddAssistantMessage("error", nil)
	if c.LastResponse() != nil {
		t.Fatalf("nil api response should clear last response, got %+v", c.LastResponse())
	}
}

func TestMessagesInlineAPIResponse(t *testing.T) {
	c := NewContext()
	c.AddUserMessage("get user elonmusk")
	c.AddAssistantMessage("Successfully executed user operation.", map[string]any{"id": "44196397"})

	msgs := c.Messages()
	if len(msgs) != 2 {
		t.Fatalf("unexpected message count: %d", len(msgs))
	}
	if msgs[0].Role != "user" || msgs[0].Content != "get user elonmusk" {
		t.Fatalf("unexpected msgs[0]: %+v", msgs[0])
	}
	if !strings.Contains(msgs[1].Content, `"id":"44196397"`) {
		t.Fatalf("api response not inlined: %q", msgs[1].Content)
	}
}
