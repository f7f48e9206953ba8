package nlp

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"twitter-chatter/internal/history"
	"twitter-chatter/internal/llm"
)

// scriptedLLM returns one canned reply per call, repeating the last one.
type scriptedLLM struct {
	replies []llm.Response
	errs    []error
	calls   int

	lastMessages []llm.Message
}

func (s *scriptedLLM) Generate(ctx context.Context, msgs []llm.Message) (llm.Response, error) {
	return s.GenerateJSON(ctx, msgs)
}

func (s *scriptedLLM) GenerateJSON(ctx context.Context, msgs []llm.Message) (llm.Response, error) {
	i := s.calls
	if i >= len(s.replies) {
		i = len(s.replies) - 1
	}
	s.calls++
	s.lastMessages = msgs
	if s.errs != nil && s.errs[i] != nil {
		return llm.Response{}, s.errs[i]
	}
	return s.replies[i], nil
}

func TestTranslateSucceedsOnThirdAttempt(t *testing.T) {
	stub := &scriptedLLM{replies: []llm.Response{
		{Content: "not json at all"},
		{Content: `{"operation": "user"`},
		{Content: `{"operation": "user", "params": {"username": "elonmusk"}}`},
	}}
	tr := New(stub, 3, time.Millisecond)

	req, err := tr.Translate(context.Background(), "get user elonmusk", history.NewContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.calls != 3 {
		t.Fatalf("expected exactly 3 llm calls, got %d", stub.calls)
	}
	if req.Operation != "user" || req.Params["username"] != "elonmusk" {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestTranslateFailsAfterMaxRetries(t *testing.T) {
	stub := &scriptedLLM{replies: []llm.Response{{Content: "still not json"}}}
	tr := New(stub, 3, time.Millisecond)

	_, err := tr.Translate(context.Background(), "get user elonmusk", history.NewContext())
	if err == nil {
		t.Fatalf("expected error")
	}
	if stub.calls != 3 {
		t.Fatalf("expected exactly 3 llm calls, got %d", stub.calls)
	}
	if !strings.Contains(err.Error(), "3 attempts") {
		t.Fatalf("error should carry the attempt count: %v", err)
	}
}

func TestTranslateRejectsMissingShape(t *testing.T) {
	cases := []string{
		``,
		`{"params": {"username": "x"}}`,
		`{"operation": "user"}`,
	}
	for _, reply := range cases {
		stub := &scriptedLLM{replies: []llm.Response{{Content: reply}}}
		tr := New(stub, 1, time.Millisecond)
		if _, err := tr.Translate(context.Background(), "whatever", nil); err == nil {
			t.Fatalf("reply %q should fail shape validation", reply)
		}
	}
}

func TestTranslateRetriesOnLLMError(t *testing.T) {
	stub := &scriptedLLM{
		replies: []llm.Response{{}, {Content: `{"operation": "timeline", "params": {}}`}},
		errs:    []error{errors.New("upstream timeout"), nil},
	}
	tr := New(stub, 3, time.Millisecond)

	req, err := tr.Translate(context.Background(), "show my timeline", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.calls != 2 {
		t.Fatalf("expected 2 llm calls, got %d", stub.calls)
	}
	if req.Operation != "timeline" {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestTranslateUnwrapsFencedJSON(t *testing.T) {
	stub := &scriptedLLM{replies: []llm.Response{
		{Content: "```json\n{\"operation\": \"search\", \"params\": {\"query\": \"golang\"}}\n```"},
	}}
	tr := New(stub, 1, time.Millisecond)

	req, err := tr.Translate(context.Background(), "search golang", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Operation != "search" || req.Params["query"] != "golang" {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestTranslateMessageOrder(t *testing.T) {
	conv := history.NewContext()
	conv.AddUserMessage("get user elonmusk")
	conv.AddAssistantMessage("Successfully executed user operation.", map[string]any{"id": "44196397"})

	stub := &scriptedLLM{replies: []llm.Response{
		{Content: `{"operation": "tweets", "params": {"username": "elonmusk", "limit": 5}}`},
	}}
	tr := New(stub, 1, time.Millisecond)

	if _, err := tr.Translate(context.Background(), "show their recent tweets, limit 5", conv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msgs := stub.lastMessages
	if len(msgs) != 4 {
		t.Fatalf("expected system + 2 history + query, got %d messages", len(msgs))
	}
	if msgs[0].Role != "system" {
		t.Fatalf("first message must be the system instruction")
	}
	if msgs[1].Content != "get user elonmusk" {
		t.Fatalf("history not replayed in order: %+v", msgs[1])
	}
	if !strings.Contains(msgs[3].Content, "show their recent tweets, limit 5") {
		t.Fatalf("query missing from final message: %q", msgs[3].Content)
	}
}
