package twitter

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestResponseWireShape(t *testing.T) {
	ts := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	ok := Response{Success: true, Data: map[string]any{"id": "1"}, Timestamp: ts}
	b, err := json.Marshal(ok)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"error":null`) {
		t.Fatalf("success response must carry an explicit null error: %s", b)
	}
	if !strings.Contains(string(b), `"2026-08-24T12:00:00Z"`) {
		t.Fatalf("timestamp not ISO-8601: %s", b)
	}

	fail := Response{Success: false, Error: "rate limited", Timestamp: ts}
	b, err = json.Marshal(fail)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"error":"rate limited"`) {
		t.Fatalf("failure response lost its error: %s", b)
	}
	if !strings.Contains(string(b), `"data":null`) {
		t.Fatalf("failure response must carry a null data field: %s", b)
	}
}
