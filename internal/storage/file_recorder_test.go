package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileRecorder_AppendAndLoad(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "transcript.jsonl")
	rec, err := NewFileRecorder(p)
	if err != nil {
		t.Fatalf("init recorder: %v", err)
	}

	ev1 := Event{Timestamp: time.Unix(1, 0).UTC(), Query: "get user elonmusk", Operation: "user", Success: true}
	ev2 := Event{Timestamp: time.Unix(2, 0).UTC(), Query: "delete tweet 5", Operation: "delete", Success: false, Error: "not found"}
	if err := rec.AppendEvent(ev1); err != nil {
		t.Fatalf("append1: %v", err)
	}
	if err := rec.AppendEvent(ev2); err != nil {
		t.Fatalf("append2: %v", err)
	}

	events, err := rec.LoadEvents()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("want 2, got %d", len(events))
	}
	if events[0].Operation != "user" || events[1].Operation != "delete" {
		t.Fatalf("order mismatch: %+v", events)
	}
	if events[1].Error != "not found" {
		t.Fatalf("error not persisted: %+v", events[1])
	}

	// ensure file exists and non-empty
	st, err := os.Stat(p)
	if err != nil || st.Size() == 0 {
		t.Fatalf("file not written")
	}
}
