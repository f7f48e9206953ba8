package storage

import "time"

// Event is one executed query turn of a session transcript.
// Events are expected to be appended in chronological order.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Query     string    `json:"query"`
	Operation string    `json:"operation,omitempty"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
}

// Recorder abstracts persistence of transcript events.
// Implementations can be file-based, database, etc.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendEvent(event Event) error
	LoadEvents() ([]Event, error)
}
