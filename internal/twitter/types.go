package twitter

import (
	"encoding/json"
	"time"
)

// Operation names accepted by the dispatcher.
const (
	OpUser     = "user"
	OpTweets   = "tweets"
	OpSearch   = "search"
	OpPost     = "post"
	OpLike     = "like"
	OpUnlike   = "unlike"
	OpTimeline = "timeline"
	OpDelete   = "delete"
)

// Request is one structured operation as produced by the translator.
// Per-operation parameter validation happens in the dispatcher.
type Request struct {
	Operation string         `json:"operation"`
	Params    map[string]any `json:"params"`
}

// Response is the uniform result shape for every operation. Exactly one of
// Data/Error is meaningful depending on Success; operations with no payload
// (e.g. delete on some backends) may leave both unset on success.
type Response struct {
	Success   bool           `json:"success"`
	Data      map[string]any `json:"data"`
	Error     string         `json:"error"`
	Timestamp time.Time      `json:"timestamp"`
}

// MarshalJSON emits the wire shape with an explicit null for an absent
// error, matching data which is already null when unset.
func (r Response) MarshalJSON() ([]byte, error) {
	type wire struct {
		Success   bool           `json:"success"`
		Data      map[string]any `json:"data"`
		Error     *string        `json:"error"`
		Timestamp time.Time      `json:"timestamp"`
	}
	w := wire{Success: r.Success, Data: r.Data, Timestamp: r.Timestamp}
	if r.Error != "" {
		w.Error = &r.Error
	}
	return json.Marshal(w)
}
