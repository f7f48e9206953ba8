package telegram

import (
	"encoding/json"
	"fmt"

	"twitter-chatter/internal/session"
)

func renderResult(res session.Result) string {
	req, _ := json.MarshalIndent(res.Request, "", "  ")
	resp, _ := json.MarshalIndent(res.Response, "", "  ")
	return fmt.Sprintf("Generated API request:\n%s\n\nAPI response:\n%s", req, resp)
}
