package twitter

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTweetsLimit   = 10
	defaultSearchLimit   = 10
	defaultTimelineLimit = 20
)

// Dispatcher executes structured operations against the API client. It owns
// the resolved user-id cache for the session lifetime; entries are written
// by user lookups and read by the tweets operation, and are never evicted.
// A Dispatcher belongs to exactly one session and is not safe for
// concurrent use.
type Dispatcher struct {
	api     Client
	idCache map[string]string // lowercased username -> user id
}

func NewDispatcher(api Client) *Dispatcher {
	return &Dispatcher{api: api, idCache: make(map[string]string)}
}

// Execute runs one operation. It never returns a Go error: validation
// failures, API errors and transport faults are all normalized into a
// Response with Success=false.
func (d *Dispatcher) Execute(ctx context.Context, req Request) Response {
	result, err := d.dispatch(ctx, req)
	if err != nil {
		return failure(err.Error())
	}
	return normalize(result)
}

func (d *Dispatcher) dispatch(ctx context.Context, req Request) (map[string]any, error) {
	p := params(req.Params)
	switch req.Operation {
	case OpUser:
		username, err := p.str("username")
		if err != nil {
			return nil, err
		}
		result, err := d.api.GetUserInfo(ctx, username)
		if err != nil {
			return nil, err
		}
		d.cacheUserID(username, result)
		return result, nil

	case OpTweets:
		username, err := p.str("username")
		if err != nil {
			return nil, err
		}
		userID, lookupResult, err := d.resolveUserID(ctx, username)
		if err != nil {
			return nil, err
		}
		if lookupResult != nil {
			// Inline user lookup failed; propagate its result unchanged.
			return lookupResult, nil
		}
		return d.api.GetUserTweets(ctx, userID, p.limit("limit", defaultTweetsLimit))

	case OpSearch:
		query, err := p.str("query")
		if err != nil {
			return nil, err
		}
		return d.api.SearchTweets(ctx, query, p.limit("limit", defaultSearchLimit))

	case OpPost:
		text, err := p.str("text")
		if err != nil {
			return nil, err
		}
		return d.api.CreateTweet(ctx, text, p.optStr("media_path"), p.optStr("reply_to_id"))

	case OpLike:
		tweetID, err := p.str("tweet_id")
		if err != nil {
			return nil, err
		}
		return d.api.LikeTweet(ctx, tweetID)

	case OpUnlike:
		tweetID, err := p.str("tweet_id")
		if err != nil {
			return nil, err
		}
		return d.api.UnlikeTweet(ctx, tweetID)

	case OpTimeline:
		return d.api.GetHomeTimeline(ctx, p.limit("limit", defaultTimelineLimit))

	case OpDelete:
		tweetID, err := p.str("tweet_id")
		if err != nil {
			return nil, err
		}
		return d.api.DeleteTweet(ctx, tweetID)

	default:
		return nil, fmt.Errorf("Unsupported operation: %s", req.Operation)
	}
}

// resolveUserID returns the cached id for username, or performs the user
// lookup inline and caches the result. When the lookup itself returns an
// error mapping, that mapping comes back untouched in the second value.
func (d *Dispatcher) resolveUserID(ctx context.Context, username string) (string, map[string]any, error) {
	key := strings.ToLower(username)
	if id, ok := d.idCache[key]; ok {
		return id, nil, nil
	}
	result, err := d.api.GetUserInfo(ctx, username)
	if err != nil {
		return "", nil, err
	}
	if hasError(result) {
		return "", result, nil
	}
	id, ok := userIDFrom(result)
	if !ok {
		return "", nil, fmt.Errorf("user lookup for %q returned no id", username)
	}
	d.idCache[key] = id
	return id, nil, nil
}

func (d *Dispatcher) cacheUserID(username string, result map[string]any) {
	if hasError(result) {
		return
	}
	if id, ok := userIDFrom(result); ok {
		d.idCache[strings.ToLower(username)] = id
	}
}

// CachedUserID reports the cached id for a username, case-insensitively.
func (d *Dispatcher) CachedUserID(username string) (string, bool) {
	id, ok := d.idCache[strings.ToLower(username)]
	return id, ok
}

func (d *Dispatcher) CachedUsers() int {
	return len(d.idCache)
}

func userIDFrom(result map[string]any) (string, bool) {
	data, ok := result["data"].(map[string]any)
	if !ok {
		return "", false
	}
	switch id := data["id"].(type) {
	case string:
		return id, id != ""
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	}
	return "", false
}

func hasError(result map[string]any) bool {
	_, ok := result["error"]
	return ok
}

func normalize(result map[string]any) Response {
	if v, ok := result["error"]; ok {
		return failure(fmt.Sprintf("%v", v))
	}
	return Response{Success: true, Data: result, Timestamp: time.Now()}
}

func failure(msg string) Response {
	return Response{Success: false, Error: msg, Timestamp: time.Now()}
}

// params wraps the schemaless parameter mapping with typed accessors.
type params map[string]any

func (p params) str(key string) (string, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return "", fmt.Errorf("missing required parameter: %s", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("parameter %s must be a non-empty string", key)
	}
	return s, nil
}

func (p params) optStr(key string) string {
	s, _ := p[key].(string)
	return s
}

// limit reads an optional positive integer, tolerating the numeric and
// string forms models tend to emit.
func (p params) limit(key string, def int) int {
	switch v := p[key].(type) {
	case float64:
		if v > 0 {
			return int(v)
		}
	case int:
		if v > 0 {
			return v
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
