package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// HTTPClient implements Client against the Twitter v2 REST API. Results
// keep the raw JSON shape: success payloads arrive under "data", failures
// are reported as a mapping with an "error" key, per the Client contract.
// Unlike the dispatcher, an HTTPClient may be shared across goroutines.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client

	// id of the authenticated user, resolved lazily for the likes and
	// timeline endpoints; guarded by mu because the client is shared
	// between sessions and the digest scheduler
	mu     sync.Mutex
	selfID string
}

func NewHTTPClient(bearerToken, baseURL string) *HTTPClient {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: bearerToken, TokenType: "Bearer"})
	client := oauth2.NewClient(context.Background(), src)
	client.Timeout = 30 * time.Second
	if baseURL == "" {
		baseURL = "https://api.twitter.com"
	}
	return &HTTPClient{baseURL: baseURL, httpClient: client}
}

func (c *HTTPClient) GetUserInfo(ctx context.Context, username string) (map[string]any, error) {
	q := url.Values{"user.fields": {"description,created_at,public_metrics"}}
	return c.do(ctx, http.MethodGet, "/2/users/by/username/"+url.PathEscape(username), q, nil)
}

func (c *HTTPClient) GetUserTweets(ctx context.Context, userID string, limit int) (map[string]any, error) {
	q := url.Values{
		"max_results":  {strconv.Itoa(clampLimit(limit, 5, 100))},
		"tweet.fields": {"created_at,public_metrics"},
	}
	return c.do(ctx, http.MethodGet, "/2/users/"+url.PathEscape(userID)+"/tweets", q, nil)
}

func (c *HTTPClient) SearchTweets(ctx context.Context, query string, limit int) (map[string]any, error) {
	q := url.Values{
		"query":        {query},
		"max_results":  {strconv.Itoa(clampLimit(limit, 10, 100))},
		"tweet.fields": {"created_at,public_metrics,author_id"},
	}
	return c.do(ctx, http.MethodGet, "/2/tweets/search/recent", q, nil)
}

func (c *HTTPClient) CreateTweet(ctx context.Context, text, mediaPath, replyToID string) (map[string]any, error) {
	if mediaPath != "" {
		// Media upload still goes through the v1.1 chunked endpoint, which
		// this client does not speak.
		return map[string]any{"error": "media attachments are not supported by this client"}, nil
	}
	body := map[string]any{"text": text}
	if replyToID != "" {
		body["reply"] = map[string]any{"in_reply_to_tweet_id": replyToID}
	}
	return c.do(ctx, http.MethodPost, "/2/tweets", nil, body)
}

func (c *HTTPClient) LikeTweet(ctx context.Context, tweetID string) (map[string]any, error) {
	selfID, errResult, err := c.self(ctx)
	if err != nil || errResult != nil {
		return errResult, err
	}
	body := map[string]any{"tweet_id": tweetID}
	return c.do(ctx, http.MethodPost, "/2/users/"+selfID+"/likes", nil, body)
}

func (c *HTTPClient) UnlikeTweet(ctx context.Context, tweetID string) (map[string]any, error) {
	selfID, errResult, err := c.self(ctx)
	if err != nil || errResult != nil {
		return errResult, err
	}
	return c.do(ctx, http.MethodDelete, "/2/users/"+selfID+"/likes/"+url.PathEscape(tweetID), nil, nil)
}

func (c *HTTPClient) GetHomeTimeline(ctx context.Context, limit int) (map[string]any, error) {
	selfID, errResult, err := c.self(ctx)
	if err != nil || errResult != nil {
		return errResult, err
	}
	q := url.Values{
		"max_results":  {strconv.Itoa(clampLimit(limit, 1, 100))},
		"tweet.fields": {"created_at,public_metrics,author_id"},
	}
	return c.do(ctx, http.MethodGet, "/2/users/"+selfID+"/timelines/reverse_chronological", q, nil)
}

func (c *HTTPClient) DeleteTweet(ctx context.Context, tweetID string) (map[string]any, error) {
	return c.do(ctx, http.MethodDelete, "/2/tweets/"+url.PathEscape(tweetID), nil, nil)
}

// self resolves and caches the authenticated user's id. The lock is held
// across the lookup so concurrent callers resolve it exactly once; failed
// lookups leave the cache empty for the next attempt.
func (c *HTTPClient) self(ctx context.Context) (string, map[string]any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selfID != "" {
		return c.selfID, nil, nil
	}
	result, err := c.do(ctx, http.MethodGet, "/2/users/me", nil, nil)
	if err != nil {
		return "", nil, err
	}
	if _, failed := result["error"]; failed {
		return "", result, nil
	}
	data, _ := result["data"].(map[string]any)
	id, _ := data["id"].(string)
	if id == "" {
		return "", nil, fmt.Errorf("users/me returned no id")
	}
	c.selfID = id
	return id, nil, nil
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, query url.Values, body any) (map[string]any, error) {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return map[string]any{
			"error": fmt.Sprintf("twitter API error %d: %s", resp.StatusCode, string(respBody)),
		}, nil
	}

	result := map[string]any{}
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &result); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return result, nil
}

func clampLimit(limit, min, max int) int {
	if limit < min {
		return min
	}
	if limit > max {
		return max
	}
	return limit
}
