package twitter

import "context"

// Client is the external Twitter API surface the dispatcher drives. Every
// call returns the raw result mapping; a mapping containing an "error" key
// signals failure, anything else is a success payload.
type Client interface {
	GetUserInfo(ctx context.Context, username string) (map[string]any, error)
	GetUserTweets(ctx context.Context, userID string, limit int) (map[string]any, error)
	SearchTweets(ctx context.Context, query string, limit int) (map[string]any, error)
	CreateTweet(ctx context.Context, text, mediaPath, replyToID string) (map[string]any, error)
	LikeTweet(ctx context.Context, tweetID string) (map[string]any, error)
	UnlikeTweet(ctx context.Context, tweetID string) (map[string]any, error)
	GetHomeTimeline(ctx context.Context, limit int) (map[string]any, error)
	DeleteTweet(ctx context.Context, tweetID string) (map[string]any, error)
}
