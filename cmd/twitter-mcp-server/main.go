package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"twitter-chatter/internal/twitter"
)

type GetUserParams struct {
	Username string `json:"username" mcp:"the Twitter username to look up"`
}

type GetUserTweetsParams struct {
	Username string `json:"username" mcp:"the Twitter username whose tweets to fetch"`
	Limit    int    `json:"limit,omitempty" mcp:"number of tweets to return (default: 10)"`
}

type SearchTweetsParams struct {
	Query string `json:"query" mcp:"search query for recent tweets"`
	Limit int    `json:"limit,omitempty" mcp:"number of results to return (default: 10)"`
}

type PostTweetParams struct {
	Text      string `json:"text" mcp:"the text of the tweet to post"`
	MediaPath string `json:"media_path,omitempty" mcp:"optional path to a media attachment"`
	ReplyToID string `json:"reply_to_id,omitempty" mcp:"optional tweet id to reply to"`
}

type TweetIDParams struct {
	TweetID string `json:"tweet_id" mcp:"the id of the tweet"`
}

type TimelineParams struct {
	Limit int `json:"limit,omitempty" mcp:"number of tweets to return (default: 20)"`
}

// TwitterMCPServer exposes the structured Twitter operations as MCP tools.
// Tool calls are handled sequentially by the stdio transport, so the shared
// dispatcher (and its user-id cache) stays single-threaded.
type TwitterMCPServer struct {
	dispatcher *twitter.Dispatcher
}

func NewTwitterMCPServer(bearerToken, baseURL string) *TwitterMCPServer {
	api := twitter.NewHTTPClient(bearerToken, baseURL)
	return &TwitterMCPServer{dispatcher: twitter.NewDispatcher(api)}
}

func (s *TwitterMCPServer) execute(ctx context.Context, op string, params map[string]any) (*mcp.CallToolResultFor[any], error) {
	resp := s.dispatcher.Execute(ctx, twitter.Request{Operation: op, Params: params})

	body, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}

	return &mcp.CallToolResultFor[any]{
		IsError: !resp.Success,
		Content: []mcp.Content{&mcp.TextContent{Text: string(body)}},
		Meta: map[string]interface{}{
			"operation": op,
			"success":   resp.Success,
		},
	}, nil
}

func (s *TwitterMCPServer) GetUser(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[GetUserParams]) (*mcp.CallToolResultFor[any], error) {
	return s.execute(ctx, twitter.OpUser, map[string]any{"username": params.Arguments.Username})
}

func (s *TwitterMCPServer) GetUserTweets(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[GetUserTweetsParams]) (*mcp.CallToolResultFor[any], error) {
	args := map[string]any{"username": params.Arguments.Username}
	if params.Arguments.Limit > 0 {
		args["limit"] = params.Arguments.Limit
	}
	return s.execute(ctx, twitter.OpTweets, args)
}

func (s *TwitterMCPServer) SearchTweets(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[SearchTweetsParams]) (*mcp.CallToolResultFor[any], error) {
	args := map[string]any{"query": params.Arguments.Query}
	if params.Arguments.Limit > 0 {
		args["limit"] = params.Arguments.Limit
	}
	return s.execute(ctx, twitter.OpSearch, args)
}

func (s *TwitterMCPServer) PostTweet(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[PostTweetParams]) (*mcp.CallToolResultFor[any], error) {
	args := map[string]any{"text": params.Arguments.Text}
	if params.Arguments.MediaPath != "" {
		args["media_path"] = params.Arguments.MediaPath
	}
	if params.Arguments.ReplyToID != "" {
		args["reply_to_id"] = params.Arguments.ReplyToID
	}
	return s.execute(ctx, twitter.OpPost, args)
}

func (s *TwitterMCPServer) LikeTweet(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[TweetIDParams]) (*mcp.CallToolResultFor[any], error) {
	return s.execute(ctx, twitter.OpLike, map[string]any{"tweet_id": params.Arguments.TweetID})
}

func (s *TwitterMCPServer) UnlikeTweet(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[TweetIDParams]) (*mcp.CallToolResultFor[any], error) {
	return s.execute(ctx, twitter.OpUnlike, map[string]any{"tweet_id": params.Arguments.TweetID})
}

func (s *TwitterMCPServer) HomeTimeline(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[TimelineParams]) (*mcp.CallToolResultFor[any], error) {
	args := map[string]any{}
	if params.Arguments.Limit > 0 {
		args["limit"] = params.Arguments.Limit
	}
	return s.execute(ctx, twitter.OpTimeline, args)
}

func (s *TwitterMCPServer) DeleteTweet(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[TweetIDParams]) (*mcp.CallToolResultFor[any], error) {
	return s.execute(ctx, twitter.OpDelete, map[string]any{"tweet_id": params.Arguments.TweetID})
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	bearerToken := os.Getenv("TWITTER_BEARER_TOKEN")
	if bearerToken == "" {
		log.Fatal("TWITTER_BEARER_TOKEN environment variable is required")
	}
	baseURL := os.Getenv("TWITTER_BASE_URL")

	log.Printf("Starting Twitter MCP Server")

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "twitter-chatter-mcp",
		Version: "1.0.0",
	}, nil)

	twitterServer := NewTwitterMCPServer(bearerToken, baseURL)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_user",
		Description: "Gets profile information for a Twitter user by username",
	}, twitterServer.GetUser)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_user_tweets",
		Description: "Gets recent tweets of a user, resolving the user id through the cache",
	}, twitterServer.GetUserTweets)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_tweets",
		Description: "Searches recent tweets matching a query",
	}, twitterServer.SearchTweets)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "post_tweet",
		Description: "Posts a new tweet, optionally as a reply",
	}, twitterServer.PostTweet)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "like_tweet",
		Description: "Likes a tweet by id",
	}, twitterServer.LikeTweet)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "unlike_tweet",
		Description: "Removes a like from a tweet by id",
	}, twitterServer.UnlikeTweet)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "home_timeline",
		Description: "Gets the authenticated user's home timeline",
	}, twitterServer.HomeTimeline)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_tweet",
		Description: "Deletes a tweet by id",
	}, twitterServer.DeleteTweet)

	log.Printf("Registered 8 tools, starting server on stdin/stdout...")

	transport := mcp.NewStdioTransport()
	if err := server.Run(context.Background(), transport); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
