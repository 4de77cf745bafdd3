package x

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	pkgError "github.com/AzielCF/az-xpost/pkg/error"
	"github.com/dghubble/oauth1"
	"github.com/sirupsen/logrus"
)

const (
	defaultUploadURL = "https://upload.twitter.com/1.1/media/upload.json"
	defaultTweetURL  = "https://api.twitter.com/2/tweets"
)

// Credentials holds the four OAuth1 user-context values of the posting
// account.
type Credentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// Client talks to the X API: media upload on the v1.1 endpoint, tweet
// creation on v2. All requests are OAuth1-signed.
type Client struct {
	httpClient *http.Client
	uploadURL  string
	tweetURL   string
}

func NewClient(creds Credentials) *Client {
	oauthConfig := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)

	httpClient := oauthConfig.Client(oauth1.NoContext, token)
	httpClient.Timeout = 60 * time.Second

	return &Client{
		httpClient: httpClient,
		uploadURL:  defaultUploadURL,
		tweetURL:   defaultTweetURL,
	}
}

type mediaUploadResponse struct {
	MediaIDString string `json:"media_id_string"`
}

type tweetRequest struct {
	Text  string      `json:"text"`
	Media *tweetMedia `json:"media,omitempty"`
	Reply *tweetReply `json:"reply,omitempty"`
}

type tweetMedia struct {
	MediaIDs []string `json:"media_ids"`
}

type tweetReply struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

type tweetResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// UploadMedia pushes image bytes to the media store and returns the media
// handle to attach to a post.
func (c *Client) UploadMedia(ctx context.Context, data []byte, filename string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("media", filename)
	if err != nil {
		return "", pkgError.PublishError(fmt.Sprintf("failed to build media upload request: %v", err))
	}
	if _, err := part.Write(data); err != nil {
		return "", pkgError.PublishError(fmt.Sprintf("failed to build media upload request: %v", err))
	}
	if err := writer.Close(); err != nil {
		return "", pkgError.PublishError(fmt.Sprintf("failed to build media upload request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &body)
	if err != nil {
		return "", pkgError.PublishError(fmt.Sprintf("failed to build media upload request: %v", err))
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var uploaded mediaUploadResponse
	if err := c.do(req, &uploaded); err != nil {
		return "", err
	}
	if uploaded.MediaIDString == "" {
		return "", pkgError.PublishError("media upload response carried no media id")
	}
	return uploaded.MediaIDString, nil
}

// CreatePost creates the thread root.
func (c *Client) CreatePost(ctx context.Context, text string, mediaIDs []string) (string, error) {
	request := tweetRequest{Text: text}
	if len(mediaIDs) > 0 {
		request.Media = &tweetMedia{MediaIDs: mediaIDs}
	}
	return c.createTweet(ctx, request)
}

// CreateReply creates a post chained under inReplyTo.
func (c *Client) CreateReply(ctx context.Context, text string, inReplyTo string) (string, error) {
	return c.createTweet(ctx, tweetRequest{
		Text:  text,
		Reply: &tweetReply{InReplyToTweetID: inReplyTo},
	})
}

func (c *Client) createTweet(ctx context.Context, request tweetRequest) (string, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return "", pkgError.PublishError(fmt.Sprintf("failed to encode tweet request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tweetURL, bytes.NewReader(payload))
	if err != nil {
		return "", pkgError.PublishError(fmt.Sprintf("failed to build tweet request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	var created tweetResponse
	if err := c.do(req, &created); err != nil {
		return "", err
	}
	if created.Data.ID == "" {
		return "", pkgError.PublishError("tweet response carried no post id")
	}
	return created.Data.ID, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgError.PublishError(fmt.Sprintf("posting API request failed: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgError.PublishError(fmt.Sprintf("failed to read posting API response: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logrus.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"url":    req.URL.String(),
		}).Debug("[X] Posting API rejected request")
		return pkgError.PublishError(fmt.Sprintf("posting API returned status %d: %s", resp.StatusCode, truncate(string(body), 300)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return pkgError.PublishError(fmt.Sprintf("failed to decode posting API response: %v", err))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
