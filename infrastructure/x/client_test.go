package x

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient points the client at a local server, skipping OAuth signing.
func newTestClient(serverURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		uploadURL:  serverURL + "/1.1/media/upload.json",
		tweetURL:   serverURL + "/2/tweets",
	}
}

func TestUploadMedia(t *testing.T) {
	var gotFilename string
	var gotData []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("media")
		require.NoError(t, err)
		defer file.Close()
		gotFilename = header.Filename
		gotData, _ = io.ReadAll(file)
		_, _ = w.Write([]byte(`{"media_id": 123, "media_id_string": "123"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	mediaID, err := client.UploadMedia(context.Background(), []byte("img-bytes"), "cat.png")
	require.NoError(t, err)
	assert.Equal(t, "123", mediaID)
	assert.Equal(t, "cat.png", gotFilename)
	assert.Equal(t, []byte("img-bytes"), gotData)
}

func TestCreatePost_WithMedia(t *testing.T) {
	var got tweetRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data": {"id": "555"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	postID, err := client.CreatePost(context.Background(), "Hello", []string{"123"})
	require.NoError(t, err)
	assert.Equal(t, "555", postID)
	assert.Equal(t, "Hello", got.Text)
	require.NotNil(t, got.Media)
	assert.Equal(t, []string{"123"}, got.Media.MediaIDs)
	assert.Nil(t, got.Reply)
}

func TestCreatePost_TextOnlyOmitsMedia(t *testing.T) {
	var raw map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`{"data": {"id": "556"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CreatePost(context.Background(), "Hello", nil)
	require.NoError(t, err)
	_, hasMedia := raw["media"]
	assert.False(t, hasMedia, "text-only post must not carry a media object")
}

func TestCreateReply(t *testing.T) {
	var got tweetRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"data": {"id": "557"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	replyID, err := client.CreateReply(context.Background(), "Reply text", "555")
	require.NoError(t, err)
	assert.Equal(t, "557", replyID)
	require.NotNil(t, got.Reply)
	assert.Equal(t, "555", got.Reply.InReplyToTweetID)
}

func TestCreatePost_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"detail": "duplicate content"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CreatePost(context.Background(), "Hello", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "duplicate content")
}
