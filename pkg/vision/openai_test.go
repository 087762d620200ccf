package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFormat(t *testing.T) {
	assert.Equal(t, "jpeg", NormalizeFormat("jpg"))
	assert.Equal(t, "jpeg", NormalizeFormat("JPEG"))
	assert.Equal(t, "png", NormalizeFormat("png"))
	assert.Equal(t, "png", NormalizeFormat("gif"))
	assert.Equal(t, "png", NormalizeFormat(""))
}

func testClient(serverURL string) *Client {
	return &Client{
		APIKey:  "test-key",
		Model:   "gpt-4o",
		BaseURL: serverURL,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

func TestDescribe(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "  A black office chair.\n"}},
			},
		})
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	desc, err := c.Describe(context.Background(), []byte{1, 2, 3}, "jpg")
	require.NoError(t, err)

	assert.Equal(t, "A black office chair.", desc, "surrounding whitespace is trimmed")
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "gpt-4o", gotReq.Model)
	require.Len(t, gotReq.Messages, 1)
	require.Len(t, gotReq.Messages[0].Content, 2)
	require.NotNil(t, gotReq.Messages[0].Content[1].ImageURL)
	assert.True(t, strings.HasPrefix(gotReq.Messages[0].Content[1].ImageURL.URL, "data:image/jpeg;base64,"))
}

func TestDescribeNotConfigured(t *testing.T) {
	c := &Client{}
	_, err := c.Describe(context.Background(), []byte{1}, "png")
	assert.ErrorIs(t, err, ErrNotConfigured)

	var nilClient *Client
	_, err = nilClient.Describe(context.Background(), []byte{1}, "png")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestDescribeImageTooLarge(t *testing.T) {
	c := testClient("http://invalid")
	_, err := c.Describe(context.Background(), make([]byte, MaxImageBytes+1), "png")
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestDescribeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "rate limited"},
		})
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Describe(context.Background(), []byte{1}, "png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestDescribeEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Describe(context.Background(), []byte{1}, "png")
	assert.Error(t, err)
}
