package line

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	path          string
	authorization string
	body          map[string]any
}

func newMessagingServer(t *testing.T, status int) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var body map[string]any
		require.NoError(t, json.Unmarshal(data, &body))
		requests = append(requests, recordedRequest{
			path:          r.URL.Path,
			authorization: r.Header.Get("Authorization"),
			body:          body,
		})

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = w.Write([]byte(`{}`))
			return
		}
		_, _ = w.Write([]byte(`{"message":"Invalid reply token"}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(ClientConfig{
		ChannelAccessToken: "access-token",
		Endpoint:           srv.URL,
		HTTPClient:         srv.Client(),
	})
	require.NoError(t, err)
	return c
}

func messageTexts(body map[string]any) []string {
	var texts []string
	msgs, _ := body["messages"].([]any)
	for _, m := range msgs {
		if msg, ok := m.(map[string]any); ok {
			text, _ := msg["text"].(string)
			texts = append(texts, text)
		}
	}
	return texts
}

func TestClient_Reply(t *testing.T) {
	srv, requests := newMessagingServer(t, http.StatusOK)
	c := newTestClient(t, srv)

	require.NoError(t, c.Reply(context.Background(), "reply-token", "今日の予定はありません。"))

	require.Len(t, *requests, 1)
	got := (*requests)[0]
	assert.Equal(t, "/v2/bot/message/reply", got.path)
	assert.Equal(t, "Bearer access-token", got.authorization)
	assert.Equal(t, "reply-token", got.body["replyToken"])
	assert.Equal(t, []string{"今日の予定はありません。"}, messageTexts(got.body))
}

func TestClient_Push(t *testing.T) {
	srv, requests := newMessagingServer(t, http.StatusOK)
	c := newTestClient(t, srv)

	require.NoError(t, c.Push(context.Background(), "U123", "digest"))

	require.Len(t, *requests, 1)
	got := (*requests)[0]
	assert.Equal(t, "/v2/bot/message/push", got.path)
	assert.Equal(t, "U123", got.body["to"])
	assert.Equal(t, []string{"digest"}, messageTexts(got.body))
}

func TestClient_Errors(t *testing.T) {
	srv, _ := newMessagingServer(t, http.StatusBadRequest)
	c := newTestClient(t, srv)

	assert.Error(t, c.Reply(context.Background(), "expired", "x"))
	assert.Error(t, c.Push(context.Background(), "U123", "x"))
}

func TestNewClient_RequiresToken(t *testing.T) {
	_, err := NewClient(ClientConfig{})
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "予定", truncate("予定", 5))
	assert.Equal(t, "予定あり", truncate("予定あり", 4))

	long := strings.Repeat("あ", MaxTextLength+10)
	got := truncate(long, MaxTextLength)
	assert.Equal(t, MaxTextLength, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))
}
