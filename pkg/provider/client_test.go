package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wachat/pkg/provider/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) Client {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewClient(baseURL, 5*time.Second, 5*time.Second, logger)
}

func TestSendTextDirect(t *testing.T) {
	var gotPath string
	var gotPayload types.DirectSendPayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotPayload))
		fmt.Fprint(w, `{"messageId":"3EB0AABBCC"}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp := client.SendText(context.Background(), types.SendTextRequest{
		Token: "api-key-1",
		From:  "96890000000",
		To:    "96891111111",
		Text:  "hello",
	})

	assert.Equal(t, types.EndpointSendMessage, gotPath)
	assert.Equal(t, "api-key-1", gotPayload.Token)
	assert.Equal(t, "96890000000", gotPayload.From)
	assert.Equal(t, "96891111111", gotPayload.To)
	assert.Equal(t, "text", gotPayload.MessageType)
	assert.Equal(t, "hello", gotPayload.Text)

	assert.Empty(t, resp.Error)
	assert.Equal(t, "3EB0AABBCC", resp.MessageID)
}

func TestSendTextGroup(t *testing.T) {
	var gotPath string
	var gotPayload types.GroupSendPayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotPayload))
		fmt.Fprint(w, `{"messageId":"3EB0GROUP"}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp := client.SendText(context.Background(), types.SendTextRequest{
		Token: "api-key-1",
		From:  "96890000000",
		To:    "923001234567890123",
		Text:  "hello group",
	})

	assert.Equal(t, types.EndpointGroupSend, gotPath)
	assert.Equal(t, "923001234567890123@g.us", gotPayload.GroupID)
	assert.Equal(t, "text", gotPayload.MessageType)
	assert.Equal(t, "3EB0GROUP", resp.MessageID)
}

func TestSendTextHTTPErrorBecomesResponseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp := client.SendText(context.Background(), types.SendTextRequest{To: "96891111111", Text: "hi"})

	assert.Empty(t, resp.MessageID)
	assert.Contains(t, resp.Error, "status 401")
	assert.Contains(t, resp.Error, "invalid token")
}

func TestSendTextUnreachableHost(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")
	resp := client.SendText(context.Background(), types.SendTextRequest{To: "96891111111", Text: "hi"})

	assert.Empty(t, resp.MessageID)
	assert.NotEmpty(t, resp.Error)
}

func TestSendTextNonJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "OK")
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp := client.SendText(context.Background(), types.SendTextRequest{To: "96891111111", Text: "hi"})

	assert.Empty(t, resp.Error)
	assert.Empty(t, resp.MessageID)
}

func TestDeleteMessage(t *testing.T) {
	var gotPath string
	var gotPayload types.DeletePayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotPayload))
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.DeleteMessage(context.Background(), types.DeleteMessageRequest{
		Token:     "api-key-1",
		From:      "96890000000",
		ChatJID:   "96891111111@s.whatsapp.net",
		MessageID: "3EB0AABBCC",
		FromMe:    true,
	})
	require.NoError(t, err)

	assert.Equal(t, types.EndpointDeleteMessage, gotPath)
	assert.Equal(t, "96891111111@s.whatsapp.net", gotPayload.ChatID)
	assert.Equal(t, "3EB0AABBCC", gotPayload.MessageID)
	assert.True(t, gotPayload.FromMe)
}

func TestDeleteMessageErrorIsReturned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.DeleteMessage(context.Background(), types.DeleteMessageRequest{MessageID: "x"})
	assert.Error(t, err)
}

func TestExtractMessageID(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"data.key.id", `{"data":{"key":{"id":"A"},"messageId":"B"},"messageId":"C"}`, "A"},
		{"data.messageId", `{"data":{"messageId":"B"},"messageId":"C"}`, "B"},
		{"top-level messageId", `{"messageId":"C","key":{"id":"D"}}`, "C"},
		{"key.id", `{"key":{"id":"D"},"id":"E"}`, "D"},
		{"bare id", `{"id":"E"}`, "E"},
		{"empty strings skipped", `{"messageId":"","id":"E"}`, "E"},
		{"wrong types ignored", `{"messageId":42,"key":"oops"}`, ""},
		{"nothing", `{"status":"queued"}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &raw))
			assert.Equal(t, tt.expected, ExtractMessageID(raw))
		})
	}

	assert.Empty(t, ExtractMessageID(nil))
}
