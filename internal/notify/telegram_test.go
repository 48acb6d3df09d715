package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelegramSend(t *testing.T) {
	var gotPath string
	var gotPayload map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ch := NewTelegramChannel("bot-token", "chat-123")
	ch.BaseURL = srv.URL

	require.NoError(t, ch.Send(sampleOrder()))

	assert.Equal(t, "/botbot-token/sendMessage", gotPath)
	assert.Equal(t, "chat-123", gotPayload["chat_id"])
	assert.Equal(t, "HTML", gotPayload["parse_mode"])
	assert.Contains(t, gotPayload["text"], "ORD-AB12CD34")
	assert.Contains(t, gotPayload["text"], "Mechanical Keyboard")
	assert.Contains(t, gotPayload["text"], "Sok Dara")
}

func TestTelegramSendAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	ch := NewTelegramChannel("bot-token", "chat-123")
	ch.BaseURL = srv.URL

	err := ch.Send(sampleOrder())
	assert.Error(t, err)
}

func TestTelegramSendUnconfigured(t *testing.T) {
	ch := NewTelegramChannel("", "")
	assert.Error(t, ch.Send(sampleOrder()))
}
