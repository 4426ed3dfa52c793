package email

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memberhub-backend/internal/config"
)

func TestSendGridSender_Send(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer sg-key", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		w.Header().Set("X-Message-Id", "sg-123")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	s := NewSendGridSender("sg-key", "noreply@example.org", "The Society")
	s.host = server.URL

	res, err := s.Send(context.Background(), SendRequest{
		To:      []string{"ana@example.org"},
		Subject: "Welcome",
		Text:    "Hello",
		HTML:    "<p>Hello</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "sg-123", res.MessageID)
	assert.Equal(t, "Welcome", body["subject"])

	content := body["content"].([]any)
	require.Len(t, content, 2)
	assert.Equal(t, "text/plain", content[0].(map[string]any)["type"])
}

func TestSendGridSender_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer server.Close()

	s := NewSendGridSender("bad", "noreply@example.org", "")
	s.host = server.URL

	_, err := s.Send(context.Background(), SendRequest{To: []string{"a@example.org"}, Subject: "x", Text: "y"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestResendSender_Send(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/emails"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"rs-42"}`))
	}))
	defer server.Close()

	s := NewResendSender("re-key", "The Society <noreply@example.org>")
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	s.client.BaseURL = base

	res, err := s.Send(context.Background(), SendRequest{To: []string{"a@example.org"}, Subject: "Hi", HTML: "<p>Hi</p>"})
	require.NoError(t, err)
	assert.Equal(t, "rs-42", res.MessageID)
}

func TestNoopSender(t *testing.T) {
	res, err := NewNoopSender().Send(context.Background(), SendRequest{To: []string{"a@example.org"}, Subject: "x"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.MessageID, "noop-"))
}

func TestNewSender(t *testing.T) {
	assert.IsType(t, &SendGridSender{}, NewSender(config.EmailConfig{Provider: config.EmailProviderSendGrid, SendGridAPIKey: "k"}))
	assert.IsType(t, &ResendSender{}, NewSender(config.EmailConfig{Provider: config.EmailProviderResend, ResendAPIKey: "k"}))
	assert.IsType(t, &NoopSender{}, NewSender(config.EmailConfig{Provider: config.EmailProviderNoop}))
}

func TestFormatFrom(t *testing.T) {
	assert.Equal(t, "noreply@example.org", formatFrom("", "noreply@example.org"))
	assert.Equal(t, "The Society <noreply@example.org>", formatFrom("The Society", "noreply@example.org"))
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown("# Welcome\n\nYour plan: **Full Member**\n<script>alert(1)</script>")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Welcome</h1>")
	assert.Contains(t, out, "<strong>Full Member</strong>")
	assert.NotContains(t, out, "<script>")
}
