package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consultorio/turnos-bot/internal/appointment"
	"github.com/consultorio/turnos-bot/internal/bot"
	redisclient "github.com/consultorio/turnos-bot/internal/redis"
)

type recordingSender struct {
	mu    sync.Mutex
	to    []string
	texts []string
}

func (s *recordingSender) SendText(_ context.Context, to, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.to = append(s.to, to)
	s.texts = append(s.texts, body)
	return nil
}

func (s *recordingSender) last() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.texts) == 0 {
		return "", ""
	}
	return s.to[len(s.to)-1], s.texts[len(s.texts)-1]
}

func newTestBot(t *testing.T) *bot.Bot {
	t.Helper()
	svc := appointment.NewService(appointment.NewMemoryRepository(), nil, redisclient.NewLocalLocker())
	return bot.New(svc)
}

func waitProcessed(t *testing.T, h *WebhookHandler) {
	t.Helper()
	select {
	case <-h.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message processing")
	}
}

func TestVerifyHandshake(t *testing.T) {
	h := NewWebhookHandler("secreto", newTestBot(t), nil, "")

	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=secreto&hub.challenge=12345", nil)
	rec := httptest.NewRecorder()

	h.Verify(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "12345", rec.Body.String())
}

func TestVerifyHandshakeWrongToken(t *testing.T) {
	h := NewWebhookHandler("secreto", newTestBot(t), nil, "")

	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=otro&hub.challenge=12345", nil)
	rec := httptest.NewRecorder()

	h.Verify(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

const textPayload = `{
  "entry": [{
    "changes": [{
      "value": {
        "messages": [{
          "from": "5491122334455",
          "type": "text",
          "text": {"body": "AGENDAR | Sol | 25/2/2027 | 16:00 | PARTICULAR"}
        }]
      }
    }]
  }]
}`

func TestReceiveRepliesToSender(t *testing.T) {
	sender := &recordingSender{}
	h := NewWebhookHandler("secreto", newTestBot(t), sender, "")

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(textPayload))
	rec := httptest.NewRecorder()

	h.Receive(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	waitProcessed(t, h)

	to, text := sender.last()
	assert.Equal(t, "5491122334455", to)
	assert.Contains(t, text, "Agendado")
}

func TestReceiveOverrideRecipient(t *testing.T) {
	sender := &recordingSender{}
	h := NewWebhookHandler("secreto", newTestBot(t), sender, "5490000000000")

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(textPayload))
	rec := httptest.NewRecorder()

	h.Receive(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	waitProcessed(t, h)

	to, _ := sender.last()
	assert.Equal(t, "5490000000000", to)
}

func TestReceiveIgnoresNonTextPayloads(t *testing.T) {
	sender := &recordingSender{}
	h := NewWebhookHandler("secreto", newTestBot(t), sender, "")

	payload := `{"entry": [{"changes": [{"value": {"messages": [{"from": "1", "type": "image"}]}}]}]}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	h.Receive(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	select {
	case <-h.done:
		t.Fatal("expected no processing for non-text payloads")
	case <-time.After(50 * time.Millisecond):
	}

	_, text := sender.last()
	assert.Empty(t, text)
}

func TestRouterWiresWebhook(t *testing.T) {
	h := NewWebhookHandler("secreto", newTestBot(t), nil, "")
	router := NewRouter(RouterConfig{Webhook: h, Env: "test", Version: "dev"})

	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=secreto&hub.challenge=abc", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestLivenessAlwaysOK(t *testing.T) {
	h := NewWebhookHandler("secreto", newTestBot(t), nil, "")
	router := NewRouter(RouterConfig{Webhook: h, Env: "test", Version: "dev"})

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
