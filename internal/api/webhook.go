package api

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/consultorio/turnos-bot/internal/bot"
	"github.com/consultorio/turnos-bot/internal/whatsapp"
)

// ReplySender delivers the bot's reply back to the messaging channel.
type ReplySender interface {
	SendText(ctx context.Context, to, body string) error
}

// WebhookHandler answers the Meta subscription handshake and feeds
// inbound messages to the bot.
type WebhookHandler struct {
	verifyToken string
	bot         *bot.Bot
	sender      ReplySender // nil drops replies (dry runs)
	overrideTo  string      // when set, all replies go here instead of the sender
	timeout     time.Duration

	// done is signalled after each processed message; tests wait on it.
	done chan struct{}
}

func NewWebhookHandler(verifyToken string, b *bot.Bot, sender ReplySender, overrideTo string) *WebhookHandler {
	return &WebhookHandler{
		verifyToken: verifyToken,
		bot:         b,
		sender:      sender,
		overrideTo:  overrideTo,
		timeout:     30 * time.Second,
		done:        make(chan struct{}, 16),
	}
}

// Verify handles the GET webhook verification challenge from Meta.
func (h *WebhookHandler) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") == "subscribe" && q.Get("hub.verify_token") == h.verifyToken {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, q.Get("hub.challenge"))
		return
	}
	http.Error(w, "Forbidden", http.StatusForbidden)
}

// Receive acks the delivery right away and handles the message in the
// background, so the messaging platform never retries on slow command
// processing. Each inbound message is one independent unit of work.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)

	msg, ok := whatsapp.ParseWebhook(body)
	if !ok || msg.Text == "" {
		return
	}

	go h.process(msg)
}

func (h *WebhookHandler) process(msg whatsapp.InboundMessage) {
	defer func() {
		select {
		case h.done <- struct{}{}:
		default:
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	reply := h.bot.HandleText(ctx, msg.Text)

	to := msg.From
	if h.overrideTo != "" {
		to = h.overrideTo
	}

	if h.sender == nil {
		log.Printf("no reply sender configured, dropping reply to %s", to)
		return
	}
	if err := h.sender.SendText(ctx, to, reply); err != nil {
		log.Printf("send reply to %s failed: %v", to, err)
	}
}
