package whatsapp

import "encoding/json"

// InboundMessage is the slice of a webhook delivery the bot consumes.
// Text is empty for non-text message kinds (audio, image, reactions).
type InboundMessage struct {
	From string
	Text string
}

// Webhook payload shapes for the Meta Cloud API. Only the fields the
// bot reads are declared.
type webhookPayload struct {
	Entry []webhookEntry `json:"entry"`
}

type webhookEntry struct {
	Changes []webhookChange `json:"changes"`
}

type webhookChange struct {
	Value webhookValue `json:"value"`
}

type webhookValue struct {
	Messages []webhookMessage `json:"messages"`
}

type webhookMessage struct {
	From string       `json:"from"`
	Type string       `json:"type"`
	Text *webhookText `json:"text"`
}

type webhookText struct {
	Body string `json:"body"`
}

// ParseWebhook extracts the first message from a webhook delivery.
// ok is false when the payload carries no message at all (delivery
// status updates and other notification kinds).
func ParseWebhook(body []byte) (InboundMessage, bool) {
	var p webhookPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return InboundMessage{}, false
	}

	for _, e := range p.Entry {
		for _, c := range e.Changes {
			for _, m := range c.Value.Messages {
				msg := InboundMessage{From: m.From}
				if m.Text != nil {
					msg.Text = m.Text.Body
				}
				return msg, true
			}
		}
	}
	return InboundMessage{}, false
}
