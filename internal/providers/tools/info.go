package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/xavierau/chatbot-showeasy/internal/core"
)

const infoSchema = `
{
  "type": "object",
  "properties": {
    "topic": { "type": "string", "description": "The topic to explain. Omit for an overview of available topics." }
  }
}
`

var ticketTopics = map[string]string{
	"purchase": "Tickets are sold per occurrence. Pick the date you want on the event page, " +
		"choose a quantity and pay at checkout. The QR code appears in your account and by email.",
	"transfer": "Tickets can be transferred to another account up to 24 hours before the event " +
		"starts, from the ticket detail page.",
	"refund": "Refunds follow the platform refund policy. Organizer-cancelled events are " +
		"refunded in full automatically; other cases depend on the organizer's terms.",
	"qr_code": "Your ticket QR code is in your account under My Tickets and in the confirmation " +
		"email. Screenshots work at the door.",
}

var membershipTopics = map[string]string{
	"free":    "Free tier: browse everything and buy tickets at list price.",
	"plus":    "Plus tier: early access to popular events and no booking fees.",
	"premium": "Premium tier: everything in Plus, seat upgrades when available and a dedicated support line.",
	"change": "Tiers can be changed any time from account settings. Upgrades apply immediately, " +
		"downgrades at the next billing cycle.",
}

var helpTopics = map[string]string{
	"search": "I can search events by keyword, city, date, category, tags, price or organizer. " +
		"Just describe what you are after.",
	"booking": "I can send booking enquiries to event organizers for group bookings, special " +
		"requests or anything the standard checkout does not cover.",
	"documents": "I can look up the platform guides on tickets, payments, refunds, memberships, " +
		"accessibility and organizer services.",
	"contact": "For anything I cannot resolve, contact " + core.SupportEmail + ".",
}

// Info answers fixed platform topics without a document round-trip. An
// unknown topic lists what is known instead of failing the step.
type Info struct{}

func NewInfo() *Info {
	return &Info{}
}

func topicHandler(topics map[string]string) func(context.Context, json.RawMessage) (string, error) {
	return func(_ context.Context, args json.RawMessage) (string, error) {
		var input struct {
			Topic string `json:"topic"`
		}
		if len(args) > 0 {
			if err := json.Unmarshal(args, &input); err != nil {
				return errorPayload(fmt.Sprintf("invalid arguments: %v", err)), nil
			}
		}

		topic := strings.ToLower(strings.TrimSpace(input.Topic))
		if text, ok := topics[topic]; ok {
			return text, nil
		}

		known := make([]string, 0, len(topics))
		for name := range topics {
			known = append(known, name)
		}
		sort.Strings(known)

		if topic == "" {
			var b strings.Builder
			for _, name := range known {
				fmt.Fprintf(&b, "%s: %s\n", name, topics[name])
			}
			return b.String(), nil
		}
		return errorPayload(fmt.Sprintf("unknown topic %q, known topics are %s", topic, strings.Join(known, ", "))), nil
	}
}

func (i *Info) GetDefinitions() map[string]struct {
	Description string
	Schema      string
	Handler     func(context.Context, json.RawMessage) (string, error)
} {
	return map[string]struct {
		Description string
		Schema      string
		Handler     func(context.Context, json.RawMessage) (string, error)
	}{
		"ticket_info":     {"How tickets work: purchase, transfer, refund, qr_code topics.", infoSchema, topicHandler(ticketTopics)},
		"membership_info": {"The membership tiers: free, plus, premium, change topics.", infoSchema, topicHandler(membershipTopics)},
		"general_help":    {"What the assistant can do: search, booking, documents, contact topics.", infoSchema, topicHandler(helpTopics)},
	}
}
