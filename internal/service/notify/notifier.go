package notify

import (
	"context"

	"github.com/xavierau/chatbot-showeasy/internal/config"
	"github.com/xavierau/chatbot-showeasy/pkg/log"
)

// EnquiryNotification is what a merchant receives when a user files a
// booking enquiry.
type EnquiryNotification struct {
	EnquiryID    int64  `json:"enquiry_id"`
	EnquiryType  string `json:"enquiry_type"`
	MerchantName string `json:"merchant_name"`
	MerchantTo   string `json:"merchant_to"`
	EventName    string `json:"event_name,omitempty"`
	UserMessage  string `json:"user_message"`
	ContactEmail string `json:"contact_email"`
}

// ReplyNotification is what a user receives when the merchant answers.
type ReplyNotification struct {
	EnquiryID    int64  `json:"enquiry_id"`
	ContactEmail string `json:"contact_email"`
	Message      string `json:"message"`
}

// Result reports one dispatch attempt.
type Result struct {
	Success bool
	Message string
	Channel string
}

// Notifier dispatches enquiry traffic between users and merchants.
type Notifier interface {
	SendEnquiryToMerchant(ctx context.Context, n EnquiryNotification) Result
	SendReplyToUser(ctx context.Context, n ReplyNotification) Result
	Available() bool
}

// New selects the delivery channel from configuration. An unknown channel
// (including the reserved "email") degrades to log delivery with a warning.
func New(ctx context.Context, cfg *config.NotifyConfig) Notifier {
	switch cfg.Channel {
	case "webhook":
		if cfg.WebhookURL == "" {
			log.FromCtx(ctx).Warn().Msg("webhook channel selected without NOTIFICATION_WEBHOOK_URL, falling back to log")
			return NewLogNotifier()
		}
		return NewWebhookNotifier(cfg.WebhookURL)
	case "log", "":
		return NewLogNotifier()
	default:
		log.FromCtx(ctx).Warn().Str("channel", cfg.Channel).Msg("unknown notification channel, falling back to log")
		return NewLogNotifier()
	}
}
