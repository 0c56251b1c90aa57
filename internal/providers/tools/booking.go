package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xavierau/chatbot-showeasy/internal/service/enquiry"
	"github.com/xavierau/chatbot-showeasy/pkg/log"
)

const bookingEnquirySchema = `
{
  "type": "object",
  "properties": {
    "message": { "type": "string", "description": "The user's enquiry, in their own words" },
    "contact_email": { "type": "string", "description": "Email address the merchant should reply to" },
    "event_id": { "type": "integer", "description": "Event ID the enquiry is about. Mutually exclusive with merchant_name." },
    "merchant_name": { "type": "string", "description": "Merchant or organizer name for enquiries not tied to one event. Mutually exclusive with event_id." }
  },
  "required": ["message", "contact_email"]
}
`

// Booking exposes merchant enquiry creation to the reasoning loop.
type Booking struct {
	service *enquiry.Service
}

func NewBooking(service *enquiry.Service) *Booking {
	return &Booking{service: service}
}

func (b *Booking) sessionID(ctx context.Context) string {
	return log.SessionFromCtx(ctx)
}

func (b *Booking) BookingEnquiry(ctx context.Context, args json.RawMessage) (string, error) {
	var input struct {
		Message      string `json:"message"`
		ContactEmail string `json:"contact_email"`
		EventID      *int64 `json:"event_id"`
		MerchantName string `json:"merchant_name"`
	}
	if err := json.Unmarshal(args, &input); err != nil {
		return errorPayload(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	created, err := b.service.Create(ctx, enquiry.Request{
		Message:      input.Message,
		ContactEmail: input.ContactEmail,
		SessionID:    b.sessionID(ctx),
		EventID:      input.EventID,
		MerchantName: input.MerchantName,
	})
	var argErr *enquiry.ArgumentError
	if errors.As(err, &argErr) {
		return errorPayload(argErr.Reason), nil
	}
	if err != nil {
		return "", err
	}

	merchant := created.MerchantName
	if merchant == "" {
		merchant = "the merchant"
	}

	// The message field is relayed to the user verbatim, so it has to carry
	// the reference number and the response expectation itself.
	data, _ := json.Marshal(map[string]any{
		"status":       created.Status,
		"enquiry_id":   created.ID,
		"enquiry_type": created.EnquiryType,
		"message": fmt.Sprintf("Your enquiry has been sent to %s. Reference: #%d. They will respond within 24-48 hours via email.",
			merchant, created.ID),
	})
	return string(data), nil
}

func (b *Booking) GetDefinitions() map[string]struct {
	Description string
	Schema      string
	Handler     func(context.Context, json.RawMessage) (string, error)
} {
	return map[string]struct {
		Description string
		Schema      string
		Handler     func(context.Context, json.RawMessage) (string, error)
	}{
		"booking_enquiry": {"Send a booking enquiry to an event organizer or merchant. Provide exactly one of event_id or merchant_name.", bookingEnquirySchema, b.BookingEnquiry},
	}
}
