package notify

import (
	"context"
	"fmt"

	"github.com/xavierau/chatbot-showeasy/pkg/log"
)

// LogNotifier writes notifications to the process log. Default channel; also
// the fallback for misconfigured ones.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) SendEnquiryToMerchant(ctx context.Context, en EnquiryNotification) Result {
	log.FromCtx(ctx).Info().
		Int64("enquiry_id", en.EnquiryID).
		Str("type", en.EnquiryType).
		Str("merchant", en.MerchantName).
		Str("to", en.MerchantTo).
		Str("contact_email", en.ContactEmail).
		Msg("enquiry notification")
	return Result{Success: true, Channel: "log", Message: fmt.Sprintf("enquiry #%d logged", en.EnquiryID)}
}

func (n *LogNotifier) SendReplyToUser(ctx context.Context, rn ReplyNotification) Result {
	log.FromCtx(ctx).Info().
		Int64("enquiry_id", rn.EnquiryID).
		Str("to", rn.ContactEmail).
		Msg("reply notification")
	return Result{Success: true, Channel: "log", Message: fmt.Sprintf("reply for enquiry #%d logged", rn.EnquiryID)}
}

func (n *LogNotifier) Available() bool { return true }
