package enquiry

import (
	"context"
	"fmt"

	"github.com/xavierau/chatbot-showeasy/internal/core"
	"github.com/xavierau/chatbot-showeasy/internal/service/notify"
	"github.com/xavierau/chatbot-showeasy/internal/service/reason"
	"github.com/xavierau/chatbot-showeasy/pkg/log"
)

var analyzeReplyContract = reason.Contract{
	Name: "analyze-merchant-reply",
	Task: "A merchant has replied to a user's booking enquiry on an event-ticketing platform. Classify the reply and pull out any concrete terms the merchant offered (dates, prices, conditions, counts).",
	Inputs: []reason.Field{
		{Name: "merchant_reply", Description: "the merchant's reply text"},
		{Name: "original_enquiry", Description: "the user's original enquiry"},
	},
	Outputs: []reason.Field{
		{Name: "outcome", Description: "one of: confirmation, decline, info_request"},
		{Name: "extracted_terms", Description: "concrete terms offered, empty if none"},
	},
}

type replyAnalysis struct {
	Outcome        string `json:"outcome"`
	ExtractedTerms string `json:"extracted_terms"`
}

var formatReplyContract = reason.Contract{
	Name: "format-enquiry-response",
	Task: "Write the message a user will receive about their booking enquiry, based on the merchant's reply. Be warm and clear, include the enquiry reference, restate any concrete terms, and say what happens next.",
	Inputs: []reason.Field{
		{Name: "enquiry_reference", Description: "the enquiry reference number"},
		{Name: "outcome", Description: "classification of the merchant reply"},
		{Name: "extracted_terms", Description: "concrete terms from the reply"},
		{Name: "merchant_reply", Description: "the merchant's reply text"},
	},
	Outputs: []reason.Field{
		{Name: "message", Description: "the user-facing message"},
	},
}

type formattedReply struct {
	Message string `json:"message"`
}

// ReplyFlow handles a merchant answering an enquiry: classify the reply,
// render the user-facing message, dispatch it, mark the enquiry replied.
type ReplyFlow struct {
	store    core.EnquiryStore
	provider core.ChatProvider
	notifier notify.Notifier
}

func NewReplyFlow(store core.EnquiryStore, provider core.ChatProvider, notifier notify.Notifier) *ReplyFlow {
	return &ReplyFlow{store: store, provider: provider, notifier: notifier}
}

// Handle processes one merchant reply. Analyzer or formatter faults fall
// back to relaying the raw reply text; the user still hears back.
func (f *ReplyFlow) Handle(ctx context.Context, enquiryID int64, replyMessage, replyChannel string) (notify.Result, error) {
	logger := log.FromCtx(ctx)

	record, err := f.store.Get(ctx, enquiryID)
	if err != nil {
		return notify.Result{}, fmt.Errorf("load enquiry %d: %w", enquiryID, err)
	}

	userMessage := f.composeUserMessage(ctx, record, replyMessage)

	result := f.notifier.SendReplyToUser(ctx, notify.ReplyNotification{
		EnquiryID:    record.ID,
		ContactEmail: record.ContactEmail,
		Message:      userMessage,
	})
	if !result.Success {
		logger.Warn().Str("reason", result.Message).Int64("enquiry_id", record.ID).Msg("reply notification not delivered")
		return result, nil
	}

	if err := f.store.UpdateStatus(ctx, record.ID, core.EnquiryStatusReplied); err != nil {
		logger.Error().Err(err).Int64("enquiry_id", record.ID).Msg("failed to mark enquiry replied")
	}
	logger.Info().Int64("enquiry_id", record.ID).Str("channel", replyChannel).Msg("merchant reply relayed")
	return result, nil
}

func (f *ReplyFlow) composeUserMessage(ctx context.Context, record core.BookingEnquiry, replyMessage string) string {
	logger := log.FromCtx(ctx)

	analysis, err := reason.Invoke[replyAnalysis](ctx, f.provider, analyzeReplyContract, []reason.Input{
		{Name: "merchant_reply", Value: replyMessage},
		{Name: "original_enquiry", Value: record.UserMessage},
	})
	if err != nil {
		logger.Warn().Err(err).Msg("reply analysis failed, relaying raw reply")
		return rawRelay(record.ID, replyMessage)
	}

	formatted, err := reason.Invoke[formattedReply](ctx, f.provider, formatReplyContract, []reason.Input{
		{Name: "enquiry_reference", Value: fmt.Sprintf("#%d", record.ID)},
		{Name: "outcome", Value: analysis.Outcome},
		{Name: "extracted_terms", Value: analysis.ExtractedTerms},
		{Name: "merchant_reply", Value: replyMessage},
	})
	if err != nil || formatted.Message == "" {
		logger.Warn().Err(err).Msg("reply formatting failed, relaying raw reply")
		return rawRelay(record.ID, replyMessage)
	}
	return formatted.Message
}

func rawRelay(enquiryID int64, replyMessage string) string {
	return fmt.Sprintf("Update on your enquiry #%d: %s", enquiryID, replyMessage)
}
