package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xavierau/chatbot-showeasy/internal/core"
	"github.com/xavierau/chatbot-showeasy/pkg/log"
	"github.com/xavierau/chatbot-showeasy/pkg/retry"
)

// WebhookNotifier POSTs notifications as JSON to a configured endpoint, with
// bounded retries on transient failures.
type WebhookNotifier struct {
	url     string
	client  *http.Client
	retrier *retry.Retrier
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:     url,
		client:  &http.Client{Timeout: 10 * time.Second},
		retrier: retry.NewDefaultRetrier(),
	}
}

func (n *WebhookNotifier) SendEnquiryToMerchant(ctx context.Context, en EnquiryNotification) Result {
	return n.post(ctx, "enquiry.created", en, en.EnquiryID)
}

func (n *WebhookNotifier) SendReplyToUser(ctx context.Context, rn ReplyNotification) Result {
	return n.post(ctx, "enquiry.replied", rn, rn.EnquiryID)
}

func (n *WebhookNotifier) Available() bool { return n.url != "" }

func (n *WebhookNotifier) post(ctx context.Context, kind string, payload any, enquiryID int64) Result {
	body, err := json.Marshal(map[string]any{
		"type":    kind,
		"payload": payload,
	})
	if err != nil {
		return Result{Success: false, Channel: "webhook", Message: fmt.Sprintf("marshal payload: %v", err)}
	}

	err = n.retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", core.AppUserAgent)

		resp, err := n.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)

		if resp.StatusCode >= 300 {
			return fmt.Errorf("webhook returned status %d", resp.StatusCode)
		}
		return nil
	})
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("kind", kind).Int64("enquiry_id", enquiryID).Msg("webhook dispatch failed")
		return Result{Success: false, Channel: "webhook", Message: err.Error()}
	}
	return Result{Success: true, Channel: "webhook", Message: fmt.Sprintf("%s #%d delivered", kind, enquiryID)}
}
