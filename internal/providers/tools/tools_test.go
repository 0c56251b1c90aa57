package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierau/chatbot-showeasy/internal/core"
	"github.com/xavierau/chatbot-showeasy/internal/service/docs"
	"github.com/xavierau/chatbot-showeasy/internal/service/enquiry"
	"github.com/xavierau/chatbot-showeasy/internal/service/notify"
)

func TestSearchEventsRejectsEmptyCriteria(t *testing.T) {
	s := NewSearch(nil)

	out, err := s.SearchEvents(context.Background(), json.RawMessage(`{}`))
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Contains(t, payload["error"], "at least one search field")
}

func TestSearchEventsRejectsMalformedArguments(t *testing.T) {
	s := NewSearch(nil)

	out, err := s.SearchEvents(context.Background(), json.RawMessage(`{"max_price": "cheap"}`))
	require.NoError(t, err)
	assert.Contains(t, out, "invalid arguments")
}

func TestDocumentSummaryAndDetail(t *testing.T) {
	store, err := docs.NewStore("")
	require.NoError(t, err)
	d := NewDocuments(store)
	ctx := context.Background()

	summary, err := d.DocumentSummary(ctx, nil)
	require.NoError(t, err)
	assert.Contains(t, summary, "01")

	detail, err := d.DocumentDetail(ctx, json.RawMessage(`{"document_ids": ["04"]}`))
	require.NoError(t, err)
	assert.NotContains(t, detail, `"error"`)
	assert.NotEmpty(t, detail)
}

func TestDocumentDetailJoinsMultiple(t *testing.T) {
	store, err := docs.NewStore("")
	require.NoError(t, err)
	d := NewDocuments(store)

	first, err := d.DocumentDetail(context.Background(), json.RawMessage(`{"document_ids": ["01"]}`))
	require.NoError(t, err)
	second, err := d.DocumentDetail(context.Background(), json.RawMessage(`{"document_ids": ["02"]}`))
	require.NoError(t, err)

	both, err := d.DocumentDetail(context.Background(), json.RawMessage(`{"document_ids": ["01", "02"]}`))
	require.NoError(t, err)
	assert.Contains(t, both, first)
	assert.Contains(t, both, second)
	assert.Contains(t, both, "\n\n---\n\n")
}

func TestDocumentDetailBareStringTolerated(t *testing.T) {
	store, err := docs.NewStore("")
	require.NoError(t, err)
	d := NewDocuments(store)

	out, err := d.DocumentDetail(context.Background(), json.RawMessage(`{"document_ids": "03"}`))
	require.NoError(t, err)
	assert.NotContains(t, out, `"error"`)
	assert.NotEmpty(t, out)
}

func TestDocumentDetailRejectsWholeRequestOnInvalidID(t *testing.T) {
	store, err := docs.NewStore("")
	require.NoError(t, err)
	d := NewDocuments(store)

	out, err := d.DocumentDetail(context.Background(), json.RawMessage(`{"document_ids": ["01", "99"]}`))
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Contains(t, payload["error"], "99")
	assert.Contains(t, payload["error"], "01")
	assert.NotContains(t, payload["error"], "unknown document IDs: 01")
}

func TestDocumentDetailEmptyIDs(t *testing.T) {
	store, err := docs.NewStore("")
	require.NoError(t, err)
	d := NewDocuments(store)

	for _, args := range []string{`{}`, `{"document_ids": []}`, `{"document_ids": [" "]}`} {
		out, err := d.DocumentDetail(context.Background(), json.RawMessage(args))
		require.NoError(t, err)
		assert.Contains(t, out, "document_ids is required", "args: %s", args)
	}
}

type toolEnquiryStore struct {
	next     int64
	inserted []core.BookingEnquiry
	statuses map[int64]string
}

func (s *toolEnquiryStore) Insert(_ context.Context, e core.BookingEnquiry) (int64, error) {
	s.next++
	e.ID = s.next
	s.inserted = append(s.inserted, e)
	return s.next, nil
}

func (s *toolEnquiryStore) UpdateStatus(_ context.Context, id int64, status string) error {
	if s.statuses == nil {
		s.statuses = make(map[int64]string)
	}
	s.statuses[id] = status
	return nil
}

func (s *toolEnquiryStore) Get(_ context.Context, id int64) (core.BookingEnquiry, error) {
	for _, e := range s.inserted {
		if e.ID == id {
			return e, nil
		}
	}
	return core.BookingEnquiry{}, assert.AnError
}

type toolDirectory struct{}

func (toolDirectory) ContactByEventID(_ context.Context, eventID int64) (core.MerchantContact, error) {
	return core.MerchantContact{OrganizerID: 7, Name: "Harbour Events", Email: "o@test", EventID: &eventID, EventName: "Jazz Night"}, nil
}

func (toolDirectory) ContactByName(_ context.Context, name string) (core.MerchantContact, error) {
	return core.MerchantContact{OrganizerID: 8, Name: name, Email: "m@test"}, nil
}

type silentNotifier struct{}

func (silentNotifier) SendEnquiryToMerchant(context.Context, notify.EnquiryNotification) notify.Result {
	return notify.Result{Success: true, Channel: "test"}
}

func (silentNotifier) SendReplyToUser(context.Context, notify.ReplyNotification) notify.Result {
	return notify.Result{Success: true, Channel: "test"}
}

func (silentNotifier) Available() bool { return true }

func TestBookingEnquiryCreatesAndReportsID(t *testing.T) {
	store := &toolEnquiryStore{}
	b := NewBooking(enquiry.NewService(store, toolDirectory{}, silentNotifier{}))

	out, err := b.BookingEnquiry(context.Background(),
		json.RawMessage(`{"message": "Can we book 15 seats?", "contact_email": "user@test", "event_id": 3}`))
	require.NoError(t, err)

	var payload struct {
		EnquiryID   int64  `json:"enquiry_id"`
		EnquiryType string `json:"enquiry_type"`
		Status      string `json:"status"`
		Message     string `json:"message"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, int64(1), payload.EnquiryID)
	assert.Equal(t, core.EnquiryTypeGroupBooking, payload.EnquiryType)
	require.Len(t, store.inserted, 1)

	assert.Contains(t, payload.Message, "Harbour Events")
	assert.Contains(t, payload.Message, "Reference: #1")
	assert.Contains(t, payload.Message, "24-48 hours")
}

func TestBookingEnquiryArgumentMistakeIsPayload(t *testing.T) {
	store := &toolEnquiryStore{}
	b := NewBooking(enquiry.NewService(store, toolDirectory{}, silentNotifier{}))

	out, err := b.BookingEnquiry(context.Background(),
		json.RawMessage(`{"message": "hi", "contact_email": "user@test", "event_id": 3, "merchant_name": "Someone"}`))
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.NotEmpty(t, payload["error"])
	assert.Empty(t, store.inserted)
}

func TestThinkEchoesThought(t *testing.T) {
	th := NewThinking()

	defs := th.GetDefinitions()
	_, ok := defs["thinking"]
	require.True(t, ok, "capability registers as thinking")

	out, err := th.Think(context.Background(),
		json.RawMessage(`{"thought": "search first, then check refunds"}`))
	require.NoError(t, err)
	assert.Equal(t, "search first, then check refunds", out)
}

func TestInfoTopics(t *testing.T) {
	defs := NewInfo().GetDefinitions()
	require.Len(t, defs, 3)

	// No topic lists everything known.
	for name, def := range defs {
		out, err := def.Handler(context.Background(), nil)
		require.NoError(t, err, name)
		assert.NotEmpty(t, out, name)
		assert.NotContains(t, out, `"error"`, name)
	}

	out, err := defs["ticket_info"].Handler(context.Background(),
		json.RawMessage(`{"topic": "Refund"}`))
	require.NoError(t, err)
	assert.Contains(t, out, "refund policy")

	out, err = defs["general_help"].Handler(context.Background(),
		json.RawMessage(`{"topic": "contact"}`))
	require.NoError(t, err)
	assert.Contains(t, out, core.SupportEmail)
}

func TestInfoUnknownTopicListsKnown(t *testing.T) {
	defs := NewInfo().GetDefinitions()

	out, err := defs["membership_info"].Handler(context.Background(),
		json.RawMessage(`{"topic": "platinum"}`))
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Contains(t, payload["error"], "platinum")
	assert.Contains(t, payload["error"], "premium")
}
