package enquiry

import (
	"context"
	"fmt"

	"github.com/xavierau/chatbot-showeasy/internal/core"
	"github.com/xavierau/chatbot-showeasy/internal/service/notify"
	"github.com/xavierau/chatbot-showeasy/pkg/log"
)

// Request is one booking enquiry from a user. Exactly one of EventID and
// MerchantName must be set.
type Request struct {
	Message      string
	ContactEmail string
	SessionID    string
	EventID      *int64
	MerchantName string
}

// ArgumentError marks a caller mistake: rejected at the boundary, nothing
// written, nothing dispatched.
type ArgumentError struct {
	Reason string
}

func (e *ArgumentError) Error() string { return e.Reason }

// Service persists booking enquiries and dispatches merchant notifications.
type Service struct {
	store     core.EnquiryStore
	directory core.MerchantDirectory
	notifier  notify.Notifier
}

func NewService(store core.EnquiryStore, directory core.MerchantDirectory, notifier notify.Notifier) *Service {
	return &Service{store: store, directory: directory, notifier: notifier}
}

// Create validates, classifies, persists and dispatches one enquiry,
// returning the stored record. The enquiry is persisted as pending and only
// marked sent after the notification dispatch reports success, so a retry
// after a crash re-dispatches rather than double-writing.
// Created pairs the stored enquiry with the resolved merchant display name,
// which is not part of the persisted row.
type Created struct {
	core.BookingEnquiry
	MerchantName string
}

func (s *Service) Create(ctx context.Context, req Request) (Created, error) {
	if err := validate(req); err != nil {
		return Created{}, err
	}

	eventMode := req.EventID != nil
	var (
		contact core.MerchantContact
		err     error
	)
	if eventMode {
		contact, err = s.directory.ContactByEventID(ctx, *req.EventID)
	} else {
		contact, err = s.directory.ContactByName(ctx, req.MerchantName)
	}
	if err != nil {
		return Created{}, fmt.Errorf("resolve merchant: %w", err)
	}

	record := core.BookingEnquiry{
		EventID:      contact.EventID,
		OrganizerID:  contact.OrganizerID,
		SessionID:    req.SessionID,
		EnquiryType:  ClassifyType(req.Message, eventMode),
		UserMessage:  req.Message,
		ContactEmail: req.ContactEmail,
		Status:       core.EnquiryStatusPending,
	}
	record.ID, err = s.store.Insert(ctx, record)
	if err != nil {
		return Created{}, fmt.Errorf("persist enquiry: %w", err)
	}

	result := s.notifier.SendEnquiryToMerchant(ctx, notify.EnquiryNotification{
		EnquiryID:    record.ID,
		EnquiryType:  record.EnquiryType,
		MerchantName: contact.Name,
		MerchantTo:   contact.Email,
		EventName:    contact.EventName,
		UserMessage:  req.Message,
		ContactEmail: req.ContactEmail,
	})
	if result.Success {
		if err := s.store.UpdateStatus(ctx, record.ID, core.EnquiryStatusSent); err != nil {
			log.FromCtx(ctx).Error().Err(err).Int64("enquiry_id", record.ID).Msg("failed to mark enquiry sent")
		} else {
			record.Status = core.EnquiryStatusSent
		}
	} else {
		log.FromCtx(ctx).Warn().Str("reason", result.Message).Int64("enquiry_id", record.ID).Msg("enquiry notification not delivered, left pending")
	}
	return Created{BookingEnquiry: record, MerchantName: contact.Name}, nil
}

func validate(req Request) error {
	if req.Message == "" {
		return &ArgumentError{Reason: "message is required"}
	}
	if req.ContactEmail == "" {
		return &ArgumentError{Reason: "contact_email is required"}
	}
	hasEvent := req.EventID != nil
	hasMerchant := req.MerchantName != ""
	if hasEvent && hasMerchant {
		return &ArgumentError{Reason: "provide either event_id or merchant_name, not both"}
	}
	if !hasEvent && !hasMerchant {
		return &ArgumentError{Reason: "provide either event_id or merchant_name"}
	}
	return nil
}
