package core

import (
	"context"
	"time"
)

// QueryExecutor runs a read query against the platform data store and returns
// rows as column-name keyed maps.
type QueryExecutor interface {
	Execute(ctx context.Context, query string) ([]map[string]any, error)
}

// Enquiry lifecycle statuses.
const (
	EnquiryStatusPending = "pending"
	EnquiryStatusSent    = "sent"
	EnquiryStatusReplied = "replied"
)

// Enquiry types inferred from the enquiry message.
const (
	EnquiryTypeTicketBooking         = "ticket_booking"
	EnquiryTypeCustomBooking         = "custom_booking"
	EnquiryTypeGroupBooking          = "group_booking"
	EnquiryTypeSpecialRequest        = "special_request"
	EnquiryTypeRestaurantReservation = "restaurant_reservation"
)

// BookingEnquiry is a persisted merchant enquiry.
type BookingEnquiry struct {
	ID           int64
	EventID      *int64
	OrganizerID  int64
	SessionID    string
	EnquiryType  string
	UserMessage  string
	ContactEmail string
	Status       string
	CreatedAt    time.Time
}

// MerchantContact is the resolved recipient for an enquiry.
type MerchantContact struct {
	OrganizerID int64
	Name        string
	Email       string
	EventID     *int64
	EventName   string
}

// EnquiryStore persists booking enquiries.
type EnquiryStore interface {
	Insert(ctx context.Context, e BookingEnquiry) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	Get(ctx context.Context, id int64) (BookingEnquiry, error)
}

// MerchantDirectory resolves enquiry recipients from the platform data.
type MerchantDirectory interface {
	ContactByEventID(ctx context.Context, eventID int64) (MerchantContact, error)
	ContactByName(ctx context.Context, name string) (MerchantContact, error)
}
