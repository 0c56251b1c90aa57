package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierau/chatbot-showeasy/internal/core"
)

// EnquiryRepo persists booking enquiries.
type EnquiryRepo struct {
	db *sql.DB
}

var _ core.EnquiryStore = (*EnquiryRepo)(nil)

func NewEnquiryRepo(db *sql.DB) *EnquiryRepo {
	return &EnquiryRepo{db: db}
}

func (r *EnquiryRepo) Insert(ctx context.Context, e core.BookingEnquiry) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO booking_enquiries (event_id, organizer_id, session_id, enquiry_type, user_message, contact_email, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.EventID, e.OrganizerID, e.SessionID, e.EnquiryType, e.UserMessage, e.ContactEmail, e.Status,
	)
	if err != nil {
		return 0, fmt.Errorf("insert enquiry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("enquiry id: %w", err)
	}
	return id, nil
}

func (r *EnquiryRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE booking_enquiries SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update enquiry status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("enquiry %d not found", id)
	}
	return nil
}

func (r *EnquiryRepo) Get(ctx context.Context, id int64) (core.BookingEnquiry, error) {
	var (
		e       core.BookingEnquiry
		eventID sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, event_id, organizer_id, session_id, enquiry_type, user_message, contact_email, status, created_at
		 FROM booking_enquiries WHERE id = ?`, id,
	).Scan(&e.ID, &eventID, &e.OrganizerID, &e.SessionID, &e.EnquiryType, &e.UserMessage, &e.ContactEmail, &e.Status, &e.CreatedAt)
	if err != nil {
		return core.BookingEnquiry{}, fmt.Errorf("load enquiry %d: %w", id, err)
	}
	if eventID.Valid {
		e.EventID = &eventID.Int64
	}
	return e, nil
}
