package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/xavierau/chatbot-showeasy/internal/core"
)

// OrganizerRepo resolves enquiry recipients from the platform data.
type OrganizerRepo struct {
	db *sql.DB
}

var _ core.MerchantDirectory = (*OrganizerRepo)(nil)

func NewOrganizerRepo(db *sql.DB) *OrganizerRepo {
	return &OrganizerRepo{db: db}
}

// ContactByEventID resolves the organizer behind an event.
func (r *OrganizerRepo) ContactByEventID(ctx context.Context, eventID int64) (core.MerchantContact, error) {
	var (
		c         core.MerchantContact
		eventName sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT o.id, json_extract(o.name, '$.en'), o.contact_email, json_extract(e.name, '$.en')
		 FROM events e JOIN organizers o ON o.id = e.organizer_id
		 WHERE e.id = ?`, eventID,
	).Scan(&c.OrganizerID, &c.Name, &c.Email, &eventName)
	if errors.Is(err, sql.ErrNoRows) {
		return core.MerchantContact{}, fmt.Errorf("event %d not found", eventID)
	}
	if err != nil {
		return core.MerchantContact{}, fmt.Errorf("lookup organizer for event %d: %w", eventID, err)
	}
	c.EventID = &eventID
	c.EventName = eventName.String
	return c, nil
}

// ContactByName finds an organizer by name, matching the en and zh_tw
// locales case-insensitively.
func (r *OrganizerRepo) ContactByName(ctx context.Context, name string) (core.MerchantContact, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(name)) + "%"
	var c core.MerchantContact
	err := r.db.QueryRowContext(ctx,
		`SELECT id, json_extract(name, '$.en'), contact_email
		 FROM organizers
		 WHERE LOWER(json_extract(name, '$.en')) LIKE ?
		    OR LOWER(json_extract(name, '$.zh_tw')) LIKE ?
		 ORDER BY id LIMIT 1`, pattern, pattern,
	).Scan(&c.OrganizerID, &c.Name, &c.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return core.MerchantContact{}, fmt.Errorf("merchant %q not found", name)
	}
	if err != nil {
		return core.MerchantContact{}, fmt.Errorf("lookup merchant %q: %w", name, err)
	}
	return c, nil
}
