package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierau/chatbot-showeasy/internal/core"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := NewDB(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedPlatform(t *testing.T, db *sql.DB) {
	t.Helper()
	stmts := []string{
		`INSERT INTO categories (id, name) VALUES (1, 'Music Concerts'), (2, 'Art Exhibitions')`,
		`INSERT INTO organizers (id, name, contact_email) VALUES
		 (1, '{"en": "Harbour Events", "zh_tw": "海港活動"}', 'bookings@harbour.test'),
		 (2, '{"en": "City Arts Collective", "zh_tw": "城市藝術"}', 'hello@cityarts.test')`,
		`INSERT INTO venues (id, name, city) VALUES (1, 'Harbour Hall', 'Hong Kong'), (2, 'Arts Loft', 'Taipei')`,
		`INSERT INTO events (id, name, slug, description, category_id, organizer_id, event_status, visibility) VALUES
		 (1, '{"en": "Jazz by the Bay"}', '{"en": "jazz-by-the-bay"}', '{"en": "An evening of live jazz."}', 1, 1, 'published', 'public'),
		 (2, '{"en": "Ink and Paper"}',   '{"en": "ink-and-paper"}',   '{"en": "Contemporary ink works."}', 2, 2, 'published', 'public'),
		 (3, '{"en": "Secret Show"}',     NULL,                        NULL,                                 1, 1, 'draft', 'private')`,
		`INSERT INTO event_occurrences (event_id, venue_id, start_time) VALUES
		 (1, 1, datetime('now', '+2 days')),
		 (1, 1, datetime('now', '+9 days')),
		 (2, 2, datetime('now', '+5 days')),
		 (3, 1, datetime('now', '+1 day'))`,
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
}

func TestExecutorRunsSelect(t *testing.T) {
	db := openTestDB(t)
	seedPlatform(t, db)

	rows, err := NewExecutor(db).Execute(context.Background(),
		`SELECT json_extract(e.name, '$.en') AS event_name, json_extract(e.slug, '$.en') AS slug
		 FROM events e WHERE e.event_status = 'published' ORDER BY e.id`)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Jazz by the Bay", rows[0]["event_name"])
	assert.Equal(t, "jazz-by-the-bay", rows[0]["slug"])
}

func TestExecutorRunsCTE(t *testing.T) {
	db := openTestDB(t)
	seedPlatform(t, db)

	rows, err := NewExecutor(db).Execute(context.Background(),
		`WITH published AS (SELECT id FROM events WHERE event_status = 'published')
		 SELECT COUNT(*) AS n FROM published`)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 2, rows[0]["n"])
}

func TestExecutorRejectsWrites(t *testing.T) {
	db := openTestDB(t)
	executor := NewExecutor(db)

	cases := []string{
		"DELETE FROM events",
		"UPDATE events SET visibility = 'public'",
		"INSERT INTO categories (name) VALUES ('x')",
		"SELECT 1; DROP TABLE events",
		"PRAGMA table_info(events)",
	}
	for _, query := range cases {
		_, err := executor.Execute(context.Background(), query)
		assert.Error(t, err, query)
	}
}

func TestEnquiryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	seedPlatform(t, db)
	repo := NewEnquiryRepo(db)
	ctx := context.Background()

	eventID := int64(1)
	id, err := repo.Insert(ctx, core.BookingEnquiry{
		EventID:      &eventID,
		OrganizerID:  1,
		SessionID:    "sess-1",
		EnquiryType:  core.EnquiryTypeGroupBooking,
		UserMessage:  "We need 15 seats for the jazz night.",
		ContactEmail: "group@example.test",
		Status:       core.EnquiryStatusPending,
	})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, id, core.EnquiryStatusSent))

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, core.EnquiryStatusSent, got.Status)
	assert.Equal(t, core.EnquiryTypeGroupBooking, got.EnquiryType)
	require.NotNil(t, got.EventID)
	assert.Equal(t, eventID, *got.EventID)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestEnquiryUpdateUnknownID(t *testing.T) {
	db := openTestDB(t)
	err := NewEnquiryRepo(db).UpdateStatus(context.Background(), 999, core.EnquiryStatusSent)
	assert.Error(t, err)
}

func TestOrganizerContactByEventID(t *testing.T) {
	db := openTestDB(t)
	seedPlatform(t, db)

	contact, err := NewOrganizerRepo(db).ContactByEventID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), contact.OrganizerID)
	assert.Equal(t, "Harbour Events", contact.Name)
	assert.Equal(t, "bookings@harbour.test", contact.Email)
	assert.Equal(t, "Jazz by the Bay", contact.EventName)
	require.NotNil(t, contact.EventID)
	assert.Equal(t, int64(1), *contact.EventID)
}

func TestOrganizerContactByName(t *testing.T) {
	db := openTestDB(t)
	seedPlatform(t, db)
	repo := NewOrganizerRepo(db)
	ctx := context.Background()

	contact, err := repo.ContactByName(ctx, "city arts")
	require.NoError(t, err)
	assert.Equal(t, int64(2), contact.OrganizerID)
	assert.Nil(t, contact.EventID)

	contact, err = repo.ContactByName(ctx, "海港")
	require.NoError(t, err)
	assert.Equal(t, "Harbour Events", contact.Name)

	_, err = repo.ContactByName(ctx, "nobody here")
	assert.Error(t, err)
}

func TestAggregatesScopedToPublished(t *testing.T) {
	db := openTestDB(t)
	seedPlatform(t, db)
	repo := NewAggregateRepo(db)
	ctx := context.Background()

	categories, err := repo.CategoryCounts(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, core.CategoryEntry{Name: "Art Exhibitions", Count: 1}, categories[0])
	assert.Equal(t, core.CategoryEntry{Name: "Music Concerts", Count: 1}, categories[1])

	locations, err := repo.LocationCounts(ctx)
	require.NoError(t, err)
	require.Len(t, locations, 2)

	dateRange, err := repo.UpcomingDateRange(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, dateRange.TotalUpcoming)
	assert.True(t, dateRange.Latest.After(dateRange.Earliest))

	popular, err := repo.PopularEvents(ctx)
	require.NoError(t, err)
	require.Len(t, popular, 2)
	assert.Equal(t, "Jazz by the Bay", popular[0].Name)
	assert.Equal(t, "jazz-by-the-bay", popular[0].Slug)

	stats, err := repo.DatasetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalEvents)
	assert.Equal(t, 2, stats.TotalCategories)
	assert.Equal(t, 2, stats.TotalVenues)
	assert.Equal(t, 3, stats.UpcomingOccurrences)
}

func TestMessageRepoRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewMessageRepo(db)
	ctx := context.Background()

	err := repo.Append(ctx, "sess-a",
		core.Message{Role: core.RoleUser, Content: "find jazz events"},
		core.Message{Role: core.RoleAssistant, Content: "Here is what I found."},
	)
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, "sess-b", core.Message{Role: core.RoleUser, Content: "hello"}))

	history, err := repo.History(ctx, "sess-a")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, core.RoleUser, history[0].Role)
	assert.Equal(t, "find jazz events", history[0].Content)
	assert.Equal(t, "Here is what I found.", history[1].Content)

	require.NoError(t, repo.Clear(ctx, "sess-a"))
	history, err = repo.History(ctx, "sess-a")
	require.NoError(t, err)
	assert.Empty(t, history)

	other, err := repo.History(ctx, "sess-b")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestMessageRepoPreservesToolTurns(t *testing.T) {
	db := openTestDB(t)
	repo := NewMessageRepo(db)
	ctx := context.Background()

	err := repo.Append(ctx, "sess-t", core.Message{
		Role: core.RoleAssistant,
		ToolCalls: []core.ToolCall{{
			ID:       "call-1",
			Type:     "function",
			Function: core.FunctionCall{Name: "search_events", Arguments: `{"query":"jazz"}`},
		}},
	}, core.Message{
		Role:       core.RoleTool,
		Content:    "Found 1 events.",
		ToolCallID: "call-1",
	})
	require.NoError(t, err)

	history, err := repo.History(ctx, "sess-t")
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Len(t, history[0].ToolCalls, 1)
	assert.Equal(t, "search_events", history[0].ToolCalls[0].Function.Name)
	assert.Equal(t, "call-1", history[1].ToolCallID)
}
