package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xavierau/chatbot-showeasy/internal/core"
	"github.com/xavierau/chatbot-showeasy/internal/service/insights"
)

// AggregateRepo computes the dataset aggregates behind the insight cache.
// All queries are scoped to published, public events.
type AggregateRepo struct {
	db *sql.DB
}

var _ insights.AggregateSource = (*AggregateRepo)(nil)

func NewAggregateRepo(db *sql.DB) *AggregateRepo {
	return &AggregateRepo{db: db}
}

const publishedFilter = `e.event_status = 'published' AND e.visibility = 'public'`

func (r *AggregateRepo) CategoryCounts(ctx context.Context) ([]core.CategoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.name, COUNT(e.id)
		FROM categories c JOIN events e ON e.category_id = c.id
		WHERE `+publishedFilter+`
		GROUP BY c.id ORDER BY COUNT(e.id) DESC, c.name`)
	if err != nil {
		return nil, fmt.Errorf("category counts: %w", err)
	}
	defer rows.Close()

	var entries []core.CategoryEntry
	for rows.Next() {
		var e core.CategoryEntry
		if err := rows.Scan(&e.Name, &e.Count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *AggregateRepo) LocationCounts(ctx context.Context) ([]insights.LocationCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT v.city, COUNT(DISTINCT e.id)
		FROM venues v
		JOIN event_occurrences oc ON oc.venue_id = v.id
		JOIN events e ON e.id = oc.event_id
		WHERE v.city != '' AND `+publishedFilter+`
		GROUP BY v.city ORDER BY COUNT(DISTINCT e.id) DESC, v.city`)
	if err != nil {
		return nil, fmt.Errorf("location counts: %w", err)
	}
	defer rows.Close()

	var entries []insights.LocationCount
	for rows.Next() {
		var e insights.LocationCount
		if err := rows.Scan(&e.City, &e.EventCount); err != nil {
			return nil, fmt.Errorf("scan location count: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *AggregateRepo) UpcomingDateRange(ctx context.Context) (insights.DateRange, error) {
	var (
		earliest, latest sql.NullString
		total            int
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT MIN(oc.start_time), MAX(oc.start_time), COUNT(*)
		FROM event_occurrences oc
		JOIN events e ON e.id = oc.event_id
		WHERE oc.start_time >= datetime('now') AND `+publishedFilter,
	).Scan(&earliest, &latest, &total)
	if err != nil {
		return insights.DateRange{}, fmt.Errorf("upcoming date range: %w", err)
	}

	dr := insights.DateRange{TotalUpcoming: total}
	if dr.Earliest, err = parseOccurrenceTime(earliest); err != nil {
		return insights.DateRange{}, err
	}
	if dr.Latest, err = parseOccurrenceTime(latest); err != nil {
		return insights.DateRange{}, err
	}
	return dr, nil
}

func (r *AggregateRepo) PopularEvents(ctx context.Context) ([]insights.PopularEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT json_extract(e.name, '$.en'),
		       COALESCE(c.name, ''),
		       COALESCE(json_extract(e.slug, '$.en'), ''),
		       MIN(oc.start_time)
		FROM events e
		JOIN event_occurrences oc ON oc.event_id = e.id
		LEFT JOIN categories c ON c.id = e.category_id
		WHERE oc.start_time >= datetime('now') AND `+publishedFilter+`
		GROUP BY e.id ORDER BY MIN(oc.start_time) ASC LIMIT 5`)
	if err != nil {
		return nil, fmt.Errorf("popular events: %w", err)
	}
	defer rows.Close()

	var entries []insights.PopularEvent
	for rows.Next() {
		var (
			e     insights.PopularEvent
			start sql.NullString
		)
		if err := rows.Scan(&e.Name, &e.Category, &e.Slug, &start); err != nil {
			return nil, fmt.Errorf("scan popular event: %w", err)
		}
		if e.NextOccurrence, err = parseOccurrenceTime(start); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *AggregateRepo) DatasetStats(ctx context.Context) (insights.Stats, error) {
	var s insights.Stats
	err := r.db.QueryRowContext(ctx, `
		SELECT
		  (SELECT COUNT(*) FROM events e WHERE `+publishedFilter+`),
		  (SELECT COUNT(DISTINCT e.category_id) FROM events e WHERE e.category_id IS NOT NULL AND `+publishedFilter+`),
		  (SELECT COUNT(*) FROM venues),
		  (SELECT COUNT(*) FROM event_occurrences oc
		     JOIN events e ON e.id = oc.event_id
		     WHERE oc.start_time >= datetime('now') AND `+publishedFilter+`)`,
	).Scan(&s.TotalEvents, &s.TotalCategories, &s.TotalVenues, &s.UpcomingOccurrences)
	if err != nil {
		return insights.Stats{}, fmt.Errorf("dataset stats: %w", err)
	}
	return s, nil
}

// parseOccurrenceTime tolerates the two formats sqlite hands back for
// DATETIME columns depending on how the row was inserted.
func parseOccurrenceTime(v sql.NullString) (time.Time, error) {
	if !v.Valid || v.String == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, v.String); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised datetime %q", v.String)
}
