package insights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xavierau/chatbot-showeasy/internal/core"
	"github.com/xavierau/chatbot-showeasy/pkg/log"
)

// LocationCount is one city with its published-event count.
type LocationCount struct {
	City       string `json:"city"`
	EventCount int    `json:"event_count"`
}

// DateRange summarises the upcoming-event window.
type DateRange struct {
	Earliest      time.Time `json:"earliest"`
	Latest        time.Time `json:"latest"`
	TotalUpcoming int       `json:"total_upcoming"`
}

// PopularEvent is one featured upcoming event.
type PopularEvent struct {
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Slug           string    `json:"slug"`
	NextOccurrence time.Time `json:"next_occurrence"`
}

// Stats carries the global dataset counters.
type Stats struct {
	TotalEvents         int `json:"total_events"`
	TotalCategories     int `json:"total_categories"`
	TotalVenues         int `json:"total_venues"`
	UpcomingOccurrences int `json:"upcoming_occurrences"`
}

// AggregateSource supplies the five dataset aggregates the insight context is
// built from.
type AggregateSource interface {
	CategoryCounts(ctx context.Context) ([]core.CategoryEntry, error)
	LocationCounts(ctx context.Context) ([]LocationCount, error)
	UpcomingDateRange(ctx context.Context) (DateRange, error)
	PopularEvents(ctx context.Context) ([]PopularEvent, error)
	DatasetStats(ctx context.Context) (Stats, error)
}

// Generator refreshes the cache from the aggregate source and renders the
// prompt context. Aggregate failures degrade to empty sections; the
// conversation must not die because a statistics query hiccuped.
type Generator struct {
	source AggregateSource
	cache  *Cache
}

func NewGenerator(source AggregateSource, cache *Cache) *Generator {
	return &Generator{source: source, cache: cache}
}

func (g *Generator) Cache() *Cache { return g.cache }

// Ensure returns all live insights, regenerating the whole set whenever any
// kind is missing or expired. Batch regeneration amortizes the aggregate
// queries at the cost of refreshing fresh kinds early; the staleness window
// stays within one TTL.
func (g *Generator) Ensure(ctx context.Context) map[Kind]Insight {
	current := g.cache.GetAll()
	if len(current) == len(Kinds()) {
		return current
	}
	g.RefreshAll(ctx)
	return g.cache.GetAll()
}

// RefreshAll regenerates every insight kind and publishes the results.
func (g *Generator) RefreshAll(ctx context.Context) {
	logger := log.FromCtx(ctx)

	categories, err := g.source.CategoryCounts(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("categories insight failed")
	}
	g.cache.Set(KindCategories, Insight{
		Payload: categories,
		Summary: categoriesSummary(categories),
	})

	locations, err := g.source.LocationCounts(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("locations insight failed")
	}
	g.cache.Set(KindLocations, Insight{
		Payload: locations,
		Summary: locationsSummary(locations),
	})

	dateRange, err := g.source.UpcomingDateRange(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("date range insight failed")
	}
	g.cache.Set(KindDateRanges, Insight{
		Payload: dateRange,
		Summary: dateRangeSummary(dateRange),
	})

	popular, err := g.source.PopularEvents(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("popular events insight failed")
	}
	g.cache.Set(KindPopular, Insight{
		Payload: popular,
		Summary: popularSummary(popular),
	})

	stats, err := g.source.DatasetStats(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("statistics insight failed")
	}
	g.cache.Set(KindStatistics, Insight{
		Payload: stats,
		Summary: statsSummary(stats, err == nil),
	})
}

// Categories returns the cached category entries for the matcher, refreshing
// when needed.
func (g *Generator) Categories(ctx context.Context) []core.CategoryEntry {
	all := g.Ensure(ctx)
	insight, ok := all[KindCategories]
	if !ok {
		return nil
	}
	entries, _ := insight.Payload.([]core.CategoryEntry)
	return entries
}

// ContextSummary compiles the live insights into the natural-language block
// fed to query generation and the agent prompt.
func (g *Generator) ContextSummary(ctx context.Context) string {
	return CompileContext(g.Ensure(ctx))
}

// CompileContext renders insight summaries plus the semantic matching guide.
func CompileContext(all map[Kind]Insight) string {
	var summaries []string
	for _, kind := range Kinds() {
		if insight, ok := all[kind]; ok && insight.Summary != "" {
			summaries = append(summaries, insight.Summary)
		}
	}
	if len(summaries) == 0 {
		return "No database insights available."
	}

	var b strings.Builder
	b.WriteString("DATABASE CONTEXT:")
	for _, s := range summaries {
		b.WriteString("\n- ")
		b.WriteString(s)
	}

	categoriesInsight, ok := all[KindCategories]
	if !ok {
		return b.String()
	}
	entries, _ := categoriesInsight.Payload.([]core.CategoryEntry)
	if len(entries) == 0 {
		return b.String()
	}

	b.WriteString("\n\nSEMANTIC MATCHING GUIDE:")
	b.WriteString("\n- When users search with category-like terms, match them to the EXACT category names listed above")
	b.WriteString("\n- Examples of semantic matches:")
	examples := 0
	for _, entry := range entries {
		if entry.Name == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("\n  '%s' → '%s'", searchVariation(entry.Name), entry.Name))
		examples++
		if examples == 5 {
			break
		}
	}
	return b.String()
}

func categoriesSummary(categories []core.CategoryEntry) string {
	if len(categories) == 0 {
		return "No categories available"
	}
	parts := make([]string, 0, len(categories))
	for _, c := range categories {
		parts = append(parts, fmt.Sprintf("%s (%d events)", c.Name, c.Count))
	}
	return "Available categories: " + strings.Join(parts, ", ")
}

func locationsSummary(locations []LocationCount) string {
	if len(locations) == 0 {
		return "No locations available"
	}
	parts := make([]string, 0, len(locations))
	for _, l := range locations {
		parts = append(parts, fmt.Sprintf("%s (%d events)", l.City, l.EventCount))
	}
	return "Events available in: " + strings.Join(parts, ", ")
}

func dateRangeSummary(r DateRange) string {
	if r.TotalUpcoming == 0 {
		return "No upcoming events available"
	}
	earliest := "now"
	if !r.Earliest.IsZero() {
		earliest = r.Earliest.Format("2006-01-02")
	}
	latest := "future"
	if !r.Latest.IsZero() {
		latest = r.Latest.Format("2006-01-02")
	}
	return fmt.Sprintf("%d upcoming events from %s to %s", r.TotalUpcoming, earliest, latest)
}

func popularSummary(popular []PopularEvent) string {
	if len(popular) == 0 {
		return "No popular events"
	}
	limit := len(popular)
	if limit > 5 {
		limit = 5
	}
	parts := make([]string, 0, limit)
	for _, p := range popular[:limit] {
		parts = append(parts, fmt.Sprintf("%s (%s)", p.Name, p.Category))
	}
	return "Featured upcoming events: " + strings.Join(parts, ", ")
}

func statsSummary(s Stats, ok bool) string {
	if !ok {
		return "No statistics available"
	}
	return fmt.Sprintf("Database contains %d published events across %d categories, %d venues, with %d upcoming occurrences",
		s.TotalEvents, s.TotalCategories, s.TotalVenues, s.UpcomingOccurrences)
}

// searchVariation guesses the phrasing a user would type for a category name,
// mirroring how people drop plurals.
func searchVariation(name string) string {
	base := strings.ToLower(name)
	for _, plural := range []string{"concerts", "exhibitions", "workshops", "conferences"} {
		if strings.Contains(base, plural) {
			return strings.Replace(base, plural, strings.TrimSuffix(plural, "s"), 1)
		}
	}
	if strings.HasSuffix(base, "s") {
		return strings.TrimSuffix(base, "s")
	}
	return base
}
