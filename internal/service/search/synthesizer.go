package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xavierau/chatbot-showeasy/internal/core"
	"github.com/xavierau/chatbot-showeasy/internal/service/insights"
	"github.com/xavierau/chatbot-showeasy/internal/service/reason"
	"github.com/xavierau/chatbot-showeasy/pkg/log"
)

// maxAttempts bounds query synthesis: never more than this many executions
// per call, feedback or not.
const maxAttempts = 3

// schemaDescription is the fixed schema contract the generator writes SQL
// against. The aliases are mandatory because the result formatter reads rows
// by these names.
const schemaDescription = `Database: SQLite.
Tables:
- events(id, name, slug, description, category_id, organizer_id, event_status, visibility, is_online, tags, base_price)
  name, slug and description are JSON objects keyed by locale, e.g. {"en": "...", "zh_tw": "..."}. Use json_extract(name, '$.en').
- categories(id, name)
- venues(id, name, city)
- event_occurrences(id, event_id, venue_id, start_time, end_time)
- organizers(id, name, contact_email)  name is a JSON locale object.

Rules:
- Only SELECT statements.
- Match text case-insensitively with LOWER(...) LIKE '%...%'.
- Only published events: event_status = 'published' AND visibility = 'public'.
- Select these aliases exactly: events.id AS id, json_extract(events.slug, '$.en') AS slug, json_extract(events.name, '$.en') AS event_name, json_extract(events.description, '$.en') AS description, venues.city AS city, event_occurrences.start_time AS start_time.
- ORDER BY start_time ASC LIMIT 10.`

var synthesizeQueryContract = reason.Contract{
	Name: "synthesize-query",
	Task: "Write one SQLite SELECT statement that finds the events described by the search criteria. Follow the schema rules exactly. If a previous attempt and its error are given, fix that error.",
	Inputs: []reason.Field{
		{Name: "criteria", Description: "structured search criteria"},
		{Name: "schema", Description: "database schema and query rules"},
		{Name: "database_context", Description: "live dataset insights"},
		{Name: "previous_query", Description: "the query from the failed attempt"},
		{Name: "execution_error", Description: "the exact error the previous query produced"},
	},
	Outputs: []reason.Field{
		{Name: "query", Description: "the SQL SELECT statement, nothing else"},
	},
}

type generatedSQL struct {
	Query string `json:"query"`
}

// Synthesizer turns structured criteria into an executed query, retrying
// generation with the execution error fed back in.
type Synthesizer struct {
	provider  core.ChatProvider
	executor  core.QueryExecutor
	insights  *insights.Generator
	formatter *ResultFormatter
}

func NewSynthesizer(provider core.ChatProvider, executor core.QueryExecutor, gen *insights.Generator, formatter *ResultFormatter) *Synthesizer {
	return &Synthesizer{
		provider:  provider,
		executor:  executor,
		insights:  gen,
		formatter: formatter,
	}
}

// SynthesizeAndExecute resolves criteria to a formatted result summary. An
// empty result set is a success; exhausting every attempt returns an error
// wrapping core.ErrQuerySynthesisExhausted.
func (s *Synthesizer) SynthesizeAndExecute(ctx context.Context, criteria core.SearchCriteria) (string, error) {
	if criteria.Empty() {
		return "", fmt.Errorf("search criteria: at least one field must be set")
	}

	logger := log.FromCtx(ctx)

	if criteria.Query == "" {
		criteria.Query = DeriveQuery(criteria)
		logger.Debug().Str("query", criteria.Query).Msg("derived query from criteria")
	}
	criteria.Query = EnrichQuery(criteria.Query, s.insights.Categories(ctx))

	criteriaJSON, err := json.Marshal(criteria)
	if err != nil {
		return "", fmt.Errorf("marshal criteria: %w", err)
	}
	dbContext := s.insights.ContextSummary(ctx)

	var attempts []core.GeneratedQuery
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		gq := core.GeneratedQuery{Attempt: attempt}
		if n := len(attempts); n > 0 {
			gq.PriorError = attempts[n-1].PriorError
		}

		inputs := []reason.Input{
			{Name: "criteria", Value: string(criteriaJSON)},
			{Name: "schema", Value: schemaDescription},
			{Name: "database_context", Value: dbContext},
		}
		if n := len(attempts); n > 0 {
			inputs = append(inputs,
				reason.Input{Name: "previous_query", Value: attempts[n-1].Text},
				reason.Input{Name: "execution_error", Value: attempts[n-1].PriorError},
			)
		}

		generated, err := reason.Invoke[generatedSQL](ctx, s.provider, synthesizeQueryContract, inputs)
		if err != nil {
			return "", fmt.Errorf("synthesize query: %w", err)
		}
		gq.Text = reason.StripFences(generated.Query)

		rows, execErr := s.executor.Execute(ctx, gq.Text)
		if execErr == nil {
			logger.Debug().Int("attempt", attempt).Int("rows", len(rows)).Msg("query executed")
			if len(rows) == 0 {
				return s.noResults(ctx), nil
			}
			return s.formatter.Format(rows), nil
		}

		logger.Warn().Err(execErr).Int("attempt", attempt).Msg("query execution failed")
		gq.PriorError = execErr.Error()
		attempts = append(attempts, gq)
	}

	last := attempts[len(attempts)-1]
	return "", fmt.Errorf("%w after %d attempts: %s", core.ErrQuerySynthesisExhausted, maxAttempts, last.PriorError)
}

// noResults is still a success: tell the user nothing matched and offer what
// the dataset does have.
func (s *Synthesizer) noResults(ctx context.Context) string {
	summary := "No events found matching the specified criteria."
	all := s.insights.Cache().GetAll()

	var hints []string
	if in, ok := all[insights.KindCategories]; ok && in.Summary != "" {
		hints = append(hints, in.Summary)
	}
	if in, ok := all[insights.KindPopular]; ok && in.Summary != "" {
		hints = append(hints, in.Summary)
	}
	if len(hints) == 0 {
		return summary
	}
	return summary + " You might be interested in: " + strings.Join(hints, ". ")
}

// DeriveQuery builds a descriptive phrase from the populated criteria fields
// when the caller supplied none. Deterministic: field order is fixed.
func DeriveQuery(c core.SearchCriteria) string {
	var parts []string
	if c.Category != "" {
		parts = append(parts, c.Category+" events")
	} else {
		parts = append(parts, "events")
	}
	if c.Location != "" {
		parts = append(parts, "in "+c.Location)
	}
	if c.VenueName != "" {
		parts = append(parts, "at "+c.VenueName)
	}
	if c.Date != "" {
		parts = append(parts, "on "+c.Date)
	}
	if c.OrganizerName != "" {
		parts = append(parts, "by "+c.OrganizerName)
	}
	if len(c.Tags) > 0 {
		parts = append(parts, "tagged "+strings.Join(c.Tags, ", "))
	}
	if c.IsOnline != nil {
		if *c.IsOnline {
			parts = append(parts, "online")
		} else {
			parts = append(parts, "in person")
		}
	}
	if c.MaxPrice > 0 {
		parts = append(parts, fmt.Sprintf("under %d", c.MaxPrice))
	}
	return strings.Join(parts, " ")
}
