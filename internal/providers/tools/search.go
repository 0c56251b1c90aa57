package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xavierau/chatbot-showeasy/internal/core"
	"github.com/xavierau/chatbot-showeasy/internal/service/search"
)

const searchEventsSchema = `
{
  "type": "object",
  "properties": {
    "query": { "type": "string", "description": "Free-text search terms" },
    "location": { "type": "string", "description": "City or area name" },
    "date": { "type": "string", "description": "Date or date expression, e.g. 2026-09-12 or 'this weekend'" },
    "category": { "type": "string", "description": "Event category name" },
    "tags": { "type": "array", "items": { "type": "string" }, "description": "Tag keywords" },
    "is_online": { "type": "boolean", "description": "Restrict to online or in-person events" },
    "max_price": { "type": "integer", "description": "Maximum ticket price" },
    "organizer_name": { "type": "string", "description": "Organizer name" },
    "venue_name": { "type": "string", "description": "Venue name" }
  }
}
`

// Search exposes event search to the reasoning loop. Caller mistakes come
// back as payloads the loop can read and correct, not as errors.
type Search struct {
	synthesizer *search.Synthesizer
}

func NewSearch(synthesizer *search.Synthesizer) *Search {
	return &Search{synthesizer: synthesizer}
}

func (s *Search) SearchEvents(ctx context.Context, args json.RawMessage) (string, error) {
	var criteria core.SearchCriteria
	if err := json.Unmarshal(args, &criteria); err != nil {
		return errorPayload(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if criteria.Empty() {
		return errorPayload("at least one search field is required, e.g. query, location, date or category"), nil
	}

	result, err := s.synthesizer.SynthesizeAndExecute(ctx, criteria)
	if err != nil {
		return "", err
	}
	return result, nil
}

func (s *Search) GetDefinitions() map[string]struct {
	Description string
	Schema      string
	Handler     func(context.Context, json.RawMessage) (string, error)
} {
	return map[string]struct {
		Description string
		Schema      string
		Handler     func(context.Context, json.RawMessage) (string, error)
	}{
		"search_events": {"Search the event catalogue. Provide any combination of query, location, date, category, tags, is_online, max_price, organizer_name or venue_name.", searchEventsSchema, s.SearchEvents},
	}
}

// errorPayload renders a caller mistake as JSON so the loop can adjust its
// next call instead of aborting.
func errorPayload(msg string) string {
	data, _ := json.Marshal(map[string]string{"error": msg})
	return string(data)
}
