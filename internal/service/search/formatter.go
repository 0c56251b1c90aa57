package search

import (
	"fmt"
	"strings"
)

// utmSuffix tags every constructed link so downstream analytics can tell
// chatbot traffic apart.
const utmSuffix = "utm_source=chatbot&utm_medium=ai&utm_campaign=event_search"

// ResultFormatter renders query rows into the human-readable summaries the
// agent relays. Every row gets exactly one platform link.
type ResultFormatter struct {
	baseURL string
}

func NewResultFormatter(baseURL string) *ResultFormatter {
	return &ResultFormatter{baseURL: strings.TrimRight(baseURL, "/")}
}

// Format renders all rows under a count header.
func (f *ResultFormatter) Format(rows []map[string]any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d events. Details:", len(rows))
	for _, row := range rows {
		b.WriteString("\n")
		b.WriteString(f.formatRow(row))
	}
	return b.String()
}

func (f *ResultFormatter) formatRow(row map[string]any) string {
	return fmt.Sprintf("Event: '%s', Description: '%s', Location: '%s', Starts on: '%s', Link: %s",
		columnString(row, "event_name"),
		columnString(row, "description"),
		columnString(row, "city"),
		columnString(row, "start_time"),
		f.eventLink(row),
	)
}

// eventLink builds the resource link from the slug, falling back to the id
// when the slug is absent. One identifier, never both, never neither.
func (f *ResultFormatter) eventLink(row map[string]any) string {
	ident := columnString(row, "slug")
	if ident == "" {
		ident = columnString(row, "id")
	}
	return fmt.Sprintf("%s/events/%s?%s", f.baseURL, ident, utmSuffix)
}

// columnString renders one column value, absorbing the types the sqlite
// driver actually hands back.
func columnString(row map[string]any, name string) string {
	v, ok := row[name]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return fmt.Sprintf("%d", t)
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
