package core

import "encoding/json"

const (
	AppName      = "showeasy-chatbot"
	AppHomepage  = "https://showeasy.ai"
	AppUserAgent = "ShowEasy-Chatbot/1.0"
	AppVersion   = "1.0.0"

	SupportEmail = "info@showeasy.ai"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Function describes a callable capability in the wire format chat providers
// expect. Parameters is a JSON Schema document.
type Function struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters"`
}

type Tool struct {
	Type     string   `json:"type"`
	Function Function `json:"function"`
}

type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Message is one conversation turn. Tool fields are only populated on
// assistant turns that request capability calls and on the tool-result turns
// answering them.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	Reasoning  string     `json:"reasoning,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// SearchCriteria is the structured event-search request. Every field is
// optional but at least one must be populated; an absent Query is derived
// from the rest.
type SearchCriteria struct {
	Query         string   `json:"query,omitempty"`
	Location      string   `json:"location,omitempty"`
	Date          string   `json:"date,omitempty"`
	Category      string   `json:"category,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	IsOnline      *bool    `json:"is_online,omitempty"`
	MaxPrice      int      `json:"max_price,omitempty"`
	OrganizerName string   `json:"organizer_name,omitempty"`
	VenueName     string   `json:"venue_name,omitempty"`
}

// Empty reports whether no criteria field is populated.
func (c SearchCriteria) Empty() bool {
	return c.Query == "" && c.Location == "" && c.Date == "" && c.Category == "" &&
		len(c.Tags) == 0 && c.IsOnline == nil && c.MaxPrice == 0 &&
		c.OrganizerName == "" && c.VenueName == ""
}

// GeneratedQuery is one synthesis attempt: the query text produced, which
// attempt it was, and the execution error of the attempt before it. Discarded
// after execution; only the last successful text survives in the result.
type GeneratedQuery struct {
	Text       string
	Attempt    int
	PriorError string
}

// CategoryEntry is a canonical category label with its event count, sourced
// from live aggregate data. Read-only input to the matcher.
type CategoryEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// GuardrailVerdict is the outcome of one guardrail invocation. Immutable once
// returned, never persisted.
type GuardrailVerdict struct {
	Acceptable       bool   `json:"acceptable"`
	ViolationKind    string `json:"violation_kind,omitempty"`
	UserMessage      string `json:"user_message,omitempty"`
	SanitizedContent string `json:"sanitized_content,omitempty"`
}

// ToolCallRecord is one executed capability invocation inside a single agent
// turn. Records live only for that turn's trajectory.
type ToolCallRecord struct {
	Iteration  int             `json:"iteration"`
	Capability string          `json:"capability"`
	Arguments  json.RawMessage `json:"arguments"`
	Result     string          `json:"result"`
}
