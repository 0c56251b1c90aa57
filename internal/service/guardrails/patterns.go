package guardrails

import "regexp"

// Violation kinds reported in verdicts.
const (
	ViolationPromptInjection = "prompt_injection"
	ViolationOutOfScope      = "out_of_scope"
	ViolationSystemLeakage   = "system_leakage"
	ViolationCompetitor      = "competitor_mention"
	ViolationUnverifiable    = "unverifiable"
)

// Fixed user-facing redirects for Layer-1 input rejections.
const (
	injectionRedirect  = "I'm here to help you discover events and manage your tickets! Let me know what you're looking for."
	competitorRedirect = "I specialize in helping you find events on our platform! What kind of events are you interested in?"
)

// injectionPhrases is the fast deterministic injection screen. Matched
// case-insensitively against the whole message.
var injectionPhrases = []string{
	"ignore previous instructions",
	"ignore all previous",
	"forget everything",
	"system prompt",
	"you are now",
	"act as a",
	"pretend you are",
	"roleplay as",
	"your instructions are",
	"disregard all",
	"new instructions:",
	"admin mode",
	"developer mode",
	"jailbreak",
}

// competitorNames are platforms we never discuss or recommend. The input
// screen matches exactly this list; the output redaction additionally covers
// defunct brands that still show up in model output.
var competitorNames = []string{
	"eventbrite",
	"ticketmaster",
	"stubhub",
	"seatgeek",
	"vivid seats",
	"ticketek",
	"axs.com",
}

var redactedCompetitorNames = append([]string{"ticketfly"}, competitorNames...)

const competitorReplacement = "[external platform]"

var competitorPattern = func() *regexp.Regexp {
	alt := ""
	for i, name := range redactedCompetitorNames {
		if i > 0 {
			alt += "|"
		}
		alt += regexp.QuoteMeta(name)
	}
	return regexp.MustCompile("(?i)" + alt)
}()

// Output-direction leakage screens: anything that smells like our query
// language, schema or credentials must not reach the user.
var (
	sqlBlockPattern   = regexp.MustCompile("(?is)```sql.*?```")
	selectFromPattern = regexp.MustCompile(`(?is)SELECT\s+.*?\s+FROM\s+\S+`)

	leakageIndicators = []*regexp.Regexp{
		regexp.MustCompile(`(?i)database schema`),
		regexp.MustCompile(`(?i)system prompt`),
		regexp.MustCompile(`(?i)instructions:`),
		regexp.MustCompile(`(?i)api[_\s]?key`),
		regexp.MustCompile(`(?i)token:`),
		regexp.MustCompile(`(?i)password:`),
		regexp.MustCompile(`(?i)secret:`),
		regexp.MustCompile(`(?i)\bmysql\b`),
		regexp.MustCompile(`(?i)connection string`),
	}
)
