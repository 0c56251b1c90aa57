package enquiry

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/xavierau/chatbot-showeasy/internal/core"
)

// Keyword lists for enquiry-type inference. This is a tunable heuristic
// classifier, not a guaranteed-correct rule; boundary tests pin the current
// behavior.
var (
	groupWords = []string{"group", "corporate", "company", "team", "bulk", "colleagues", "staff"}

	// groupCountWords are the nouns that make a large number mean "many
	// attendees" rather than, say, a phone number.
	groupCountWords = []string{"people", "persons", "tickets", "seats", "guests", "attendees", "pax"}

	specialWords = []string{
		"wheelchair", "accessible", "accessibility", "vip", "private",
		"special accommodation", "special request", "hearing loop", "companion",
	}

	reservationWords = []string{"reservation", "reserve", "table", "dining", "dinner", "lunch"}
)

var numberPattern = regexp.MustCompile(`\d+`)

// ClassifyType infers the enquiry type from the message. eventMode selects
// the default when nothing matches: ticket_booking for event-identified
// enquiries, custom_booking for merchant-identified ones.
func ClassifyType(message string, eventMode bool) string {
	lowered := strings.ToLower(message)

	if containsAny(lowered, specialWords) {
		return core.EnquiryTypeSpecialRequest
	}
	if containsAny(lowered, groupWords) || hasGroupSizedNumber(lowered) {
		return core.EnquiryTypeGroupBooking
	}
	if !eventMode && containsAny(lowered, reservationWords) {
		return core.EnquiryTypeRestaurantReservation
	}

	if eventMode {
		return core.EnquiryTypeTicketBooking
	}
	return core.EnquiryTypeCustomBooking
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// hasGroupSizedNumber reports whether the message mentions a number of at
// least 10 directly adjacent to an attendee word. A bare large number (a
// phone number, a year) is not a group signal.
func hasGroupSizedNumber(lowered string) bool {
	tokens := strings.Fields(lowered)
	for i, token := range tokens {
		digits := numberPattern.FindString(token)
		if digits == "" {
			continue
		}
		n, err := strconv.Atoi(digits)
		if err != nil || n < 10 {
			continue
		}
		for _, j := range []int{i - 1, i + 1} {
			if j < 0 || j >= len(tokens) {
				continue
			}
			neighbor := strings.Trim(tokens[j], ".,!?")
			for _, w := range groupCountWords {
				if neighbor == w {
					return true
				}
			}
		}
	}
	return false
}
