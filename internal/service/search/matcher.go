package search

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/xavierau/chatbot-showeasy/internal/core"
)

// similarityThreshold is the minimum score a candidate needs to count as a
// category match.
const similarityThreshold = 0.6

const (
	substringBoost = 0.7
	synonymBoost   = 0.75
)

// categorySynonyms maps significant category words to the phrasings users
// actually type.
var categorySynonyms = map[string][]string{
	"exhibition": {"show", "exhibit", "display", "gallery"},
	"concert":    {"show", "performance", "gig"},
	"workshop":   {"class", "training", "session"},
	"conference": {"summit", "meeting", "convention"},
}

// FindBestMatch maps a free-text phrase to a canonical category label, or
// returns false when nothing clears the threshold. Pure function; ties keep
// the first candidate seen.
func FindBestMatch(query string, categories []core.CategoryEntry) (string, bool) {
	if query == "" || len(categories) == 0 {
		return "", false
	}

	var best string
	highest := 0.0

	for _, category := range categories {
		if category.Name == "" {
			continue
		}

		score := similarity(query, category.Name)
		for _, variation := range nameVariations(category.Name) {
			if s := similarity(query, variation); s > score {
				score = s
			}
		}

		queryLower := strings.ToLower(query)
		nameLower := strings.ToLower(category.Name)
		if strings.Contains(nameLower, queryLower) || strings.Contains(queryLower, nameLower) {
			if substringBoost > score {
				score = substringBoost
			}
		}

		if s := synonymScore(query, category.Name); s > score {
			score = s
		}

		if score > highest {
			highest = score
			best = category.Name
		}
	}

	if highest >= similarityThreshold {
		return best, true
	}
	return "", false
}

// EnrichQuery appends the matched canonical category as a hint, leaving the
// user's own phrasing intact. No-op when the query already names the category.
func EnrichQuery(query string, categories []core.CategoryEntry) string {
	matched, ok := FindBestMatch(query, categories)
	if !ok {
		return query
	}
	if strings.Contains(strings.ToLower(query), strings.ToLower(matched)) {
		return query
	}
	return query + " (category: " + matched + ")"
}

// similarity is the case-insensitive edit-similarity ratio between two
// strings, character-level.
func similarity(a, b string) float64 {
	return difflib.NewMatcher(
		strings.Split(strings.ToLower(a), ""),
		strings.Split(strings.ToLower(b), ""),
	).Ratio()
}

// nameVariations lists the spellings a category is commonly typed as:
// lowercase, singular/plural toggled, and leading articles stripped.
func nameVariations(name string) []string {
	lower := strings.ToLower(name)
	variations := []string{lower}

	if strings.HasSuffix(lower, "s") {
		variations = append(variations, strings.TrimSuffix(lower, "s"))
	} else {
		variations = append(variations, lower+"s")
	}

	for _, article := range []string{"the ", "a ", "an "} {
		if strings.HasPrefix(lower, article) {
			variations = append(variations, strings.TrimPrefix(lower, article))
		}
	}
	return variations
}

// synonymScore grants the fixed boost when the query uses a known synonym of
// a significant category word. Multi-word queries must also share at least
// one token with the category so "show" alone cannot pull in every category.
func synonymScore(query, categoryName string) float64 {
	queryLower := strings.ToLower(query)
	nameLower := strings.ToLower(categoryName)

	queryWords := tokenSet(queryLower)
	nameWords := tokenSet(nameLower)

	for keyWord, synonyms := range categorySynonyms {
		if !strings.Contains(nameLower, keyWord) {
			continue
		}
		for _, synonym := range synonyms {
			if !queryWords[synonym] {
				continue
			}
			if len(queryWords) == 1 || sharesToken(queryWords, nameWords) {
				return synonymBoost
			}
		}
	}
	return 0
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

func sharesToken(a, b map[string]bool) bool {
	for tok := range a {
		if b[tok] {
			return true
		}
	}
	return false
}
