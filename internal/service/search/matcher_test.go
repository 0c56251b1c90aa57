package search

import (
	"testing"

	"github.com/xavierau/chatbot-showeasy/internal/core"
)

func fixtureCategories() []core.CategoryEntry {
	return []core.CategoryEntry{
		{Name: "Tech Conferences", Count: 4},
		{Name: "Art Exhibitions", Count: 3},
		{Name: "Workshops", Count: 2},
		{Name: "Music Concerts", Count: 1},
	}
}

func TestFindBestMatch(t *testing.T) {
	categories := fixtureCategories()

	tests := []struct {
		name    string
		query   string
		want    string
		wantOk  bool
	}{
		{"exact match", "Music Concerts", "Music Concerts", true},
		{"case insensitive", "music concerts", "Music Concerts", true},
		{"singular form", "workshop", "Workshops", true},
		{"plural keyword", "concert", "Music Concerts", true},
		{"close phrasing", "musical concert", "Music Concerts", true},
		{"synonym phrase", "art show", "Art Exhibitions", true},
		{"compound near match", "tech conference", "Tech Conferences", true},
		{"below threshold", "cooking class", "", false},
		{"empty query", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindBestMatch(tt.query, categories)
			if ok != tt.wantOk || got != tt.want {
				t.Errorf("FindBestMatch(%q) = (%q, %v), want (%q, %v)",
					tt.query, got, ok, tt.want, tt.wantOk)
			}
		})
	}
}

func TestFindBestMatch_EmptyCategories(t *testing.T) {
	if got, ok := FindBestMatch("concert", nil); ok {
		t.Errorf("expected no match against empty categories, got %q", got)
	}
}

func TestFindBestMatch_Deterministic(t *testing.T) {
	categories := fixtureCategories()
	first, _ := FindBestMatch("musical concert", categories)
	for i := 0; i < 20; i++ {
		got, _ := FindBestMatch("musical concert", categories)
		if got != first {
			t.Fatalf("match changed between calls: %q then %q", first, got)
		}
	}
}

func TestFindBestMatch_TieKeepsFirstSeen(t *testing.T) {
	// Both candidates contain the query, so both score the substring boost.
	categories := []core.CategoryEntry{
		{Name: "Jazz Events"},
		{Name: "Jazz Evenings"},
	}
	got, ok := FindBestMatch("jazz", categories)
	if !ok || got != "Jazz Events" {
		t.Errorf("expected first-seen winner Jazz Events, got (%q, %v)", got, ok)
	}
}

func TestEnrichQuery(t *testing.T) {
	categories := fixtureCategories()

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"appends matched category", "musical concert", "musical concert (category: Music Concerts)"},
		{"no match leaves query alone", "cooking class", "cooking class"},
		{"already named category is not repeated", "music concerts this weekend", "music concerts this weekend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EnrichQuery(tt.query, categories); got != tt.want {
				t.Errorf("EnrichQuery(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}
