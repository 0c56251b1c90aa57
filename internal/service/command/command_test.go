package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierau/chatbot-showeasy/internal/config"
	"github.com/xavierau/chatbot-showeasy/internal/core"
	"github.com/xavierau/chatbot-showeasy/internal/service/insights"
)

type fakeStore struct {
	cleared []string
}

func (s *fakeStore) History(context.Context, string) ([]core.Message, error) { return nil, nil }

func (s *fakeStore) Append(context.Context, string, ...core.Message) error { return nil }

func (s *fakeStore) Clear(_ context.Context, sessionID string) error {
	s.cleared = append(s.cleared, sessionID)
	return nil
}

type fakeSource struct{}

func (fakeSource) CategoryCounts(context.Context) ([]core.CategoryEntry, error) {
	return []core.CategoryEntry{{Name: "Music Concerts", Count: 3}}, nil
}
func (fakeSource) LocationCounts(context.Context) ([]insights.LocationCount, error) {
	return nil, nil
}
func (fakeSource) UpcomingDateRange(context.Context) (insights.DateRange, error) {
	return insights.DateRange{}, nil
}
func (fakeSource) PopularEvents(context.Context) ([]insights.PopularEvent, error) { return nil, nil }
func (fakeSource) DatasetStats(context.Context) (insights.Stats, error) {
	return insights.Stats{TotalEvents: 3}, nil
}

func testRouter() (*Router, *fakeStore) {
	store := &fakeStore{}
	generator := insights.NewGenerator(fakeSource{}, insights.NewCache(time.Minute))
	cfg := &config.ExperimentConfig{Enabled: true, Module: "agent", RatioA: 100}
	return NewRouter(store, generator, cfg), store
}

func TestRouterIgnoresPlainText(t *testing.T) {
	router, _ := testRouter()
	_, handled := router.Execute(context.Background(), "s-1", "u-1", "find me jazz events")
	assert.False(t, handled)
}

func TestRouterUnknownCommand(t *testing.T) {
	router, _ := testRouter()
	out, handled := router.Execute(context.Background(), "s-1", "u-1", "/bogus")
	assert.True(t, handled)
	assert.Contains(t, out, "Unknown command: /bogus")
}

func TestHelpListsEverything(t *testing.T) {
	router, _ := testRouter()
	out, handled := router.Execute(context.Background(), "s-1", "u-1", "/help")
	require.True(t, handled)
	for _, name := range []string{"/help", "/clear", "/insights", "/variant", "/quit"} {
		assert.Contains(t, out, name)
	}
}

func TestClearWipesSession(t *testing.T) {
	router, store := testRouter()
	out, handled := router.Execute(context.Background(), "s-42", "u-1", "/clear")
	require.True(t, handled)
	assert.Contains(t, out, "Conversation cleared")
	assert.Equal(t, []string{"s-42"}, store.cleared)
}

func TestInsightsDumpsCache(t *testing.T) {
	router, _ := testRouter()
	out, handled := router.Execute(context.Background(), "s-1", "u-1", "/insights")
	require.True(t, handled)
	assert.Contains(t, out, "Music Concerts")
}

func TestVariantShowsAssignment(t *testing.T) {
	router, _ := testRouter()

	out, handled := router.Execute(context.Background(), "s-1", "u-1", "/variant agent")
	require.True(t, handled)
	assert.Contains(t, out, "variant_a")

	out, handled = router.Execute(context.Background(), "s-1", "u-1", "/variant")
	require.True(t, handled)
	assert.Contains(t, out, "pre_guardrails")
	assert.Contains(t, out, "agent")

	out, handled = router.Execute(context.Background(), "s-1", "u-1", "/variant bogus")
	require.True(t, handled)
	assert.Contains(t, out, "Error:")
}
