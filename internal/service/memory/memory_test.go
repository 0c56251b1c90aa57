package memory

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierau/chatbot-showeasy/internal/core"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	history, err := store.History(ctx, "fresh-session")
	require.NoError(t, err)
	assert.Empty(t, history)

	err = store.Append(ctx, "sess-1",
		core.Message{Role: core.RoleUser, Content: "any jazz this weekend?"},
		core.Message{Role: core.RoleAssistant, Content: "Let me check."},
	)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, "sess-1",
		core.Message{Role: core.RoleUser, Content: "something cheaper?"}))

	history, err = store.History(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "any jazz this weekend?", history[0].Content)
	assert.Equal(t, "something cheaper?", history[2].Content)

	require.NoError(t, store.Clear(ctx, "sess-1"))
	history, err = store.History(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, history)

	// Clearing twice is fine.
	require.NoError(t, store.Clear(ctx, "sess-1"))
}

func TestFileStoreSanitizesSessionID(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	err = store.Append(ctx, "../../etc/passwd",
		core.Message{Role: core.RoleUser, Content: "hi"})
	require.NoError(t, err)

	history, err := store.History(ctx, "../../etc/passwd")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := newRedisStore(t, time.Hour)
	ctx := context.Background()

	err := store.Append(ctx, "sess-r",
		core.Message{Role: core.RoleUser, Content: "hello"},
		core.Message{Role: core.RoleAssistant, Content: "hi there"},
	)
	require.NoError(t, err)

	history, err := store.History(ctx, "sess-r")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, core.RoleAssistant, history[1].Role)

	require.NoError(t, store.Clear(ctx, "sess-r"))
	history, err = store.History(ctx, "sess-r")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestRedisStoreTouchesTTL(t *testing.T) {
	store, mr := newRedisStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "sess-t",
		core.Message{Role: core.RoleUser, Content: "first"}))
	assert.Equal(t, time.Hour, mr.TTL(sessionKey("sess-t")))

	mr.FastForward(30 * time.Minute)
	require.NoError(t, store.Append(ctx, "sess-t",
		core.Message{Role: core.RoleUser, Content: "second"}))
	assert.Equal(t, time.Hour, mr.TTL(sessionKey("sess-t")))

	// Reading is activity too; a session being consulted must not expire.
	mr.FastForward(30 * time.Minute)
	_, err := store.History(ctx, "sess-t")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, mr.TTL(sessionKey("sess-t")))
}

func TestRedisStoreSkipsMalformedEntries(t *testing.T) {
	store, mr := newRedisStore(t, 0)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "sess-m",
		core.Message{Role: core.RoleUser, Content: "valid"}))
	_, err := mr.RPush(sessionKey("sess-m"), "not json at all")
	require.NoError(t, err)

	history, err := store.History(ctx, "sess-m")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "valid", history[0].Content)
}

func TestTrimToBudgetKeepsNewest(t *testing.T) {
	history := []core.Message{
		{Role: core.RoleUser, Content: strings.Repeat("old words here ", 200)},
		{Role: core.RoleAssistant, Content: strings.Repeat("middle reply text ", 200)},
		{Role: core.RoleUser, Content: "newest short turn"},
	}

	trimmed := TrimToBudget(history, 50, "cl100k_base")
	require.NotEmpty(t, trimmed)
	assert.Equal(t, "newest short turn", trimmed[len(trimmed)-1].Content)
	assert.Less(t, len(trimmed), len(history))
}

func TestTrimToBudgetZeroMeansUnlimited(t *testing.T) {
	history := []core.Message{
		{Role: core.RoleUser, Content: strings.Repeat("a lot of text ", 500)},
		{Role: core.RoleAssistant, Content: "ok"},
	}
	assert.Len(t, TrimToBudget(history, 0, "cl100k_base"), 2)
}
