package mcp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierau/chatbot-showeasy/internal/core"
)

func TestGetTransport(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServerConfig
		want    TransportType
		wantErr bool
	}{
		{name: "url defaults to http", cfg: ServerConfig{URL: "https://example.com/mcp"}, want: TransportHTTP},
		{name: "url with sse", cfg: ServerConfig{URL: "https://example.com/sse", Transport: "sse"}, want: TransportSSE},
		{name: "command means stdio", cfg: ServerConfig{Command: "npx"}, want: TransportStdio},
		{name: "url wins over command", cfg: ServerConfig{URL: "https://example.com", Command: "npx"}, want: TransportHTTP},
		{name: "empty is invalid", cfg: ServerConfig{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.GetTransport()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("empty path means feature off", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Empty(t, cfg.MCPServers)
	})

	t.Run("missing file means feature off", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
		require.NoError(t, err)
		assert.Empty(t, cfg.MCPServers)
	})

	t.Run("parses servers", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mcp.json")
		data := `{"mcpServers":{"tickets":{"url":"https://mcp.example.com","headers":{"Authorization":"Bearer x"}},"local":{"command":"npx","args":["-y","server"]}}}`
		require.NoError(t, os.WriteFile(path, []byte(data), 0644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.Len(t, cfg.MCPServers, 2)
		assert.Equal(t, "https://mcp.example.com", cfg.MCPServers["tickets"].URL)
		assert.Equal(t, "Bearer x", cfg.MCPServers["tickets"].Headers["Authorization"])
		assert.Equal(t, []string{"-y", "server"}, cfg.MCPServers["local"].Args)
	})

	t.Run("malformed json errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mcp.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

		_, err := LoadConfig(path)
		require.Error(t, err)
	})
}

func TestToolCache(t *testing.T) {
	c := newToolCache()

	_, _, ok := c.get()
	assert.False(t, ok, "fresh cache should be invalid")

	tools := []core.Tool{{Type: "function", Function: core.Function{Name: "lookup_seats"}}}
	routing := map[string]string{"lookup_seats": "tickets"}
	c.update(tools, routing)

	gotTools, gotRouting, ok := c.get()
	require.True(t, ok)
	require.Len(t, gotTools, 1)
	assert.Equal(t, "lookup_seats", gotTools[0].Function.Name)
	assert.Equal(t, "tickets", gotRouting["lookup_seats"])

	// Mutating what came out must not leak back in.
	gotRouting["lookup_seats"] = "other"
	_, again, _ := c.get()
	assert.Equal(t, "tickets", again["lookup_seats"])

	c.invalidate()
	_, _, ok = c.get()
	assert.False(t, ok)
}

func TestManagerDisabledWhenNoServers(t *testing.T) {
	mgr := NewManager(Config{MCPServers: map[string]ServerConfig{}})
	assert.False(t, mgr.Enabled())

	mgr = NewManager(Config{MCPServers: map[string]ServerConfig{
		"tickets": {URL: "https://mcp.example.com"},
	}})
	assert.True(t, mgr.Enabled())
}
