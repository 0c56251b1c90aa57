package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/client"
	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/xavierau/chatbot-showeasy/internal/core"
	"github.com/xavierau/chatbot-showeasy/pkg/log"
)

const (
	listToolsTimeout = 5 * time.Second
	callToolTimeout  = 2 * time.Minute
)

// Manager connects the configured external servers and exposes their tools
// as one core.CapabilityServer. Tool name collisions across servers resolve
// to whichever server answered last.
type Manager struct {
	mu      sync.RWMutex
	cfg     Config
	clients map[string]*client.Client
	cache   *toolCache
}

var _ core.CapabilityServer = (*Manager)(nil)

func NewManager(cfg Config) *Manager {
	return &Manager{
		cfg:     cfg,
		clients: make(map[string]*client.Client),
		cache:   newToolCache(),
	}
}

// Enabled reports whether any external server is configured.
func (m *Manager) Enabled() bool {
	return len(m.cfg.MCPServers) > 0
}

func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cache.invalidate()

	for name, srv := range m.cfg.MCPServers {
		transportType, err := srv.GetTransport()
		if err != nil {
			return fmt.Errorf("server %s: %w", name, err)
		}
		transport, err := NewTransport(transportType)
		if err != nil {
			return fmt.Errorf("server %s: %w", name, err)
		}

		log.FromCtx(ctx).Info().
			Str("server", name).
			Str("transport", string(transportType)).
			Msg("starting mcp connection")

		cli, err := transport(ctx, srv)
		if err != nil {
			return fmt.Errorf("failed to start %s: %w", name, err)
		}
		m.clients[name] = cli
	}
	return nil
}

func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for name, cli := range m.clients {
		if err := cli.Close(); err != nil {
			log.FromCtx(ctx).Error().Err(err).Str("server", name).Msg("failed to close client")
		}
	}
	return nil
}

func (m *Manager) GetTools(ctx context.Context) ([]core.Tool, error) {
	if tools, _, ok := m.cache.get(); ok {
		return tools, nil
	}

	tools, _, err := m.fetchTools(ctx)
	return tools, err
}

// fetchTools queries every connected server in parallel and refreshes the
// cache. A server that fails to answer is logged and skipped rather than
// failing the whole listing.
func (m *Manager) fetchTools(ctx context.Context) ([]core.Tool, map[string]string, error) {
	m.mu.RLock()
	snapshot := make(map[string]*client.Client, len(m.clients))
	for k, v := range m.clients {
		snapshot[k] = v
	}
	m.mu.RUnlock()

	type listResult struct {
		server string
		tools  []mcpproto.Tool
		err    error
	}
	results := make(chan listResult, len(snapshot))
	var wg sync.WaitGroup

	for name, cli := range snapshot {
		wg.Add(1)
		go func(n string, c *client.Client) {
			defer wg.Done()
			tCtx, cancel := context.WithTimeout(ctx, listToolsTimeout)
			defer cancel()

			resp, err := c.ListTools(tCtx, mcpproto.ListToolsRequest{})
			if err != nil {
				results <- listResult{server: n, err: err}
				return
			}
			results <- listResult{server: n, tools: resp.Tools}
		}(name, cli)
	}

	wg.Wait()
	close(results)

	var allTools []core.Tool
	routing := make(map[string]string)

	for res := range results {
		if res.err != nil {
			log.FromCtx(ctx).Error().Err(res.err).Str("server", res.server).Msg("failed to list tools")
			continue
		}

		for _, t := range res.tools {
			routing[t.Name] = res.server

			schemaBytes, _ := json.Marshal(t.InputSchema)
			allTools = append(allTools, core.Tool{
				Type: "function",
				Function: core.Function{
					Name:        t.Name,
					Description: t.Description,
					Parameters:  schemaBytes,
				},
			})
		}
	}

	m.cache.update(allTools, routing)
	return allTools, routing, nil
}

func (m *Manager) CallTool(ctx context.Context, name string, args string) (string, error) {
	log.FromCtx(ctx).Info().Str("tool", name).Str("args", args).Msg("executing external tool")

	_, routing, ok := m.cache.get()
	if !ok {
		var err error
		if _, routing, err = m.fetchTools(ctx); err != nil {
			return "", err
		}
	}

	server, ok := routing[name]
	if !ok {
		return "", fmt.Errorf("tool not found: %s", name)
	}

	m.mu.RLock()
	cli, ok := m.clients[server]
	m.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("server not connected: %s", server)
	}

	var argsMap map[string]interface{}
	if err := json.Unmarshal([]byte(args), &argsMap); err != nil {
		return "", fmt.Errorf("invalid json arguments: %w", err)
	}

	req := mcpproto.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = argsMap

	tCtx, cancel := context.WithTimeout(ctx, callToolTimeout)
	defer cancel()

	res, err := cli.CallTool(tCtx, req)
	if err != nil {
		return "", err
	}

	if res.IsError {
		return "", fmt.Errorf("tool execution failed")
	}

	var output string
	for _, content := range res.Content {
		if text, ok := content.(mcpproto.TextContent); ok {
			output += text.Text + "\n"
		} else if textPtr, ok := content.(*mcpproto.TextContent); ok {
			output += textPtr.Text + "\n"
		}
	}
	return output, nil
}
