package mcp

import (
	"sync"

	"github.com/xavierau/chatbot-showeasy/internal/core"
)

// toolCache memoizes the aggregated tool list plus the tool name to server
// name routing table. Copies go in and out so callers cannot mutate shared
// state.
type toolCache struct {
	mu      sync.RWMutex
	tools   []core.Tool
	routing map[string]string
	valid   bool
}

func newToolCache() *toolCache {
	return &toolCache{routing: make(map[string]string)}
}

func (c *toolCache) get() (tools []core.Tool, routing map[string]string, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.valid {
		return nil, nil, false
	}

	toolsCopy := make([]core.Tool, len(c.tools))
	copy(toolsCopy, c.tools)

	routingCopy := make(map[string]string, len(c.routing))
	for k, v := range c.routing {
		routingCopy[k] = v
	}

	return toolsCopy, routingCopy, true
}

func (c *toolCache) update(tools []core.Tool, routing map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.valid = true

	c.tools = make([]core.Tool, len(tools))
	copy(c.tools, tools)

	c.routing = make(map[string]string, len(routing))
	for k, v := range routing {
		c.routing[k] = v
	}
}

func (c *toolCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.valid = false
	c.tools = nil
	c.routing = make(map[string]string)
}
