package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/xavierau/chatbot-showeasy/internal/core"
	"github.com/xavierau/chatbot-showeasy/pkg/log"
)

// Handler executes one capability invocation.
type Handler func(ctx context.Context, args json.RawMessage) (string, error)

// Capability is a named, independently invocable unit the reasoning loop can
// select. Schema is a JSON Schema document describing the arguments.
type Capability struct {
	Name        string
	Description string
	Schema      json.RawMessage
	Handler     Handler
}

// Toolset is anything that contributes capabilities, matching the definition
// map shape tool providers expose.
type Toolset interface {
	GetDefinitions() map[string]struct {
		Description string
		Schema      string
		Handler     func(context.Context, json.RawMessage) (string, error)
	}
}

// Registry maps capability names to handlers and exposes definitions to the
// loop in registration order.
type Registry struct {
	mu    sync.RWMutex
	order []string
	caps  map[string]Capability
}

func NewRegistry() *Registry {
	return &Registry{caps: make(map[string]Capability)}
}

// Register adds one capability. A duplicate name replaces the earlier one and
// keeps its position.
func (r *Registry) Register(c Capability) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.caps[c.Name]; !exists {
		r.order = append(r.order, c.Name)
	}
	r.caps[c.Name] = c
}

// RegisterToolset mounts every definition of a toolset.
func (r *Registry) RegisterToolset(t Toolset) {
	for name, def := range t.GetDefinitions() {
		r.Register(Capability{
			Name:        name,
			Description: def.Description,
			Schema:      json.RawMessage(def.Schema),
			Handler:     def.Handler,
		})
	}
}

// MountServer mounts an external capability server's tools. Name collisions
// resolve in favor of what is already registered.
func (r *Registry) MountServer(ctx context.Context, server core.CapabilityServer) error {
	tools, err := server.GetTools(ctx)
	if err != nil {
		return fmt.Errorf("list server tools: %w", err)
	}
	for _, tool := range tools {
		name := tool.Function.Name
		r.mu.RLock()
		_, taken := r.caps[name]
		r.mu.RUnlock()
		if taken {
			log.FromCtx(ctx).Warn().Str("capability", name).Msg("external capability shadowed by native one")
			continue
		}
		r.Register(Capability{
			Name:        name,
			Description: tool.Function.Description,
			Schema:      tool.Function.Parameters,
			Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
				return server.CallTool(ctx, name, string(args))
			},
		})
	}
	return nil
}

// Definitions returns capability descriptors in registration order.
func (r *Registry) Definitions() []core.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]core.Tool, 0, len(r.order))
	for _, name := range r.order {
		c := r.caps[name]
		defs = append(defs, core.Tool{
			Type: "function",
			Function: core.Function{
				Name:        c.Name,
				Description: c.Description,
				Parameters:  c.Schema,
			},
		})
	}
	return defs
}

// Invoke runs the named capability.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (string, error) {
	r.mu.RLock()
	c, ok := r.caps[name]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", core.ErrUnknownCapability, name)
	}
	return c.Handler(ctx, args)
}
