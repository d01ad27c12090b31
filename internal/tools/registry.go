package tools

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/anhtu-vn/gochat/internal/ai"
)

// Handler executes one tool call. Handlers never fail the exchange: a
// broken tool reports its failure inside the returned value.
type Handler func(ctx context.Context, args map[string]any) any

// Registry maps tool-call names to handlers and keeps their provider-facing
// schemas alongside.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	defs     []ai.FunctionDefinition
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

func (r *Registry) Register(def ai.FunctionDefinition, h Handler) {
	name := strings.ToLower(strings.TrimSpace(def.Name))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
	r.defs = append(r.defs, def)
}

// Definitions returns the schemas to attach to completion requests.
func (r *Registry) Definitions() []ai.FunctionDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]ai.FunctionDefinition(nil), r.defs...)
}

func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	r.mu.RLock()
	h, ok := r.handlers[key]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
	return h(ctx, args), nil
}
