package agentcore

import (
	"context"
	"math"
	"sync"

	"github.com/martinemde/nanocoder/toolcall"
)

// Handler executes one tool invocation against the execution environment.
// Long-running handlers observe ctx for cancellation.
type Handler func(ctx context.Context, args map[string]any, env ExecutionEnvironment) (string, error)

// RegisteredTool pairs a tool definition with its handler. ReadOnly marks
// tools that never mutate files or run commands; the gate permits them
// without confirmation and keeps them available in plan mode.
type RegisteredTool struct {
	Definition toolcall.ToolDefinition
	ReadOnly   bool
	Handler    Handler
}

// ToolRegistry manages tool registration and dispatch. It is injected
// explicitly wherever tools are looked up; there is no package-level
// dispatch table.
type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]*RegisteredTool
}

// NewToolRegistry creates an empty ToolRegistry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]*RegisteredTool)}
}

// Register adds or replaces a tool.
func (r *ToolRegistry) Register(tool RegisteredTool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Definition.Name] = &tool
}

// HasTool reports whether name is registered.
func (r *ToolRegistry) HasTool(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// IsReadOnly reports whether name is registered and marked read-only.
func (r *ToolRegistry) IsReadOnly(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return ok && t.ReadOnly
}

// Invoke dispatches a call to the registered handler.
func (r *ToolRegistry) Invoke(ctx context.Context, name string, args map[string]any, env ExecutionEnvironment) (string, error) {
	r.mu.RLock()
	tool, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return "", notFoundErr("%s does not exist", name)
	}
	return tool.Handler(ctx, args, env)
}

// Definitions returns all tool definitions for the model request.
func (r *ToolRegistry) Definitions() []toolcall.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]toolcall.ToolDefinition, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, t.Definition)
	}
	return defs
}

// Count returns the number of registered tools.
func (r *ToolRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Argument extraction helpers shared by the core tool handlers.

func getString(args map[string]any, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// getInt accepts float64 (the JSON default) only when integral, so a
// line_number of 2.5 is rejected rather than silently floored.
func getInt(args map[string]any, key string) (int, bool) {
	v, ok := args[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func getBool(args map[string]any, key string) (bool, bool) {
	v, ok := args[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}
