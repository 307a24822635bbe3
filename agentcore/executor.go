package agentcore

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/martinemde/nanocoder/toolcall"
)

// Confirmer is the external confirmation collaborator. Confirm blocks until
// the user answers; the wait is unbounded and interactive. An error is
// treated the same as a decline.
type Confirmer interface {
	Confirm(ctx context.Context, call toolcall.ToolCall) (bool, error)
}

// BatchResult is the outcome of executing one batch. Completed is false when
// a declined confirmation or a cancellation discarded the remaining calls;
// the results collected up to that point are still returned.
type BatchResult struct {
	Completed bool
	Results   []toolcall.ToolResult
}

// ExecutorConfig tunes batch execution. Zero values fall back to defaults.
type ExecutorConfig struct {
	CharLimits map[string]int // per-tool output character limits
	LineLimits map[string]int // per-tool output line limits
	Logger     *zap.Logger
	Emitter    *EventEmitter
}

// Executor drives a batch of tool calls through gate, confirmation, and
// handler invocation, strictly one call at a time in batch order. The
// sequential design is deliberate: it preserves result ordering for
// tool_call_id correlation and serializes the interactive confirmation UI.
type Executor struct {
	registry  *ToolRegistry
	env       ExecutionEnvironment
	gate      *Gate
	confirmer Confirmer
	config    ExecutorConfig
	logger    *zap.Logger
}

// NewExecutor creates an Executor. registry and env must be set; confirmer
// may be nil, in which case confirmation-requiring calls are declined.
func NewExecutor(registry *ToolRegistry, env ExecutionEnvironment, confirmer Confirmer, config *ExecutorConfig) *Executor {
	cfg := ExecutorConfig{}
	if config != nil {
		cfg = *config
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		registry:  registry,
		env:       env,
		gate:      NewGate(registry),
		confirmer: confirmer,
		config:    cfg,
		logger:    logger,
	}
}

// Execute processes the batch under the given mode. The only fatal condition
// is a missing registry; every other failure is resolved into a ToolResult
// so the model can see and react to it.
func (x *Executor) Execute(ctx context.Context, batch []toolcall.ToolCall, mode Mode) (BatchResult, error) {
	if x.registry == nil {
		return BatchResult{}, errors.New("tool registry was never initialized")
	}

	result := BatchResult{Completed: true}

	for _, call := range batch {
		select {
		case <-ctx.Done():
			// Cancellation discards the remaining queued calls. Edits already
			// applied by prior calls are not rolled back.
			result.Completed = false
			return result, nil
		default:
		}

		name := call.Function.Name
		x.emit(EventToolCallStart, map[string]any{"call_id": call.ID, "tool_name": name})

		decision := x.gate.Decide(name, mode)
		if decision.Blocked {
			x.logger.Debug("tool call blocked by mode gate",
				zap.String("tool", name), zap.String("mode", string(mode)))
			res := toolcall.NewErrorResult(call, decision.Reason)
			result.Results = append(result.Results, res)
			x.emit(EventToolCallEnd, map[string]any{"call_id": call.ID, "error": decision.Reason})
			continue
		}

		if decision.RequiresConfirmation {
			approved := x.askConfirmation(ctx, call)
			if !approved {
				x.logger.Info("tool call declined, halting batch", zap.String("tool", name))
				result.Completed = false
				x.emit(EventToolCallEnd, map[string]any{"call_id": call.ID, "declined": true})
				return result, nil
			}
		}

		output, err := x.invoke(ctx, call)
		if err != nil {
			var cancelled *CancellationError
			if errors.As(err, &cancelled) || ctx.Err() != nil {
				result.Completed = false
				x.emit(EventToolCallEnd, map[string]any{"call_id": call.ID, "cancelled": true})
				return result, nil
			}
			msg := fmt.Sprintf("Tool error (%s): %v", name, err)
			result.Results = append(result.Results, toolcall.NewErrorResult(call, msg))
			x.emit(EventToolCallEnd, map[string]any{"call_id": call.ID, "error": msg})
			continue
		}

		truncated := TruncateToolOutput(output, name, x.config.CharLimits, x.config.LineLimits)
		result.Results = append(result.Results, toolcall.NewResult(call, truncated))
		// Events carry the full output; only the model sees the truncation.
		x.emit(EventToolCallEnd, map[string]any{"call_id": call.ID, "output": output})
	}

	return result, nil
}

func (x *Executor) askConfirmation(ctx context.Context, call toolcall.ToolCall) bool {
	if x.confirmer == nil {
		return false
	}
	x.emit(EventConfirmationRequested, map[string]any{
		"call_id": call.ID, "tool_name": call.Function.Name,
	})
	approved, err := x.confirmer.Confirm(ctx, call)
	if err != nil {
		approved = false
	}
	x.emit(EventConfirmationResolved, map[string]any{
		"call_id": call.ID, "approved": approved,
	})
	return approved
}

// invoke dispatches to the handler with panic containment: a panicking
// handler surfaces as an ExecutionError result, never as a crash of the
// batch or its caller.
func (x *Executor) invoke(ctx context.Context, call toolcall.ToolCall) (output string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ExecutionError{CoreError{Message: fmt.Sprintf("handler panic: %v", r)}}
		}
	}()
	return x.registry.Invoke(ctx, call.Function.Name, call.Function.Arguments, x.env)
}

func (x *Executor) emit(kind EventKind, data map[string]any) {
	if x.config.Emitter != nil {
		x.config.Emitter.Emit(kind, data)
	}
}
