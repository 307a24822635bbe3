package agentcore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/martinemde/nanocoder/modelclient"
	"github.com/martinemde/nanocoder/toolcall"
)

// SessionState represents the current lifecycle state of a session.
type SessionState string

const (
	StateIdle       SessionState = "idle"
	StateProcessing SessionState = "processing"
	StateClosed     SessionState = "closed"
)

// SessionConfig holds configuration for a session.
type SessionConfig struct {
	SystemPrompt            string
	InitialMode             Mode
	MaxToolRoundsPerInput   int
	DefaultCommandTimeoutMs int
	MaxCommandTimeoutMs     int
	ToolOutputLimits        map[string]int
	ToolLineLimits          map[string]int
	EnableLoopDetection     bool
	LoopDetectionWindow     int
	Logger                  *zap.Logger
}

// DefaultSessionConfig returns the default configuration.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		InitialMode:             ModeNormal,
		MaxToolRoundsPerInput:   200,
		DefaultCommandTimeoutMs: 10000,  // 10 seconds
		MaxCommandTimeoutMs:     600000, // 10 minutes
		EnableLoopDetection:     true,
		LoopDetectionWindow:     10,
	}
}

// Session is the central orchestrator. It owns the conversation history, the
// current mode, and the submit loop that alternates model calls with tool
// batches. History is append-only except for the integrity repair applied
// before each model call.
type Session struct {
	id       string
	mode     Mode
	registry *ToolRegistry
	env      ExecutionEnvironment
	executor *Executor
	client   modelclient.Client
	history  []toolcall.Message
	emitter  *EventEmitter
	logger   *zap.Logger
	config   SessionConfig
	state    SessionState
	mu       sync.Mutex
}

// NewSession creates a session with the core tool set registered. confirmer
// may be nil; confirmation-requiring calls are then declined.
func NewSession(client modelclient.Client, env ExecutionEnvironment, confirmer Confirmer, config *SessionConfig) *Session {
	cfg := DefaultSessionConfig()
	if config != nil {
		cfg = *config
	}
	if cfg.InitialMode == "" {
		cfg.InitialMode = ModeNormal
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sessionID := uuid.New().String()
	emitter := NewEventEmitter(sessionID, 256)

	registry := NewToolRegistry()
	RegisterCoreTools(registry, cfg.DefaultCommandTimeoutMs, cfg.MaxCommandTimeoutMs)

	s := &Session{
		id:       sessionID,
		mode:     cfg.InitialMode,
		registry: registry,
		env:      env,
		client:   client,
		emitter:  emitter,
		logger:   logger,
		config:   cfg,
		state:    StateIdle,
	}
	s.registerSwitchMode()

	s.executor = NewExecutor(registry, env, confirmer, &ExecutorConfig{
		CharLimits: cfg.ToolOutputLimits,
		LineLimits: cfg.ToolLineLimits,
		Logger:     logger,
		Emitter:    emitter,
	})

	return s
}

// registerSwitchMode registers the mode switch tool. The handler closes over
// the session; the gate guarantees it only runs after user confirmation.
func (s *Session) registerSwitchMode() {
	s.registry.Register(RegisteredTool{
		Definition: toolcall.ToolDefinition{
			Name:        SwitchModeTool,
			Description: "Switch the session mode. Modes: normal (confirm mutations), auto-accept (no confirmations), plan (read-only).",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"mode": map[string]any{
						"type":        "string",
						"enum":        []string{string(ModeNormal), string(ModeAutoAccept), string(ModePlan)},
						"description": "The mode to switch to.",
					},
				},
				"required": []string{"mode"},
			},
		},
		Handler: func(_ context.Context, args map[string]any, _ ExecutionEnvironment) (string, error) {
			modeStr, ok := getString(args, "mode")
			if !ok {
				return "", validationErr("mode is required")
			}
			mode, err := ParseMode(modeStr)
			if err != nil {
				return "", err
			}

			s.mu.Lock()
			previous := s.mode
			s.mode = mode
			s.mu.Unlock()

			s.emitter.Emit(EventModeSwitched, map[string]any{
				"from": string(previous), "to": string(mode),
			})
			s.logger.Info("session mode switched",
				zap.String("from", string(previous)), zap.String("to", string(mode)))
			return fmt.Sprintf("Mode switched from %s to %s", previous, mode), nil
		},
	})
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Mode returns the current session mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Registry exposes the tool registry for host-registered extensions.
func (s *Session) Registry() *ToolRegistry { return s.registry }

// History returns a copy of the conversation history.
func (s *Session) History() []toolcall.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := make([]toolcall.Message, len(s.history))
	copy(h, s.history)
	return h
}

// Events returns the event channel for the host application.
func (s *Session) Events() <-chan SessionEvent {
	return s.emitter.Events()
}

// Close terminates the session. Further Submit calls fail.
func (s *Session) Close() {
	s.mu.Lock()
	s.state = StateClosed
	s.mu.Unlock()

	s.emitter.Emit(EventSessionEnd, map[string]any{"state": string(StateClosed)})
	s.emitter.Close()
}

// Submit processes one user input through the model-and-tools loop. It
// returns when the model finishes without tool calls, a confirmation is
// declined, the round limit is reached, or the context is cancelled.
func (s *Session) Submit(ctx context.Context, userInput string) error {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return stateErr("session is closed")
	}
	s.state = StateProcessing
	s.history = append(s.history, toolcall.UserMessage(userInput))
	s.mu.Unlock()

	s.emitter.Emit(EventUserInput, map[string]any{"content": userInput})
	err := s.runLoop(ctx)

	s.mu.Lock()
	if s.state != StateClosed {
		s.state = StateIdle
	}
	s.mu.Unlock()
	return err
}

func (s *Session) runLoop(ctx context.Context) error {
	rounds := 0

	for {
		select {
		case <-ctx.Done():
			s.emitter.Emit(EventError, map[string]any{"error": "context cancelled"})
			return ctx.Err()
		default:
		}

		if rounds >= s.config.MaxToolRoundsPerInput {
			s.emitter.Emit(EventTurnLimit, map[string]any{"round": rounds})
			s.logger.Warn("tool round limit reached", zap.Int("rounds", rounds))
			return nil
		}

		response, err := s.callModel(ctx)
		if err != nil {
			s.emitter.Emit(EventError, map[string]any{"error": err.Error()})
			return fmt.Errorf("model call failed: %w", err)
		}

		text, calls := s.extractCalls(response)

		s.mu.Lock()
		s.history = append(s.history, toolcall.AssistantMessage(text, calls))
		s.mu.Unlock()
		if text != "" {
			s.emitter.Emit(EventAssistantText, map[string]any{"text": text})
		}

		if len(calls) == 0 {
			return nil
		}

		valid, errorResults := toolcall.FilterValidToolCalls(calls, s.registry)
		s.appendResults(errorResults)

		if len(valid) > 0 {
			rounds++
			batch, err := s.executor.Execute(ctx, valid, s.Mode())
			if err != nil {
				return err
			}
			s.appendResults(batch.Results)
			if !batch.Completed {
				s.logger.Debug("batch halted, ending turn")
				return nil
			}
		}

		s.checkRepetition()
	}
}

// callModel repairs the history and sends it with the tool definitions.
func (s *Session) callModel(ctx context.Context) (modelclient.Response, error) {
	s.mu.Lock()
	if filtered, changed := toolcall.FilterMessages(s.history); changed {
		s.logger.Debug("repaired conversation history",
			zap.Int("removed", len(s.history)-len(filtered)))
		s.history = filtered
	}
	messages := make([]toolcall.Message, len(s.history))
	copy(messages, s.history)
	s.mu.Unlock()

	return s.client.Complete(ctx, modelclient.Request{
		SystemPrompt: s.config.SystemPrompt,
		Messages:     messages,
		Tools:        s.registry.Definitions(),
	})
}

// extractCalls prefers structurally returned tool calls; when there are none
// it falls back to parsing textual tags out of the reply and returns the text
// with the tag blocks removed.
func (s *Session) extractCalls(response modelclient.Response) (string, []toolcall.ToolCall) {
	if len(response.ToolCalls) > 0 {
		return response.Text, response.ToolCalls
	}
	if !toolcall.HasToolCalls(response.Text) {
		return response.Text, nil
	}
	calls := toolcall.ParseToolCalls(response.Text)
	return toolcall.RemoveToolCalls(response.Text), calls
}

func (s *Session) appendResults(results []toolcall.ToolResult) {
	if len(results) == 0 {
		return
	}
	s.mu.Lock()
	for _, r := range results {
		s.history = append(s.history, toolcall.ResultMessage(r))
	}
	s.mu.Unlock()
}

// checkRepetition injects a steering notice when the recent tool calls form a
// repeating pattern, so the model breaks out instead of burning rounds.
func (s *Session) checkRepetition() {
	if !s.config.EnableLoopDetection {
		return
	}

	s.mu.Lock()
	window := s.config.LoopDetectionWindow
	history := make([]toolcall.Message, len(s.history))
	copy(history, s.history)
	s.mu.Unlock()

	if !DetectRepetition(history, window) {
		return
	}

	notice := fmt.Sprintf("The last %d tool calls follow a repeating pattern. Try a different approach.", window)
	s.mu.Lock()
	s.history = append(s.history, toolcall.UserMessage(notice))
	s.mu.Unlock()
	s.emitter.Emit(EventLoopDetection, map[string]any{"message": notice})
	s.logger.Warn("repeating tool call pattern detected", zap.Int("window", window))
}
