package agentcore

import (
	"sync"
	"time"
)

// EventKind identifies the type of session event.
type EventKind string

const (
	EventSessionStart          EventKind = "session_start"
	EventSessionEnd            EventKind = "session_end"
	EventUserInput             EventKind = "user_input"
	EventAssistantText         EventKind = "assistant_text"
	EventToolCallStart         EventKind = "tool_call_start"
	EventToolCallEnd           EventKind = "tool_call_end"
	EventConfirmationRequested EventKind = "confirmation_requested"
	EventConfirmationResolved  EventKind = "confirmation_resolved"
	EventModeSwitched          EventKind = "mode_switched"
	EventLoopDetection         EventKind = "loop_detection"
	EventTurnLimit             EventKind = "turn_limit"
	EventError                 EventKind = "error"
)

// SessionEvent is a typed event emitted by the core for the host UI.
type SessionEvent struct {
	Kind      EventKind      `json:"kind"`
	Timestamp time.Time      `json:"timestamp"`
	SessionID string         `json:"session_id"`
	Data      map[string]any `json:"data,omitempty"`
}

// EventEmitter delivers typed events to the host application via a buffered
// channel. Emission never blocks the core: when the channel is full the
// event is dropped.
type EventEmitter struct {
	sessionID string
	ch        chan SessionEvent
	closed    bool
	mu        sync.Mutex
}

// NewEventEmitter creates an EventEmitter with the given buffer size.
func NewEventEmitter(sessionID string, bufferSize int) *EventEmitter {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &EventEmitter{
		sessionID: sessionID,
		ch:        make(chan SessionEvent, bufferSize),
	}
}

// Emit sends an event. Events emitted after Close are silently dropped.
func (e *EventEmitter) Emit(kind EventKind, data map[string]any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	event := SessionEvent{
		Kind:      kind,
		Timestamp: time.Now(),
		SessionID: e.sessionID,
		Data:      data,
	}
	select {
	case e.ch <- event:
	default:
	}
}

// Events returns the read-only event channel.
func (e *EventEmitter) Events() <-chan SessionEvent {
	return e.ch
}

// Close closes the event channel. Safe to call multiple times.
func (e *EventEmitter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.closed = true
		close(e.ch)
	}
}
