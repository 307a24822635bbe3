package agentcore

import (
	"testing"

	"github.com/martinemde/nanocoder/toolcall"
)

func assistantWithCalls(calls ...toolcall.ToolCall) toolcall.Message {
	return toolcall.AssistantMessage("", calls)
}

func repeatedCall(name string, n int) []toolcall.Message {
	var msgs []toolcall.Message
	for i := 0; i < n; i++ {
		msgs = append(msgs, assistantWithCalls(
			toolcall.ToolCall{ID: "x", Function: toolcall.FunctionCall{Name: name, Arguments: map[string]any{"p": "v"}}},
		))
	}
	return msgs
}

func TestDetectRepetitionSingleCall(t *testing.T) {
	if !DetectRepetition(repeatedCall("read_file", 10), 10) {
		t.Error("ten identical calls should be detected as a loop")
	}
}

func TestDetectRepetitionAlternatingPair(t *testing.T) {
	var msgs []toolcall.Message
	for i := 0; i < 5; i++ {
		msgs = append(msgs, assistantWithCalls(
			toolcall.ToolCall{Function: toolcall.FunctionCall{Name: "grep", Arguments: map[string]any{"q": "a"}}},
			toolcall.ToolCall{Function: toolcall.FunctionCall{Name: "read_file", Arguments: map[string]any{"p": "f"}}},
		))
	}
	if !DetectRepetition(msgs, 10) {
		t.Error("an alternating pair repeated five times should be detected")
	}
}

func TestDetectRepetitionVariedCallsPass(t *testing.T) {
	var msgs []toolcall.Message
	for i := 0; i < 10; i++ {
		msgs = append(msgs, assistantWithCalls(
			toolcall.ToolCall{Function: toolcall.FunctionCall{Name: "read_file", Arguments: map[string]any{"n": float64(i)}}},
		))
	}
	if DetectRepetition(msgs, 10) {
		t.Error("calls with distinct arguments are not a loop")
	}
}

func TestDetectRepetitionTooFewCalls(t *testing.T) {
	if DetectRepetition(repeatedCall("read_file", 3), 10) {
		t.Error("fewer calls than the window must never trigger")
	}
}
