package toolcall

import "encoding/json"

// FilterMessages removes transient artifacts of upstream generation before
// the history is replayed to the model: an assistant message with blank
// content and no tool calls is dropped, and every tool-role message
// immediately following it (until the next non-tool message) is dropped with
// it, since those results are orphaned once their originating turn is gone.
//
// Relative order of survivors is preserved. When nothing needs removing the
// second return is false and the input slice is returned as-is, so callers
// can skip redundant downstream work. Filtering is idempotent.
func FilterMessages(messages []Message) ([]Message, bool) {
	removed := make([]bool, len(messages))
	changed := false

	for i, msg := range messages {
		if msg.Role != RoleAssistant || !IsBlank(msg.Content) || len(msg.ToolCalls) > 0 {
			continue
		}
		removed[i] = true
		changed = true
		for j := i + 1; j < len(messages) && messages[j].Role == RoleTool; j++ {
			removed[j] = true
		}
	}

	if !changed {
		return messages, false
	}
	filtered := make([]Message, 0, len(messages))
	for i, msg := range messages {
		if !removed[i] {
			filtered = append(filtered, msg)
		}
	}
	return filtered, true
}

// FormatResultContent renders a tool result value as a human-readable string.
// Objects and arrays are canonicalized to deterministic JSON; strings pass
// through; other primitives are stringified via JSON as well.
func FormatResultContent(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

// PairResults pairs tool calls with their results positionally and emits one
// display string per call, for display and telemetry only. It never alters
// the conversation. Pairing requires the two slices to be equal length and
// positionally aligned; otherwise ok is false and no strings are produced.
func PairResults(calls []ToolCall, results []any) (lines []string, ok bool) {
	if len(calls) != len(results) {
		return nil, false
	}
	lines = make([]string, len(calls))
	for i, call := range calls {
		lines[i] = call.Function.Name + ": " + FormatResultContent(results[i])
	}
	return lines, true
}
