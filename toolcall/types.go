package toolcall

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Role identifies who produced a message in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// FunctionCall is the callable part of a ToolCall.
type FunctionCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ToolCall is a single model-requested tool invocation.
type ToolCall struct {
	ID       string       `json:"id"`
	Function FunctionCall `json:"function"`
}

// ToolResult is the outcome of one tool invocation, always string-bodied so
// it can be folded straight into a tool-role message.
type ToolResult struct {
	ToolCallID string `json:"tool_call_id"`
	Role       Role   `json:"role"`
	Name       string `json:"name"`
	Content    string `json:"content"`
	IsError    bool   `json:"is_error,omitempty"`
}

// Message is one entry of the conversation history.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// ToolDefinition describes a tool for the model (serializable metadata only).
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// SystemMessage creates a system Message.
func SystemMessage(text string) Message {
	return Message{Role: RoleSystem, Content: text}
}

// UserMessage creates a user Message.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// AssistantMessage creates an assistant Message carrying text and any tool
// calls extracted from the same model turn.
func AssistantMessage(text string, calls []ToolCall) Message {
	return Message{Role: RoleAssistant, Content: text, ToolCalls: calls}
}

// ResultMessage folds a ToolResult into a tool-role Message.
func ResultMessage(r ToolResult) Message {
	return Message{
		Role:       RoleTool,
		Content:    r.Content,
		ToolCallID: r.ToolCallID,
		Name:       r.Name,
	}
}

// NewErrorResult builds an error ToolResult for a call.
func NewErrorResult(call ToolCall, content string) ToolResult {
	return ToolResult{
		ToolCallID: call.ID,
		Role:       RoleTool,
		Name:       call.Function.Name,
		Content:    content,
		IsError:    true,
	}
}

// NewResult builds a success ToolResult for a call.
func NewResult(call ToolCall, content string) ToolResult {
	return ToolResult{
		ToolCallID: call.ID,
		Role:       RoleTool,
		Name:       call.Function.Name,
		Content:    content,
	}
}

// IsBlank reports whether s contains no non-whitespace characters.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// CanonicalSignature derives a deterministic string from a tool name and its
// arguments, used to detect structurally identical calls. encoding/json
// serializes map keys in sorted order, which makes the form stable for any
// argument object.
func CanonicalSignature(name string, arguments map[string]any) string {
	data, err := json.Marshal(arguments)
	if err != nil {
		// Unmarshalable arguments (channels, funcs) never come off the wire;
		// fall back to a best-effort form so dedup still has something.
		keys := make([]string, 0, len(arguments))
		for k := range arguments {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		data = []byte(fmt.Sprintf("%v", keys))
	}
	return name + ":" + string(data)
}
