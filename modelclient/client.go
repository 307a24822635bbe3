package modelclient

import (
	"context"

	"github.com/martinemde/nanocoder/toolcall"
)

// Request is one completion request. Messages carry the full conversation;
// the system prompt travels separately because providers treat it specially.
type Request struct {
	SystemPrompt string
	Messages     []toolcall.Message
	Tools        []toolcall.ToolDefinition
	Temperature  *float64
	MaxTokens    *int
}

// Response is the assistant's reply. ToolCalls holds calls the provider
// returned structurally; calls embedded in Text as tags are left for the
// caller's fallback parser.
type Response struct {
	Text      string
	ToolCalls []toolcall.ToolCall
}

// Client is the completion interface the agent loop depends on.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}
