// Package toolcall implements the wire-level tool invocation protocol shared
// between the model-facing layer and the execution core.
//
// It covers three pure concerns, none of which touch the filesystem or the
// network:
//
//   - Extraction: parsing structured tool invocations out of raw model text
//     for models without native tool calling, using the textual
//     <tool_name><param>value</param></tool_name> fallback syntax.
//   - Filtering: validating and deduplicating a batch of invocations before
//     anything executes (FilterValidToolCalls).
//   - Conversation integrity: removing malformed assistant turns and the tool
//     results they orphan before the history is replayed to the model
//     (FilterMessages).
//
// The execution side of the protocol lives in the agentcore package.
package toolcall
