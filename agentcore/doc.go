// Package agentcore is the decision-and-execution core of the coding agent.
//
// It turns a validated batch of tool invocations into safely applied
// operations against the local filesystem and shell:
//
//   - Mode/Gate: the three-mode (normal, auto-accept, plan) confirmation and
//     blocking policy. The mode is session state, changed only through a
//     confirmed switch_mode invocation.
//   - ToolRegistry: injected registration and dispatch of tool handlers,
//     with read-only marking consulted by the gate.
//   - Executor: drives a batch sequentially through gate, confirmation, and
//     handler invocation with per-call error containment. A declined
//     confirmation or a cancellation halts the remainder of the batch;
//     handler failures never do.
//   - Edit engine: line-addressed, multi-mode file editing. All validation
//     happens before any write; a successful edit reports a line-numbered
//     excerpt around the affected range.
//   - ExecutionEnvironment: where tool operations run (local filesystem and
//     shell by default).
//   - Session: owns the conversation history and the turn loop pairing the
//     model client with the executor.
//
// Wire-level concerns (parsing, batch filtering, history integrity) live in
// the toolcall package. Terminal rendering, prompt widgets, and provider
// construction are external collaborators reached only through interfaces.
package agentcore
