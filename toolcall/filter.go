package toolcall

import "fmt"

// ExistenceChecker is the minimal registry view the filter needs. A nil
// checker means "don't know, don't block".
type ExistenceChecker interface {
	HasTool(name string) bool
}

// FilterValidToolCalls cleans a batch of invocations before anything
// executes. Rules, in order:
//
//  1. Calls with an empty ID or a blank function name are parser noise and
//     are dropped without an error result.
//  2. If a registry is supplied, calls naming a tool it does not have are
//     moved to the error list so the model can see what happened.
//  3. Duplicate IDs: first occurrence wins, later ones dropped silently.
//  4. Structurally identical calls (same name, same canonical arguments):
//     first occurrence wins, later ones dropped silently even under
//     different IDs. Same name with different arguments is kept.
//
// Survivor order is first-seen order.
func FilterValidToolCalls(calls []ToolCall, registry ExistenceChecker) (valid []ToolCall, errors []ToolResult) {
	seenIDs := make(map[string]bool)
	seenSigs := make(map[string]bool)

	for _, call := range calls {
		if call.ID == "" || IsBlank(call.Function.Name) {
			continue
		}
		if registry != nil && !registry.HasTool(call.Function.Name) {
			errors = append(errors, NewErrorResult(call,
				fmt.Sprintf("%s does not exist", call.Function.Name)))
			continue
		}
		if seenIDs[call.ID] {
			continue
		}
		sig := CanonicalSignature(call.Function.Name, call.Function.Arguments)
		if seenSigs[sig] {
			continue
		}
		seenIDs[call.ID] = true
		seenSigs[sig] = true
		valid = append(valid, call)
	}
	return valid, errors
}
