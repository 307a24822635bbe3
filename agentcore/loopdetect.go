package agentcore

import (
	"github.com/martinemde/nanocoder/toolcall"
)

// recentCallSignatures collects canonical signatures of the most recent tool
// calls in the history, in chronological order.
func recentCallSignatures(history []toolcall.Message, count int) []string {
	var sigs []string
	for i := len(history) - 1; i >= 0 && len(sigs) < count; i-- {
		msg := history[i]
		if msg.Role != toolcall.RoleAssistant {
			continue
		}
		for j := len(msg.ToolCalls) - 1; j >= 0 && len(sigs) < count; j-- {
			tc := msg.ToolCalls[j]
			sigs = append(sigs, toolcall.CanonicalSignature(tc.Function.Name, tc.Function.Arguments))
		}
	}
	for i, j := 0, len(sigs)-1; i < j; i, j = i+1, j-1 {
		sigs[i], sigs[j] = sigs[j], sigs[i]
	}
	return sigs
}

// DetectRepetition reports whether the last windowSize tool calls follow a
// repeating pattern of length 1, 2, or 3.
func DetectRepetition(history []toolcall.Message, windowSize int) bool {
	sigs := recentCallSignatures(history, windowSize)
	if len(sigs) < windowSize {
		return false
	}

	for patternLen := 1; patternLen <= 3; patternLen++ {
		if windowSize%patternLen != 0 {
			continue
		}
		pattern := sigs[:patternLen]
		allMatch := true
		for i := patternLen; i < windowSize && allMatch; i += patternLen {
			for j := 0; j < patternLen; j++ {
				if sigs[i+j] != pattern[j] {
					allMatch = false
					break
				}
			}
		}
		if allMatch {
			return true
		}
	}

	return false
}
