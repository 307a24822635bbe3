package agentcore

import "fmt"

// Mode is the session-wide gating state controlling confirmation and
// blocking policy. It is owned by the Session and changed only through a
// confirmed switch_mode invocation.
type Mode string

const (
	// ModeNormal confirms every call except tools marked read-only.
	ModeNormal Mode = "normal"
	// ModeAutoAccept skips confirmation for everything except switch_mode.
	ModeAutoAccept Mode = "auto-accept"
	// ModePlan blocks every mutating or shell-executing tool outright.
	ModePlan Mode = "plan"
)

// SwitchModeTool is the reserved tool name for mode transitions. It is
// exempt from auto-accept's blanket bypass and always routed through user
// confirmation.
const SwitchModeTool = "switch_mode"

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeNormal, ModeAutoAccept, ModePlan:
		return Mode(s), nil
	default:
		return "", validationErr("invalid mode %q: must be one of normal, auto-accept, plan", s)
	}
}

// Decision is the gate's verdict for one invocation.
type Decision struct {
	Blocked              bool
	RequiresConfirmation bool
	Reason               string
}

// ReadOnlyChecker is the registry view the gate needs: whether a tool's
// definition marks it read-only. Unknown tools report false and are treated
// as mutating, the safe default.
type ReadOnlyChecker interface {
	IsReadOnly(name string) bool
}

// Gate maps (tool, mode) to blocked/confirmation-required.
type Gate struct {
	readOnly ReadOnlyChecker
}

// NewGate creates a Gate consulting the given read-only marking.
func NewGate(readOnly ReadOnlyChecker) *Gate {
	return &Gate{readOnly: readOnly}
}

// Decide returns the gating verdict for toolName under mode. Blocked calls
// never reach a handler; the executor synthesizes an error result for them.
func (g *Gate) Decide(toolName string, mode Mode) Decision {
	// Mode transitions themselves are always confirmed, in every mode.
	if toolName == SwitchModeTool {
		return Decision{RequiresConfirmation: true}
	}

	readOnly := g.readOnly != nil && g.readOnly.IsReadOnly(toolName)

	switch mode {
	case ModePlan:
		if readOnly {
			return Decision{}
		}
		return Decision{
			Blocked: true,
			Reason: fmt.Sprintf("%s modifies files or runs commands and is not available in plan mode; "+
				"switch to normal or auto-accept mode to make changes", toolName),
		}
	case ModeAutoAccept:
		return Decision{}
	default: // ModeNormal
		if readOnly {
			return Decision{}
		}
		return Decision{RequiresConfirmation: true}
	}
}
