package gbi

import "fmt"

// Action tells the walker what to do after a handler runs.
type Action uint8

// Handler outcomes.
const (
	// Continue advances to the next command.
	Continue Action = iota
	// Return ends the current sub-list and resumes the caller.
	Return
	// Recurse walks a nested list and then resumes after the current command.
	Recurse
	// SetAddress replaces the cursor position without a return frame.
	SetAddress
	// Unknown marks an opcode with no handler. It is skipped.
	Unknown
)

func (a Action) String() string {
	switch a {
	case Continue:
		return "Continue"
	case Return:
		return "Return"
	case Recurse:
		return "Recurse"
	case SetAddress:
		return "SetAddress"
	case Unknown:
		return "Unknown"
	default:
		return fmt.Sprintf("Action(%d)", uint8(a))
	}
}

// Result is the outcome of one handler invocation.
// Addr is a raw display-list address for Recurse and SetAddress.
type Result struct {
	Action Action
	Addr   uint32
	Opcode Opcode
}

// Next returns a Continue result.
func Next() Result { return Result{Action: Continue} }

// End returns a Return result.
func End() Result { return Result{Action: Return} }

// Call returns a Recurse result targeting addr.
func Call(addr uint32) Result { return Result{Action: Recurse, Addr: addr} }

// Jump returns a SetAddress result targeting addr.
func Jump(addr uint32) Result { return Result{Action: SetAddress, Addr: addr} }

// Unhandled returns an Unknown result for op.
func Unhandled(op Opcode) Result { return Result{Action: Unknown, Opcode: op} }
