package rcp

import (
	"errors"
	"fmt"

	"github.com/gogpu/rcp/gbi"
)

var (
	// ErrRecursionLimit is returned when nested G_DL calls exceed the
	// configured depth.
	ErrRecursionLimit = errors.New("rcp: display list recursion limit exceeded")

	// ErrInstructionLimit is returned when a Run processes more commands
	// than the configured budget, which happens on jump loops.
	ErrInstructionLimit = errors.New("rcp: display list instruction limit exceeded")

	// ErrAddressOutOfRange is returned when a command or the data it
	// references lies outside memory.
	ErrAddressOutOfRange = errors.New("rcp: address out of range")

	// ErrUnknownProfile is returned by New for an unregistered profile name.
	ErrUnknownProfile = errors.New("rcp: unknown microcode profile")
)

// RunError reports where a Run stopped. Draw calls produced before the
// failure stay available through TakeDrawCalls.
type RunError struct {
	Address      uint32 // physical address of the failing command
	Opcode       gbi.Opcode
	Depth        int // return frames on the stack
	Instructions int // commands processed so far
	Err          error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("rcp: %v at %#08x (depth %d, %d instructions): %v",
		e.Opcode, e.Address, e.Depth, e.Instructions, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }
