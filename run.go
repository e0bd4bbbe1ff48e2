package rcp

import (
	"fmt"

	"github.com/gogpu/rcp/gbi"
)

// Run executes the display list at addr. RSP and RDP state are reset
// first; caches and draw calls not yet taken are kept.
//
// Execution is bounded: G_DL calls may nest up to the configured depth and
// at most the configured number of commands are processed. Exceeding either
// fails the run with ErrRecursionLimit or ErrInstructionLimit. Unknown
// opcodes are logged and skipped. Whatever geometry was batched before an
// error is still flushed and can be taken with TakeDrawCalls.
func (r *RCP) Run(addr uint32) error {
	r.resetState()
	r.stats.Instructions = 0
	r.stats.UnknownOpcodes = 0

	err := r.walk(addr)
	r.acc.Flush()
	if err != nil {
		r.logger.Warn("rcp: display list aborted", "err", err)
	}
	return err
}

func (r *RCP) walk(addr uint32) error {
	cur := gbi.NewCursor(r.mem, r.mem.Resolve(addr))
	stack := make([]uint32, 0, r.opts.maxDepth)

	fail := func(pc uint32, op gbi.Opcode, err error) error {
		return &RunError{
			Address:      pc,
			Opcode:       op,
			Depth:        len(stack),
			Instructions: r.stats.Instructions,
			Err:          err,
		}
	}

	for {
		pc := cur.Addr()
		if r.stats.Instructions >= r.opts.maxInstructions {
			return fail(pc, 0, ErrInstructionLimit)
		}
		cmd, err := cur.Next()
		if err != nil {
			return fail(pc, 0, fmt.Errorf("%w: %w", ErrAddressOutOfRange, err))
		}
		r.stats.Instructions++

		op := cmd.Opcode()
		res := gbi.Unhandled(op)
		if h, ok := r.table[op]; ok {
			res, err = h(r, cur, cmd)
			if err != nil {
				return fail(pc, op, err)
			}
		}

		switch res.Action {
		case gbi.Continue:
		case gbi.Unknown:
			r.stats.UnknownOpcodes++
			r.logger.Debug("rcp: unknown opcode", "opcode", op.String(), "addr", pc, "w0", cmd.W0, "w1", cmd.W1)
		case gbi.Return:
			if len(stack) == 0 {
				return nil
			}
			cur.Seek(stack[len(stack)-1])
			stack = stack[:len(stack)-1]
		case gbi.Recurse:
			if len(stack) >= r.opts.maxDepth {
				return fail(pc, op, ErrRecursionLimit)
			}
			stack = append(stack, cur.Addr())
			cur.Seek(r.mem.Resolve(res.Addr))
		case gbi.SetAddress:
			cur.Seek(r.mem.Resolve(res.Addr))
		}
	}
}
