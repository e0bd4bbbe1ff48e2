package combiner

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/rcp/backend"
	"github.com/gogpu/rcp/internal/cache"
)

// DefaultProgramCapacity is the program cache size used when none is set.
const DefaultProgramCapacity = 256

// Compiler generates programs on demand and caches them by key.
//
// Compiler is safe for concurrent use.
type Compiler struct {
	pc     backend.ProgramCompiler
	cache  *cache.Cache[Key, *Program]
	logger *slog.Logger
}

// NewCompiler returns a compiler backed by pc. A capacity of zero or less
// selects DefaultProgramCapacity. logger may be nil.
func NewCompiler(pc backend.ProgramCompiler, capacity int, logger *slog.Logger) *Compiler {
	if capacity <= 0 {
		capacity = DefaultProgramCapacity
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Compiler{pc: pc, logger: logger}
	c.cache = cache.New[Key, *Program](capacity, func(k Key, _ *Program) {
		c.logger.Debug("combiner: program evicted", "key", k.String())
	})
	return c
}

// Program returns the compiled program for k, generating and compiling it
// on first use. Equal keys always yield the same program.
func (c *Compiler) Program(k Key) (*Program, error) {
	return c.cache.GetOrCreate(k, func() (*Program, error) {
		p, err := Generate(k)
		if err != nil {
			return nil, err
		}
		if c.pc != nil {
			id, err := c.pc.CompileProgram(p.Label, p.Source)
			if err != nil {
				return nil, fmt.Errorf("combiner: compile %s: %w", k, err)
			}
			p.Handle = id
		}
		c.logger.Debug("combiner: program compiled",
			"key", k.String(), "hash", k.Hash(), "inputs", p.Mapping.NumInputs)
		return p, nil
	})
}

// Len returns the number of cached programs.
func (c *Compiler) Len() int { return c.cache.Len() }

// Stats returns program cache statistics.
func (c *Compiler) Stats() cache.Stats { return c.cache.Stats() }

// Reset drops every cached program.
func (c *Compiler) Reset() { c.cache.Clear() }
