package shader

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/naga"
	"github.com/gogpu/rcp/backend"
)

// ErrWordAlignment is returned when compiled SPIR-V is not a whole number
// of 32-bit words.
var ErrWordAlignment = errors.New("shader: SPIR-V is not word aligned")

// Module is a compiled shader module.
type Module struct {
	Label  string
	Source string
	SPIRV  []uint32
}

// Compile compiles WGSL source to SPIR-V words.
func Compile(label, source string, opts naga.CompileOptions) (*Module, error) {
	spirvBytes, err := naga.CompileWithOptions(source, opts)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", label, err)
	}
	words, err := Words(spirvBytes)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", label, err)
	}
	return &Module{Label: label, Source: source, SPIRV: words}, nil
}

// Words converts SPIR-V bytes to little-endian 32-bit words.
func Words(b []byte) ([]uint32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrWordAlignment, len(b))
	}
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words, nil
}

// Compiler is a backend.ProgramCompiler that compiles programs to SPIR-V
// and keeps the modules in memory. Backends without a device use it to
// check generated programs; the hal backend wraps the modules in GPU
// shader modules.
//
// Compiler is safe for concurrent use.
type Compiler struct {
	mu      sync.Mutex
	opts    naga.CompileOptions
	next    backend.ProgramID
	modules map[backend.ProgramID]*Module
	logger  *slog.Logger
}

// NewCompiler creates a compiler using naga's default options. A nil
// logger discards output.
func NewCompiler(logger *slog.Logger) *Compiler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Compiler{
		opts:    naga.DefaultOptions(),
		modules: make(map[backend.ProgramID]*Module),
		logger:  logger,
	}
}

// CompileProgram implements backend.ProgramCompiler.
func (c *Compiler) CompileProgram(label, wgsl string) (backend.ProgramID, error) {
	m, err := Compile(label, wgsl, c.opts)
	if err != nil {
		c.logger.Warn("shader: compile failed", "label", label, "error", err)
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.next++
	c.modules[c.next] = m
	c.logger.Debug("shader: compiled", "label", label, "id", c.next, "words", len(m.SPIRV))
	return c.next, nil
}

// Module returns a compiled module.
func (c *Compiler) Module(id backend.ProgramID) (*Module, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.modules[id]
	return m, ok
}

// Len returns the number of compiled modules.
func (c *Compiler) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.modules)
}
