package rcp

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/rcp/backend"
	"github.com/gogpu/rcp/combiner"
	"github.com/gogpu/rcp/draw"
	"github.com/gogpu/rcp/gbi"
	"github.com/gogpu/rcp/rdp"
	"github.com/gogpu/rcp/rsp"
	"github.com/gogpu/rcp/texture"
)

// TextureState is the G_TEXTURE configuration.
type TextureState struct {
	On             bool
	Tile, Level    uint8
	ScaleS, ScaleT uint16
}

// Stats reports what an RCP has done.
type Stats struct {
	// Instructions is the number of commands the last Run processed.
	Instructions int
	// UnknownOpcodes counts commands without a handler in the last Run.
	UnknownOpcodes int

	Triangles int // submitted since the last Reset
	Culled    int // rejected by clip or winding
	Skipped   int // dropped over unsupported state

	Batches  draw.Stats
	Textures texture.CacheStats

	Programs      int
	ProgramHits   uint64
	ProgramMisses uint64
}

// RCP decodes display lists into draw calls.
//
// An RCP owns its caches and is not safe for concurrent use. Run several
// instances for several outputs.
type RCP struct {
	mem     gbi.Memory
	backend backend.Backend
	opts    options
	logger  *slog.Logger
	profile Profile
	table   Table

	// RSP and RDP are exposed for inspection; Run resets both.
	RSP     *rsp.State
	RDP     *rdp.State
	Texture TextureState

	textures *texture.Cache
	programs *combiner.Compiler
	acc      *draw.Accumulator

	vertices [rsp.MaxVertices]rsp.Vertex
	bound    [2]*texture.Entry
	frame    uint32
	stats    Stats
	scratch  []float32
}

// New creates an RCP reading display lists from mem and handing textures
// and programs to be. be may be nil, in which case nothing is uploaded and
// draw calls carry no backend handles.
func New(mem gbi.Memory, be backend.Backend, opts ...Option) (*RCP, error) {
	if mem == nil {
		return nil, errors.New("rcp: nil memory")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = Logger()
	}

	profile, table, err := buildTable(o.profile)
	if err != nil {
		return nil, err
	}

	r := &RCP{
		mem:     mem,
		backend: be,
		opts:    o,
		logger:  logger,
		profile: profile,
		table:   table,
		RSP:     rsp.NewState(),
		RDP:     rdp.NewState(rdp.Output{Width: o.width, Height: o.height}),
		acc:     draw.NewAccumulator(o.maxBatch),
	}

	var (
		releaser backend.TextureReleaser
		compiler backend.ProgramCompiler
	)
	if be != nil {
		releaser, compiler = be, be
	}
	r.textures, err = texture.NewCache(o.textureCapacity, releaser, logger)
	if err != nil {
		return nil, fmt.Errorf("rcp: %w", err)
	}
	r.programs = combiner.NewCompiler(compiler, o.programCapacity, logger)

	backendName := "none"
	if be != nil {
		backendName = be.Name()
	}
	logger.Info("rcp: created",
		"profile", profile.Name(), "backend", backendName,
		"width", o.width, "height", o.height)
	return r, nil
}

// Profile returns the name of the active microcode profile.
func (r *RCP) Profile() string { return r.profile.Name() }

// Reset starts a new frame: RSP and RDP return to power-on state, pending
// geometry is dropped and the frame counter advances. Caches are kept.
func (r *RCP) Reset() {
	r.resetState()
	r.acc.Reset()
	r.frame++
	r.stats.Triangles, r.stats.Culled, r.stats.Skipped = 0, 0, 0
}

func (r *RCP) resetState() {
	r.RSP.Reset()
	r.RDP.Reset()
	r.Texture = TextureState{}
	r.bound = [2]*texture.Entry{}
}

// TakeDrawCalls returns every finished draw call and clears the
// accumulator. The caller owns the result.
func (r *RCP) TakeDrawCalls() []draw.DrawCall {
	return r.acc.Take()
}

// Stats returns the counters of this instance.
func (r *RCP) Stats() Stats {
	s := r.stats
	s.Batches = r.acc.Stats()
	s.Textures = r.textures.Stats()
	ps := r.programs.Stats()
	s.Programs = ps.Len
	s.ProgramHits = ps.Hits
	s.ProgramMisses = ps.Misses
	return s
}

// PurgeCaches drops every cached texture and program. Use it when the
// memory behind cached texture addresses was rewritten.
func (r *RCP) PurgeCaches() {
	r.textures.Purge()
	r.programs.Reset()
	r.bound = [2]*texture.Entry{}
}

// read resolves a raw display-list address and reads n bytes behind it.
func (r *RCP) read(raw uint32, n int) ([]byte, error) {
	b, err := gbi.ReadResolved(r.mem, raw, n)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAddressOutOfRange, err)
	}
	return b, nil
}
