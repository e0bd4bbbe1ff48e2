package rcp

import (
	"log/slog"

	"github.com/gogpu/rcp/combiner"
	"github.com/gogpu/rcp/rdp"
	"github.com/gogpu/rcp/texture"
)

// Default execution limits.
const (
	DefaultMaxDepth        = 16
	DefaultMaxInstructions = 1 << 20
)

// Option configures an RCP during creation.
//
// Example:
//
//	r, err := rcp.New(mem, be,
//	    rcp.WithProfile("f3dex2e"),
//	    rcp.WithOutputSize(1280, 720),
//	)
type Option func(*options)

// options holds optional configuration for RCP creation.
type options struct {
	profile         string
	width, height   int
	textureCapacity int
	programCapacity int
	maxDepth        int
	maxInstructions int
	maxBatch        int
	depthZeroToOne  bool
	logger          *slog.Logger
}

// defaultOptions returns the default RCP options.
func defaultOptions() options {
	return options{
		profile:         ProfileF3DEX2,
		width:           rdp.ScreenWidth,
		height:          rdp.ScreenHeight,
		textureCapacity: texture.DefaultCapacity,
		programCapacity: combiner.DefaultProgramCapacity,
		maxDepth:        DefaultMaxDepth,
		maxInstructions: DefaultMaxInstructions,
		depthZeroToOne:  true,
	}
}

// WithProfile selects the microcode profile by name. See Profiles.
func WithProfile(name string) Option {
	return func(o *options) {
		o.profile = name
	}
}

// WithOutputSize sets the framebuffer size viewports and scissors are
// scaled to. Non-positive sizes are ignored.
func WithOutputSize(width, height int) Option {
	return func(o *options) {
		if width > 0 && height > 0 {
			o.width, o.height = width, height
		}
	}
}

// WithTextureCacheCapacity sets the number of decoded textures kept.
func WithTextureCacheCapacity(n int) Option {
	return func(o *options) {
		o.textureCapacity = n
	}
}

// WithProgramCacheCapacity sets the number of compiled programs kept.
func WithProgramCacheCapacity(n int) Option {
	return func(o *options) {
		o.programCapacity = n
	}
}

// WithLimits bounds display-list execution: maxDepth nested G_DL calls and
// maxInstructions commands per Run. Zero keeps the default.
func WithLimits(maxDepth, maxInstructions int) Option {
	return func(o *options) {
		if maxDepth > 0 {
			o.maxDepth = maxDepth
		}
		if maxInstructions > 0 {
			o.maxInstructions = maxInstructions
		}
	}
}

// WithDepthZeroToOne selects the clip-space depth range of the renderer:
// true for 0..1 (WebGPU, Vulkan), false for -1..1 (OpenGL).
func WithDepthZeroToOne(v bool) Option {
	return func(o *options) {
		o.depthZeroToOne = v
	}
}

// WithMaxBatch caps the triangles per draw call. Zero keeps the default.
func WithMaxBatch(n int) Option {
	return func(o *options) {
		o.maxBatch = n
	}
}

// WithLogger sets the logger of this instance, overriding Logger().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
