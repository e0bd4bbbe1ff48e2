package backend

import (
	"errors"

	"github.com/gogpu/gputypes"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not registered.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrReleased is returned when a texture is used after ReleaseTexture.
	ErrReleased = errors.New("backend: texture released")

	// ErrTextureSize is returned when uploaded pixels do not match width*height*4.
	ErrTextureSize = errors.New("backend: texture data size mismatch")
)

// TextureID identifies a texture owned by a backend. Zero is never a valid ID.
type TextureID uint64

// ProgramID identifies a compiled shader program owned by a backend.
// Zero is never a valid ID.
type ProgramID uint64

// TextureUploader creates textures and fills them with RGBA8 pixels.
type TextureUploader interface {
	// NewTexture allocates an empty texture handle.
	NewTexture() (TextureID, error)

	// UploadTexture replaces the texture contents. rgba holds width*height
	// RGBA8 pixels, rows top to bottom.
	UploadTexture(id TextureID, rgba []byte, width, height int) error

	// SetSampler sets the sampling state used when the texture is bound.
	SetSampler(id TextureID, desc gputypes.SamplerDescriptor) error
}

// TextureReleaser frees textures evicted from a cache. Releasing an ID that
// is unknown must not panic.
type TextureReleaser interface {
	ReleaseTexture(id TextureID) error
}

// ProgramCompiler compiles synthesized WGSL into a backend program.
type ProgramCompiler interface {
	CompileProgram(label, wgsl string) (ProgramID, error)
}

// Backend is the full set of hooks the RCP core calls. Implementations are
// called from a single goroutine per RCP instance and may block.
//
// Backends are registered via Register() and selected via Open().
type Backend interface {
	TextureUploader
	TextureReleaser
	ProgramCompiler

	// Name returns the backend identifier (e.g., "recorder", "hal-noop").
	Name() string

	// Close releases all backend resources.
	// The backend should not be used after Close is called.
	Close() error
}

// TextureByteLen returns the RGBA8 byte length of a width x height texture.
func TextureByteLen(width, height int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	return width * height * 4
}
