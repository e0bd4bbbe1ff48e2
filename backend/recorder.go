package backend

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
)

func init() {
	Register(BackendRecorder, func() Backend {
		return NewRecorder()
	})
}

// RecordedTexture is the last state written to a texture.
type RecordedTexture struct {
	Width, Height int
	Data          []byte
	Sampler       gputypes.SamplerDescriptor
	Uploads       int
}

// RecorderStats counts calls made on a Recorder.
type RecorderStats struct {
	Textures int // live textures
	Uploads  int
	Programs int
	Released int
}

// Recorder is a Backend that keeps every texture and program in memory.
// It is used by tests and by tools that only need the draw-call stream.
//
// Recorder is safe for concurrent use.
type Recorder struct {
	mu          sync.Mutex
	nextTexture TextureID
	nextProgram ProgramID
	textures    map[TextureID]*RecordedTexture
	programs    map[ProgramID]string
	released    []TextureID
	uploads     int

	// ReleaseError, if set, is returned by ReleaseTexture after the texture
	// has been dropped.
	ReleaseError error
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		textures: make(map[TextureID]*RecordedTexture),
		programs: make(map[ProgramID]string),
	}
}

// Name implements Backend.
func (r *Recorder) Name() string { return BackendRecorder }

// NewTexture implements TextureUploader.
func (r *Recorder) NewTexture() (TextureID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextTexture++
	r.textures[r.nextTexture] = &RecordedTexture{}
	return r.nextTexture, nil
}

// UploadTexture implements TextureUploader. The pixels are copied.
func (r *Recorder) UploadTexture(id TextureID, rgba []byte, width, height int) error {
	if want := TextureByteLen(width, height); want == 0 || len(rgba) != want {
		return fmt.Errorf("%w: %dx%d with %d bytes", ErrTextureSize, width, height, len(rgba))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tex, ok := r.textures[id]
	if !ok {
		return fmt.Errorf("upload texture %d: %w", id, ErrReleased)
	}
	tex.Width, tex.Height = width, height
	tex.Data = append(tex.Data[:0], rgba...)
	tex.Uploads++
	r.uploads++
	return nil
}

// SetSampler implements TextureUploader.
func (r *Recorder) SetSampler(id TextureID, desc gputypes.SamplerDescriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tex, ok := r.textures[id]
	if !ok {
		return fmt.Errorf("set sampler %d: %w", id, ErrReleased)
	}
	tex.Sampler = desc
	return nil
}

// ReleaseTexture implements TextureReleaser.
func (r *Recorder) ReleaseTexture(id TextureID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.textures[id]; !ok {
		return fmt.Errorf("release texture %d: %w", id, ErrReleased)
	}
	delete(r.textures, id)
	r.released = append(r.released, id)
	return r.ReleaseError
}

// CompileProgram implements ProgramCompiler. The source is stored as is.
func (r *Recorder) CompileProgram(label, wgsl string) (ProgramID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextProgram++
	r.programs[r.nextProgram] = wgsl
	return r.nextProgram, nil
}

// Texture returns a copy of a live texture's state.
func (r *Recorder) Texture(id TextureID) (RecordedTexture, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tex, ok := r.textures[id]
	if !ok {
		return RecordedTexture{}, false
	}
	return *tex, true
}

// Program returns the source a program was compiled from.
func (r *Recorder) Program(id ProgramID) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	src, ok := r.programs[id]
	return src, ok
}

// Released returns the released texture IDs in release order.
func (r *Recorder) Released() []TextureID {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]TextureID(nil), r.released...)
}

// Stats returns call counters.
func (r *Recorder) Stats() RecorderStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	return RecorderStats{
		Textures: len(r.textures),
		Uploads:  r.uploads,
		Programs: len(r.programs),
		Released: len(r.released),
	}
}

// Close implements Backend. It drops every texture and program.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.textures)
	clear(r.programs)
	return nil
}
