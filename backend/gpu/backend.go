package gpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/rcp/backend"
	"github.com/gogpu/rcp/backend/shader"
	"github.com/gogpu/wgpu/hal"
)

// ErrClosed is returned by every method after Close.
var ErrClosed = errors.New("gpu: backend closed")

// texture is one backend texture. The HAL texture is created on first
// upload, when its size is known, and recreated when the size changes.
type texture struct {
	tex     hal.Texture
	view    hal.TextureView
	sampler hal.Sampler
	desc    gputypes.SamplerDescriptor
	width   int
	height  int
}

// program is a compiled combiner program.
type program struct {
	module hal.ShaderModule
	spirv  *shader.Module
}

// Backend implements backend.Backend on a wgpu HAL device. Textures are
// RGBA8 sampled textures written through the queue; programs are compiled
// to SPIR-V with naga and wrapped in shader modules.
//
// Backend is safe for concurrent use.
type Backend struct {
	mu      sync.Mutex
	name    string
	device  hal.Device
	queue   hal.Queue
	cleanup func()
	opts    naga.CompileOptions
	logger  *slog.Logger
	closed  bool

	nextTexture backend.TextureID
	textures    map[backend.TextureID]*texture

	nextProgram backend.ProgramID
	programs    map[backend.ProgramID]*program
}

// New wraps an open device and queue. The caller keeps ownership of the
// device; Close only destroys resources the backend created.
func New(name string, device hal.Device, queue hal.Queue, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Backend{
		name:     name,
		device:   device,
		queue:    queue,
		opts:     naga.DefaultOptions(),
		logger:   logger,
		textures: make(map[backend.TextureID]*texture),
		programs: make(map[backend.ProgramID]*program),
	}
}

// Name implements backend.Backend.
func (b *Backend) Name() string { return b.name }

// Device returns the HAL device.
func (b *Backend) Device() hal.Device { return b.device }

// Queue returns the HAL queue.
func (b *Backend) Queue() hal.Queue { return b.queue }

// NewTexture implements backend.TextureUploader.
func (b *Backend) NewTexture() (backend.TextureID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrClosed
	}
	b.nextTexture++
	b.textures[b.nextTexture] = &texture{}
	return b.nextTexture, nil
}

// UploadTexture implements backend.TextureUploader.
func (b *Backend) UploadTexture(id backend.TextureID, rgba []byte, width, height int) error {
	if want := backend.TextureByteLen(width, height); want == 0 || len(rgba) != want {
		return fmt.Errorf("%w: %dx%d with %d bytes", backend.ErrTextureSize, width, height, len(rgba))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	t, err := b.texture(id)
	if err != nil {
		return fmt.Errorf("upload texture %d: %w", id, err)
	}
	if t.tex == nil || t.width != width || t.height != height {
		b.destroyImage(t)
		if err := b.createImage(id, t, width, height); err != nil {
			return err
		}
	}

	w, h := uint32(width), uint32(height) //nolint:gosec // validated above
	err = b.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.tex, Aspect: gputypes.TextureAspectAll},
		rgba,
		&hal.ImageDataLayout{BytesPerRow: w * 4, RowsPerImage: h},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("write texture %d: %w", id, err)
	}
	return nil
}

func (b *Backend) createImage(id backend.TextureID, t *texture, width, height int) error {
	label := fmt.Sprintf("rcp_texture_%d", id)
	tex, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}, //nolint:gosec // validated by caller
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create texture %d: %w", id, err)
	}
	view, err := b.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		b.device.DestroyTexture(tex)
		return fmt.Errorf("create texture view %d: %w", id, err)
	}
	t.tex, t.view, t.width, t.height = tex, view, width, height
	return nil
}

func (b *Backend) destroyImage(t *texture) {
	if t.view != nil {
		b.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		b.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}

// SetSampler implements backend.TextureUploader. An unchanged descriptor
// keeps the existing sampler.
func (b *Backend) SetSampler(id backend.TextureID, desc gputypes.SamplerDescriptor) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, err := b.texture(id)
	if err != nil {
		return fmt.Errorf("set sampler %d: %w", id, err)
	}
	if t.sampler != nil && t.desc == desc {
		return nil
	}
	s, err := b.device.CreateSampler(halSampler(desc))
	if err != nil {
		return fmt.Errorf("create sampler %d: %w", id, err)
	}
	if t.sampler != nil {
		b.device.DestroySampler(t.sampler)
	}
	t.sampler, t.desc = s, desc
	return nil
}

// halSampler converts a sampler descriptor to its HAL form.
func halSampler(d gputypes.SamplerDescriptor) *hal.SamplerDescriptor {
	mip := gputypes.FilterModeNearest
	if d.MipmapFilter == gputypes.MipmapFilterModeLinear {
		mip = gputypes.FilterModeLinear
	}
	return &hal.SamplerDescriptor{
		Label:        d.Label,
		AddressModeU: d.AddressModeU,
		AddressModeV: d.AddressModeV,
		AddressModeW: d.AddressModeW,
		MagFilter:    d.MagFilter,
		MinFilter:    d.MinFilter,
		MipmapFilter: mip,
		LodMinClamp:  d.LodMinClamp,
		LodMaxClamp:  d.LodMaxClamp,
		Compare:      d.Compare,
		Anisotropy:   max(d.MaxAnisotropy, 1),
	}
}

// ReleaseTexture implements backend.TextureReleaser.
func (b *Backend) ReleaseTexture(id backend.TextureID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, err := b.texture(id)
	if err != nil {
		return fmt.Errorf("release texture %d: %w", id, err)
	}
	b.destroyTexture(t)
	delete(b.textures, id)
	return nil
}

func (b *Backend) destroyTexture(t *texture) {
	b.destroyImage(t)
	if t.sampler != nil {
		b.device.DestroySampler(t.sampler)
		t.sampler = nil
	}
}

// texture looks up a live texture. Caller must hold b.mu.
func (b *Backend) texture(id backend.TextureID) (*texture, error) {
	if b.closed {
		return nil, ErrClosed
	}
	t, ok := b.textures[id]
	if !ok {
		return nil, backend.ErrReleased
	}
	return t, nil
}

// CompileProgram implements backend.ProgramCompiler.
func (b *Backend) CompileProgram(label, wgsl string) (backend.ProgramID, error) {
	m, err := shader.Compile(label, wgsl, b.opts)
	if err != nil {
		return 0, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrClosed
	}
	module, err := b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: m.SPIRV},
	})
	if err != nil {
		return 0, fmt.Errorf("create shader module %q: %w", label, err)
	}

	b.nextProgram++
	b.programs[b.nextProgram] = &program{module: module, spirv: m}
	b.logger.Debug("gpu: program compiled", "label", label, "id", b.nextProgram)
	return b.nextProgram, nil
}

// Binding returns the view and sampler of a texture for bind group
// creation. ok is false until the texture has been uploaded and given a
// sampler.
func (b *Backend) Binding(id backend.TextureID) (view hal.TextureView, sampler hal.Sampler, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, found := b.textures[id]
	if !found || t.view == nil || t.sampler == nil {
		return nil, nil, false
	}
	return t.view, t.sampler, true
}

// ShaderModule returns the module of a compiled program.
func (b *Backend) ShaderModule(id backend.ProgramID) (hal.ShaderModule, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.programs[id]
	if !ok {
		return nil, false
	}
	return p.module, true
}

// SPIRV returns the compiled words of a program.
func (b *Backend) SPIRV(id backend.ProgramID) ([]uint32, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.programs[id]
	if !ok {
		return nil, false
	}
	return p.spirv.SPIRV, true
}

// Close implements backend.Backend. It destroys every texture, sampler and
// shader module, then the device if the backend opened it.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for id, t := range b.textures {
		b.destroyTexture(t)
		delete(b.textures, id)
	}
	for id, p := range b.programs {
		b.device.DestroyShaderModule(p.module)
		delete(b.programs, id)
	}
	if b.cleanup != nil {
		b.cleanup()
	}
	b.logger.Info("gpu: backend closed", "name", b.name)
	return nil
}

var _ backend.Backend = (*Backend)(nil)
