package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/rcp/backend"
	"github.com/gogpu/rcp/combiner"
	"github.com/gogpu/rcp/texture"
)

func openNoop(t *testing.T) *Backend {
	t.Helper()
	b, err := OpenNoop(nil)
	if err != nil {
		t.Fatalf("OpenNoop() error = %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestTextureLifecycle(t *testing.T) {
	b := openNoop(t)

	id, err := b.NewTexture()
	if err != nil {
		t.Fatalf("NewTexture() error = %v", err)
	}
	if _, _, ok := b.Binding(id); ok {
		t.Error("Binding() ok before upload")
	}

	if err := b.UploadTexture(id, make([]byte, 4*4*2), 4, 2); err != nil {
		t.Fatalf("UploadTexture() error = %v", err)
	}
	if err := b.SetSampler(id, texture.Sampler(texture.TxClamp, texture.TxMirror, true)); err != nil {
		t.Fatalf("SetSampler() error = %v", err)
	}
	if view, sampler, ok := b.Binding(id); !ok || view == nil || sampler == nil {
		t.Errorf("Binding() = %v, %v, %v", view, sampler, ok)
	}

	// Same size reuses the texture, a new size recreates it.
	if err := b.UploadTexture(id, make([]byte, 4*4*2), 4, 2); err != nil {
		t.Errorf("re-upload error = %v", err)
	}
	if err := b.UploadTexture(id, make([]byte, 8*8*4), 8, 8); err != nil {
		t.Errorf("resize upload error = %v", err)
	}

	if err := b.ReleaseTexture(id); err != nil {
		t.Fatalf("ReleaseTexture() error = %v", err)
	}
	if err := b.ReleaseTexture(id); !errors.Is(err, backend.ErrReleased) {
		t.Errorf("second ReleaseTexture() error = %v, want ErrReleased", err)
	}
	if err := b.UploadTexture(id, make([]byte, 4), 1, 1); !errors.Is(err, backend.ErrReleased) {
		t.Errorf("UploadTexture(released) error = %v, want ErrReleased", err)
	}
}

func TestUploadRejectsBadSize(t *testing.T) {
	b := openNoop(t)
	id, _ := b.NewTexture()
	if err := b.UploadTexture(id, make([]byte, 10), 2, 2); !errors.Is(err, backend.ErrTextureSize) {
		t.Errorf("UploadTexture() error = %v, want ErrTextureSize", err)
	}
}

func TestCompileProgram(t *testing.T) {
	b := openNoop(t)
	pc := combiner.NewCompiler(b, 8, nil)

	p, err := pc.Program(combiner.NewKey(combiner.Shaded, combiner.KeyOptions{}))
	if err != nil {
		t.Fatalf("Program() error = %v", err)
	}
	if _, ok := b.ShaderModule(p.Handle); !ok {
		t.Errorf("ShaderModule(%d) missing", p.Handle)
	}
	if words, ok := b.SPIRV(p.Handle); !ok || len(words) == 0 {
		t.Errorf("SPIRV(%d) = %d words, %v", p.Handle, len(words), ok)
	}
}

func TestClose(t *testing.T) {
	b, err := OpenNoop(nil)
	if err != nil {
		t.Fatalf("OpenNoop() error = %v", err)
	}
	id, _ := b.NewTexture()
	if err := b.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := b.NewTexture(); !errors.Is(err, ErrClosed) {
		t.Errorf("NewTexture() after Close error = %v, want ErrClosed", err)
	}
	if err := b.SetSampler(id, texture.Sampler(0, 0, false)); !errors.Is(err, ErrClosed) {
		t.Errorf("SetSampler() after Close error = %v, want ErrClosed", err)
	}
}

func TestRegistered(t *testing.T) {
	if !backend.IsRegistered(backend.BackendHALNoop) {
		t.Fatal("hal-noop not registered")
	}
	be, err := backend.Open(backend.BackendHALNoop)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer be.Close()
	if be.Name() != backend.BackendHALNoop {
		t.Errorf("Name() = %q", be.Name())
	}
}
