package backend

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestRecorderName(t *testing.T) {
	r := NewRecorder()
	if r.Name() != BackendRecorder {
		t.Errorf("Name() = %q, want %q", r.Name(), BackendRecorder)
	}
}

func TestRecorderTextureLifecycle(t *testing.T) {
	r := NewRecorder()
	id, err := r.NewTexture()
	if err != nil {
		t.Fatalf("NewTexture() error = %v", err)
	}
	if id == 0 {
		t.Fatal("NewTexture() returned the zero ID")
	}

	pixels := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if err := r.UploadTexture(id, pixels, 2, 1); err != nil {
		t.Fatalf("UploadTexture() error = %v", err)
	}
	pixels[0] = 99

	desc := gputypes.SamplerDescriptor{MagFilter: gputypes.FilterModeLinear}
	if err := r.SetSampler(id, desc); err != nil {
		t.Fatalf("SetSampler() error = %v", err)
	}

	tex, ok := r.Texture(id)
	if !ok {
		t.Fatal("Texture() not found")
	}
	if tex.Width != 2 || tex.Height != 1 || tex.Uploads != 1 {
		t.Errorf("Texture() = %+v", tex)
	}
	if tex.Data[0] != 1 {
		t.Error("UploadTexture() did not copy the pixels")
	}
	if tex.Sampler.MagFilter != gputypes.FilterModeLinear {
		t.Errorf("Sampler.MagFilter = %v, want linear", tex.Sampler.MagFilter)
	}

	if err := r.ReleaseTexture(id); err != nil {
		t.Fatalf("ReleaseTexture() error = %v", err)
	}
	if err := r.ReleaseTexture(id); !errors.Is(err, ErrReleased) {
		t.Errorf("second ReleaseTexture() error = %v, want ErrReleased", err)
	}
	if err := r.UploadTexture(id, pixels, 2, 1); !errors.Is(err, ErrReleased) {
		t.Errorf("UploadTexture() after release error = %v, want ErrReleased", err)
	}
	if got := r.Released(); len(got) != 1 || got[0] != id {
		t.Errorf("Released() = %v, want [%d]", got, id)
	}
}

func TestRecorderUploadSizeMismatch(t *testing.T) {
	r := NewRecorder()
	id, _ := r.NewTexture()

	tests := []struct {
		name string
		data []byte
		w, h int
	}{
		{"short", make([]byte, 12), 2, 2},
		{"long", make([]byte, 20), 2, 2},
		{"zero size", nil, 0, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := r.UploadTexture(id, tt.data, tt.w, tt.h); !errors.Is(err, ErrTextureSize) {
				t.Errorf("UploadTexture() error = %v, want ErrTextureSize", err)
			}
		})
	}
}

func TestRecorderReleaseError(t *testing.T) {
	boom := errors.New("device lost")
	r := NewRecorder()
	r.ReleaseError = boom
	id, _ := r.NewTexture()

	if err := r.ReleaseTexture(id); !errors.Is(err, boom) {
		t.Errorf("ReleaseTexture() error = %v, want %v", err, boom)
	}
	if _, ok := r.Texture(id); ok {
		t.Error("texture kept after a failed release")
	}
}

func TestRecorderPrograms(t *testing.T) {
	r := NewRecorder()
	a, _ := r.CompileProgram("a", "fn a() {}")
	b, _ := r.CompileProgram("b", "fn b() {}")
	if a == b {
		t.Fatalf("CompileProgram() returned duplicate ID %d", a)
	}
	if src, ok := r.Program(b); !ok || src != "fn b() {}" {
		t.Errorf("Program(%d) = %q, %v", b, src, ok)
	}

	s := r.Stats()
	if s.Programs != 2 || s.Textures != 0 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestRegistry(t *testing.T) {
	if !IsRegistered(BackendRecorder) {
		t.Fatal("recorder backend not registered")
	}

	b, err := Open(BackendRecorder)
	if err != nil {
		t.Fatalf("Open(%q) error = %v", BackendRecorder, err)
	}
	if b.Name() != BackendRecorder {
		t.Errorf("Name() = %q", b.Name())
	}
	if err := b.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	if _, err := Open("missing"); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Open(missing) error = %v, want ErrBackendNotAvailable", err)
	}
	if Get("missing") != nil {
		t.Error("Get(missing) != nil")
	}
}

func TestRegisterUnregister(t *testing.T) {
	const name = "test-backend"
	Register(name, func() Backend { return NewRecorder() })
	defer Unregister(name)

	found := false
	for _, n := range Available() {
		if n == name {
			found = true
		}
	}
	if !found {
		t.Errorf("Available() = %v, missing %q", Available(), name)
	}

	Unregister(name)
	if IsRegistered(name) {
		t.Error("IsRegistered() after Unregister")
	}
}

func TestDefault(t *testing.T) {
	if Default() == nil {
		t.Fatal("Default() = nil")
	}
	if DefaultName() == "" {
		t.Error("DefaultName() is empty")
	}
}

func TestTextureByteLen(t *testing.T) {
	tests := []struct {
		w, h, want int
	}{
		{4, 4, 64},
		{1, 1, 4},
		{0, 8, 0},
		{-1, 8, 0},
	}
	for _, tt := range tests {
		if got := TextureByteLen(tt.w, tt.h); got != tt.want {
			t.Errorf("TextureByteLen(%d, %d) = %d, want %d", tt.w, tt.h, got, tt.want)
		}
	}
}
