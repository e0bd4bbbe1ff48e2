package backend

import (
	"fmt"
	"sort"

	"github.com/gogpu/gpucontext"
)

// Backend names.
const (
	// BackendHALNoop is the wgpu HAL backend on the noop device.
	BackendHALNoop = "hal-noop"

	// BackendRecorder is the in-memory recording backend.
	BackendRecorder = "recorder"
)

// Factory creates a new backend instance. It returns nil if the backend
// cannot be created on this system.
type Factory func() Backend

// registry holds registered backends.
// Priority order for selection (first available wins): HAL > Recorder.
var registry = gpucontext.NewRegistry[Backend](
	gpucontext.WithPriority(BackendHALNoop, BackendRecorder),
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it will be replaced.
func Register(name string, factory Factory) {
	registry.Register(name, factory)
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registry.Unregister(name)
}

// Available returns the registered backend names, sorted.
func Available() []string {
	names := registry.Available()
	sort.Strings(names)
	return names
}

// DefaultName returns the name Default would pick, or "" if none.
func DefaultName() string {
	return registry.BestName()
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	return registry.Has(name)
}

// Get returns a backend instance by name.
// Returns nil if the backend is not registered or its factory failed.
func Get(name string) Backend {
	return registry.Get(name)
}

// Default returns the best available backend based on priority.
// Returns nil if no backends are registered.
func Default() Backend {
	return registry.Best()
}

// Open returns the named backend, or the default one when name is empty.
func Open(name string) (Backend, error) {
	var b Backend
	if name == "" {
		b = Default()
	} else {
		b = Get(name)
	}
	if b == nil {
		if name == "" {
			return nil, ErrBackendNotAvailable
		}
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	return b, nil
}
