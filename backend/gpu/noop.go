package gpu

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rcp/backend"
	"github.com/gogpu/wgpu/hal/noop"
)

func init() {
	backend.Register(backend.BackendHALNoop, func() backend.Backend {
		b, err := OpenNoop(nil)
		if err != nil {
			return nil
		}
		return b
	})
}

// ErrNoAdapter is returned when an instance exposes no adapter.
var ErrNoAdapter = errors.New("gpu: no adapter")

// OpenNoop opens the wgpu noop device. Every call succeeds without
// touching a GPU, which makes it suitable for tests and headless runs.
func OpenNoop(logger *slog.Logger) (*Backend, error) {
	instance, err := noop.API{}.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("create noop instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	open, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open noop device: %w", err)
	}

	b := New(backend.BackendHALNoop, open.Device, open.Queue, logger)
	b.cleanup = func() {
		open.Device.Destroy()
		instance.Destroy()
	}
	b.logger.Info("gpu: backend created", "name", b.name, "adapter", adapters[0].Info.Name)
	return b, nil
}
