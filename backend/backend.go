package backend

import (
	"errors"
	"log/slog"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/snapshot"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not registered.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNoDeviceProvider is returned by GPU backends opened without a host device.
	ErrNoDeviceProvider = errors.New("backend: no device provider")
)

// Backend name constants.
const (
	// BackendSoftware is the name of the CPU device on image.RGBA buffers.
	BackendSoftware = "software"
	// BackendWGPU is the name of the GPU device on gogpu/wgpu HAL.
	BackendWGPU = "wgpu"
)

// Options configures a device opened through the registry.
type Options struct {
	// Width and Height are the initial back-buffer resolution.
	Width, Height int

	// Provider is the host GPU device. GPU backends fail with
	// ErrNoDeviceProvider when it is nil; the software backend ignores it.
	Provider gpucontext.DeviceProvider

	// Workers is the number of goroutines CPU backends spread passes over.
	// Zero runs passes on the calling goroutine; negative means GOMAXPROCS.
	Workers int

	// Logger overrides the backend logger. Nil uses snapshot.Logger().
	Logger *slog.Logger
}

// Log returns the configured logger or the package default.
func (o Options) Log() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return snapshot.Logger()
}

// Factory opens a device.
type Factory func(opts Options) (snapshot.Device, error)
