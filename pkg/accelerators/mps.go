package accelerators

import "runtime"

// MPS is the Apple Metal Performance Shaders accelerator. It exposes exactly
// one device and is available on Apple Silicon hosts only.
type MPS struct {
	available func() bool
}

// MPSOption configures the MPS accelerator.
type MPSOption func(*MPS)

// WithMPSAvailability overrides the platform probe, for tests.
func WithMPSAvailability(probe func() bool) MPSOption {
	return func(a *MPS) {
		a.available = probe
	}
}

// NewMPS creates the MPS accelerator.
func NewMPS(opts ...MPSOption) *MPS {
	a := &MPS{
		available: func() bool {
			return runtime.GOOS == "darwin" && runtime.GOARCH == "arm64"
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns "mps".
func (a *MPS) Name() string { return "mps" }

// IsAvailable probes for an Apple Silicon host.
func (a *MPS) IsAvailable() bool { return a.available() }

// AutoDeviceCount returns 1: MPS is a single-device accelerator.
func (a *MPS) AutoDeviceCount() int { return 1 }

// ParseDevices normalizes a device spec against the single MPS device.
func (a *MPS) ParseDevices(spec DeviceSpec) ([]int, error) {
	switch {
	case spec.Auto:
		return []int{0}, nil
	case spec.Indices != nil:
		for _, idx := range spec.Indices {
			if idx != 0 {
				return nil, &InvalidDeviceSpecError{Spec: "mps device list", Reason: "mps exposes a single device with index 0"}
			}
		}
		return []int{0}, nil
	case spec.Count > 1:
		return nil, &InvalidDeviceSpecError{Spec: "mps device count", Reason: "mps exposes a single device"}
	default:
		return []int{0}, nil
	}
}

// GetParallelDevices maps device indices to device handles.
func (a *MPS) GetParallelDevices(indices []int) []Device {
	devices := make([]Device, len(indices))
	for i, idx := range indices {
		devices[i] = Device{Kind: "mps", Index: idx}
	}
	return devices
}
