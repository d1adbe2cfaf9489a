package cuda

import (
	"strconv"
	"strings"

	"github.com/zrs-products/hetero-train-planner/pkg/accelerators"
)

// Probe abstracts the NVIDIA device count query so tests can run without a
// driver and so a failed probe stays final for one resolution attempt.
type Probe interface {
	// DeviceCount returns the number of CUDA devices, or an error when the
	// driver is absent or not responding.
	DeviceCount() (int, error)
}

// Accelerator is the CUDA accelerator backed by NVML.
type Accelerator struct {
	probe   Probe
	visible []int
}

// Option configures the CUDA accelerator.
type Option func(*Accelerator)

// WithProbe replaces the NVML probe, for tests.
func WithProbe(p Probe) Option {
	return func(a *Accelerator) {
		a.probe = p
	}
}

// WithVisibleDevices narrows the device set the way the runtime honours
// CUDA_VISIBLE_DEVICES. An empty string applies no narrowing.
func WithVisibleDevices(spec string) Option {
	return func(a *Accelerator) {
		a.visible = parseVisibleDevices(spec)
	}
}

// New creates the CUDA accelerator. Without options it probes through NVML.
func New(opts ...Option) *Accelerator {
	a := &Accelerator{
		probe: &nvmlProbe{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns "cuda".
func (a *Accelerator) Name() string { return "cuda" }

// IsAvailable reports whether at least one CUDA device is visible.
func (a *Accelerator) IsAvailable() bool {
	return a.AutoDeviceCount() > 0
}

// AutoDeviceCount returns the visible CUDA device count, 0 when the driver
// probe fails.
func (a *Accelerator) AutoDeviceCount() int {
	count, err := a.probe.DeviceCount()
	if err != nil || count <= 0 {
		return 0
	}
	if a.visible != nil && len(a.visible) < count {
		return len(a.visible)
	}
	return count
}

// ParseDevices normalizes a device spec against the visible device count.
func (a *Accelerator) ParseDevices(spec accelerators.DeviceSpec) ([]int, error) {
	count := a.AutoDeviceCount()
	switch {
	case spec.Auto:
		return accelerators.SequentialIndices(count), nil
	case spec.Indices != nil:
		for _, idx := range spec.Indices {
			if count > 0 && idx >= count {
				return nil, &accelerators.InvalidDeviceSpecError{
					Spec:   strconv.Itoa(idx),
					Reason: "device index out of range, " + strconv.Itoa(count) + " cuda devices visible",
				}
			}
		}
		return spec.Indices, nil
	default:
		return accelerators.SequentialIndices(spec.Count), nil
	}
}

// GetParallelDevices maps device indices to cuda device handles.
func (a *Accelerator) GetParallelDevices(indices []int) []accelerators.Device {
	devices := make([]accelerators.Device, len(indices))
	for i, idx := range indices {
		devices[i] = accelerators.Device{Kind: "cuda", Index: idx}
	}
	return devices
}

// parseVisibleDevices parses a CUDA_VISIBLE_DEVICES value. Malformed entries
// terminate the list, matching the runtime behavior.
func parseVisibleDevices(spec string) []int {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil
	}
	var visible []int
	for _, part := range strings.Split(spec, ",") {
		idx, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			break
		}
		visible = append(visible, idx)
	}
	if visible == nil {
		visible = []int{}
	}
	return visible
}
