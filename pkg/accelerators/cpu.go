package accelerators

// CPU is the fallback accelerator. It is always available and treats devices
// as anonymous worker slots: an index list selects len(list) slots.
type CPU struct{}

// NewCPU creates the CPU accelerator.
func NewCPU() *CPU {
	return &CPU{}
}

// Name returns "cpu".
func (a *CPU) Name() string { return "cpu" }

// IsAvailable always reports true for CPU.
func (a *CPU) IsAvailable() bool { return true }

// AutoDeviceCount returns 1: a single process unless more were asked for.
func (a *CPU) AutoDeviceCount() int { return 1 }

// ParseDevices normalizes a device spec into CPU worker slots.
func (a *CPU) ParseDevices(spec DeviceSpec) ([]int, error) {
	switch {
	case spec.Auto:
		return SequentialIndices(a.AutoDeviceCount()), nil
	case spec.Indices != nil:
		// CPU slots carry no identity, only a count.
		return SequentialIndices(len(spec.Indices)), nil
	default:
		return SequentialIndices(spec.Count), nil
	}
}

// GetParallelDevices maps worker slots to device handles.
func (a *CPU) GetParallelDevices(indices []int) []Device {
	devices := make([]Device, len(indices))
	for i, idx := range indices {
		devices[i] = Device{Kind: "cpu", Index: idx}
	}
	return devices
}
