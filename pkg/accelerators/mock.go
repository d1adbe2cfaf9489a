package accelerators

// MockConfig configures a mock accelerator for tests.
type MockConfig struct {
	// Name is the accelerator name the mock reports
	Name string

	// Available is the result of the availability probe
	Available bool

	// DeviceCount is the auto device count
	DeviceCount int
}

// Mock is a configurable accelerator used in tests across packages.
type Mock struct {
	config MockConfig
}

// NewMock creates a mock accelerator.
func NewMock(config MockConfig) *Mock {
	if config.Name == "" {
		config.Name = "mock"
	}
	return &Mock{config: config}
}

// Name returns the configured name.
func (a *Mock) Name() string { return a.config.Name }

// IsAvailable returns the configured availability.
func (a *Mock) IsAvailable() bool { return a.config.Available }

// AutoDeviceCount returns the configured device count.
func (a *Mock) AutoDeviceCount() int { return a.config.DeviceCount }

// ParseDevices normalizes a device spec against the configured count.
func (a *Mock) ParseDevices(spec DeviceSpec) ([]int, error) {
	switch {
	case spec.Auto:
		n := a.config.DeviceCount
		if n <= 0 {
			n = 1
		}
		return SequentialIndices(n), nil
	case spec.Indices != nil:
		return spec.Indices, nil
	default:
		return SequentialIndices(spec.Count), nil
	}
}

// GetParallelDevices maps device indices to device handles.
func (a *Mock) GetParallelDevices(indices []int) []Device {
	devices := make([]Device, len(indices))
	for i, idx := range indices {
		devices[i] = Device{Kind: a.config.Name, Index: idx}
	}
	return devices
}
