package cuda

import "errors"

// MockProbe is a configurable NVML probe for tests.
type MockProbe struct {
	// Count is the reported device count
	Count int

	// Fail makes the probe fail as if no driver were installed
	Fail bool
}

// DeviceCount implements Probe.
func (p *MockProbe) DeviceCount() (int, error) {
	if p.Fail {
		return 0, errors.New("mock nvml probe failure")
	}
	return p.Count, nil
}
