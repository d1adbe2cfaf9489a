package cuda

import (
	"fmt"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

// nvmlProbe queries the device count through the NVML library. Each probe
// initializes and shuts down NVML so the accelerator holds no driver state
// between resolutions.
type nvmlProbe struct{}

func (p *nvmlProbe) DeviceCount() (int, error) {
	if ret := nvml.Init(); ret != nvml.SUCCESS {
		return 0, fmt.Errorf("nvml init failed: %s", nvml.ErrorString(ret))
	}
	defer nvml.Shutdown()

	count, ret := nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		return 0, fmt.Errorf("nvml device count failed: %s", nvml.ErrorString(ret))
	}
	return count, nil
}
