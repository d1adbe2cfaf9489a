package accelerators

import (
	"os"
	"strconv"
	"strings"
)

// envProbeAccelerator covers accelerators whose presence is advertised through
// runtime environment variables set by the vendor stack (TPU, IPU, HPU).
// The probe is a pure predicate over an environment snapshot so tests can
// supply a synthetic map instead of mutating process state.
type envProbeAccelerator struct {
	name     string
	markers  []string
	countVar string
	count    int
	lookup   func(string) (string, bool)
}

// EnvProbeOption configures an environment-probed accelerator.
type EnvProbeOption func(*envProbeAccelerator)

// WithEnviron replaces the process environment with a fixed snapshot.
func WithEnviron(env map[string]string) EnvProbeOption {
	return func(a *envProbeAccelerator) {
		a.lookup = func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		}
	}
}

// NewTPU creates the TPU accelerator. Presence is advertised through the
// TPU_NAME or XRT_TPU_CONFIG variables of the vendor runtime; the device
// count comes from TPU_NUM_DEVICES and defaults to 8 (one host of a pod).
func NewTPU(opts ...EnvProbeOption) Accelerator {
	return newEnvProbe("tpu", []string{"TPU_NAME", "XRT_TPU_CONFIG"}, "TPU_NUM_DEVICES", 8, opts)
}

// NewIPU creates the IPU accelerator, probed through IPUOF_CONFIG_PATH.
func NewIPU(opts ...EnvProbeOption) Accelerator {
	return newEnvProbe("ipu", []string{"IPUOF_CONFIG_PATH", "GCDA_MONITOR"}, "IPU_NUM_DEVICES", 4, opts)
}

// NewHPU creates the HPU accelerator, probed through HABANA_VISIBLE_MODULES.
func NewHPU(opts ...EnvProbeOption) Accelerator {
	return newEnvProbe("hpu", []string{"HABANA_VISIBLE_MODULES"}, "HABANA_NUM_DEVICES", 8, opts)
}

func newEnvProbe(name string, markers []string, countVar string, count int, opts []EnvProbeOption) *envProbeAccelerator {
	a := &envProbeAccelerator{
		name:     name,
		markers:  markers,
		countVar: countVar,
		count:    count,
		lookup:   os.LookupEnv,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *envProbeAccelerator) Name() string { return a.name }

func (a *envProbeAccelerator) IsAvailable() bool {
	for _, marker := range a.markers {
		if v, ok := a.lookup(marker); ok && strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

func (a *envProbeAccelerator) AutoDeviceCount() int {
	if v, ok := a.lookup(a.countVar); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			return n
		}
	}
	return a.count
}

func (a *envProbeAccelerator) ParseDevices(spec DeviceSpec) ([]int, error) {
	switch {
	case spec.Auto:
		return SequentialIndices(a.AutoDeviceCount()), nil
	case spec.Indices != nil:
		return spec.Indices, nil
	default:
		return SequentialIndices(spec.Count), nil
	}
}

func (a *envProbeAccelerator) GetParallelDevices(indices []int) []Device {
	devices := make([]Device, len(indices))
	for i, idx := range indices {
		devices[i] = Device{Kind: a.name, Index: idx}
	}
	return devices
}
