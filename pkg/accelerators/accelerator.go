package accelerators

// Device identifies a single logical device managed by an accelerator,
// e.g. {Kind: "cuda", Index: 1} for the second CUDA GPU.
type Device struct {
	// Kind is the accelerator name that owns the device
	Kind string

	// Index is the device ordinal within the accelerator
	Index int
}

// Accelerator is the capability contract every accelerator backend implements.
// Builtin backends cover cpu, cuda, mps, tpu, ipu and hpu; user-supplied
// accelerators satisfy the same contract.
type Accelerator interface {
	// Name returns the accelerator name, e.g. "cuda"
	Name() string

	// IsAvailable reports whether the accelerator can be used on this host.
	// A failed probe is final for the current resolution attempt.
	IsAvailable() bool

	// AutoDeviceCount returns the number of devices selected by devices="auto".
	// A return of 0 means the count is unknown.
	AutoDeviceCount() int

	// ParseDevices normalizes a device spec into a list of device indices
	ParseDevices(spec DeviceSpec) ([]int, error)

	// GetParallelDevices maps device indices to device handles
	GetParallelDevices(indices []int) []Device
}
