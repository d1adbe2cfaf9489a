package accelerators

import "fmt"

// InvalidAcceleratorError reports an accelerator name that is not in the
// registry.
type InvalidAcceleratorError struct {
	// Name is the accelerator name the caller supplied
	Name string

	// Known lists the registered accelerator names
	Known []string
}

func (e *InvalidAcceleratorError) Error() string {
	return fmt.Sprintf("invalid accelerator name %q, known accelerators: %v", e.Name, e.Known)
}

// AcceleratorUnavailableError reports an explicitly requested accelerator
// whose availability probe failed.
type AcceleratorUnavailableError struct {
	// Name is the requested accelerator
	Name string
}

func (e *AcceleratorUnavailableError) Error() string {
	return fmt.Sprintf("accelerator %q can not run on this system: the availability probe failed", e.Name)
}

// InvalidDeviceSpecError reports a device spec that failed normalization.
type InvalidDeviceSpecError struct {
	// Spec is the raw device spec as supplied
	Spec string

	// Reason describes the violated constraint
	Reason string
}

func (e *InvalidDeviceSpecError) Error() string {
	return fmt.Sprintf("devices=%q is not a valid device spec: %s", e.Spec, e.Reason)
}
