package inject

import (
	corev1 "k8s.io/api/core/v1"
)

// LaunchProfile defines how a resolved plan for one accelerator maps onto a
// worker pod: the extended resource to request, the device visibility
// variable of the vendor runtime, and extra environment the stack expects.
type LaunchProfile struct {
	// Accelerator is the accelerator name the profile applies to
	Accelerator string `json:"accelerator"`

	// ResourceName is the extended resource requested per device,
	// empty for accelerators without a device plugin (cpu, mps)
	ResourceName corev1.ResourceName `json:"resourceName,omitempty"`

	// VisibleDevicesEnv is the vendor variable that narrows device
	// visibility inside the container
	VisibleDevicesEnv string `json:"visibleDevicesEnv,omitempty"`

	// ExtraEnv is additional environment the vendor stack expects
	ExtraEnv map[string]string `json:"extraEnv,omitempty"`
}

// =============================================================================
// Pre-defined Launch Profiles
// =============================================================================

// CUDAProfile maps cuda plans onto pods using the NVIDIA device plugin.
var CUDAProfile = LaunchProfile{
	Accelerator:       "cuda",
	ResourceName:      "nvidia.com/gpu",
	VisibleDevicesEnv: "CUDA_VISIBLE_DEVICES",
	ExtraEnv: map[string]string{
		"NVIDIA_DRIVER_CAPABILITIES": "compute,utility",
	},
}

// HPUProfile maps hpu plans onto pods using the Habana device plugin.
var HPUProfile = LaunchProfile{
	Accelerator:       "hpu",
	ResourceName:      "habana.ai/gaudi",
	VisibleDevicesEnv: "HABANA_VISIBLE_MODULES",
}

// TPUProfile maps tpu plans onto pods using the TPU device plugin.
var TPUProfile = LaunchProfile{
	Accelerator:       "tpu",
	ResourceName:      "google.com/tpu",
	VisibleDevicesEnv: "TPU_VISIBLE_DEVICES",
}

// IPUProfile maps ipu plans onto pods using the Graphcore device plugin.
var IPUProfile = LaunchProfile{
	Accelerator:       "ipu",
	ResourceName:      "graphcore.ai/ipu",
	VisibleDevicesEnv: "IPUOF_VISIBLE_DEVICES",
}

// CPUProfile maps cpu plans onto pods: no extended resource, no visibility
// variable, the workers share the pod's cpu allocation.
var CPUProfile = LaunchProfile{
	Accelerator: "cpu",
}

// builtinProfiles indexes the predefined profiles by accelerator name.
func builtinProfiles() map[string]*LaunchProfile {
	return map[string]*LaunchProfile{
		"cuda": &CUDAProfile,
		"hpu":  &HPUProfile,
		"tpu":  &TPUProfile,
		"ipu":  &IPUProfile,
		"cpu":  &CPUProfile,
		"mps":  {Accelerator: "mps"},
	}
}
