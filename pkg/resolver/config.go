package resolver

import (
	"github.com/zrs-products/hetero-train-planner/pkg/accelerators"
	"github.com/zrs-products/hetero-train-planner/pkg/clusterenv"
	"github.com/zrs-products/hetero-train-planner/pkg/plugins"
	"github.com/zrs-products/hetero-train-planner/pkg/strategies"
)

// Config is the declarative launch configuration a resolution starts from.
// All fields are optional; the zero value resolves to a single CPU process.
type Config struct {
	// Accelerator is an accelerator name ("cpu", "gpu", "cuda", "tpu",
	// "ipu", "hpu", "mps"), "auto", or empty for auto
	Accelerator string `json:"accelerator,omitempty"`

	// AcceleratorInstance is a user-supplied custom accelerator. It takes
	// priority over every builtin in auto selection.
	AcceleratorInstance accelerators.Accelerator `json:"-"`

	// Devices is the raw device spec: a count, an index list, "auto", or
	// empty for auto
	Devices string `json:"devices,omitempty"`

	// NumNodes is the number of nodes in the job, default 1
	NumNodes int `json:"numNodes,omitempty"`

	// Strategy is a strategy registry key, empty for automatic choice
	Strategy string `json:"strategy,omitempty"`

	// StrategyInstance is a pre-built strategy; its embedded bindings take
	// precedence over the flags above
	StrategyInstance *strategies.Strategy `json:"-"`

	// Plugins is the unordered plugin bag
	Plugins []plugins.Plugin `json:"-"`

	// Precision is the numeric precision, default "32"
	Precision string `json:"precision,omitempty"`

	// AMPBackend selects the mixed-precision backend, default "native"
	AMPBackend string `json:"ampBackend,omitempty"`

	// AMPLevel is the apex optimization level (O0..O3)
	AMPLevel string `json:"ampLevel,omitempty"`

	// SyncBatchNorm requests the default layer-sync policy for multi-device
	// strategies
	SyncBatchNorm bool `json:"syncBatchNorm,omitempty"`

	// GPUs is the deprecated GPU count alias for accelerator="gpu" plus
	// devices; using it emits a deprecation diagnostic
	GPUs string `json:"gpus,omitempty"`

	// Interactive marks an interactive runtime (notebook kernel); process
	// spawning launchers are rejected there
	Interactive bool `json:"interactive,omitempty"`

	// Env is the environment snapshot detection runs against; nil snapshots
	// the process environment once per resolution
	Env clusterenv.Environ `json:"-"`

	// Registry overrides the builtin accelerator registry, for tests
	Registry *accelerators.Registry `json:"-"`

	// Detectors overrides the cluster detection chain, for tests
	Detectors []clusterenv.Detector `json:"-"`
}
