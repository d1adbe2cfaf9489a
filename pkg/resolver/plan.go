package resolver

import (
	"github.com/zrs-products/hetero-train-planner/pkg/accelerators"
	"github.com/zrs-products/hetero-train-planner/pkg/clusterenv"
	"github.com/zrs-products/hetero-train-planner/pkg/plugins"
	"github.com/zrs-products/hetero-train-planner/pkg/precision"
	"github.com/zrs-products/hetero-train-planner/pkg/strategies"
)

// Plan is the fully resolved execution plan. Downstream launch code treats it
// as opaque and immutable for the remainder of the run.
type Plan struct {
	// Accelerator is the resolved accelerator
	Accelerator accelerators.Accelerator

	// Devices are the resolved device indices on one node
	Devices []int

	// ParallelDevices are the device handles for Devices
	ParallelDevices []accelerators.Device

	// NumNodes is the node count of the job
	NumNodes int

	// NumProcesses is the per-node process count, len(Devices)
	NumProcesses int

	// WorldSize is the total process count across nodes
	WorldSize int

	// Strategy is the resolved strategy descriptor
	Strategy strategies.Descriptor

	// StrategyInstance is the pre-built instance, when one was supplied
	StrategyInstance *strategies.Strategy

	// Launcher describes how workers are started; nil when they run
	// in-process or were started externally
	Launcher *strategies.Launcher

	// ClusterEnvironment is the selected cluster environment
	ClusterEnvironment clusterenv.ClusterEnvironment

	// Precision is the validated precision configuration
	Precision precision.Settings

	// LayerSync is the cross-device normalization policy, nil for none
	LayerSync plugins.LayerSync

	// CheckpointIO is the checkpoint artifact IO implementation
	CheckpointIO plugins.CheckpointIO

	// Diagnostics are the non-fatal findings collected during resolution
	Diagnostics []Diagnostic
}

// Summary is the serializable view of a plan, used by the CLI output.
type Summary struct {
	Accelerator        string              `json:"accelerator"`
	Devices            []int               `json:"devices"`
	NumNodes           int                 `json:"numNodes"`
	NumProcesses       int                 `json:"numProcesses"`
	WorldSize          int                 `json:"worldSize"`
	Strategy           string              `json:"strategy"`
	Launcher           string              `json:"launcher,omitempty"`
	ClusterEnvironment string              `json:"clusterEnvironment"`
	MainAddress        string              `json:"mainAddress"`
	MainPort           int                 `json:"mainPort"`
	GlobalRank         int                 `json:"globalRank"`
	LocalRank          int                 `json:"localRank"`
	NodeRank           int                 `json:"nodeRank"`
	Precision          precision.Settings  `json:"precision"`
	LayerSync          string              `json:"layerSync,omitempty"`
	Diagnostics        []Diagnostic        `json:"diagnostics,omitempty"`
}

// Summarize renders the plan into its serializable view.
func (p *Plan) Summarize() Summary {
	s := Summary{
		Accelerator:        p.Accelerator.Name(),
		Devices:            p.Devices,
		NumNodes:           p.NumNodes,
		NumProcesses:       p.NumProcesses,
		WorldSize:          p.WorldSize,
		Strategy:           p.Strategy.Key,
		ClusterEnvironment: p.ClusterEnvironment.Name(),
		MainAddress:        p.ClusterEnvironment.MainAddress(),
		MainPort:           p.ClusterEnvironment.MainPort(),
		GlobalRank:         p.ClusterEnvironment.GlobalRank(),
		LocalRank:          p.ClusterEnvironment.LocalRank(),
		NodeRank:           p.ClusterEnvironment.NodeRank(),
		Precision:          p.Precision,
		Diagnostics:        p.Diagnostics,
	}
	if p.Launcher != nil {
		s.Launcher = string(p.Launcher.Kind)
	}
	if p.LayerSync != nil {
		s.LayerSync = p.LayerSync.Kind()
	}
	return s
}
