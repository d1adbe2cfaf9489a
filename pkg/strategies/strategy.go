package strategies

import (
	"github.com/zrs-products/hetero-train-planner/pkg/accelerators"
	"github.com/zrs-products/hetero-train-planner/pkg/clusterenv"
	"github.com/zrs-products/hetero-train-planner/pkg/precision"
)

// Strategy is a pre-built strategy instance. Its embedded bindings take
// precedence over top-level flags during resolution, but non-default bindings
// that contradict explicit flags are a configuration error.
type Strategy struct {
	descriptor Descriptor

	accelerator     accelerators.Accelerator
	parallelDevices []int
	clusterEnv      clusterenv.ClusterEnvironment
	precision       *precision.Settings
}

// InstanceOption configures a pre-built strategy instance.
type InstanceOption func(*Strategy)

// WithAccelerator binds an accelerator to the instance.
func WithAccelerator(acc accelerators.Accelerator) InstanceOption {
	return func(s *Strategy) {
		s.accelerator = acc
	}
}

// WithParallelDevices binds explicit device indices to the instance.
func WithParallelDevices(indices []int) InstanceOption {
	return func(s *Strategy) {
		s.parallelDevices = indices
	}
}

// WithClusterEnvironment binds a cluster environment to the instance.
func WithClusterEnvironment(env clusterenv.ClusterEnvironment) InstanceOption {
	return func(s *Strategy) {
		s.clusterEnv = env
	}
}

// WithPrecision binds precision settings to the instance.
func WithPrecision(settings precision.Settings) InstanceOption {
	return func(s *Strategy) {
		s.precision = &settings
	}
}

// New creates a pre-built strategy instance for the given descriptor.
func New(d Descriptor, opts ...InstanceOption) *Strategy {
	s := &Strategy{descriptor: d}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Descriptor returns the instance's strategy descriptor.
func (s *Strategy) Descriptor() Descriptor { return s.descriptor }

// Accelerator returns the bound accelerator, nil when unbound.
func (s *Strategy) Accelerator() accelerators.Accelerator { return s.accelerator }

// ParallelDevices returns the bound device indices, nil when unbound.
func (s *Strategy) ParallelDevices() []int { return s.parallelDevices }

// ClusterEnvironment returns the bound environment, nil when unbound.
func (s *Strategy) ClusterEnvironment() clusterenv.ClusterEnvironment { return s.clusterEnv }

// Precision returns the bound precision settings, nil when unbound.
func (s *Strategy) Precision() *precision.Settings { return s.precision }
