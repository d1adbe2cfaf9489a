package clusterenv

// ClusterEnvironment describes how a multi-process training job discovers its
// ranks, world size and rendezvous address. Exactly one environment wins a
// resolution: an explicit plugin instance beats detection, detection runs in
// a fixed order, and the local environment is the fallback.
type ClusterEnvironment interface {
	// Name identifies the environment, e.g. "slurm"
	Name() string

	// CreatesProcessesExternally reports whether worker processes are
	// launched by the cluster (scheduler, operator) rather than by us
	CreatesProcessesExternally() bool

	// MainAddress is the rendezvous address of rank 0
	MainAddress() string

	// MainPort is the rendezvous port of rank 0
	MainPort() int

	// WorldSize is the total number of processes in the job
	WorldSize() int

	// GlobalRank is this process' rank across all nodes
	GlobalRank() int

	// LocalRank is this process' rank within its node
	LocalRank() int

	// NodeRank is the rank of this node
	NodeRank() int
}

// LaunchRequest carries the parts of a resolution a detection predicate may
// consult. TotalTasks is nodes times devices per node; 0 means the device
// count is still auto.
type LaunchRequest struct {
	TotalTasks int
}

// Detector pairs a pure detection predicate with an environment constructor.
type Detector struct {
	// Name of the environment this detector produces
	Name string

	// Detect reports whether the environment variables describe this cluster
	Detect func(env Environ, req LaunchRequest) bool

	// New constructs the environment from the snapshot
	New func(env Environ) ClusterEnvironment
}

// DefaultDetectors returns the detection chain in precedence order:
// SLURM, then TorchElastic, then Kubeflow. The local environment is not part
// of the chain; it is the fallback when nothing detects.
func DefaultDetectors() []Detector {
	return []Detector{
		{
			Name:   "slurm",
			Detect: DetectSLURM,
			New:    func(env Environ) ClusterEnvironment { return NewSLURM(env) },
		},
		{
			Name:   "torchelastic",
			Detect: DetectTorchElastic,
			New:    func(env Environ) ClusterEnvironment { return NewTorchElastic(env) },
		},
		{
			Name:   "kubeflow",
			Detect: DetectKubeflow,
			New:    func(env Environ) ClusterEnvironment { return NewKubeflow(env) },
		},
	}
}

// Detect runs the detector chain and returns the first matching environment,
// or nil when none matches.
func Detect(detectors []Detector, env Environ, req LaunchRequest) ClusterEnvironment {
	for _, d := range detectors {
		if d.Detect(env, req) {
			return d.New(env)
		}
	}
	return nil
}
