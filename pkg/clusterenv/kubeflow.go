package clusterenv

// Kubeflow is the cluster environment for jobs launched by the Kubeflow
// training operator. Each pod runs exactly one rank, so the local rank is
// always 0.
type Kubeflow struct {
	env Environ
}

// NewKubeflow creates a Kubeflow environment from a snapshot.
func NewKubeflow(env Environ) *Kubeflow {
	return &Kubeflow{env: env}
}

// DetectKubeflow reports whether the training operator launched this pod:
// we must be inside a Kubernetes pod and the operator must have populated
// the full rendezvous variable set.
func DetectKubeflow(env Environ, _ LaunchRequest) bool {
	return env.Has("KUBERNETES_PORT") &&
		env.Has("MASTER_ADDR") &&
		env.Has("MASTER_PORT") &&
		env.Has("WORLD_SIZE") &&
		env.Has("RANK")
}

// Name returns "kubeflow".
func (e *Kubeflow) Name() string { return "kubeflow" }

// CreatesProcessesExternally is true: the operator creates worker pods.
func (e *Kubeflow) CreatesProcessesExternally() bool { return true }

// MainAddress is MASTER_ADDR.
func (e *Kubeflow) MainAddress() string {
	return e.env.String("MASTER_ADDR", "")
}

// MainPort is MASTER_PORT.
func (e *Kubeflow) MainPort() int { return e.env.Int("MASTER_PORT", 0) }

// WorldSize is WORLD_SIZE.
func (e *Kubeflow) WorldSize() int { return e.env.Int("WORLD_SIZE", 1) }

// GlobalRank is RANK.
func (e *Kubeflow) GlobalRank() int { return e.env.Int("RANK", 0) }

// LocalRank is always 0, one rank per pod.
func (e *Kubeflow) LocalRank() int { return 0 }

// NodeRank equals the global rank, one rank per pod.
func (e *Kubeflow) NodeRank() int { return e.GlobalRank() }
