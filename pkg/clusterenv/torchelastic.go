package clusterenv

// TorchElastic is the cluster environment for jobs launched with torchrun.
// The elastic agent starts every worker and publishes rank information in
// the standard RANK/LOCAL_RANK/GROUP_RANK variables.
type TorchElastic struct {
	env Environ
}

// NewTorchElastic creates a TorchElastic environment from a snapshot.
func NewTorchElastic(env Environ) *TorchElastic {
	return &TorchElastic{env: env}
}

// DetectTorchElastic reports whether the elastic agent launched this process.
func DetectTorchElastic(env Environ, _ LaunchRequest) bool {
	return env.Has("TORCHELASTIC_RUN_ID") || (env.Has("RANK") && env.Has("GROUP_RANK"))
}

// Name returns "torchelastic".
func (e *TorchElastic) Name() string { return "torchelastic" }

// CreatesProcessesExternally is true: the elastic agent spawns workers.
func (e *TorchElastic) CreatesProcessesExternally() bool { return true }

// MainAddress is MASTER_ADDR.
func (e *TorchElastic) MainAddress() string {
	return e.env.String("MASTER_ADDR", "127.0.0.1")
}

// MainPort is MASTER_PORT.
func (e *TorchElastic) MainPort() int { return e.env.Int("MASTER_PORT", 29400) }

// WorldSize is WORLD_SIZE.
func (e *TorchElastic) WorldSize() int { return e.env.Int("WORLD_SIZE", 1) }

// GlobalRank is RANK.
func (e *TorchElastic) GlobalRank() int { return e.env.Int("RANK", 0) }

// LocalRank is LOCAL_RANK.
func (e *TorchElastic) LocalRank() int { return e.env.Int("LOCAL_RANK", 0) }

// NodeRank is GROUP_RANK.
func (e *TorchElastic) NodeRank() int { return e.env.Int("GROUP_RANK", 0) }
