package clusterenv

// Local is the single-node fallback environment. The strategy's own launcher
// spawns the workers; re-executed workers find their rank in LOCAL_RANK.
type Local struct {
	env       Environ
	worldSize int
}

// NewLocal creates the local environment from a snapshot.
func NewLocal(env Environ) *Local {
	return &Local{env: env, worldSize: 1}
}

// Name returns "local".
func (e *Local) Name() string { return "local" }

// CreatesProcessesExternally is false: the launcher spawns workers itself.
func (e *Local) CreatesProcessesExternally() bool { return false }

// MainAddress is the loopback address.
func (e *Local) MainAddress() string { return "127.0.0.1" }

// MainPort is MASTER_PORT when a parent launcher exported it, else 0 to let
// the launcher pick a free port.
func (e *Local) MainPort() int { return e.env.Int("MASTER_PORT", 0) }

// WorldSize is the process count set by the resolver.
func (e *Local) WorldSize() int { return e.worldSize }

// SetWorldSize records the resolved process count.
func (e *Local) SetWorldSize(n int) {
	if n > 0 {
		e.worldSize = n
	}
}

// GlobalRank equals the local rank on a single node.
func (e *Local) GlobalRank() int { return e.LocalRank() }

// LocalRank is LOCAL_RANK, 0 in the parent process.
func (e *Local) LocalRank() int { return e.env.Int("LOCAL_RANK", 0) }

// NodeRank is always 0.
func (e *Local) NodeRank() int { return 0 }
