package clusterenv

// SLURM is the cluster environment for jobs launched by the SLURM scheduler
// with srun. Every rank is started externally; rank and size come from the
// SLURM_* variables of the step.
type SLURM struct {
	env Environ
}

// NewSLURM creates a SLURM environment from an environment snapshot.
func NewSLURM(env Environ) *SLURM {
	return &SLURM{env: env}
}

// DetectSLURM reports whether SLURM is managing the tasks of this job.
// SLURM_NTASKS must be present, the job must not be an interactive `bash`
// allocation, and the task count must match what the caller requested: an
// srun step whose task count disagrees with the requested devices is treated
// as a mere allocation, not as task management.
func DetectSLURM(env Environ, req LaunchRequest) bool {
	ntasks := env.Int("SLURM_NTASKS", 0)
	if ntasks <= 0 {
		return false
	}
	if env.String("SLURM_JOB_NAME", "") == "bash" {
		return false
	}
	if req.TotalTasks > 0 {
		return ntasks == req.TotalTasks
	}
	return ntasks > 1
}

// Name returns "slurm".
func (e *SLURM) Name() string { return "slurm" }

// CreatesProcessesExternally is true: srun starts every rank.
func (e *SLURM) CreatesProcessesExternally() bool { return true }

// MainAddress is the rendezvous address, MASTER_ADDR or the first node.
func (e *SLURM) MainAddress() string {
	return e.env.String("MASTER_ADDR", "127.0.0.1")
}

// MainPort derives a stable rendezvous port from the job id so concurrent
// jobs on one login node do not collide.
func (e *SLURM) MainPort() int {
	if port := e.env.Int("MASTER_PORT", 0); port > 0 {
		return port
	}
	jobID := e.env.Int("SLURM_JOB_ID", 0)
	return 15000 + jobID%1000
}

// WorldSize is SLURM_NTASKS.
func (e *SLURM) WorldSize() int { return e.env.Int("SLURM_NTASKS", 1) }

// GlobalRank is SLURM_PROCID.
func (e *SLURM) GlobalRank() int { return e.env.Int("SLURM_PROCID", 0) }

// LocalRank is SLURM_LOCALID.
func (e *SLURM) LocalRank() int { return e.env.Int("SLURM_LOCALID", 0) }

// NodeRank is SLURM_NODEID.
func (e *SLURM) NodeRank() int { return e.env.Int("SLURM_NODEID", 0) }
