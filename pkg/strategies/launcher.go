package strategies

// LauncherKind identifies how a strategy's workers come into existence.
type LauncherKind string

const (
	// LauncherSubprocess re-executes the current program once per worker
	LauncherSubprocess LauncherKind = "subprocess"

	// LauncherMultiprocessing forks workers with a spawn start method
	LauncherMultiprocessing LauncherKind = "multiprocessing"

	// LauncherFork forks workers with a fork start method (TPU)
	LauncherFork LauncherKind = "fork"
)

// Launcher describes the process launcher a resolved strategy would use.
// A nil Launcher means the strategy runs in-process or every rank was
// started externally.
type Launcher struct {
	// Kind is the launch mechanism
	Kind LauncherKind

	// InteractiveCompatible reports whether the launcher can run inside an
	// interactive runtime such as a notebook kernel
	InteractiveCompatible bool
}

// Launcher returns the launcher the descriptor would configure, given whether
// the cluster environment creates processes externally.
func (d Descriptor) Launcher(createsProcessesExternally bool) *Launcher {
	switch d.Family {
	case FamilySingleDevice, FamilySingleTPU, FamilyDataParallel:
		return nil
	case FamilyDDPSpawn, FamilyDDPSpawnSharded:
		return &Launcher{Kind: LauncherMultiprocessing, InteractiveCompatible: false}
	case FamilyTPUSpawn:
		return &Launcher{Kind: LauncherFork, InteractiveCompatible: true}
	default:
		if createsProcessesExternally {
			return nil
		}
		return &Launcher{Kind: LauncherSubprocess, InteractiveCompatible: false}
	}
}
