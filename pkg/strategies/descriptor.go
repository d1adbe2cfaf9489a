package strategies

// Family identifies a built-in strategy implementation. The set is closed;
// extension happens through pre-built Strategy instances, not new families.
type Family string

const (
	FamilySingleDevice    Family = "single_device"
	FamilyDataParallel    Family = "dp"
	FamilyDDP             Family = "ddp"
	FamilyDDPSpawn        Family = "ddp_spawn"
	FamilyDDPSharded      Family = "ddp_sharded"
	FamilyDDPSpawnSharded Family = "ddp_sharded_spawn"
	FamilyFSDPNative      Family = "fsdp_native"
	FamilyDeepSpeed       Family = "deepspeed"
	FamilySingleTPU       Family = "single_tpu"
	FamilyTPUSpawn        Family = "tpu_spawn"
)

// Descriptor describes a concrete strategy choice before construction.
type Descriptor struct {
	// Key is the registry key the descriptor was selected under
	Key string

	// Family is the strategy implementation
	Family Family

	// FindUnusedParameters carries the ddp variant flag; it defaults to true
	// and is false for the *_find_unused_parameters_false keys
	FindUnusedParameters bool
}

// IsSingleDevice reports whether the strategy runs exactly one process.
func (d Descriptor) IsSingleDevice() bool {
	return d.Family == FamilySingleDevice || d.Family == FamilySingleTPU
}

// IsSpawn reports whether the strategy's launcher forks worker processes
// inside the current process.
func (d Descriptor) IsSpawn() bool {
	switch d.Family {
	case FamilyDDPSpawn, FamilyDDPSpawnSharded, FamilyTPUSpawn:
		return true
	}
	return false
}

// IsMultiProcess reports whether the strategy coordinates several processes.
func (d Descriptor) IsMultiProcess() bool {
	switch d.Family {
	case FamilyDDP, FamilyDDPSpawn, FamilyDDPSharded, FamilyDDPSpawnSharded,
		FamilyFSDPNative, FamilyDeepSpeed, FamilyTPUSpawn:
		return true
	}
	return false
}

// GPUOnly reports whether the strategy only works on GPU accelerators.
func (d Descriptor) GPUOnly() bool {
	return d.Family == FamilyDataParallel
}

// TPUOnly reports whether the strategy only works on the TPU accelerator.
func (d Descriptor) TPUOnly() bool {
	return d.Family == FamilySingleTPU || d.Family == FamilyTPUSpawn
}

// NonSpawnEquivalent returns the externally-launched counterpart of a spawn
// strategy. Under SLURM, TorchElastic or Kubeflow the cluster already started
// every rank, so there is nothing left to spawn.
func (d Descriptor) NonSpawnEquivalent() Descriptor {
	switch d.Family {
	case FamilyDDPSpawn:
		return Descriptor{Key: "ddp", Family: FamilyDDP, FindUnusedParameters: d.FindUnusedParameters}
	case FamilyDDPSpawnSharded:
		return Descriptor{Key: "ddp_sharded", Family: FamilyDDPSharded, FindUnusedParameters: d.FindUnusedParameters}
	}
	return d
}

// DDPEquivalent returns the nearest DDP-family strategy, used when a GPU-only
// strategy was requested on a non-GPU accelerator.
func (d Descriptor) DDPEquivalent() Descriptor {
	return Descriptor{Key: "ddp", Family: FamilyDDP, FindUnusedParameters: true}
}
