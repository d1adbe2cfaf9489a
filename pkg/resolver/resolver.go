// Package resolver turns a declarative training-launch configuration into
// one unambiguous execution plan, or rejects it with a classified error.
//
// Resolution is deterministic for a fixed input: the environment is read
// once into a snapshot, hardware probes are final for the attempt, and all
// non-fatal findings are returned as diagnostics on the plan instead of
// being emitted as side effects. Independent resolutions are safe to run
// concurrently.
package resolver

import (
	"fmt"

	"github.com/zrs-products/hetero-train-planner/pkg/accelerators"
	"github.com/zrs-products/hetero-train-planner/pkg/clusterenv"
	"github.com/zrs-products/hetero-train-planner/pkg/plugins"
	"github.com/zrs-products/hetero-train-planner/pkg/precision"
	"github.com/zrs-products/hetero-train-planner/pkg/strategies"
)

// Resolve produces the execution plan for cfg.
//
// The pipeline is fixed: plugin classification, device spec normalization,
// accelerator selection, device resolution, cluster environment selection,
// strategy selection with compatibility fallbacks, precision validation and
// layer-sync policy. The first hard failure aborts the resolution.
func Resolve(cfg Config) (*Plan, error) {
	env := cfg.Env
	if env == nil {
		env = clusterenv.FromOS()
	}
	diags := &diagnostics{}

	pluginSet, err := plugins.Classify(cfg.Plugins)
	if err != nil {
		return nil, err
	}

	acceleratorName, devicesRaw := applyDeprecatedAliases(cfg, diags)

	// Device spec syntax is checked before any hardware probe so a malformed
	// devices flag is reported the same way on every accelerator.
	spec, err := accelerators.ParseDeviceSpec(devicesRaw)
	if err != nil {
		return nil, err
	}
	if devicesRaw == "" {
		spec = accelerators.DeviceSpec{Auto: true}
	}

	acc, err := resolveAccelerator(cfg, acceleratorName, env)
	if err != nil {
		return nil, err
	}

	devices, err := resolveDevices(cfg, acc, spec)
	if err != nil {
		return nil, err
	}

	numNodes := cfg.NumNodes
	if numNodes <= 0 {
		numNodes = 1
	}
	totalTasks := numNodes * len(devices)

	clusterEnv := resolveClusterEnvironment(cfg, pluginSet, env, totalTasks)

	desc, err := resolveStrategy(cfg, acc, clusterEnv, len(devices), numNodes, diags)
	if err != nil {
		return nil, err
	}

	settings, err := resolvePrecision(cfg, pluginSet, acc, diags)
	if err != nil {
		return nil, err
	}

	layerSync, err := resolveLayerSync(cfg, pluginSet, desc)
	if err != nil {
		return nil, err
	}

	checkpointIO := pluginSet.CheckpointIO
	if checkpointIO == nil {
		checkpointIO = plugins.NewLocalCheckpointIO()
	}

	worldSize := totalTasks
	if clusterEnv.CreatesProcessesExternally() {
		worldSize = clusterEnv.WorldSize()
	}

	return &Plan{
		Accelerator:        acc,
		Devices:            devices,
		ParallelDevices:    acc.GetParallelDevices(devices),
		NumNodes:           numNodes,
		NumProcesses:       len(devices),
		WorldSize:          worldSize,
		Strategy:           desc,
		StrategyInstance:   cfg.StrategyInstance,
		Launcher:           desc.Launcher(clusterEnv.CreatesProcessesExternally()),
		ClusterEnvironment: clusterEnv,
		Precision:          settings,
		LayerSync:          layerSync,
		CheckpointIO:       checkpointIO,
		Diagnostics:        diags.records,
	}, nil
}

// applyDeprecatedAliases folds legacy flags into the current ones and returns
// the effective accelerator name and raw device spec.
func applyDeprecatedAliases(cfg Config, diags *diagnostics) (string, string) {
	acceleratorName := cfg.Accelerator
	devicesRaw := cfg.Devices

	if cfg.GPUs != "" {
		diags.deprecatef("gpus=%s is deprecated in v1.7 and will be removed in v2.0, use accelerator=\"gpu\" and devices=%s instead", cfg.GPUs, cfg.GPUs)
		if acceleratorName == "" || acceleratorName == "auto" {
			acceleratorName = "gpu"
		}
		if acceleratorName == "gpu" || acceleratorName == "cuda" {
			if devicesRaw == "" {
				devicesRaw = cfg.GPUs
			}
		}
	}
	return acceleratorName, devicesRaw
}

// resolveAccelerator selects the accelerator: a strategy-embedded instance
// first, an explicit name next, the availability probe order for auto.
func resolveAccelerator(cfg Config, name string, env clusterenv.Environ) (accelerators.Accelerator, error) {
	registry := cfg.Registry
	if registry == nil {
		registry = defaultRegistry(env, cfg.AcceleratorInstance)
	}

	explicit := name != "" && name != "auto"
	normalized := normalizeAcceleratorName(name, registry)

	if cfg.StrategyInstance != nil {
		if embedded := cfg.StrategyInstance.Accelerator(); embedded != nil {
			if explicit && embedded.Name() != normalized {
				return nil, &ConflictingConfigurationError{
					First:  fmt.Sprintf("accelerator %q set through the strategy instance", embedded.Name()),
					Second: fmt.Sprintf("accelerator=%q", name),
				}
			}
			if !embedded.IsAvailable() {
				return nil, &accelerators.AcceleratorUnavailableError{Name: embedded.Name()}
			}
			return embedded, nil
		}
	}

	if cfg.AcceleratorInstance != nil && (!explicit || normalized == cfg.AcceleratorInstance.Name()) {
		if !cfg.AcceleratorInstance.IsAvailable() {
			return nil, &accelerators.AcceleratorUnavailableError{Name: cfg.AcceleratorInstance.Name()}
		}
		return cfg.AcceleratorInstance, nil
	}

	if explicit {
		return registry.Lookup(normalized)
	}
	return registry.FirstAvailable()
}

// normalizeAcceleratorName maps the "gpu" alias to a concrete GPU
// accelerator: cuda when present, mps on Apple Silicon hosts without CUDA.
func normalizeAcceleratorName(name string, registry *accelerators.Registry) string {
	if name != "gpu" {
		return name
	}
	if cudaAcc, ok := registry.Get("cuda"); ok && cudaAcc.IsAvailable() {
		return "cuda"
	}
	if mps, ok := registry.Get("mps"); ok && mps.IsAvailable() {
		return "mps"
	}
	return "cuda"
}

// resolveDevices normalizes the device spec through the accelerator and
// reconciles it with strategy-embedded parallel devices.
func resolveDevices(cfg Config, acc accelerators.Accelerator, spec accelerators.DeviceSpec) ([]int, error) {
	var embedded []int
	if cfg.StrategyInstance != nil {
		embedded = cfg.StrategyInstance.ParallelDevices()
	}

	if !spec.Auto || embedded == nil {
		devices, err := acc.ParseDevices(spec)
		if err != nil {
			return nil, err
		}
		if len(devices) == 0 {
			// The accelerator's own count is unknown; run one process.
			devices = []int{0}
		}
		if embedded != nil && !spec.Auto && len(embedded) != len(devices) {
			return nil, &ConflictingConfigurationError{
				First:  fmt.Sprintf("parallel devices %v set through the strategy instance", embedded),
				Second: fmt.Sprintf("devices=%q", cfg.Devices),
			}
		}
		if embedded == nil {
			return devices, nil
		}
	}
	return embedded, nil
}

// resolveClusterEnvironment selects the cluster environment with the fixed
// precedence: explicit plugin, strategy-embedded instance, detection chain,
// local fallback.
func resolveClusterEnvironment(cfg Config, pluginSet *plugins.Set, env clusterenv.Environ, totalTasks int) clusterenv.ClusterEnvironment {
	if pluginSet.ClusterEnvironment != nil {
		return pluginSet.ClusterEnvironment
	}
	if cfg.StrategyInstance != nil {
		if embedded := cfg.StrategyInstance.ClusterEnvironment(); embedded != nil {
			return embedded
		}
	}

	detectors := cfg.Detectors
	if detectors == nil {
		detectors = clusterenv.DefaultDetectors()
	}
	if detected := clusterenv.Detect(detectors, env, clusterenv.LaunchRequest{TotalTasks: totalTasks}); detected != nil {
		return detected
	}

	// The resolver owns this Local; a caller-supplied environment is never
	// mutated.
	local := clusterenv.NewLocal(env)
	local.SetWorldSize(totalTasks)
	return local
}

// resolveStrategy picks the strategy descriptor and applies the
// accelerator-compatibility fallback rules in their fixed order.
func resolveStrategy(cfg Config, acc accelerators.Accelerator, clusterEnv clusterenv.ClusterEnvironment, numDevices, numNodes int, diags *diagnostics) (strategies.Descriptor, error) {
	var desc strategies.Descriptor
	requested := false
	instance := cfg.StrategyInstance != nil

	switch {
	case instance:
		desc = cfg.StrategyInstance.Descriptor()
		requested = true
	case cfg.Strategy != "":
		var ok bool
		desc, ok = strategies.Lookup(cfg.Strategy)
		if !ok {
			return strategies.Descriptor{}, &InvalidStrategyError{Key: cfg.Strategy, Known: strategies.Keys()}
		}
		requested = true
	default:
		desc = defaultStrategy(acc, numDevices, numNodes)
	}

	accName := acc.Name()

	// Rule 1: GPU-only strategies downgrade to the DDP equivalent on other
	// accelerators, with a warning rather than an error.
	if !instance && desc.GPUOnly() && accName != "cuda" && accName != "mps" {
		diags.warnf("strategy=%q is not supported on %s accelerators, hence setting strategy=%q", desc.Key, accName, desc.DDPEquivalent().Key)
		desc = desc.DDPEquivalent()
	}

	// Rule 2: fully-sharded native requires CUDA.
	if desc.Family == strategies.FamilyFSDPNative && accName != "cuda" {
		return strategies.Descriptor{}, &IncompatibleStrategyError{
			Strategy:    desc.Key,
			Accelerator: accName,
			Reason:      "fully-sharded training requires the cuda accelerator",
		}
	}

	// Rule 3: the TPU accelerator pairs only with its own strategies, and
	// those strategies only with the TPU accelerator. Requesting anything
	// else is a hard error, never a downgrade.
	if accName == "tpu" && requested && !desc.TPUOnly() {
		return strategies.Descriptor{}, &IncompatibleStrategyError{
			Strategy:    desc.Key,
			Accelerator: accName,
			Reason:      "the tpu accelerator can only be used with the single_tpu or tpu_spawn strategies",
		}
	}
	if accName != "tpu" && desc.TPUOnly() {
		return strategies.Descriptor{}, &IncompatibleStrategyError{
			Strategy:    desc.Key,
			Accelerator: accName,
			Reason:      "tpu strategies require the tpu accelerator",
		}
	}

	// Rule 4: when every rank is started externally there is nothing left to
	// spawn, so spawn-family strategies resolve to their non-spawn
	// counterparts.
	if desc.IsSpawn() && clusterEnv.CreatesProcessesExternally() {
		desc = desc.NonSpawnEquivalent()
	}

	// Rule 5: interactive runtimes reject process-spawning launchers.
	if cfg.Interactive {
		if launcher := desc.Launcher(clusterEnv.CreatesProcessesExternally()); launcher != nil && !launcher.InteractiveCompatible {
			return strategies.Descriptor{}, &InteractiveIncompatibilityError{
				Strategy:     desc.Key,
				LauncherKind: string(launcher.Kind),
			}
		}
	}

	return desc, nil
}

// defaultStrategy is the choice when the caller requested no strategy.
func defaultStrategy(acc accelerators.Accelerator, numDevices, numNodes int) strategies.Descriptor {
	if acc.Name() == "tpu" {
		if numDevices > 1 || numNodes > 1 {
			return strategies.TPUSpawn()
		}
		return strategies.SingleTPU()
	}
	if numDevices > 1 || numNodes > 1 {
		return strategies.DefaultMultiDevice()
	}
	return strategies.SingleDevice()
}

// resolvePrecision builds the effective precision settings with precedence
// strategy instance > precision plugin > flags, then validates them against
// the accelerator table.
func resolvePrecision(cfg Config, pluginSet *plugins.Set, acc accelerators.Accelerator, diags *diagnostics) (precision.Settings, error) {
	var settings precision.Settings
	switch {
	case cfg.StrategyInstance != nil && cfg.StrategyInstance.Precision() != nil:
		settings = *cfg.StrategyInstance.Precision()
	case pluginSet.Precision != nil:
		settings = pluginSet.Precision.PrecisionSettings()
	default:
		settings = precision.Default()
		if cfg.Precision != "" {
			value, err := precision.Parse(cfg.Precision)
			if err != nil {
				return precision.Settings{}, err
			}
			settings.Precision = value
		}
		if cfg.AMPBackend != "" {
			settings.AMPBackend = precision.Backend(cfg.AMPBackend)
		}
		settings.AMPLevel = cfg.AMPLevel
	}

	warnings, err := precision.Validate(settings, acc.Name())
	if err != nil {
		return precision.Settings{}, err
	}
	for _, w := range warnings {
		diags.warnf("%s", w)
	}
	return settings, nil
}

// resolveLayerSync applies the layer-sync precedence: an explicit plugin
// wins, the sync_batchnorm flag selects the native policy on multi-process
// strategies. The flag and the native plugin mean the same thing and
// combine; the flag with a custom plugin is a configuration error.
func resolveLayerSync(cfg Config, pluginSet *plugins.Set, desc strategies.Descriptor) (plugins.LayerSync, error) {
	if pluginSet.LayerSync != nil {
		_, native := pluginSet.LayerSync.(*plugins.NativeSyncBatchNorm)
		if cfg.SyncBatchNorm && !native {
			return nil, &ConflictingConfigurationError{
				First:  "sync_batchnorm=true",
				Second: fmt.Sprintf("the %q LayerSync plugin", pluginSet.LayerSync.Kind()),
			}
		}
		return pluginSet.LayerSync, nil
	}
	if cfg.SyncBatchNorm && desc.IsMultiProcess() {
		return plugins.NewNativeSyncBatchNorm(), nil
	}
	return nil, nil
}
