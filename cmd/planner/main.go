package main

import (
	"flag"
	"fmt"
	"os"

	"k8s.io/klog/v2"
	"sigs.k8s.io/yaml"

	"github.com/zrs-products/hetero-train-planner/pkg/clusterenv"
	"github.com/zrs-products/hetero-train-planner/pkg/resolver"
)

var (
	// AcceleratorFlag selects the accelerator, or "auto" to probe
	AcceleratorFlag string

	// DevicesFlag is the raw device spec
	DevicesFlag string

	// StrategyFlag selects the distribution strategy
	StrategyFlag string

	// PrecisionFlag selects the numeric precision
	PrecisionFlag string

	// NumNodes is the node count of the job
	NumNodes int

	// SyncBatchNorm enables cross-process batch norm synchronization
	SyncBatchNorm bool

	// Interactive marks the caller as an interactive runtime
	Interactive bool

	// ConfigPath is an optional YAML file with the full resolution input
	ConfigPath string
)

func init() {
	flag.StringVar(&AcceleratorFlag, "accelerator", "auto", "Accelerator to use (auto, cpu, cuda, mps, tpu, ipu, hpu)")
	flag.StringVar(&DevicesFlag, "devices", "auto", "Device spec: auto, a count, or an index list")
	flag.StringVar(&StrategyFlag, "strategy", "", "Distribution strategy key, empty to choose automatically")
	flag.StringVar(&PrecisionFlag, "precision", "32", "Numeric precision (16, 32, 64, bf16)")
	flag.IntVar(&NumNodes, "num-nodes", 1, "Number of nodes in the job")
	flag.BoolVar(&SyncBatchNorm, "sync-batchnorm", false, "Synchronize batch norm layers across processes")
	flag.BoolVar(&Interactive, "interactive", false, "Resolve for an interactive runtime")
	flag.StringVar(&ConfigPath, "config", "", "Path to a YAML resolution config, overridden by flags")
}

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	cfg, err := buildConfig()
	if err != nil {
		klog.Errorf("Failed to build configuration: %v", err)
		os.Exit(1)
	}

	plan, err := resolver.Resolve(cfg)
	if err != nil {
		klog.Errorf("Resolution failed: %v", err)
		os.Exit(1)
	}

	for _, d := range plan.Diagnostics {
		switch d.Level {
		case resolver.LevelDeprecation:
			klog.Warningf("deprecated: %s", d.Message)
		default:
			klog.Warning(d.Message)
		}
	}

	out, err := yaml.Marshal(plan.Summarize())
	if err != nil {
		klog.Errorf("Failed to marshal plan: %v", err)
		os.Exit(1)
	}
	fmt.Print(string(out))
}

// buildConfig layers command line flags over an optional YAML config file.
func buildConfig() (resolver.Config, error) {
	cfg := resolver.Config{
		NumNodes: 1,
		Env:      clusterenv.FromOS(),
	}

	if ConfigPath != "" {
		data, err := os.ReadFile(ConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file %s: %w", ConfigPath, err)
		}
		var fileCfg fileConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", ConfigPath, err)
		}
		fileCfg.apply(&cfg)
	}

	// Flags win over the file; only explicitly set flags are applied.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "accelerator":
			cfg.Accelerator = AcceleratorFlag
		case "devices":
			cfg.Devices = DevicesFlag
		case "strategy":
			cfg.Strategy = StrategyFlag
		case "precision":
			cfg.Precision = PrecisionFlag
		case "num-nodes":
			cfg.NumNodes = NumNodes
		case "sync-batchnorm":
			cfg.SyncBatchNorm = SyncBatchNorm
		case "interactive":
			cfg.Interactive = Interactive
		}
	})

	if cfg.Accelerator == "" {
		cfg.Accelerator = AcceleratorFlag
	}
	if cfg.Devices == "" {
		cfg.Devices = DevicesFlag
	}
	if cfg.Precision == "" {
		cfg.Precision = PrecisionFlag
	}
	return cfg, nil
}

// fileConfig is the YAML form of the resolution input.
type fileConfig struct {
	Accelerator   string `json:"accelerator,omitempty"`
	Devices       string `json:"devices,omitempty"`
	Strategy      string `json:"strategy,omitempty"`
	Precision     string `json:"precision,omitempty"`
	NumNodes      int    `json:"numNodes,omitempty"`
	SyncBatchNorm bool   `json:"syncBatchNorm,omitempty"`
	Interactive   bool   `json:"interactive,omitempty"`
}

func (f *fileConfig) apply(cfg *resolver.Config) {
	if f.Accelerator != "" {
		cfg.Accelerator = f.Accelerator
	}
	if f.Devices != "" {
		cfg.Devices = f.Devices
	}
	if f.Strategy != "" {
		cfg.Strategy = f.Strategy
	}
	if f.Precision != "" {
		cfg.Precision = f.Precision
	}
	if f.NumNodes > 0 {
		cfg.NumNodes = f.NumNodes
	}
	cfg.SyncBatchNorm = f.SyncBatchNorm
	cfg.Interactive = f.Interactive
}
