package main

import (
	"flag"
	"fmt"
	"os"

	"k8s.io/klog/v2"
	"sigs.k8s.io/yaml"

	"github.com/zrs-products/hetero-train-planner/pkg/accelerators"
	"github.com/zrs-products/hetero-train-planner/pkg/accelerators/cuda"
	"github.com/zrs-products/hetero-train-planner/pkg/clusterenv"
)

var (
	// FailOnEmpty makes the probe exit non-zero when no accelerator
	// beyond the cpu is available
	FailOnEmpty bool
)

func init() {
	flag.BoolVar(&FailOnEmpty, "fail-on-empty", false, "Exit non-zero when only the cpu is available")
}

// probeResult is the per-accelerator probe report.
type probeResult struct {
	Name        string `json:"name"`
	Available   bool   `json:"available"`
	DeviceCount int    `json:"deviceCount"`
}

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	env := clusterenv.FromOS()

	registry := accelerators.NewRegistry()
	registry.Register(accelerators.NewTPU(accelerators.WithEnviron(env)))
	registry.Register(accelerators.NewIPU(accelerators.WithEnviron(env)))
	registry.Register(accelerators.NewHPU(accelerators.WithEnviron(env)))
	registry.Register(cuda.New())
	registry.Register(accelerators.NewMPS())
	registry.Register(accelerators.NewCPU())

	results := make([]probeResult, 0)
	acceleratorFound := false
	for _, name := range registry.Names() {
		acc, _ := registry.Get(name)
		r := probeResult{Name: name, Available: acc.IsAvailable()}
		if r.Available {
			r.DeviceCount = acc.AutoDeviceCount()
			if name != "cpu" {
				acceleratorFound = true
			}
		}
		klog.V(1).Infof("Probed %s: available=%v devices=%d", r.Name, r.Available, r.DeviceCount)
		results = append(results, r)
	}

	out, err := yaml.Marshal(results)
	if err != nil {
		klog.Errorf("Failed to marshal probe results: %v", err)
		os.Exit(1)
	}
	fmt.Print(string(out))

	if FailOnEmpty && !acceleratorFound {
		klog.Error("No accelerator available on this host")
		os.Exit(1)
	}
}
