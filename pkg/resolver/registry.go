package resolver

import (
	"github.com/zrs-products/hetero-train-planner/pkg/accelerators"
	"github.com/zrs-products/hetero-train-planner/pkg/accelerators/cuda"
	"github.com/zrs-products/hetero-train-planner/pkg/clusterenv"
)

// defaultRegistry builds the builtin accelerator registry in auto-selection
// priority order: custom > tpu > ipu > hpu > cuda > mps > cpu. All probes
// read the supplied environment snapshot, never the process environment.
func defaultRegistry(env clusterenv.Environ, custom accelerators.Accelerator) *accelerators.Registry {
	r := accelerators.NewRegistry()
	if custom != nil {
		r.Register(custom)
	}

	envOpt := accelerators.WithEnviron(env)
	r.Register(accelerators.NewTPU(envOpt))
	r.Register(accelerators.NewIPU(envOpt))
	r.Register(accelerators.NewHPU(envOpt))
	r.Register(cuda.New(cuda.WithVisibleDevices(env.String("CUDA_VISIBLE_DEVICES", ""))))
	r.Register(accelerators.NewMPS())
	r.Register(accelerators.NewCPU())
	return r
}
