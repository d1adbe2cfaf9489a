package inject

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/webhook/admission"

	"github.com/zrs-products/hetero-train-planner/pkg/accelerators"
	"github.com/zrs-products/hetero-train-planner/pkg/clusterenv"
	"github.com/zrs-products/hetero-train-planner/pkg/resolver"
)

// PodMutator resolves an execution plan for annotated training pods and
// injects the launch environment into them.
type PodMutator struct {
	Client   client.Client
	Injector *Injector
	decoder  admission.Decoder
}

// PodMutatorOption is a function that configures a PodMutator.
type PodMutatorOption func(*PodMutator)

// WithPodMutatorInjector sets the plan injector.
func WithPodMutatorInjector(injector *Injector) PodMutatorOption {
	return func(m *PodMutator) {
		m.Injector = injector
	}
}

// NewPodMutator creates a new PodMutator with the given client and options.
func NewPodMutator(c client.Client, opts ...PodMutatorOption) *PodMutator {
	m := &PodMutator{
		Client:   c,
		Injector: NewInjector(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NeedsResolution reports whether the pod asked for plan injection.
func NeedsResolution(pod *corev1.Pod) bool {
	if pod.Annotations == nil {
		return false
	}
	_, hasAccelerator := pod.Annotations[AnnotationAccelerator]
	_, hasStrategy := pod.Annotations[AnnotationStrategy]
	return hasAccelerator || hasStrategy
}

// Handle implements admission.Handler.
func (m *PodMutator) Handle(ctx context.Context, req admission.Request) admission.Response {
	logger := log.FromContext(ctx).WithValues(
		"namespace", req.Namespace,
		"name", req.Name,
		"operation", req.Operation,
	)

	pod := &corev1.Pod{}
	if err := m.decoder.Decode(req, pod); err != nil {
		logger.Error(err, "failed to decode pod")
		return admission.Errored(http.StatusBadRequest, fmt.Errorf("failed to decode pod: %w", err))
	}

	if !NeedsResolution(pod) {
		logger.V(1).Info("pod does not request plan resolution, skipping")
		return admission.Allowed("no resolution requested")
	}

	cfg := m.configForPod(ctx, pod)
	plan, err := resolver.Resolve(cfg)
	if err != nil {
		logger.Info("plan resolution rejected pod configuration", "error", err)
		return admission.Denied(err.Error())
	}

	rank := rankFromEnviron(cfg.Env)
	result, err := m.Injector.InjectPod(pod, plan, rank)
	if err != nil {
		logger.Error(err, "failed to inject plan")
		return admission.Errored(http.StatusInternalServerError, fmt.Errorf("injection failed: %w", err))
	}

	if result.Injected {
		logger.Info("plan injected",
			"accelerator", plan.Accelerator.Name(),
			"strategy", plan.Strategy.Key,
			"envVarsAdded", result.EnvVarsAdded,
		)
	}
	for _, d := range plan.Diagnostics {
		logger.Info("resolution diagnostic", "level", d.Level, "message", d.Message)
	}

	marshaledPod, err := json.Marshal(pod)
	if err != nil {
		logger.Error(err, "failed to marshal pod")
		return admission.Errored(http.StatusInternalServerError, fmt.Errorf("failed to marshal pod: %w", err))
	}
	return admission.PatchResponseFromRaw(req.Object.Raw, marshaledPod)
}

// InjectDecoder injects the decoder.
func (m *PodMutator) InjectDecoder(d admission.Decoder) error {
	m.decoder = d
	return nil
}

// configForPod builds the resolution input from the pod's annotations, its
// container environment, and an accelerator hint from the target node.
func (m *PodMutator) configForPod(ctx context.Context, pod *corev1.Pod) resolver.Config {
	annotations := pod.Annotations
	cfg := resolver.Config{
		Accelerator: annotations[AnnotationAccelerator],
		Devices:     annotations[AnnotationDevices],
		Strategy:    annotations[AnnotationStrategy],
		Precision:   annotations[AnnotationPrecision],
		Env:         environFromPod(pod),
		// The webhook plans for the target node; probing its own host
		// would answer the wrong question.
		Registry: planningRegistry(),
	}
	if raw, ok := annotations[AnnotationNumNodes]; ok {
		if n, err := strconv.Atoi(raw); err == nil {
			cfg.NumNodes = n
		}
	}

	if cfg.Accelerator == "" && pod.Spec.NodeName != "" && m.Client != nil {
		node := &corev1.Node{}
		if err := m.Client.Get(ctx, client.ObjectKey{Name: pod.Spec.NodeName}, node); err == nil {
			cfg.Accelerator = node.Labels[LabelNodeAccelerator]
		}
	}
	return cfg
}

// environFromPod snapshots the environment of the pod's first non-skipped
// container, so cluster detection sees the worker's variables rather than
// the webhook's.
func environFromPod(pod *corev1.Pod) clusterenv.Environ {
	env := make(clusterenv.Environ)
	for _, container := range pod.Spec.Containers {
		for _, e := range container.Env {
			if e.Value != "" {
				env[e.Name] = e.Value
			}
		}
		break
	}
	return env
}

func rankFromEnviron(env clusterenv.Environ) WorkerRank {
	return WorkerRank{
		GlobalRank: env.Int("RANK", 0),
		LocalRank:  env.Int("LOCAL_RANK", 0),
		NodeRank:   env.Int("GROUP_RANK", 0),
	}
}

// planningRegistry returns a registry whose accelerators are all assumed
// available with their nominal device counts.
func planningRegistry() *accelerators.Registry {
	r := accelerators.NewRegistry()
	r.Register(accelerators.NewMock(accelerators.MockConfig{Name: "tpu", Available: true, DeviceCount: 8}))
	r.Register(accelerators.NewMock(accelerators.MockConfig{Name: "ipu", Available: true, DeviceCount: 4}))
	r.Register(accelerators.NewMock(accelerators.MockConfig{Name: "hpu", Available: true, DeviceCount: 8}))
	r.Register(accelerators.NewMock(accelerators.MockConfig{Name: "cuda", Available: true, DeviceCount: 8}))
	r.Register(accelerators.NewMock(accelerators.MockConfig{Name: "mps", Available: true, DeviceCount: 1}))
	r.Register(accelerators.NewMock(accelerators.MockConfig{Name: "cpu", Available: true, DeviceCount: 1}))
	return r
}

// PodValidator rejects pods whose device requests are internally
// inconsistent before they reach a node.
type PodValidator struct {
	Client  client.Client
	decoder admission.Decoder
}

// NewPodValidator creates a new PodValidator.
func NewPodValidator(c client.Client) *PodValidator {
	return &PodValidator{Client: c}
}

// Handle implements admission.Handler for validation.
func (v *PodValidator) Handle(ctx context.Context, req admission.Request) admission.Response {
	logger := log.FromContext(ctx).WithValues(
		"namespace", req.Namespace,
		"name", req.Name,
		"operation", req.Operation,
	)

	pod := &corev1.Pod{}
	if err := v.decoder.Decode(req, pod); err != nil {
		logger.Error(err, "failed to decode pod")
		return admission.Errored(http.StatusBadRequest, fmt.Errorf("failed to decode pod: %w", err))
	}

	if err := validateDeviceRequests(pod); err != nil {
		logger.Info("pod validation failed", "error", err)
		return admission.Denied(err.Error())
	}
	return admission.Allowed("validation passed")
}

// InjectDecoder injects the decoder.
func (v *PodValidator) InjectDecoder(d admission.Decoder) error {
	v.decoder = d
	return nil
}

// validateDeviceRequests rejects containers requesting device resources of
// more than one accelerator vendor: exactly one logical accelerator is
// active per workload.
func validateDeviceRequests(pod *corev1.Pod) error {
	for _, container := range pod.Spec.Containers {
		if err := validateContainerDevices(&container); err != nil {
			return fmt.Errorf("container %s: %w", container.Name, err)
		}
	}
	for _, container := range pod.Spec.InitContainers {
		if err := validateContainerDevices(&container); err != nil {
			return fmt.Errorf("init container %s: %w", container.Name, err)
		}
	}
	return nil
}

func validateContainerDevices(container *corev1.Container) error {
	vendors := make(map[string]bool)

	checkResource := func(name string) {
		for _, profile := range builtinProfiles() {
			if profile.ResourceName == "" {
				continue
			}
			prefix := strings.SplitN(string(profile.ResourceName), "/", 2)[0] + "/"
			if strings.HasPrefix(name, prefix) {
				vendors[profile.Accelerator] = true
			}
		}
	}

	for resourceName := range container.Resources.Requests {
		checkResource(string(resourceName))
	}
	for resourceName := range container.Resources.Limits {
		checkResource(string(resourceName))
	}

	if len(vendors) > 1 {
		names := make([]string, 0, len(vendors))
		for v := range vendors {
			names = append(names, v)
		}
		sort.Strings(names)
		return fmt.Errorf("conflicting device resources requested for accelerators %v", names)
	}
	return nil
}
