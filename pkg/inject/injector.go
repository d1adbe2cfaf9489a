// Package inject renders resolved execution plans into Kubernetes worker
// pods: rendezvous environment variables, vendor device visibility, and
// extended resource requests.
package inject

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"

	"github.com/zrs-products/hetero-train-planner/pkg/resolver"
)

// WorkerRank identifies which worker of the plan a pod hosts.
type WorkerRank struct {
	// GlobalRank is the worker's rank across all nodes
	GlobalRank int

	// LocalRank is the worker's rank within its node
	LocalRank int

	// NodeRank is the rank of the worker's node
	NodeRank int
}

// InjectionResult reports what an injection changed.
type InjectionResult struct {
	// Injected indicates if any injection was performed
	Injected bool

	// EnvVarsAdded is the count of environment variables added
	EnvVarsAdded int

	// ResourcesSet is the count of containers whose device resource
	// requests were set
	ResourcesSet int
}

// Injector renders plans into pods.
type Injector struct {
	profiles       map[string]*LaunchProfile
	skipContainers map[string]bool
}

// InjectorOption is a function that configures an Injector.
type InjectorOption func(*Injector)

// WithSkipContainers sets container names to skip during injection.
func WithSkipContainers(names ...string) InjectorOption {
	return func(i *Injector) {
		for _, name := range names {
			i.skipContainers[name] = true
		}
	}
}

// WithProfile registers or replaces a launch profile.
func WithProfile(profile *LaunchProfile) InjectorOption {
	return func(i *Injector) {
		if profile != nil {
			i.profiles[profile.Accelerator] = profile
		}
	}
}

// NewInjector creates a new Injector with the builtin profiles.
func NewInjector(opts ...InjectorOption) *Injector {
	i := &Injector{
		profiles:       builtinProfiles(),
		skipContainers: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// InjectPod renders the plan into the pod for the given worker rank. The pod
// is modified in place; existing environment variables are never overwritten.
func (i *Injector) InjectPod(pod *corev1.Pod, plan *resolver.Plan, rank WorkerRank) (*InjectionResult, error) {
	if pod == nil {
		return nil, fmt.Errorf("pod is nil")
	}
	if plan == nil {
		return nil, fmt.Errorf("plan is nil")
	}

	profile := i.profiles[plan.Accelerator.Name()]
	if profile == nil {
		return nil, fmt.Errorf("no launch profile for accelerator %q", plan.Accelerator.Name())
	}

	result := &InjectionResult{}
	env := i.launchEnv(plan, profile, rank)

	for idx := range pod.Spec.Containers {
		container := &pod.Spec.Containers[idx]
		if i.skipContainers[container.Name] {
			continue
		}
		result.EnvVarsAdded += injectEnvVars(container, env)
		if setDeviceResources(container, profile, len(plan.Devices)) {
			result.ResourcesSet++
		}
	}

	if pod.Annotations == nil {
		pod.Annotations = make(map[string]string)
	}
	pod.Annotations[AnnotationResolvedAccelerator] = plan.Accelerator.Name()
	pod.Annotations[AnnotationResolvedStrategy] = plan.Strategy.Key

	result.Injected = result.EnvVarsAdded > 0 || result.ResourcesSet > 0
	return result, nil
}

// launchEnv builds the worker's rendezvous and visibility environment.
func (i *Injector) launchEnv(plan *resolver.Plan, profile *LaunchProfile, rank WorkerRank) map[string]string {
	clusterEnv := plan.ClusterEnvironment
	env := map[string]string{
		"MASTER_ADDR": clusterEnv.MainAddress(),
		"MASTER_PORT": strconv.Itoa(clusterEnv.MainPort()),
		"WORLD_SIZE":  strconv.Itoa(plan.WorldSize),
		"RANK":        strconv.Itoa(rank.GlobalRank),
		"LOCAL_RANK":  strconv.Itoa(rank.LocalRank),
		"NODE_RANK":   strconv.Itoa(rank.NodeRank),
	}
	if profile.VisibleDevicesEnv != "" {
		env[profile.VisibleDevicesEnv] = joinDevices(plan.Devices)
	}
	for k, v := range profile.ExtraEnv {
		env[k] = v
	}
	return env
}

// injectEnvVars adds the missing variables to a container and returns how
// many were added. Existing values win: a variable the pod author set is
// never overwritten.
func injectEnvVars(container *corev1.Container, env map[string]string) int {
	existing := make(map[string]bool, len(container.Env))
	for _, e := range container.Env {
		existing[e.Name] = true
	}

	added := 0
	for _, name := range sortedKeys(env) {
		if existing[name] {
			continue
		}
		container.Env = append(container.Env, corev1.EnvVar{Name: name, Value: env[name]})
		added++
	}
	return added
}

// setDeviceResources sets the profile's extended resource request and limit
// to the plan's device count. Containers that already request the resource
// keep their value.
func setDeviceResources(container *corev1.Container, profile *LaunchProfile, deviceCount int) bool {
	if profile.ResourceName == "" || deviceCount == 0 {
		return false
	}
	if container.Resources.Requests == nil {
		container.Resources.Requests = corev1.ResourceList{}
	}
	if container.Resources.Limits == nil {
		container.Resources.Limits = corev1.ResourceList{}
	}
	if _, ok := container.Resources.Requests[profile.ResourceName]; ok {
		return false
	}
	if _, ok := container.Resources.Limits[profile.ResourceName]; ok {
		return false
	}

	quantity := resource.NewQuantity(int64(deviceCount), resource.DecimalSI)
	container.Resources.Requests[profile.ResourceName] = *quantity
	container.Resources.Limits[profile.ResourceName] = *quantity
	return true
}

func joinDevices(devices []int) string {
	parts := make([]string, len(devices))
	for i, d := range devices {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Deterministic injection order keeps admission patches stable.
	sort.Strings(keys)
	return keys
}
