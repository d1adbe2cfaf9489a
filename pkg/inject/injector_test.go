package inject

import (
	"testing"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/zrs-products/hetero-train-planner/pkg/accelerators"
	"github.com/zrs-products/hetero-train-planner/pkg/clusterenv"
	"github.com/zrs-products/hetero-train-planner/pkg/resolver"
	"github.com/zrs-products/hetero-train-planner/pkg/strategies"
)

func testPlan(accelerator string, devices []int) *resolver.Plan {
	acc := accelerators.NewMock(accelerators.MockConfig{
		Name:        accelerator,
		Available:   true,
		DeviceCount: len(devices),
	})
	env := clusterenv.NewKubeflow(clusterenv.Environ{
		"KUBERNETES_PORT": "tcp://127.0.0.1:443",
		"MASTER_ADDR":     "trainer-master-0",
		"MASTER_PORT":     "23456",
		"WORLD_SIZE":      "4",
		"RANK":            "1",
	})
	desc, _ := strategies.Lookup("ddp")
	return &resolver.Plan{
		Accelerator:        acc,
		Devices:            devices,
		ParallelDevices:    acc.GetParallelDevices(devices),
		NumNodes:           2,
		NumProcesses:       len(devices),
		WorldSize:          4,
		Strategy:           desc,
		ClusterEnvironment: env,
	}
}

func testPod(containers ...corev1.Container) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "worker-1", Namespace: "default"},
		Spec:       corev1.PodSpec{Containers: containers},
	}
}

func envValue(container *corev1.Container, name string) (string, bool) {
	for _, e := range container.Env {
		if e.Name == name {
			return e.Value, true
		}
	}
	return "", false
}

func TestInjector_InjectPod(t *testing.T) {
	injector := NewInjector()
	pod := testPod(corev1.Container{Name: "trainer"})
	plan := testPlan("cuda", []int{0, 1})

	result, err := injector.InjectPod(pod, plan, WorkerRank{GlobalRank: 1, LocalRank: 1, NodeRank: 0})
	if err != nil {
		t.Fatalf("InjectPod() error: %v", err)
	}
	if !result.Injected {
		t.Fatal("expected injection to happen")
	}

	container := &pod.Spec.Containers[0]
	want := map[string]string{
		"MASTER_ADDR":          "trainer-master-0",
		"MASTER_PORT":          "23456",
		"WORLD_SIZE":           "4",
		"RANK":                 "1",
		"LOCAL_RANK":           "1",
		"NODE_RANK":            "0",
		"CUDA_VISIBLE_DEVICES": "0,1",
	}
	for name, value := range want {
		got, ok := envValue(container, name)
		if !ok {
			t.Errorf("env %s missing", name)
			continue
		}
		if got != value {
			t.Errorf("env %s = %q, want %q", name, got, value)
		}
	}

	quantity, ok := container.Resources.Limits["nvidia.com/gpu"]
	if !ok {
		t.Fatal("nvidia.com/gpu limit missing")
	}
	if quantity.Value() != 2 {
		t.Errorf("nvidia.com/gpu = %s, want 2", quantity.String())
	}

	if pod.Annotations[AnnotationResolvedAccelerator] != "cuda" {
		t.Errorf("resolved accelerator annotation = %q", pod.Annotations[AnnotationResolvedAccelerator])
	}
	if pod.Annotations[AnnotationResolvedStrategy] != "ddp" {
		t.Errorf("resolved strategy annotation = %q", pod.Annotations[AnnotationResolvedStrategy])
	}
}

func TestInjector_ExistingEnvWins(t *testing.T) {
	injector := NewInjector()
	pod := testPod(corev1.Container{
		Name: "trainer",
		Env:  []corev1.EnvVar{{Name: "MASTER_ADDR", Value: "user-set"}},
	})

	if _, err := injector.InjectPod(pod, testPlan("cuda", []int{0}), WorkerRank{}); err != nil {
		t.Fatalf("InjectPod() error: %v", err)
	}

	got, _ := envValue(&pod.Spec.Containers[0], "MASTER_ADDR")
	if got != "user-set" {
		t.Errorf("MASTER_ADDR = %q, existing values must never be overwritten", got)
	}
}

func TestInjector_ExistingResourcesKept(t *testing.T) {
	injector := NewInjector()
	pod := testPod(corev1.Container{
		Name: "trainer",
		Resources: corev1.ResourceRequirements{
			Limits: corev1.ResourceList{
				"nvidia.com/gpu": resource.MustParse("4"),
			},
		},
	})

	result, err := injector.InjectPod(pod, testPlan("cuda", []int{0, 1}), WorkerRank{})
	if err != nil {
		t.Fatalf("InjectPod() error: %v", err)
	}
	if result.ResourcesSet != 0 {
		t.Errorf("ResourcesSet = %d, want 0 when the pod author already requested devices", result.ResourcesSet)
	}

	quantity := pod.Spec.Containers[0].Resources.Limits["nvidia.com/gpu"]
	if quantity.Value() != 4 {
		t.Errorf("nvidia.com/gpu = %s, want the author's 4", quantity.String())
	}
}

func TestInjector_SkipContainers(t *testing.T) {
	injector := NewInjector(WithSkipContainers("istio-proxy"))
	pod := testPod(
		corev1.Container{Name: "trainer"},
		corev1.Container{Name: "istio-proxy"},
	)

	if _, err := injector.InjectPod(pod, testPlan("cuda", []int{0}), WorkerRank{}); err != nil {
		t.Fatalf("InjectPod() error: %v", err)
	}

	if _, ok := envValue(&pod.Spec.Containers[0], "MASTER_ADDR"); !ok {
		t.Error("trainer container not injected")
	}
	if _, ok := envValue(&pod.Spec.Containers[1], "MASTER_ADDR"); ok {
		t.Error("skipped container was injected")
	}
}

func TestInjector_CPUHasNoDeviceResources(t *testing.T) {
	injector := NewInjector()
	pod := testPod(corev1.Container{Name: "trainer"})

	if _, err := injector.InjectPod(pod, testPlan("cpu", []int{0}), WorkerRank{}); err != nil {
		t.Fatalf("InjectPod() error: %v", err)
	}

	if len(pod.Spec.Containers[0].Resources.Limits) != 0 {
		t.Errorf("cpu plan must not request device resources, got %v", pod.Spec.Containers[0].Resources.Limits)
	}
	if _, ok := envValue(&pod.Spec.Containers[0], "MASTER_ADDR"); !ok {
		t.Error("rendezvous env missing")
	}
}

func TestInjector_UnknownAccelerator(t *testing.T) {
	injector := NewInjector()
	pod := testPod(corev1.Container{Name: "trainer"})

	if _, err := injector.InjectPod(pod, testPlan("quantum", []int{0}), WorkerRank{}); err == nil {
		t.Fatal("expected error for accelerator without a launch profile")
	}
}

func TestValidateDeviceRequests(t *testing.T) {
	conflicting := testPod(corev1.Container{
		Name: "trainer",
		Resources: corev1.ResourceRequirements{
			Limits: corev1.ResourceList{
				"nvidia.com/gpu":  resource.MustParse("1"),
				"habana.ai/gaudi": resource.MustParse("1"),
			},
		},
	})
	if err := validateDeviceRequests(conflicting); err == nil {
		t.Error("expected conflict for two vendors in one container")
	}

	clean := testPod(corev1.Container{
		Name: "trainer",
		Resources: corev1.ResourceRequirements{
			Limits: corev1.ResourceList{
				"nvidia.com/gpu": resource.MustParse("2"),
			},
		},
	})
	if err := validateDeviceRequests(clean); err != nil {
		t.Errorf("single vendor must pass, got %v", err)
	}
}

func TestEnvironFromPod(t *testing.T) {
	pod := testPod(
		corev1.Container{Name: "trainer", Env: []corev1.EnvVar{
			{Name: "RANK", Value: "3"},
			{Name: "EMPTY", Value: ""},
		}},
		corev1.Container{Name: "sidecar", Env: []corev1.EnvVar{
			{Name: "OTHER", Value: "1"},
		}},
	)

	env := environFromPod(pod)
	if env["RANK"] != "3" {
		t.Errorf("RANK = %q, want 3", env["RANK"])
	}
	if _, ok := env["EMPTY"]; ok {
		t.Error("empty values must be dropped")
	}
	if _, ok := env["OTHER"]; ok {
		t.Error("only the first container's environment is snapshotted")
	}
}
