package suite

import (
	"os"
	"path/filepath"
	"testing"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/zrs-products/hetero-train-planner/pkg/accelerators"
	"github.com/zrs-products/hetero-train-planner/pkg/clusterenv"
	"github.com/zrs-products/hetero-train-planner/pkg/inject"
	"github.com/zrs-products/hetero-train-planner/pkg/resolver"
)

// registryForJob mirrors a two-GPU training node.
func registryForJob() *accelerators.Registry {
	r := accelerators.NewRegistry()
	r.Register(accelerators.NewMock(accelerators.MockConfig{Name: "cuda", Available: true, DeviceCount: 2}))
	r.Register(accelerators.NewMock(accelerators.MockConfig{Name: "cpu", Available: true, DeviceCount: 1}))
	return r
}

// TestResolveAndInject runs the full pipeline a worker pod goes through:
// resolve a plan from a Kubeflow-style environment, then render it into the
// pod spec.
func TestResolveAndInject(t *testing.T) {
	env := clusterenv.Environ{
		"KUBERNETES_PORT": "tcp://10.0.0.1:443",
		"MASTER_ADDR":     "trainer-master-0.trainer",
		"MASTER_PORT":     "23456",
		"WORLD_SIZE":      "4",
		"RANK":            "1",
	}

	plan, err := resolver.Resolve(resolver.Config{
		Env:         env,
		Registry:    registryForJob(),
		Accelerator: "cuda",
		Devices:     "2",
		NumNodes:    2,
		Strategy:    "ddp",
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if plan.ClusterEnvironment.Name() != "kubeflow" {
		t.Fatalf("cluster environment = %q, want kubeflow", plan.ClusterEnvironment.Name())
	}
	if plan.WorldSize != 4 {
		t.Errorf("world size = %d, want 4", plan.WorldSize)
	}

	pod := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "trainer-worker-1", Namespace: "trainer"},
		Spec: corev1.PodSpec{
			Containers: []corev1.Container{{Name: "trainer", Image: "trainer:latest"}},
		},
	}

	result, err := inject.NewInjector().InjectPod(pod, plan, inject.WorkerRank{GlobalRank: 1, NodeRank: 1})
	if err != nil {
		t.Fatalf("InjectPod failed: %v", err)
	}
	if !result.Injected {
		t.Fatal("expected the pod to be mutated")
	}

	limits := pod.Spec.Containers[0].Resources.Limits
	if quantity, ok := limits["nvidia.com/gpu"]; !ok || quantity.Value() != 2 {
		t.Errorf("nvidia.com/gpu limit = %v, want 2", limits)
	}
}

// TestAnnotatedPodAccepted applies an annotated pod to a real API server and
// checks the annotations round-trip. Requires the kind cluster.
func TestAnnotatedPodAccepted(t *testing.T) {
	if testCluster == nil {
		t.Skip("kind cluster not available")
	}

	manifest := `
apiVersion: v1
kind: Pod
metadata:
  name: annotated-trainer
  namespace: default
  annotations:
    htp.io/accelerator: cpu
    htp.io/strategy: ddp
    htp.io/devices: "1"
spec:
  containers:
  - name: trainer
    image: busybox:1.36
    command: ["sleep", "60"]
`
	path := filepath.Join(t.TempDir(), "pod.yaml")
	if err := os.WriteFile(path, []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	defer testCluster.Kubectl("delete", "-f", path, "--ignore-not-found")

	if out, err := testCluster.Kubectl("apply", "-f", path); err != nil {
		t.Fatalf("apply failed: %v (%s)", err, out)
	}

	out, err := testCluster.Kubectl("get", "pod", "annotated-trainer",
		"-o", "jsonpath={.metadata.annotations.htp\\.io/strategy}")
	if err != nil {
		t.Fatalf("get pod failed: %v", err)
	}
	if out != "ddp" {
		t.Errorf("strategy annotation = %q, want ddp", out)
	}
}
