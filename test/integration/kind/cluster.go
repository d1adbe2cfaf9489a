// Package kind manages a throwaway kind cluster for integration tests of the
// plan injection webhook.
package kind

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sigs.k8s.io/kind/pkg/apis/config/v1alpha4"
	"sigs.k8s.io/kind/pkg/cluster"
)

const (
	defaultClusterName = "htp-test"
	kindKubeconfig     = ".kube/kind-config-htp-test"
	nodeImage          = "kindest/node:v1.28.0"
)

// TestCluster manages a kind test cluster.
type TestCluster struct {
	name       string
	kubeconfig string
	provider   *cluster.Provider
	ctx        context.Context
	cancel     context.CancelFunc
}

// New creates a kind test cluster and waits for it to become ready. A nil t
// is allowed for use from TestMain; failures then panic instead of calling
// t.Fatalf.
func New(t *testing.T, opts ...Option) *TestCluster {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)

	tc := &TestCluster{
		name:       defaultClusterName,
		kubeconfig: filepath.Join(os.Getenv("HOME"), kindKubeconfig),
		ctx:        ctx,
		cancel:     cancel,
		provider:   cluster.NewProvider(cluster.ProviderWithDocker()),
	}

	for _, opt := range opts {
		opt(tc)
	}

	fail := func(format string, args ...any) {
		if t != nil {
			t.Fatalf(format, args...)
		}
		panic(fmt.Sprintf(format, args...))
	}

	if err := tc.create(); err != nil {
		fail("Failed to create kind cluster: %v", err)
	}

	if err := tc.WaitForReady(); err != nil {
		tc.Cleanup()
		fail("Cluster not ready: %v", err)
	}

	return tc
}

// create builds a one control-plane, one worker cluster. The worker carries a
// node label so the webhook's accelerator hint path is exercisable without
// real devices.
func (tc *TestCluster) create() error {
	kindConfig := &v1alpha4.Cluster{
		Name: tc.name,
		Nodes: []v1alpha4.Node{
			{
				Role:  v1alpha4.ControlPlaneRole,
				Image: nodeImage,
			},
			{
				Role:  v1alpha4.WorkerRole,
				Image: nodeImage,
				Labels: map[string]string{
					"htp.io/accelerator": "cpu",
				},
			},
		},
	}

	return tc.provider.Create(tc.name, cluster.CreateWithV1Alpha4Config(kindConfig))
}

// Cleanup deletes the cluster and its kubeconfig.
func (tc *TestCluster) Cleanup() {
	tc.cancel()

	if tc.provider != nil {
		_ = tc.provider.Delete(tc.name, "")
	}
	_ = os.Remove(tc.kubeconfig)
}

// Kubeconfig returns the kubeconfig path.
func (tc *TestCluster) Kubeconfig() string {
	return tc.kubeconfig
}

// Name returns the cluster name.
func (tc *TestCluster) Name() string {
	return tc.name
}

// WaitForReady polls the API server until it answers or the deadline expires.
func (tc *TestCluster) WaitForReady() error {
	ctx, cancel := context.WithTimeout(tc.ctx, 5*time.Minute)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for cluster")
		default:
			cmd := exec.Command("kubectl", "cluster-info", "--context", fmt.Sprintf("kind-%s", tc.name))
			if err := cmd.Run(); err == nil {
				return nil
			}
			time.Sleep(2 * time.Second)
		}
	}
}

// LoadImage loads a Docker image into the cluster.
func (tc *TestCluster) LoadImage(image string) error {
	cmd := exec.Command("kind", "load", "docker-image", image, "--name", tc.name)
	return cmd.Run()
}

// Kubectl runs a kubectl command against the cluster.
func (tc *TestCluster) Kubectl(args ...string) (string, error) {
	allArgs := append([]string{"--context", fmt.Sprintf("kind-%s", tc.name)}, args...)
	cmd := exec.Command("kubectl", allArgs...)
	out, err := cmd.Output()
	return string(out), err
}

// Option is a cluster configuration option.
type Option func(*TestCluster)

// WithName sets the cluster name.
func WithName(name string) Option {
	return func(tc *TestCluster) {
		tc.name = name
	}
}

// WithKubeconfig sets the kubeconfig path.
func WithKubeconfig(path string) Option {
	return func(tc *TestCluster) {
		tc.kubeconfig = path
	}
}

// IsInstalled reports whether the kind binary is on the PATH.
func IsInstalled() bool {
	cmd := exec.Command("kind", "version")
	return cmd.Run() == nil
}

// CreateIfNotExists creates the named cluster unless it already exists.
func CreateIfNotExists(name string) error {
	if !IsInstalled() {
		return fmt.Errorf("kind is not installed")
	}

	cmd := exec.Command("kind", "get", "clusters")
	out, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("check clusters: %w", err)
	}

	if strings.Contains(string(out), name) {
		return nil
	}

	provider := cluster.NewProvider(cluster.ProviderWithDocker())
	return provider.Create(name, cluster.CreateWithV1Alpha4Config(&v1alpha4.Cluster{
		Name: name,
		Nodes: []v1alpha4.Node{
			{
				Role:  v1alpha4.ControlPlaneRole,
				Image: nodeImage,
			},
		},
	}))
}

// DeleteCluster deletes the named cluster.
func DeleteCluster(name string) error {
	if !IsInstalled() {
		return nil
	}

	provider := cluster.NewProvider(cluster.ProviderWithDocker())
	return provider.Delete(name, "")
}
