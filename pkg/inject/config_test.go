package inject

import (
	"strings"
	"testing"
)

func TestLoadProfilesFromData(t *testing.T) {
	data := []byte(`
profiles:
  - accelerator: cuda
    resourceName: nvidia.com/mig-1g.5gb
    visibleDevicesEnv: CUDA_VISIBLE_DEVICES
  - accelerator: npu
    resourceName: huawei.com/ascend-910
    visibleDevicesEnv: ASCEND_VISIBLE_DEVICES
skipContainers:
  - istio-proxy
`)

	config, err := LoadProfilesFromData(data)
	if err != nil {
		t.Fatalf("LoadProfilesFromData() error: %v", err)
	}
	if len(config.Profiles) != 2 {
		t.Fatalf("profiles = %d, want 2", len(config.Profiles))
	}
	if config.Profiles[1].Accelerator != "npu" {
		t.Errorf("profile accelerator = %q", config.Profiles[1].Accelerator)
	}
	if len(config.SkipContainers) != 1 {
		t.Errorf("skip containers = %v", config.SkipContainers)
	}
}

func TestLoadProfilesFromData_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "empty data",
			data:    "",
			wantErr: "empty configuration",
		},
		{
			name:    "not yaml",
			data:    "{{{",
			wantErr: "failed to parse YAML",
		},
		{
			name: "missing accelerator",
			data: `
profiles:
  - resourceName: nvidia.com/gpu
    visibleDevicesEnv: CUDA_VISIBLE_DEVICES
`,
			wantErr: "accelerator is required",
		},
		{
			name: "resource without visibility env",
			data: `
profiles:
  - accelerator: cuda
    resourceName: nvidia.com/gpu
`,
			wantErr: "visibleDevicesEnv is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadProfilesFromData([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestNewInjectorWithConfig(t *testing.T) {
	config := &ProfileConfig{
		Profiles: []LaunchProfile{
			{
				Accelerator:       "cuda",
				ResourceName:      "nvidia.com/mig-1g.5gb",
				VisibleDevicesEnv: "CUDA_VISIBLE_DEVICES",
			},
		},
		SkipContainers: []string{"vault-agent"},
	}

	injector := NewInjectorWithConfig(config)

	// The custom profile overrides the builtin cuda one.
	if got := injector.profiles["cuda"].ResourceName; string(got) != "nvidia.com/mig-1g.5gb" {
		t.Errorf("cuda resource = %q, want the custom override", got)
	}
	// Builtins that were not overridden stay in place.
	if injector.profiles["tpu"] == nil {
		t.Error("builtin tpu profile lost")
	}
	if !injector.skipContainers["vault-agent"] {
		t.Error("skip containers not applied")
	}
}
