package inject

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// ProfileConfig is the on-disk form of custom launch profiles, typically
// mounted from a ConfigMap.
type ProfileConfig struct {
	// Profiles are custom launch profiles, overriding builtins with the
	// same accelerator name
	Profiles []LaunchProfile `json:"profiles"`

	// SkipContainers are container names the injector leaves untouched
	SkipContainers []string `json:"skipContainers,omitempty"`
}

// LoadProfilesFromFile loads launch profiles from a YAML configuration file.
func LoadProfilesFromFile(path string) (*ProfileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return LoadProfilesFromData(data)
}

// LoadProfilesFromData parses launch profiles from YAML data.
// This is useful for loading from Kubernetes ConfigMap data.
func LoadProfilesFromData(data []byte) (*ProfileConfig, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty configuration data")
	}

	var config ProfileConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ValidateProfileConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// ValidateProfileConfig validates a ProfileConfig for correctness.
func ValidateProfileConfig(config *ProfileConfig) error {
	if config == nil {
		return fmt.Errorf("config is nil")
	}

	for i, profile := range config.Profiles {
		if err := ValidateProfile(&profile); err != nil {
			return fmt.Errorf("profile[%d]: %w", i, err)
		}
	}

	return nil
}

// ValidateProfile validates a single LaunchProfile.
func ValidateProfile(profile *LaunchProfile) error {
	if profile.Accelerator == "" {
		return fmt.Errorf("accelerator is required")
	}

	// A profile that requests an extended resource without a visibility
	// variable would hand every worker on the node the full device set.
	if profile.ResourceName != "" && profile.VisibleDevicesEnv == "" {
		return fmt.Errorf("visibleDevicesEnv is required when resourceName is set")
	}

	return nil
}

// NewInjectorFromFile creates an Injector from a YAML configuration file.
// Custom profiles override builtin profiles with the same accelerator name.
func NewInjectorFromFile(path string) (*Injector, error) {
	config, err := LoadProfilesFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}

	return NewInjectorWithConfig(config), nil
}

// NewInjectorWithConfig creates an Injector, layering the config's custom
// profiles over the builtins.
func NewInjectorWithConfig(config *ProfileConfig) *Injector {
	opts := make([]InjectorOption, 0)
	if config != nil {
		for i := range config.Profiles {
			opts = append(opts, WithProfile(&config.Profiles[i]))
		}
		if len(config.SkipContainers) > 0 {
			opts = append(opts, WithSkipContainers(config.SkipContainers...))
		}
	}
	return NewInjector(opts...)
}
