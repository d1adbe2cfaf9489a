// Package plugins classifies the unordered plugin bag a caller hands to the
// resolver. Plugins are tagged by capability through interface satisfaction;
// at most one instance per capability is allowed.
package plugins

import (
	"fmt"
	"strings"

	"github.com/zrs-products/hetero-train-planner/pkg/clusterenv"
	"github.com/zrs-products/hetero-train-planner/pkg/precision"
)

// Plugin is any value in the plugin bag. Its capability is determined by the
// interfaces it satisfies, not by registration.
type Plugin interface{}

// PrecisionPlugin supplies precision settings, overriding flag-derived ones.
type PrecisionPlugin interface {
	PrecisionSettings() precision.Settings
}

// Set is the classified plugin bag: at most one instance per capability.
type Set struct {
	ClusterEnvironment clusterenv.ClusterEnvironment
	CheckpointIO       CheckpointIO
	Precision          PrecisionPlugin
	LayerSync          LayerSync
}

// DuplicatePluginError reports capabilities supplied more than once, in the
// order they were first duplicated.
type DuplicatePluginError struct {
	Capabilities []string
}

func (e *DuplicatePluginError) Error() string {
	return fmt.Sprintf("received multiple values for %s; each plugin capability accepts at most one instance", strings.Join(e.Capabilities, ", "))
}

// Classify splits the bag by capability. Every duplicated capability is
// collected into one aggregated DuplicatePluginError.
func Classify(bag []Plugin) (*Set, error) {
	set := &Set{}
	var duplicates []string
	seen := make(map[string]bool)

	duplicate := func(capability string) {
		if !seen[capability] {
			seen[capability] = true
			duplicates = append(duplicates, capability)
		}
	}

	for _, p := range bag {
		switch v := p.(type) {
		case clusterenv.ClusterEnvironment:
			if set.ClusterEnvironment != nil {
				duplicate("ClusterEnvironment")
				continue
			}
			set.ClusterEnvironment = v
		case CheckpointIO:
			if set.CheckpointIO != nil {
				duplicate("CheckpointIO")
				continue
			}
			set.CheckpointIO = v
		case PrecisionPlugin:
			if set.Precision != nil {
				duplicate("PrecisionPlugin")
				continue
			}
			set.Precision = v
		case LayerSync:
			if set.LayerSync != nil {
				duplicate("LayerSync")
				continue
			}
			set.LayerSync = v
		default:
			return nil, fmt.Errorf("unsupported plugin type %T: plugins must provide a ClusterEnvironment, CheckpointIO, PrecisionPlugin or LayerSync capability", p)
		}
	}

	if len(duplicates) > 0 {
		return nil, &DuplicatePluginError{Capabilities: duplicates}
	}
	return set, nil
}
