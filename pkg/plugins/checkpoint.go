package plugins

import (
	"fmt"
	"os"
	"path/filepath"
)

// CheckpointIO abstracts where checkpoint artifacts are read from and
// written to. The resolver only selects an implementation; serialization of
// the artifacts themselves belongs to the training framework.
type CheckpointIO interface {
	// Save writes an artifact to path, creating parent directories
	Save(path string, data []byte) error

	// Load reads an artifact back
	Load(path string) ([]byte, error)

	// Remove deletes an artifact, ignoring ones that are already gone
	Remove(path string) error
}

// LocalCheckpointIO stores checkpoint artifacts on the local filesystem and
// is the default when no CheckpointIO plugin is supplied.
type LocalCheckpointIO struct{}

// NewLocalCheckpointIO creates the default filesystem checkpoint IO.
func NewLocalCheckpointIO() *LocalCheckpointIO {
	return &LocalCheckpointIO{}
}

// Save implements CheckpointIO.
func (io *LocalCheckpointIO) Save(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create checkpoint directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write checkpoint %s: %w", path, err)
	}
	return nil
}

// Load implements CheckpointIO.
func (io *LocalCheckpointIO) Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint %s: %w", path, err)
	}
	return data, nil
}

// Remove implements CheckpointIO.
func (io *LocalCheckpointIO) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove checkpoint %s: %w", path, err)
	}
	return nil
}
