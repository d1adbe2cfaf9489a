package plugins

// LayerSync is the policy for synchronizing normalization statistics across
// the devices of a multi-device strategy.
type LayerSync interface {
	// Kind identifies the synchronization implementation
	Kind() string
}

// NativeSyncBatchNorm is the framework-native batch-norm synchronization and
// the policy selected by the sync_batchnorm flag.
type NativeSyncBatchNorm struct{}

// NewNativeSyncBatchNorm creates the default layer-sync policy.
func NewNativeSyncBatchNorm() *NativeSyncBatchNorm {
	return &NativeSyncBatchNorm{}
}

// Kind returns "native_sync_batchnorm".
func (s *NativeSyncBatchNorm) Kind() string { return "native_sync_batchnorm" }
