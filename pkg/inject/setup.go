package inject

import (
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/webhook"
	"sigs.k8s.io/controller-runtime/pkg/webhook/admission"
)

// WebhookConfig holds configuration for the webhook server.
type WebhookConfig struct {
	// Port is the port the webhook server listens on
	Port int

	// CertDir is the directory containing TLS certificates
	CertDir string

	// MutatePath is the path for the mutating webhook
	MutatePath string

	// ValidatePath is the path for the validating webhook
	ValidatePath string
}

// DefaultWebhookConfig returns the default webhook configuration.
func DefaultWebhookConfig() *WebhookConfig {
	return &WebhookConfig{
		Port:         9443,
		CertDir:      "/tmp/k8s-webhook-server/serving-certs",
		MutatePath:   "/mutate-v1-pod",
		ValidatePath: "/validate-v1-pod",
	}
}

// SetupWebhookWithManager registers the pod mutator and validator on the
// manager's webhook server.
func SetupWebhookWithManager(mgr ctrl.Manager, config *WebhookConfig, injector *Injector) error {
	if config == nil {
		config = DefaultWebhookConfig()
	}

	decoder := admission.NewDecoder(mgr.GetScheme())

	opts := []PodMutatorOption{}
	if injector != nil {
		opts = append(opts, WithPodMutatorInjector(injector))
	}
	mutator := NewPodMutator(mgr.GetClient(), opts...)
	if err := mutator.InjectDecoder(*decoder); err != nil {
		return err
	}

	validator := NewPodValidator(mgr.GetClient())
	if err := validator.InjectDecoder(*decoder); err != nil {
		return err
	}

	server := mgr.GetWebhookServer()
	server.Register(config.MutatePath, &webhook.Admission{Handler: mutator})
	server.Register(config.ValidatePath, &webhook.Admission{Handler: validator})
	return nil
}
