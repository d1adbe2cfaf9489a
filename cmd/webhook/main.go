package main

import (
	"flag"
	"os"

	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/klog/v2"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"
	"sigs.k8s.io/controller-runtime/pkg/webhook"

	"github.com/zrs-products/hetero-train-planner/pkg/inject"
)

var (
	scheme = runtime.NewScheme()
)

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
}

var (
	// MetricsAddr is the address the metric endpoint binds to
	MetricsAddr string

	// WebhookPort is the port the webhook server listens on
	WebhookPort int

	// CertDir is the directory containing TLS certificates
	CertDir string

	// ProfilesPath is an optional YAML file with custom launch profiles
	ProfilesPath string
)

func init() {
	flag.StringVar(&MetricsAddr, "metrics-addr", ":8080", "The address the metric endpoint binds to")
	flag.IntVar(&WebhookPort, "webhook-port", 9443, "The port the webhook server listens on")
	flag.StringVar(&CertDir, "cert-dir", "/tmp/k8s-webhook-server/serving-certs", "Directory containing TLS certificates")
	flag.StringVar(&ProfilesPath, "profiles", "", "Path to a YAML file with custom launch profiles")
}

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	ctrl.SetLogger(klog.NewKlogr())

	klog.Info("Initializing plan injection webhook")

	injector := inject.NewInjector()
	if ProfilesPath != "" {
		var err error
		injector, err = inject.NewInjectorFromFile(ProfilesPath)
		if err != nil {
			klog.Errorf("Failed to load launch profiles: %v", err)
			os.Exit(1)
		}
		klog.Infof("Loaded custom launch profiles from %s", ProfilesPath)
	}

	webhookConfig := inject.DefaultWebhookConfig()
	webhookConfig.Port = WebhookPort
	webhookConfig.CertDir = CertDir

	mgr, err := ctrl.NewManager(ctrl.GetConfigOrDie(), ctrl.Options{
		Scheme:  scheme,
		Metrics: metricsserver.Options{BindAddress: MetricsAddr},
		WebhookServer: webhook.NewServer(webhook.Options{
			Port:    webhookConfig.Port,
			CertDir: webhookConfig.CertDir,
		}),
	})
	if err != nil {
		klog.Errorf("Failed to create manager: %v", err)
		os.Exit(1)
	}

	if err := inject.SetupWebhookWithManager(mgr, webhookConfig, injector); err != nil {
		klog.Errorf("Failed to set up webhook: %v", err)
		os.Exit(1)
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		klog.Errorf("Failed to add health check: %v", err)
		os.Exit(1)
	}
	if err := mgr.AddReadyzCheck("readyz", mgr.GetWebhookServer().StartedChecker()); err != nil {
		klog.Errorf("Failed to add readiness check: %v", err)
		os.Exit(1)
	}

	klog.Infof("Starting webhook server on port %d", webhookConfig.Port)
	if err := mgr.Start(ctrl.SetupSignalHandler()); err != nil {
		klog.Errorf("Manager exited with error: %v", err)
		os.Exit(1)
	}
}
