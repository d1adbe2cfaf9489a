package inject

// Pod annotations understood and written by the webhook.
const (
	// AnnotationAccelerator requests an accelerator for the pod's workload
	AnnotationAccelerator = "htp.io/accelerator"

	// AnnotationDevices is the raw device spec for the workload
	AnnotationDevices = "htp.io/devices"

	// AnnotationStrategy requests a strategy key
	AnnotationStrategy = "htp.io/strategy"

	// AnnotationPrecision requests a numeric precision
	AnnotationPrecision = "htp.io/precision"

	// AnnotationNumNodes is the node count of the job
	AnnotationNumNodes = "htp.io/num-nodes"

	// AnnotationResolvedAccelerator records the accelerator the webhook
	// resolved, written back onto the pod
	AnnotationResolvedAccelerator = "htp.io/resolved-accelerator"

	// AnnotationResolvedStrategy records the resolved strategy key
	AnnotationResolvedStrategy = "htp.io/resolved-strategy"

	// LabelNodeAccelerator is the node label the webhook consults as an
	// accelerator hint for already-scheduled pods
	LabelNodeAccelerator = "htp.io/accelerator"
)
