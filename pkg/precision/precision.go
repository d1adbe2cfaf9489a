// Package precision validates numeric precision settings against the
// resolved accelerator. The rules are a closed compatibility table, not
// behavior: actual mixed-precision execution belongs to the training
// framework.
package precision

import "fmt"

// Precision is the numeric precision of training computation.
type Precision string

const (
	P16  Precision = "16"
	P32  Precision = "32"
	P64  Precision = "64"
	BF16 Precision = "bf16"
)

// Backend selects the mixed-precision implementation.
type Backend string

const (
	BackendNative Backend = "native"
	BackendApex   Backend = "apex"
)

// Settings is a validated precision configuration.
type Settings struct {
	// Precision is the numeric precision
	Precision Precision `json:"precision"`

	// AMPBackend is the mixed-precision backend, meaningful for 16/bf16
	AMPBackend Backend `json:"ampBackend,omitempty"`

	// AMPLevel is the apex optimization level (O0..O3); apex only
	AMPLevel string `json:"ampLevel,omitempty"`
}

// Default returns full 32-bit precision with the native backend.
func Default() Settings {
	return Settings{Precision: P32, AMPBackend: BackendNative}
}

// InvalidPrecisionError reports a precision value outside the supported set.
type InvalidPrecisionError struct {
	// Value is the precision as supplied
	Value string
}

func (e *InvalidPrecisionError) Error() string {
	return fmt.Sprintf("precision %q is invalid, allowed values: 16, 32, 64, bf16", e.Value)
}

// IncompatibilityError reports a precision setting the resolved accelerator
// or backend can not honour.
type IncompatibilityError struct {
	// Accelerator is the resolved accelerator name
	Accelerator string

	// Settings is the rejected configuration
	Settings Settings

	// Reason describes the violated table entry
	Reason string
}

func (e *IncompatibilityError) Error() string {
	return fmt.Sprintf("accelerator=%q, precision=%q is not supported: %s", e.Accelerator, e.Settings.Precision, e.Reason)
}

// Parse validates a raw precision value.
func Parse(raw string) (Precision, error) {
	switch Precision(raw) {
	case P16, P32, P64, BF16:
		return Precision(raw), nil
	}
	return "", &InvalidPrecisionError{Value: raw}
}

// Validate checks the settings against the accelerator compatibility table.
// It returns the non-fatal warnings collected on the way; a returned error is
// a hard incompatibility.
func Validate(s Settings, accelerator string) ([]string, error) {
	if _, err := Parse(string(s.Precision)); err != nil {
		return nil, err
	}

	if s.AMPLevel != "" && s.AMPBackend != BackendApex {
		return nil, &IncompatibilityError{
			Accelerator: accelerator,
			Settings:    s,
			Reason:      fmt.Sprintf("amp_level=%q is only supported with the apex backend", s.AMPLevel),
		}
	}

	var warnings []string
	switch accelerator {
	case "tpu":
		if s.Precision == P64 {
			return nil, &IncompatibilityError{
				Accelerator: accelerator,
				Settings:    s,
				Reason:      "64-bit precision is not implemented on TPU",
			}
		}
		if s.Precision == P16 {
			// TPUs train in bf16 natively; 16 is accepted but AMP is a no-op.
			warnings = append(warnings, fmt.Sprintf("accelerator=tpu, precision=16: %s AMP is not supported on TPU, using bf16 instead", s.AMPBackend))
		}
	case "ipu":
		if s.Precision == P64 || s.Precision == BF16 {
			return nil, &IncompatibilityError{
				Accelerator: accelerator,
				Settings:    s,
				Reason:      fmt.Sprintf("precision %q is not supported on IPU", s.Precision),
			}
		}
	}
	return warnings, nil
}
