package resolver

import "fmt"

// DiagnosticLevel classifies a non-fatal resolution diagnostic.
type DiagnosticLevel string

const (
	// LevelWarning marks behavior the caller probably did not intend,
	// e.g. a strategy silently remapped to a supported one
	LevelWarning DiagnosticLevel = "warning"

	// LevelDeprecation marks use of a flag that will be removed
	LevelDeprecation DiagnosticLevel = "deprecation"
)

// Diagnostic is a non-fatal finding collected during resolution. Diagnostics
// are returned with the plan rather than emitted as a side effect, so the
// resolver stays pure and callers decide how to surface them.
type Diagnostic struct {
	Level   DiagnosticLevel `json:"level"`
	Message string          `json:"message"`
}

type diagnostics struct {
	records []Diagnostic
}

func (d *diagnostics) warnf(format string, args ...interface{}) {
	d.add(LevelWarning, format, args...)
}

func (d *diagnostics) deprecatef(format string, args ...interface{}) {
	d.add(LevelDeprecation, format, args...)
}

func (d *diagnostics) add(level DiagnosticLevel, format string, args ...interface{}) {
	d.records = append(d.records, Diagnostic{Level: level, Message: fmt.Sprintf(format, args...)})
}
