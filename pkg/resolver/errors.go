package resolver

import "fmt"

// ConflictingConfigurationError reports two explicit inputs that disagree,
// for example strategy-embedded devices against the top-level devices flag.
type ConflictingConfigurationError struct {
	// First and Second name the disagreeing inputs with their values
	First  string
	Second string
}

func (e *ConflictingConfigurationError) Error() string {
	return fmt.Sprintf("conflicting configuration: %s conflicts with %s", e.First, e.Second)
}

// InvalidStrategyError reports a strategy key that is not user selectable.
type InvalidStrategyError struct {
	// Key is the strategy key as supplied
	Key string

	// Known lists the valid strategy keys
	Known []string
}

func (e *InvalidStrategyError) Error() string {
	return fmt.Sprintf("strategy=%q is not a valid strategy key, valid keys: %v", e.Key, e.Known)
}

// IncompatibleStrategyError reports a strategy that is structurally
// incompatible with the resolved accelerator, not merely suboptimal.
type IncompatibleStrategyError struct {
	// Strategy is the requested strategy key
	Strategy string

	// Accelerator is the resolved accelerator name
	Accelerator string

	// Reason describes the structural incompatibility
	Reason string
}

func (e *IncompatibleStrategyError) Error() string {
	return fmt.Sprintf("strategy=%q can not be used with accelerator=%q: %s", e.Strategy, e.Accelerator, e.Reason)
}

// InteractiveIncompatibilityError reports a strategy whose launcher can not
// run inside an interactive runtime such as a notebook kernel.
type InteractiveIncompatibilityError struct {
	// Strategy is the requested strategy key
	Strategy string

	// LauncherKind is the launch mechanism that is incompatible
	LauncherKind string
}

func (e *InteractiveIncompatibilityError) Error() string {
	return fmt.Sprintf("strategy=%q is not compatible with an interactive runtime: its %s launcher can not run inside a notebook kernel; use a strategy without a process launcher, e.g. strategy=\"dp\"", e.Strategy, e.LauncherKind)
}
