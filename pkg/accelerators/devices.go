package accelerators

import (
	"strconv"
	"strings"
)

// DeviceSpec is the parsed form of a device selection flag. Exactly one of
// Auto, Count or Indices is set after a successful parse.
type DeviceSpec struct {
	// Auto selects the accelerator's own device count
	Auto bool

	// Count requests the first Count devices
	Count int

	// Indices requests an explicit list of device indices
	Indices []int
}

// IsZero reports whether the spec was left unset.
func (s DeviceSpec) IsZero() bool {
	return !s.Auto && s.Count == 0 && s.Indices == nil
}

// ParseDeviceSpec parses the raw devices flag. Accepted forms:
//
//	""            unset (caller applies its default)
//	"auto"        defer to the accelerator device count
//	"3"           a positive device count
//	"1,3" "[1,3]" an explicit, non-empty list of device indices
//
// A count of zero, an empty list, negative indices and non-integer tokens are
// rejected with InvalidDeviceSpecError.
func ParseDeviceSpec(raw string) (DeviceSpec, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return DeviceSpec{}, nil
	}
	if trimmed == "auto" {
		return DeviceSpec{Auto: true}, nil
	}

	listForm := false
	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		listForm = true
		trimmed = strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	}

	if !listForm && !strings.Contains(trimmed, ",") {
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return DeviceSpec{}, &InvalidDeviceSpecError{Spec: raw, Reason: "not an integer, a list of integers or \"auto\""}
		}
		if n <= 0 {
			return DeviceSpec{}, &InvalidDeviceSpecError{Spec: raw, Reason: "device count must be positive"}
		}
		return DeviceSpec{Count: n}, nil
	}

	if trimmed == "" {
		return DeviceSpec{}, &InvalidDeviceSpecError{Spec: raw, Reason: "device list must not be empty"}
	}

	parts := strings.Split(trimmed, ",")
	indices := make([]int, 0, len(parts))
	for _, part := range parts {
		token := strings.TrimSpace(part)
		idx, err := strconv.Atoi(token)
		if err != nil {
			return DeviceSpec{}, &InvalidDeviceSpecError{Spec: raw, Reason: "device list entries must be integers, got " + strconv.Quote(token)}
		}
		if idx < 0 {
			return DeviceSpec{}, &InvalidDeviceSpecError{Spec: raw, Reason: "device indices must not be negative"}
		}
		indices = append(indices, idx)
	}
	return DeviceSpec{Indices: indices}, nil
}

// SequentialIndices returns [0, 1, ..., n-1].
func SequentialIndices(n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return indices
}
