package clusterenv

import (
	"os"
	"strconv"
	"strings"
)

// Environ is an immutable snapshot of environment variables. Detection and
// rank queries are pure functions over a snapshot, so a resolution reads the
// process environment exactly once and tests can supply synthetic maps.
type Environ map[string]string

// FromOS snapshots the current process environment.
func FromOS() Environ {
	env := make(Environ)
	for _, kv := range os.Environ() {
		if idx := strings.Index(kv, "="); idx > 0 {
			env[kv[:idx]] = kv[idx+1:]
		}
	}
	return env
}

// Has reports whether key is set to a non-empty value.
func (e Environ) Has(key string) bool {
	v, ok := e[key]
	return ok && strings.TrimSpace(v) != ""
}

// Int returns the integer value of key, or fallback when unset or malformed.
func (e Environ) Int(key string, fallback int) int {
	v, ok := e[key]
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return n
}

// String returns the value of key, or fallback when unset.
func (e Environ) String(key, fallback string) string {
	if v, ok := e[key]; ok && v != "" {
		return v
	}
	return fallback
}
