package accelerators

import (
	"errors"
	"reflect"
	"testing"
)

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	r.Register(NewMock(MockConfig{Name: "test", Available: true, DeviceCount: 2}))

	acc, ok := r.Get("test")
	if !ok {
		t.Fatal("expected accelerator to be registered")
	}
	if acc.Name() != "test" {
		t.Errorf("Name() = %q, want %q", acc.Name(), "test")
	}

	// Re-registering replaces the entry but keeps the priority position.
	r.Register(NewMock(MockConfig{Name: "other", Available: true}))
	r.Register(NewMock(MockConfig{Name: "test", Available: false}))

	if got := r.Names(); !reflect.DeepEqual(got, []string{"test", "other"}) {
		t.Errorf("Names() = %v, want [test other]", got)
	}
	acc, _ = r.Get("test")
	if acc.IsAvailable() {
		t.Error("expected replaced accelerator to be unavailable")
	}
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry()
	r.Register(NewMock(MockConfig{Name: "up", Available: true, DeviceCount: 1}))
	r.Register(NewMock(MockConfig{Name: "down", Available: false}))

	if _, err := r.Lookup("up"); err != nil {
		t.Errorf("Lookup(up) unexpected error: %v", err)
	}

	_, err := r.Lookup("down")
	var unavailable *AcceleratorUnavailableError
	if !errors.As(err, &unavailable) {
		t.Errorf("Lookup(down) error = %T, want AcceleratorUnavailableError", err)
	}

	_, err = r.Lookup("missing")
	var invalid *InvalidAcceleratorError
	if !errors.As(err, &invalid) {
		t.Fatalf("Lookup(missing) error = %T, want InvalidAcceleratorError", err)
	}
	if !reflect.DeepEqual(invalid.Known, []string{"up", "down"}) {
		t.Errorf("Known = %v, want [up down]", invalid.Known)
	}
}

func TestRegistry_FirstAvailable(t *testing.T) {
	r := NewRegistry()
	r.Register(NewMock(MockConfig{Name: "first", Available: false}))
	r.Register(NewMock(MockConfig{Name: "second", Available: true}))
	r.Register(NewMock(MockConfig{Name: "third", Available: true}))

	acc, err := r.FirstAvailable()
	if err != nil {
		t.Fatalf("FirstAvailable() unexpected error: %v", err)
	}
	if acc.Name() != "second" {
		t.Errorf("FirstAvailable() = %q, want %q", acc.Name(), "second")
	}
}

func TestRegistry_FirstAvailableNoneUp(t *testing.T) {
	r := NewRegistry()
	r.Register(NewMock(MockConfig{Name: "down", Available: false}))

	_, err := r.FirstAvailable()
	var unavailable *AcceleratorUnavailableError
	if !errors.As(err, &unavailable) {
		t.Errorf("FirstAvailable() error = %T, want AcceleratorUnavailableError", err)
	}
}
