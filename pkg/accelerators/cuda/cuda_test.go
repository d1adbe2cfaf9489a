package cuda

import (
	"errors"
	"reflect"
	"testing"

	"github.com/zrs-products/hetero-train-planner/pkg/accelerators"
)

func TestAccelerator_Availability(t *testing.T) {
	tests := []struct {
		name      string
		probe     Probe
		want      bool
		wantCount int
	}{
		{
			name:      "devices present",
			probe:     &MockProbe{Count: 2},
			want:      true,
			wantCount: 2,
		},
		{
			name:  "no devices",
			probe: &MockProbe{Count: 0},
			want:  false,
		},
		{
			name:  "driver probe fails",
			probe: &MockProbe{Fail: true},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := New(WithProbe(tt.probe))
			if got := acc.IsAvailable(); got != tt.want {
				t.Errorf("IsAvailable() = %v, want %v", got, tt.want)
			}
			if got := acc.AutoDeviceCount(); got != tt.wantCount {
				t.Errorf("AutoDeviceCount() = %d, want %d", got, tt.wantCount)
			}
		})
	}
}

func TestAccelerator_VisibleDevices(t *testing.T) {
	acc := New(WithProbe(&MockProbe{Count: 8}), WithVisibleDevices("0,1"))
	if got := acc.AutoDeviceCount(); got != 2 {
		t.Errorf("AutoDeviceCount() with CUDA_VISIBLE_DEVICES=0,1 = %d, want 2", got)
	}

	// Empty narrowing spec leaves the probed count untouched.
	acc = New(WithProbe(&MockProbe{Count: 8}), WithVisibleDevices(""))
	if got := acc.AutoDeviceCount(); got != 8 {
		t.Errorf("AutoDeviceCount() without narrowing = %d, want 8", got)
	}

	// A malformed entry terminates the list, as the runtime does.
	acc = New(WithProbe(&MockProbe{Count: 8}), WithVisibleDevices("0,oops,2"))
	if got := acc.AutoDeviceCount(); got != 1 {
		t.Errorf("AutoDeviceCount() with malformed spec = %d, want 1", got)
	}
}

func TestAccelerator_ParseDevices(t *testing.T) {
	acc := New(WithProbe(&MockProbe{Count: 4}))

	got, err := acc.ParseDevices(accelerators.DeviceSpec{Auto: true})
	if err != nil {
		t.Fatalf("ParseDevices(auto) unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []int{0, 1, 2, 3}) {
		t.Errorf("ParseDevices(auto) = %v", got)
	}

	got, err = acc.ParseDevices(accelerators.DeviceSpec{Count: 2})
	if err != nil {
		t.Fatalf("ParseDevices(count) unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("ParseDevices(count=2) = %v", got)
	}

	_, err = acc.ParseDevices(accelerators.DeviceSpec{Indices: []int{1, 7}})
	var specErr *accelerators.InvalidDeviceSpecError
	if !errors.As(err, &specErr) {
		t.Errorf("ParseDevices(out of range) error = %T, want InvalidDeviceSpecError", err)
	}
}
