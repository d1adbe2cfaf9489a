package accelerators

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseDeviceSpec(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    DeviceSpec
		wantErr bool
	}{
		{
			name: "empty is unset",
			raw:  "",
			want: DeviceSpec{},
		},
		{
			name: "auto",
			raw:  "auto",
			want: DeviceSpec{Auto: true},
		},
		{
			name: "count",
			raw:  "3",
			want: DeviceSpec{Count: 3},
		},
		{
			name: "count with whitespace",
			raw:  " 2 ",
			want: DeviceSpec{Count: 2},
		},
		{
			name: "index list",
			raw:  "1,3",
			want: DeviceSpec{Indices: []int{1, 3}},
		},
		{
			name: "bracketed index list",
			raw:  "[0,2]",
			want: DeviceSpec{Indices: []int{0, 2}},
		},
		{
			name: "single element list",
			raw:  "[1]",
			want: DeviceSpec{Indices: []int{1}},
		},
		{
			name:    "zero count rejected",
			raw:     "0",
			wantErr: true,
		},
		{
			name:    "negative count rejected",
			raw:     "-1",
			wantErr: true,
		},
		{
			name:    "empty list rejected",
			raw:     "[]",
			wantErr: true,
		},
		{
			name:    "negative index rejected",
			raw:     "[0,-1]",
			wantErr: true,
		},
		{
			name:    "non-integer token rejected",
			raw:     "1,two",
			wantErr: true,
		},
		{
			name:    "garbage rejected",
			raw:     "lots",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDeviceSpec(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDeviceSpec(%q) expected error, got %+v", tt.raw, got)
				}
				var specErr *InvalidDeviceSpecError
				if !errors.As(err, &specErr) {
					t.Errorf("expected InvalidDeviceSpecError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDeviceSpec(%q) unexpected error: %v", tt.raw, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseDeviceSpec(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSequentialIndices(t *testing.T) {
	if got := SequentialIndices(3); !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Errorf("SequentialIndices(3) = %v", got)
	}
	if got := SequentialIndices(0); len(got) != 0 {
		t.Errorf("SequentialIndices(0) = %v, want empty", got)
	}
}
