package precision

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	for _, valid := range []string{"16", "32", "64", "bf16"} {
		if _, err := Parse(valid); err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", valid, err)
		}
	}

	for _, invalid := range []string{"", "8", "fp16", "true"} {
		_, err := Parse(invalid)
		var parseErr *InvalidPrecisionError
		if !errors.As(err, &parseErr) {
			t.Errorf("Parse(%q) error = %T, want InvalidPrecisionError", invalid, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name         string
		settings     Settings
		accelerator  string
		wantErr      bool
		wantWarnings int
	}{
		{
			name:        "cpu 32",
			settings:    Default(),
			accelerator: "cpu",
		},
		{
			name:        "cuda 16 native",
			settings:    Settings{Precision: P16, AMPBackend: BackendNative},
			accelerator: "cuda",
		},
		{
			name:        "cuda 16 apex with level",
			settings:    Settings{Precision: P16, AMPBackend: BackendApex, AMPLevel: "O2"},
			accelerator: "cuda",
		},
		{
			name:        "amp level without apex backend",
			settings:    Settings{Precision: P16, AMPBackend: BackendNative, AMPLevel: "O2"},
			accelerator: "cuda",
			wantErr:     true,
		},
		{
			name:        "tpu 64 rejected",
			settings:    Settings{Precision: P64, AMPBackend: BackendNative},
			accelerator: "tpu",
			wantErr:     true,
		},
		{
			name:         "tpu 16 warns and runs bf16",
			settings:     Settings{Precision: P16, AMPBackend: BackendNative},
			accelerator:  "tpu",
			wantWarnings: 1,
		},
		{
			name:        "tpu bf16 accepted",
			settings:    Settings{Precision: BF16, AMPBackend: BackendNative},
			accelerator: "tpu",
		},
		{
			name:        "ipu 64 rejected",
			settings:    Settings{Precision: P64, AMPBackend: BackendNative},
			accelerator: "ipu",
			wantErr:     true,
		},
		{
			name:        "ipu bf16 rejected",
			settings:    Settings{Precision: BF16, AMPBackend: BackendNative},
			accelerator: "ipu",
			wantErr:     true,
		},
		{
			name:        "ipu 16 accepted",
			settings:    Settings{Precision: P16, AMPBackend: BackendNative},
			accelerator: "ipu",
		},
		{
			name:        "invalid precision value",
			settings:    Settings{Precision: "8"},
			accelerator: "cpu",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings, err := Validate(tt.settings, tt.accelerator)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
			if len(warnings) != tt.wantWarnings {
				t.Errorf("warnings = %v, want %d", warnings, tt.wantWarnings)
			}
		})
	}
}

func TestIncompatibilityError_Message(t *testing.T) {
	_, err := Validate(Settings{Precision: P64, AMPBackend: BackendNative}, "tpu")
	var incompat *IncompatibilityError
	if !errors.As(err, &incompat) {
		t.Fatalf("error = %T, want IncompatibilityError", err)
	}
	if incompat.Accelerator != "tpu" {
		t.Errorf("Accelerator = %q", incompat.Accelerator)
	}
}
