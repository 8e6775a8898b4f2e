// ABOUTME: Tests for version constants
// ABOUTME: Ensures build identity strings are set and sane
package version

import (
	"strings"
	"testing"
)

func TestConstantsDefined(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"Version", Version},
		{"Product", Product},
		{"Manufacturer", Manufacturer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value == "" {
				t.Fatalf("%s should not be empty", tt.name)
			}
			if len(tt.value) > 100 {
				t.Errorf("%s is unreasonably long: %d chars", tt.name, len(tt.value))
			}
			for _, placeholder := range []string{"TODO", "FIXME", "XXX", "placeholder"} {
				if tt.value == placeholder {
					t.Errorf("%s should not be placeholder value: %s", tt.name, placeholder)
				}
			}
		})
	}
}

func TestVersionIsDotted(t *testing.T) {
	if parts := strings.Split(Version, "."); len(parts) != 3 {
		t.Errorf("expected major.minor.patch, got %q", Version)
	}
}

func TestProductIsCommandName(t *testing.T) {
	if strings.ContainsAny(Product, " /\\") {
		t.Errorf("product %q must be usable as a command name", Product)
	}
}
