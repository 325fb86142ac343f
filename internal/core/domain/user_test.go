package domain

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	for _, in := range []string{"client", "agency", "admin"} {
		if r, err := ParseRole(in); err != nil || string(r) != in {
			t.Fatalf("ParseRole(%q) = %v, %v", in, r, err)
		}
	}
	for _, in := range []string{"", "Admin", "pilot"} {
		if _, err := ParseRole(in); !errors.Is(err, ErrValidation) {
			t.Fatalf("ParseRole(%q): expected ErrValidation, got %v", in, err)
		}
	}
}
