package typeid

import (
	"strings"
	"testing"
)

func TestNewCarriesPrefix(t *testing.T) {
	tests := []struct {
		name   string
		gen    func() string
		prefix string
	}{
		{"morphology", NewMorphologyID, PrefixMorphology},
		{"figure", NewFigureID, PrefixFigure},
		{"session", NewSessionID, PrefixSession},
		{"op", NewOpID, PrefixOp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := tt.gen()
			if !strings.HasPrefix(id, tt.prefix+"_") {
				t.Errorf("id = %q, want prefix %q", id, tt.prefix+"_")
			}
			if err := Validate(id, tt.prefix); err != nil {
				t.Errorf("Validate(%q) = %v, want nil", id, err)
			}
		})
	}
}

func TestValidateRejectsWrongPrefix(t *testing.T) {
	id := NewFigureID()
	if err := Validate(id, PrefixMorphology); err == nil {
		t.Errorf("Validate(%q, %q) = nil, want error", id, PrefixMorphology)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	if err := Validate("not-an-id", PrefixFigure); err == nil {
		t.Error("Validate(garbage) = nil, want error")
	}
}

func TestIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewFigureID()
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
