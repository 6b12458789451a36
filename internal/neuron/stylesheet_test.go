package neuron

import (
	"errors"
	"strings"
	"testing"

	"github.com/BlueBrain/plotly-helper/internal/plane"
)

const sheet = `
title: pyramidal
plane: xy
lineWidth: 4
colors:
  - neurite: 2
    color: gray
  - section: 1
  - section: 3
    color: black
    start: 1
    end: 2
  - section: 4
    color: orange
    recursive: true
`

func TestLoadStyleSheet(t *testing.T) {
	s, err := LoadStyleSheet(strings.NewReader(sheet))
	if err != nil {
		t.Fatalf("LoadStyleSheet() error = %v", err)
	}
	if s.Title != "pyramidal" || s.LineWidth != 4 || len(s.Colors) != 4 {
		t.Errorf("sheet = %+v", s)
	}
	spec, err := s.PlaneSpec("3d")
	if err != nil || spec != "xy" {
		t.Errorf("PlaneSpec() = %q, %v", spec, err)
	}

	opts := s.Options(DefaultOptions())
	if opts.Title != "pyramidal" || opts.LineWidth != 4 || opts.Height != 1000 {
		t.Errorf("Options() = %+v", opts)
	}
}

func TestLoadStyleSheetEmpty(t *testing.T) {
	s, err := LoadStyleSheet(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadStyleSheet(empty) error = %v", err)
	}
	if spec, _ := s.PlaneSpec("3d"); spec != "3d" {
		t.Errorf("PlaneSpec() = %q, want fallback", spec)
	}
}

func TestLoadStyleSheetUnknownField(t *testing.T) {
	if _, err := LoadStyleSheet(strings.NewReader("colour: red\n")); err == nil {
		t.Error("LoadStyleSheet() accepted an unknown field")
	}
}

func TestStyleSheetPlaneErrors(t *testing.T) {
	tests := []struct {
		src  string
		want error
	}{
		{"plane: 3\n", plane.ErrPlaneType},
		{"plane: [x, y]\n", plane.ErrPlaneType},
		{"plane: xyz\n", plane.ErrPlaneValue},
	}
	for _, tt := range tests {
		s, err := LoadStyleSheet(strings.NewReader(tt.src))
		if err != nil {
			t.Fatalf("LoadStyleSheet(%q) error = %v", tt.src, err)
		}
		if _, err := s.PlaneSpec("3d"); !errors.Is(err, tt.want) {
			t.Errorf("PlaneSpec(%q) error = %v, want %v", tt.src, err, tt.want)
		}
	}
}

func TestStyleSheetApply(t *testing.T) {
	s, err := LoadStyleSheet(strings.NewReader(sheet))
	if err != nil {
		t.Fatal(err)
	}
	b := newBuilder(t, "xy")
	if err := s.Apply(b); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if c, ok := b.Style().NeuriteColor(2); !ok || c != "gray" {
		t.Errorf("NeuriteColor(2) = %q, %v", c, ok)
	}
	tests := map[int]Override{
		1: {Color: DefaultRuleColor, Start: 0, End: 1},
		3: {Color: "black", Start: 1, End: 2},
		4: {Color: "orange", Start: 0, End: 1},
		8: {Color: "orange", Start: 0, End: 1},
	}
	for id, want := range tests {
		if got, _ := b.Style().Get(id); got != want {
			t.Errorf("Get(%d) = %+v, want %+v", id, got, want)
		}
	}
	if b.Style().Len() != 7 {
		t.Errorf("Len() = %d, want 7", b.Style().Len())
	}
}

func TestColorRuleErrors(t *testing.T) {
	one, missing := 1, 99
	tests := []struct {
		name string
		rule ColorRule
		want error
	}{
		{"neither", ColorRule{Color: "red"}, ErrInvalidRule},
		{"both", ColorRule{Section: &one, Neurite: &one}, ErrInvalidRule},
		{"unknown section", ColorRule{Section: &missing}, ErrUnknownSection},
		{"unknown neurite", ColorRule{Neurite: &missing}, ErrUnknownNeurite},
		{"bad range", ColorRule{Section: &one, Start: 3}, ErrInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.rule.Apply(newBuilder(t, "3d")); !errors.Is(err, tt.want) {
				t.Errorf("Apply() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRecursiveRuleBadRangeRecordsNothing(t *testing.T) {
	b := newBuilder(t, "3d")
	basal, end := 1, 99
	rule := ColorRule{Section: &basal, Color: "red", End: &end, Recursive: true}
	if err := rule.Apply(b); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("Apply() error = %v, want ErrInvalidRange", err)
	}
	if got := b.Style().Len(); got != 0 {
		t.Errorf("Style().Len() = %d after a rejected rule, want 0 (sections %v)", got, b.Style().Sections())
	}
}

func TestStyleSheetApplyIsAllOrNothing(t *testing.T) {
	b := newBuilder(t, "3d")
	apical := 4
	if err := b.ColorSection(apical, "black", 0, -1); err != nil {
		t.Fatal(err)
	}
	if err := b.ColorNeurite(0, "gray"); err != nil {
		t.Fatal(err)
	}

	basal, missing := 1, 99
	s := &StyleSheet{Colors: []ColorRule{
		{Section: &basal, Color: "red", Recursive: true},
		{Neurite: &basal, Color: "red"},
		{Section: &missing},
	}}
	err := s.Apply(b)
	if !errors.Is(err, ErrUnknownSection) {
		t.Fatalf("Apply() error = %v, want ErrUnknownSection", err)
	}
	if !strings.HasPrefix(err.Error(), "color rule 2: ") {
		t.Errorf("error = %q, want it to name rule 2", err)
	}
	if got := b.Style().Sections(); len(got) != 1 || got[0] != apical {
		t.Errorf("Sections() = %v, want [%d]", got, apical)
	}
	if o, _ := b.Style().Get(apical); o.Color != "black" {
		t.Errorf("Get(%d).Color = %q, want black", apical, o.Color)
	}
	if _, ok := b.Style().NeuriteColor(1); ok {
		t.Error("neurite 1 kept the color of a rolled back rule")
	}
	if c, _ := b.Style().NeuriteColor(0); c != "gray" {
		t.Errorf("NeuriteColor(0) = %q, want gray", c)
	}
}
