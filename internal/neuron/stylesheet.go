package neuron

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/BlueBrain/plotly-helper/internal/plane"
)

// DefaultRuleColor is used by rules that name no color.
const DefaultRuleColor = "green"

// ColorRule recolors either one section (optionally with its descendants)
// or the base color of a whole neurite.
type ColorRule struct {
	Section   *int   `yaml:"section,omitempty" json:"section,omitempty"`
	Neurite   *int   `yaml:"neurite,omitempty" json:"neurite,omitempty"`
	Color     string `yaml:"color,omitempty" json:"color,omitempty"`
	Start     int    `yaml:"start,omitempty" json:"start,omitempty"`
	End       *int   `yaml:"end,omitempty" json:"end,omitempty"`
	Recursive bool   `yaml:"recursive,omitempty" json:"recursive,omitempty"`
}

// StyleSheet is a declarative description of a figure:
//
//	title: pyramidal
//	plane: xy
//	lineWidth: 4
//	colors:
//	  - neurite: 1
//	    color: green
//	  - section: 159
//	    color: black
//	    start: 20
//	    end: 120
type StyleSheet struct {
	Title     string      `yaml:"title,omitempty" json:"title,omitempty"`
	Plane     any         `yaml:"plane,omitempty" json:"plane,omitempty"`
	LineWidth float64     `yaml:"lineWidth,omitempty" json:"lineWidth,omitempty"`
	Colors    []ColorRule `yaml:"colors,omitempty" json:"colors,omitempty"`
}

func LoadStyleSheet(r io.Reader) (*StyleSheet, error) {
	var s StyleSheet
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode style sheet: %w", err)
	}
	return &s, nil
}

func LoadStyleSheetFile(path string) (*StyleSheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadStyleSheet(f)
}

// PlaneSpec returns the sheet's plane selector as written, or fallback when
// the sheet has none. The selector is validated.
func (s *StyleSheet) PlaneSpec(fallback string) (string, error) {
	if s.Plane == nil {
		return fallback, nil
	}
	if _, err := plane.FromValue(s.Plane); err != nil {
		return "", err
	}
	return s.Plane.(string), nil
}

// Options overlays the sheet's title and line width on base.
func (s *StyleSheet) Options(base Options) Options {
	if s.Title != "" {
		base.Title = s.Title
	}
	if s.LineWidth > 0 {
		base.LineWidth = s.LineWidth
	}
	return base
}

// Apply records every color rule on b, in order. When a rule fails, b's
// style is left as it was before the call.
func (s *StyleSheet) Apply(b *Builder) error {
	saved := b.style.clone()
	for i, r := range s.Colors {
		if err := r.Apply(b); err != nil {
			b.style.restore(saved)
			return fmt.Errorf("color rule %d: %w", i, err)
		}
	}
	return nil
}

// Apply records the rule on b. A rejected rule records nothing.
func (r ColorRule) Apply(b *Builder) error {
	color := r.Color
	if color == "" {
		color = DefaultRuleColor
	}
	switch {
	case r.Section != nil && r.Neurite != nil:
		return fmt.Errorf("%w: both section and neurite set", ErrInvalidRule)
	case r.Neurite != nil:
		return b.ColorNeurite(*r.Neurite, color)
	case r.Section == nil:
		return fmt.Errorf("%w: neither section nor neurite set", ErrInvalidRule)
	}

	end := -1
	if r.End != nil {
		end = *r.End
	}
	if r.Recursive {
		s, err := b.section(*r.Section)
		if err != nil {
			return err
		}
		// The range is checked before any section is recorded.
		if _, err := checkOverride(s, color, r.Start, end); err != nil {
			return err
		}
		if err := b.ColorSectionRecursive(*r.Section, color); err != nil {
			return err
		}
		if r.Start == 0 && end < 0 {
			return nil
		}
	}
	return b.ColorSection(*r.Section, color, r.Start, end)
}
