package neuron

import (
	"fmt"
	"maps"
	"slices"

	"github.com/BlueBrain/plotly-helper/internal/morphology"
)

// Override recolors segments [Start, End) of a section.
type Override struct {
	Color string `json:"color"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// StyleMap holds the per-section and per-neurite color overrides of a
// builder. Later entries for the same section replace earlier ones.
type StyleMap struct {
	sections map[int]Override
	order    []int
	neurites map[int]string
}

func NewStyleMap() *StyleMap {
	return &StyleMap{
		sections: make(map[int]Override),
		neurites: make(map[int]string),
	}
}

// checkOverride resolves a negative end to the segment count of s and
// validates the result.
func checkOverride(s *morphology.Section, color string, start, end int) (Override, error) {
	if color == "" {
		return Override{}, ErrEmptyColor
	}
	segs := s.Segments()
	if end < 0 {
		end = segs
	}
	if start < 0 || start > end || end > segs {
		return Override{}, fmt.Errorf("%w: [%d, %d) on section %d with %d segments", ErrInvalidRange, start, end, s.ID, segs)
	}
	return Override{Color: color, Start: start, End: end}, nil
}

func (m *StyleMap) put(id int, o Override) {
	if _, ok := m.sections[id]; !ok {
		m.order = append(m.order, id)
	}
	m.sections[id] = o
}

// Set colors segments [start, end) of s. A negative end means up to the last
// point.
func (m *StyleMap) Set(s *morphology.Section, color string, start, end int) error {
	o, err := checkOverride(s, color, start, end)
	if err != nil {
		return err
	}
	m.put(s.ID, o)
	return nil
}

// SetRecursive colors s and all its descendants over their full length.
// Nothing is recorded unless every section validates.
func (m *StyleMap) SetRecursive(s *morphology.Section, color string) error {
	var (
		ids       []int
		overrides []Override
		err       error
	)
	s.Walk(func(sec *morphology.Section) bool {
		var o Override
		if o, err = checkOverride(sec, color, 0, -1); err != nil {
			return false
		}
		ids = append(ids, sec.ID)
		overrides = append(overrides, o)
		return true
	})
	if err != nil {
		return err
	}
	for i, id := range ids {
		m.put(id, overrides[i])
	}
	return nil
}

// SetNeurite replaces the default color of the neurite at index.
func (m *StyleMap) SetNeurite(index int, color string) error {
	if color == "" {
		return ErrEmptyColor
	}
	m.neurites[index] = color
	return nil
}

func (m *StyleMap) Get(section int) (Override, bool) {
	o, ok := m.sections[section]
	return o, ok
}

func (m *StyleMap) NeuriteColor(index int) (string, bool) {
	c, ok := m.neurites[index]
	return c, ok
}

// Sections returns the overridden section IDs in the order they were first
// set.
func (m *StyleMap) Sections() []int { return slices.Clone(m.order) }

// Len is the number of overridden sections.
func (m *StyleMap) Len() int { return len(m.sections) }

// clone returns an independent copy of m.
func (m *StyleMap) clone() *StyleMap {
	return &StyleMap{
		sections: maps.Clone(m.sections),
		order:    slices.Clone(m.order),
		neurites: maps.Clone(m.neurites),
	}
}

// restore replaces the contents of m with those of saved.
func (m *StyleMap) restore(saved *StyleMap) {
	m.Reset()
	maps.Copy(m.sections, saved.sections)
	maps.Copy(m.neurites, saved.neurites)
	m.order = append(m.order, saved.order...)
}

func (m *StyleMap) Reset() {
	clear(m.sections)
	clear(m.neurites)
	m.order = m.order[:0]
}
