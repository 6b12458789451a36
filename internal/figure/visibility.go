package figure

import (
	"fmt"
	"slices"
)

// Range is a half-open index range [Start, Stop) in a figure's object list.
type Range struct {
	Start int `json:"start"`
	Stop  int `json:"stop"`
}

func (r Range) Len() int { return r.Stop - r.Start }

// VisibilityMap tracks where each named group sits in the object list.
// Ranges are disjoint and cover [0, Total()) in group insertion order.
type VisibilityMap struct {
	ranges map[string]Range
	order  []string
	total  int
}

func NewVisibilityMap() *VisibilityMap {
	return &VisibilityMap{ranges: make(map[string]Range)}
}

// Add appends a range of count objects for name.
func (m *VisibilityMap) Add(name string, count int) (Range, error) {
	if _, ok := m.ranges[name]; ok {
		return Range{}, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	if count < 1 {
		return Range{}, fmt.Errorf("%w: %q", ErrEmptyGroup, name)
	}
	r := Range{Start: m.total, Stop: m.total + count}
	m.ranges[name] = r
	m.order = append(m.order, name)
	m.total += count
	return r, nil
}

// Remove deletes name and shifts every later range down by its length.
// It returns the range name occupied before removal.
func (m *VisibilityMap) Remove(name string) (Range, error) {
	removed, ok := m.ranges[name]
	if !ok {
		return Range{}, fmt.Errorf("%w: %q", ErrMissingName, name)
	}
	delete(m.ranges, name)
	m.order = slices.DeleteFunc(m.order, func(n string) bool { return n == name })

	last := removed.Stop - 1
	for n, r := range m.ranges {
		if r.Start > last {
			m.ranges[n] = Range{Start: r.Start - removed.Len(), Stop: r.Stop - removed.Len()}
		}
	}
	m.total -= removed.Len()
	return removed, nil
}

func (m *VisibilityMap) Get(name string) (Range, bool) {
	r, ok := m.ranges[name]
	return r, ok
}

// Names returns the surviving group names in insertion order.
func (m *VisibilityMap) Names() []string {
	return slices.Clone(m.order)
}

// Total is the number of objects covered by all ranges.
func (m *VisibilityMap) Total() int { return m.total }

// Vector returns a visibility list of length total that is true on the
// union of the named ranges. A negative total is ErrInvalidCount.
func (m *VisibilityMap) Vector(total int, names ...string) ([]bool, error) {
	if total < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, total)
	}
	out := make([]bool, total)
	for _, name := range names {
		r, ok := m.ranges[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingName, name)
		}
		for i := r.Start; i < r.Stop && i < total; i++ {
			out[i] = true
		}
	}
	return out, nil
}
