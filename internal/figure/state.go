// Package figure keeps the bookkeeping behind an interactive plotly figure:
// named groups of traces, the index ranges they occupy, background shapes
// and dropdown button groups.
//
// Plotly toggles trace visibility with a boolean list aligned on the trace
// order. State lets callers think in group names instead: VisibilityList
// turns a set of names into that list, and visibility buttons keep
// following their groups as groups are added and removed.
package figure

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/BlueBrain/plotly-helper/internal/plane"
)

// Renderable is implemented by every trace variant a figure can hold.
type Renderable interface {
	// Kind is the plotly trace type, e.g. "scatter3d".
	Kind() string
	Validate() error
}

// Group is a named batch of renderables added or removed as a unit.
type Group struct {
	Name    string
	Objects []Renderable
}

// Spacing controls the vertical layout of button groups, in plotly paper
// coordinates.
type Spacing struct {
	ButtonHeight float64
	Gap          float64
}

func DefaultSpacing() Spacing {
	return Spacing{ButtonHeight: 0.04, Gap: 0.01}
}

// State is the mutable figure under construction. It is not safe for
// concurrent use.
type State struct {
	title   string
	plane   plane.Plane
	layout  Layout
	spacing Spacing

	objects    []Renderable
	visibility *VisibilityMap
	shapes     []Shape
	buttons    []*ButtonGroup
	buttonIdx  map[string]int
}

// New creates an empty figure with the standard layout.
func New(title string) *State {
	return NewWithLayout(title, StandardLayout(title))
}

// NewWithLayout creates an empty figure with a caller supplied layout.
func NewWithLayout(title string, layout Layout) *State {
	return &State{
		title:      title,
		layout:     layout,
		spacing:    DefaultSpacing(),
		visibility: NewVisibilityMap(),
		buttonIdx:  make(map[string]int),
	}
}

// NewPlaneState creates a figure whose scene camera and axes follow the
// plane selector spec. The title is suffixed with the selector as given.
func NewPlaneState(title, spec string) (*State, error) {
	p, err := plane.Sanitize(spec)
	if err != nil {
		return nil, err
	}
	title = fmt.Sprintf("%s-%s", title, spec)
	layout := StandardLayout(title)
	scene := plane.SceneFor(p)
	layout.Scene = &scene

	s := NewWithLayout(title, layout)
	s.plane = p
	return s, nil
}

func (s *State) Title() string { return s.title }

// Plane is empty unless the state was created with NewPlaneState.
func (s *State) Plane() plane.Plane { return s.plane }

func (s *State) SetSpacing(sp Spacing) { s.spacing = sp }

// SetHeight fixes the figure height in pixels; zero lets plotly decide.
func (s *State) SetHeight(px int) { s.layout.Height = px }

func (s *State) Len() int { return len(s.objects) }

// Objects returns a copy of the object list.
func (s *State) Objects() []Renderable { return slices.Clone(s.objects) }

// Groups returns the group names in insertion order.
func (s *State) Groups() []string { return s.visibility.Names() }

// Range returns the index range a group occupies.
func (s *State) Range(name string) (Range, bool) { return s.visibility.Get(name) }

func validateObjects(name string, objects []Renderable) error {
	if len(objects) == 0 {
		return fmt.Errorf("%w: %q", ErrEmptyGroup, name)
	}
	for i, obj := range objects {
		if isNil(obj) {
			return fmt.Errorf("%w: element %d of %q is nil", ErrInvalidObject, i, name)
		}
		if err := obj.Validate(); err != nil {
			return fmt.Errorf("%w: element %d of %q (%s): %w", ErrInvalidObject, i, name, obj.Kind(), err)
		}
	}
	return nil
}

func isNil(obj Renderable) bool {
	if obj == nil {
		return true
	}
	v := reflect.ValueOf(obj)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// AddGroup appends objects under name.
func (s *State) AddGroup(name string, objects ...Renderable) error {
	return s.AddGroups(Group{Name: name, Objects: objects})
}

// AddGroups adds every group or none: the whole batch is validated before
// the state changes.
func (s *State) AddGroups(groups ...Group) error {
	seen := make(map[string]bool, len(groups))
	for _, g := range groups {
		if _, ok := s.visibility.Get(g.Name); ok || seen[g.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateName, g.Name)
		}
		seen[g.Name] = true
		if err := validateObjects(g.Name, g.Objects); err != nil {
			return err
		}
	}
	for _, g := range groups {
		if _, err := s.visibility.Add(g.Name, len(g.Objects)); err != nil {
			return err
		}
		s.objects = append(s.objects, g.Objects...)
	}
	return nil
}

// RemoveGroups removes the named groups one at a time. It stops at the first
// unknown name; groups removed before it stay removed.
func (s *State) RemoveGroups(names ...string) error {
	for _, name := range names {
		r, err := s.visibility.Remove(name)
		if err != nil {
			return err
		}
		s.objects = slices.Delete(s.objects, r.Start, r.Stop)
	}
	return nil
}

// VisibilityList is true for every object belonging to one of names.
func (s *State) VisibilityList(names ...string) ([]bool, error) {
	return s.visibility.Vector(len(s.objects), names...)
}

// AddShapes appends background shapes.
func (s *State) AddShapes(shapes ...Shape) error {
	for i, sh := range shapes {
		if sh.Type == "" {
			return fmt.Errorf("%w: shape %d has no type", ErrInvalidShape, i)
		}
	}
	s.shapes = append(s.shapes, shapes...)
	return nil
}

// Finalize lays the button groups out top to bottom and returns a snapshot
// that later mutations of s do not affect.
func (s *State) Finalize() Figure {
	layout := s.layout
	if s.layout.Scene != nil {
		scene := *s.layout.Scene
		layout.Scene = &scene
	}
	layout.Shapes = append(make([]Shape, 0, len(s.shapes)), s.shapes...)
	layout.UpdateMenus = make([]UpdateMenu, 0, len(s.buttons))

	y := 1.0
	for _, g := range s.buttons {
		layout.UpdateMenus = append(layout.UpdateMenus, s.menu(g, y))
		y -= g.height(s.spacing) + s.spacing.Gap
	}

	return Figure{
		Data:   append(make([]Renderable, 0, len(s.objects)), s.objects...),
		Layout: layout,
	}
}
