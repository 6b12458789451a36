package figure

import (
	"fmt"
	"slices"

	"github.com/BlueBrain/plotly-helper/internal/plane"
)

type Direction string

const (
	Down  Direction = "down"
	Right Direction = "right"
)

// Method is the plotly.js function a button calls.
type Method string

const (
	Restyle  Method = "restyle"
	Relayout Method = "relayout"
	Update   Method = "update"
	Animate  Method = "animate"
)

const DefaultButtonGroup = "default"

type Button struct {
	Label  string `json:"label"`
	Method Method `json:"method"`
	Args   []any  `json:"args"`

	// show lists the groups a visibility button reveals. Its visible list
	// is rebuilt from the current ranges whenever the figure is read.
	show []string
}

// ButtonGroup is one dropdown menu. Index is its display position, fixed at
// creation.
type ButtonGroup struct {
	Name      string
	Index     int
	Direction Direction
	Buttons   []Button
}

func (g *ButtonGroup) height(sp Spacing) float64 {
	if g.Direction == Right {
		return sp.ButtonHeight
	}
	return float64(len(g.Buttons)) * sp.ButtonHeight
}

func (s *State) menu(g *ButtonGroup, y float64) UpdateMenu {
	buttons := make([]Button, len(g.Buttons))
	for i, b := range g.Buttons {
		buttons[i] = s.resolve(b)
	}
	return UpdateMenu{
		Type:      "dropdown",
		Direction: g.Direction,
		XAnchor:   "left",
		Active:    0,
		Buttons:   buttons,
		Y:         y,
	}
}

// UpdateMenu is the plotly layout record for a button group.
type UpdateMenu struct {
	Type      string    `json:"type"`
	Direction Direction `json:"direction"`
	XAnchor   string    `json:"xanchor"`
	Active    int       `json:"active"`
	Buttons   []Button  `json:"buttons"`
	Y         float64   `json:"y"`
}

func validButton(dir Direction, b Button) error {
	if dir != Down && dir != Right {
		return fmt.Errorf("%w: %q", ErrInvalidDirection, dir)
	}
	switch b.Method {
	case Restyle, Relayout, Update, Animate:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidMethod, b.Method)
}

// AddButton appends b to the named button group, creating the group with
// direction dir on first use. Later calls keep the group's first direction.
func (s *State) AddButton(group string, dir Direction, b Button) error {
	if err := validButton(dir, b); err != nil {
		return err
	}
	idx, ok := s.buttonIdx[group]
	if !ok {
		idx = len(s.buttons)
		s.buttonIdx[group] = idx
		s.buttons = append(s.buttons, &ButtonGroup{Name: group, Index: idx, Direction: dir})
	}
	s.buttons[idx].Buttons = append(s.buttons[idx].Buttons, b)
	return nil
}

// ButtonGroups returns the button groups in display order.
func (s *State) ButtonGroups() []ButtonGroup {
	out := make([]ButtonGroup, len(s.buttons))
	for i, g := range s.buttons {
		out[i] = *g
		out[i].Buttons = make([]Button, len(g.Buttons))
		for j, b := range g.Buttons {
			out[i].Buttons[j] = s.resolve(b)
		}
	}
	return out
}

// resolve returns a detached copy of b. A visibility button gets the
// visible list of the groups it shows that still exist.
func (s *State) resolve(b Button) Button {
	out := Button{Label: b.Label, Method: b.Method, Args: slices.Clone(b.Args)}
	if b.show == nil {
		return out
	}
	visible := make([]bool, len(s.objects))
	for _, name := range b.show {
		r, ok := s.visibility.Get(name)
		if !ok {
			continue
		}
		for i := r.Start; i < r.Stop; i++ {
			visible[i] = true
		}
	}
	out.Args = []any{map[string]any{"visible": visible}}
	return out
}

// AddVisibilityButton adds an "update" button showing only the named
// groups. The button follows its groups as other groups are added, removed
// or re-added; a shown group that is later removed is dropped from it.
func (s *State) AddVisibilityButton(group, label string, names ...string) error {
	visible, err := s.VisibilityList(names...)
	if err != nil {
		return err
	}
	return s.AddButton(group, Down, Button{
		Label:  label,
		Method: Update,
		Args:   []any{map[string]any{"visible": visible}},
		show:   append([]string{}, names...),
	})
}

// AddPlaneButtons adds a "view" group switching between the 3D scene and
// the three axis planes. It only applies to 3D plane states.
func (s *State) AddPlaneButtons() error {
	if !s.plane.Is3D() {
		return nil
	}
	views := []struct {
		label string
		plane plane.Plane
		dir   Direction
	}{
		{"3D view", plane.ThreeD, Right},
		{"XY view", "xy", Down},
		{"XZ view", "xz", Down},
		{"YZ view", "yz", Down},
	}
	for _, v := range views {
		b := Button{Label: v.label, Method: Relayout, Args: []any{"scene", plane.SceneFor(v.plane)}}
		if err := s.AddButton("view", v.dir, b); err != nil {
			return err
		}
	}
	return nil
}
