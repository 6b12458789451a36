// Package neuron turns a morphology into plotly traces: one polyline per
// neurite in 3D, one per section in planar views, plus the soma. Sections
// can be recolored, fully or over a range of segments, before the figure is
// built.
package neuron

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/BlueBrain/plotly-helper/internal/figure"
	"github.com/BlueBrain/plotly-helper/internal/morphology"
	"github.com/BlueBrain/plotly-helper/internal/plane"
	"github.com/BlueBrain/plotly-helper/internal/trace"
)

const (
	NeuronGroup = "neuron"
	SomaGroup   = "soma"

	somaResolution = 100
)

type Options struct {
	Title string
	// Prefix is prepended to every neurite legend name.
	Prefix    string
	LineWidth float64
	Opacity   float64
	// Height of the figure in pixels.
	Height       int
	Spacing      figure.Spacing
	PlaneButtons bool
}

func DefaultOptions() Options {
	return Options{
		Title:     "neuron",
		LineWidth: 2,
		Opacity:   1,
		Height:    1000,
		Spacing:   figure.DefaultSpacing(),
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Title == "" {
		o.Title = d.Title
	}
	if o.LineWidth == 0 {
		o.LineWidth = d.LineWidth
	}
	if o.Opacity == 0 {
		o.Opacity = d.Opacity
	}
	if o.Height == 0 {
		o.Height = d.Height
	}
	if o.Spacing == (figure.Spacing{}) {
		o.Spacing = d.Spacing
	}
	return o
}

// Builder draws one morphology in one plane.
type Builder struct {
	morph *morphology.Morphology
	spec  string
	plane plane.Plane
	opts  Options
	style *StyleMap
}

func NewBuilder(m *morphology.Morphology, planeSpec string, opts Options) (*Builder, error) {
	p, err := plane.Sanitize(planeSpec)
	if err != nil {
		return nil, err
	}
	return &Builder{
		morph: m,
		spec:  planeSpec,
		plane: p,
		opts:  opts.withDefaults(),
		style: NewStyleMap(),
	}, nil
}

func (b *Builder) Morphology() *morphology.Morphology { return b.morph }
func (b *Builder) Plane() plane.Plane                 { return b.plane }
func (b *Builder) Options() Options                   { return b.opts }
func (b *Builder) Style() *StyleMap                   { return b.style }

func (b *Builder) section(id int) (*morphology.Section, error) {
	s, ok := b.morph.Section(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSection, id)
	}
	return s, nil
}

// ColorSection colors segments [start, end) of section id. A negative end
// colors up to the last point.
func (b *Builder) ColorSection(id int, color string, start, end int) error {
	s, err := b.section(id)
	if err != nil {
		return err
	}
	return b.style.Set(s, color, start, end)
}

// ColorSectionRecursive colors section id and every section below it.
func (b *Builder) ColorSectionRecursive(id int, color string) error {
	s, err := b.section(id)
	if err != nil {
		return err
	}
	return b.style.SetRecursive(s, color)
}

// ColorNeurite changes the base color of the neurite at index.
func (b *Builder) ColorNeurite(index int, color string) error {
	if index < 0 || index >= len(b.morph.Neurites) {
		return fmt.Errorf("%w: %d", ErrUnknownNeurite, index)
	}
	return b.style.SetNeurite(index, color)
}

func (b *Builder) neuriteColor(i int, n *morphology.Neurite) string {
	if c, ok := b.style.NeuriteColor(i); ok {
		return c
	}
	return DefaultColor(n.Root.Type)
}

// neuriteNames returns the legend name of every neurite: the type and a
// 1-based count per type.
func (b *Builder) neuriteNames() []string {
	counts := make(map[morphology.NeuriteType]int)
	names := make([]string, len(b.morph.Neurites))
	for i, n := range b.morph.Neurites {
		counts[n.Type]++
		names[i] = strings.TrimSpace(fmt.Sprintf("%s %s %d", b.opts.Prefix, n.Type, counts[n.Type]))
	}
	return names
}

// Traces builds the neurite traces for the builder's plane.
func (b *Builder) Traces() []figure.Renderable {
	if b.plane.Is3D() {
		return b.traces3D()
	}
	return b.traces2D()
}

func (b *Builder) traces3D() []figure.Renderable {
	names := b.neuriteNames()
	out := make([]figure.Renderable, 0, len(b.morph.Neurites))
	for i, n := range b.morph.Neurites {
		base := b.neuriteColor(i, n)
		s := &trace.Scatter3D{
			Name:    names[i],
			Mode:    trace.ModeLines,
			Visible: true,
			Opacity: b.opts.Opacity,
			Line:    trace.Line{Colors: []string{}, Width: b.opts.LineWidth},
		}
		coords := [3]*trace.Series{&s.X, &s.Y, &s.Z}
		for _, sec := range n.Sections() {
			segs := sec.Segments()
			o, ok := b.style.Get(sec.ID)
			if !ok {
				o = Override{Color: base, Start: 0, End: segs}
			}
			s.Line.Colors = appendRepeat(s.Line.Colors, base, 3*o.Start)
			s.Line.Colors = appendRepeat(s.Line.Colors, o.Color, 3*(o.End-o.Start))
			s.Line.Colors = appendRepeat(s.Line.Colors, base, 3*(segs-o.End))

			for axis, label := range []byte("xyz") {
				in := b.plane.Contains(label)
				for j := 0; j < segs; j++ {
					p1, p2 := sec.Segment(j)
					if in {
						*coords[axis] = append(*coords[axis], p1.Coord(axis), p2.Coord(axis), trace.Gap)
					} else {
						*coords[axis] = append(*coords[axis], 0, 0, trace.Gap)
					}
				}
			}
		}
		out = append(out, s)
	}
	return out
}

// traces2D draws one trace per section. A section override recolors the
// whole section; its range is not applied in planar views.
func (b *Builder) traces2D() []figure.Renderable {
	axes := b.plane.Axes()
	names := b.neuriteNames()
	var out []figure.Renderable
	for i, n := range b.morph.Neurites {
		base := b.neuriteColor(i, n)
		for _, sec := range n.Sections() {
			color := base
			if o, ok := b.style.Get(sec.ID); ok {
				color = o.Color
			}
			s := &trace.ScatterGL{
				Name:    names[i],
				Mode:    trace.ModeLines,
				Visible: true,
				Opacity: b.opts.Opacity,
				Line:    trace.Line{Color: color, Width: b.opts.LineWidth},
				X:       trace.Series{},
				Y:       trace.Series{},
			}
			for j := 0; j < sec.Segments(); j++ {
				p1, p2 := sec.Segment(j)
				s.X = append(s.X, p1.Coord(axes[0]), p2.Coord(axes[0]), trace.Gap)
				s.Y = append(s.Y, p1.Coord(axes[1]), p2.Coord(axes[1]), trace.Gap)
			}
			out = append(out, s)
		}
	}
	return out
}

func appendRepeat(dst []string, s string, n int) []string {
	for ; n > 0; n-- {
		dst = append(dst, s)
	}
	return dst
}

// SomaSurface is the soma as a black sphere.
func SomaSurface(soma morphology.SomaBody) *trace.Surface {
	theta := floats.Span(make([]float64, somaResolution), 0, 2*math.Pi)
	phi := floats.Span(make([]float64, somaResolution), 0, math.Pi)
	r := soma.Radius

	s := &trace.Surface{
		Name:         SomaGroup,
		X:            make([][]float64, somaResolution),
		Y:            make([][]float64, somaResolution),
		Z:            make([][]float64, somaResolution),
		SurfaceColor: make([]string, somaResolution),
	}
	for i, t := range theta {
		s.X[i] = make([]float64, somaResolution)
		s.Y[i] = make([]float64, somaResolution)
		s.Z[i] = make([]float64, somaResolution)
		for j, f := range phi {
			s.X[i][j] = math.Cos(t)*math.Sin(f)*r + soma.Center.X
			s.Y[i][j] = math.Sin(t)*math.Sin(f)*r + soma.Center.Y
			s.Z[i][j] = math.Cos(f)*r + soma.Center.Z
		}
		s.SurfaceColor[i] = "black"
	}
	return s
}

// SomaCircle is the soma as a disc in plane p.
func SomaCircle(soma morphology.SomaBody, p plane.Plane) figure.Shape {
	axes := p.Axes()
	return figure.CircleShape(coord(soma.Center, axes[0]), coord(soma.Center, axes[1]), soma.Radius, SomaColor, 0)
}

func coord(v r3.Vec, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}

// NewState creates the figure state: the neurite traces under the "neuron"
// group and the soma, as a "soma" surface group in 3D or as a background
// disc in planar views.
func (b *Builder) NewState() (*figure.State, error) {
	st, err := figure.NewPlaneState(b.opts.Title, b.spec)
	if err != nil {
		return nil, err
	}
	st.SetSpacing(b.opts.Spacing)
	st.SetHeight(b.opts.Height)

	if traces := b.Traces(); len(traces) > 0 {
		if err := st.AddGroup(NeuronGroup, traces...); err != nil {
			return nil, err
		}
	}
	if b.plane.Is3D() {
		if err := st.AddGroup(SomaGroup, SomaSurface(b.morph.Soma)); err != nil {
			return nil, err
		}
		if b.opts.PlaneButtons {
			if err := st.AddPlaneButtons(); err != nil {
				return nil, err
			}
		}
	} else if err := st.AddShapes(SomaCircle(b.morph.Soma, b.plane)); err != nil {
		return nil, err
	}
	return st, nil
}

// Refresh replaces the "neuron" group of st with traces reflecting the
// current colors. The group moves to the end of the trace list.
func (b *Builder) Refresh(st *figure.State) error {
	if _, ok := st.Range(NeuronGroup); ok {
		if err := st.RemoveGroups(NeuronGroup); err != nil {
			return err
		}
	}
	traces := b.Traces()
	if len(traces) == 0 {
		return nil
	}
	return st.AddGroup(NeuronGroup, traces...)
}

// Figure builds a fresh state and finalizes it.
func (b *Builder) Figure() (figure.Figure, error) {
	st, err := b.NewState()
	if err != nil {
		return figure.Figure{}, err
	}
	return st.Finalize(), nil
}
