// Package morphology is the in-memory tree of a neuron reconstruction: a soma
// and a list of neurites, each a tree of unbranched sections.
package morphology

import (
	"gonum.org/v1/gonum/spatial/r3"
)

type NeuriteType int

const (
	Undefined NeuriteType = iota
	Soma
	Axon
	BasalDendrite
	ApicalDendrite
	Custom
)

func (t NeuriteType) String() string {
	switch t {
	case Soma:
		return "soma"
	case Axon:
		return "axon"
	case BasalDendrite:
		return "basal dendrite"
	case ApicalDendrite:
		return "apical dendrite"
	case Undefined:
		return "undefined"
	}
	return "custom"
}

// TypeFromSWC maps an SWC structure identifier to a neurite type. Every
// identifier above 4 is custom.
func TypeFromSWC(id int) NeuriteType {
	switch {
	case id < 0:
		return Undefined
	case id >= int(Custom):
		return Custom
	}
	return NeuriteType(id)
}

// Point is a sample of the reconstruction: a position and a radius.
type Point struct {
	X, Y, Z float64
	R       float64
}

func (p Point) Vec() r3.Vec { return r3.Vec{X: p.X, Y: p.Y, Z: p.Z} }

// Coord returns the coordinate on axis 0 (x), 1 (y) or 2 (z).
func (p Point) Coord(axis int) float64 {
	switch axis {
	case 0:
		return p.X
	case 1:
		return p.Y
	}
	return p.Z
}

// Section is an unbranched run of points. A child section's first point is
// its parent's last point.
type Section struct {
	ID       int
	Type     NeuriteType
	Points   []Point
	Parent   *Section
	Children []*Section
}

// Segments is the number of consecutive point pairs.
func (s *Section) Segments() int {
	if len(s.Points) < 2 {
		return 0
	}
	return len(s.Points) - 1
}

// Segment returns the end points of segment i.
func (s *Section) Segment(i int) (Point, Point) {
	return s.Points[i], s.Points[i+1]
}

// Walk visits s and its descendants depth first, parents before children.
// It stops early when fn returns false.
func (s *Section) Walk(fn func(*Section) bool) bool {
	if !fn(s) {
		return false
	}
	for _, c := range s.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Descendants returns every section below s in depth-first order.
func (s *Section) Descendants() []*Section {
	var out []*Section
	for _, c := range s.Children {
		c.Walk(func(d *Section) bool {
			out = append(out, d)
			return true
		})
	}
	return out
}

type Neurite struct {
	Type NeuriteType
	Root *Section
}

// Sections returns the neurite's sections in depth-first order.
func (n *Neurite) Sections() []*Section {
	var out []*Section
	n.Root.Walk(func(s *Section) bool {
		out = append(out, s)
		return true
	})
	return out
}

type SomaBody struct {
	Center r3.Vec
	Radius float64
}

type Morphology struct {
	Name     string
	Soma     SomaBody
	Neurites []*Neurite
}

// Sections returns every section of every neurite, neurite by neurite, in
// depth-first order.
func (m *Morphology) Sections() []*Section {
	var out []*Section
	for _, n := range m.Neurites {
		out = append(out, n.Sections()...)
	}
	return out
}

// Section looks a section up by ID.
func (m *Morphology) Section(id int) (*Section, bool) {
	for _, n := range m.Neurites {
		var found *Section
		n.Root.Walk(func(s *Section) bool {
			if s.ID == id {
				found = s
				return false
			}
			return true
		})
		if found != nil {
			return found, true
		}
	}
	return nil, false
}
