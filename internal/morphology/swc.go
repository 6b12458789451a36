package morphology

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrMalformed         = errors.New("malformed swc")
	ErrUnsupportedFormat = errors.New("unsupported morphology format")
)

type sample struct {
	typ      NeuriteType
	point    Point
	parent   int
	children []int
}

// LoadFile reads a morphology from disk. Only SWC files are supported.
func LoadFile(path string) (*Morphology, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".swc" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return LoadSWC(f, name)
}

// LoadSWC parses an SWC stream: one "id type x y z radius parent" sample per
// line, '#' starting a comment.
func LoadSWC(r io.Reader, name string) (*Morphology, error) {
	samples := make(map[int]*sample)
	var order []int

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 7 {
			return nil, fmt.Errorf("%w: line %d: expected 7 fields, got %d", ErrMalformed, lineNo, len(fields))
		}

		var nums [7]float64
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: field %d: %v", ErrMalformed, lineNo, i+1, err)
			}
			nums[i] = v
		}
		id := int(nums[0])
		if _, dup := samples[id]; dup {
			return nil, fmt.Errorf("%w: line %d: duplicate sample id %d", ErrMalformed, lineNo, id)
		}
		samples[id] = &sample{
			typ:    TypeFromSWC(int(nums[1])),
			point:  Point{X: nums[2], Y: nums[3], Z: nums[4], R: nums[5]},
			parent: int(nums[6]),
		}
		order = append(order, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	for _, id := range order {
		s := samples[id]
		if s.parent == -1 {
			continue
		}
		parent, ok := samples[s.parent]
		if !ok {
			return nil, fmt.Errorf("%w: sample %d has unknown parent %d", ErrMalformed, id, s.parent)
		}
		if s.parent == id {
			return nil, fmt.Errorf("%w: sample %d is its own parent", ErrMalformed, id)
		}
		parent.children = append(parent.children, id)
	}

	b := &treeBuilder{samples: samples}
	m := &Morphology{Name: name, Soma: b.soma(order)}
	for _, id := range order {
		s := samples[id]
		if s.typ == Soma {
			continue
		}
		if s.parent == -1 || samples[s.parent].typ == Soma {
			root := b.section(id, nil)
			m.Neurites = append(m.Neurites, &Neurite{Type: root.Type, Root: root})
		}
	}
	return m, nil
}

type treeBuilder struct {
	samples map[int]*sample
	nextID  int
}

func (b *treeBuilder) soma(order []int) SomaBody {
	var pts []Point
	for _, id := range order {
		if s := b.samples[id]; s.typ == Soma {
			pts = append(pts, s.point)
		}
	}
	switch len(pts) {
	case 0:
		return SomaBody{}
	case 1:
		return SomaBody{Center: pts[0].Vec(), Radius: pts[0].R}
	}

	var center r3.Vec
	for _, p := range pts {
		center = r3.Add(center, p.Vec())
	}
	center = r3.Scale(1/float64(len(pts)), center)

	var dist, radii float64
	for _, p := range pts {
		dist += r3.Norm(r3.Sub(p.Vec(), center))
		radii += p.R
	}
	radius := dist / float64(len(pts))
	if radius == 0 {
		radius = radii / float64(len(pts))
	}
	return SomaBody{Center: center, Radius: radius}
}

// section builds the section starting at sample start and, recursively, its
// children. Section IDs follow depth-first order.
func (b *treeBuilder) section(start int, parent *Section) *Section {
	sec := &Section{ID: b.nextID, Type: b.samples[start].typ, Parent: parent}
	b.nextID++
	if parent != nil {
		sec.Points = append(sec.Points, parent.Points[len(parent.Points)-1])
	}

	cur := start
	for {
		sec.Points = append(sec.Points, b.samples[cur].point)
		kids := b.neuriteChildren(cur)
		if len(kids) != 1 {
			for _, k := range kids {
				sec.Children = append(sec.Children, b.section(k, sec))
			}
			return sec
		}
		cur = kids[0]
	}
}

func (b *treeBuilder) neuriteChildren(id int) []int {
	var out []int
	for _, c := range b.samples[id].children {
		if b.samples[c].typ != Soma {
			out = append(out, c)
		}
	}
	return out
}
