// Package trace holds the plotly trace variants a figure can carry.
//
// Every variant implements figure.Renderable: it reports its plotly trace
// type through Kind and checks its own invariants through Validate. Styling
// is a closed Properties record rather than a free-form attribute bag.
package trace

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

const (
	KindScatter3D = "scatter3d"
	KindScatterGL = "scattergl"
	KindSurface   = "surface"

	ModeLines   = "lines"
	ModeMarkers = "markers"
)

var ErrInvalidProperties = errors.New("invalid trace properties")

// Gap marks a line break inside a coordinate series. It is written as null.
var Gap = math.NaN()

// Series is a coordinate array. NaN entries are emitted as JSON null, which
// plotly reads as "lift the pen".
type Series []float64

func (s Series) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, len(s)*8+2)
	buf = append(buf, '[')
	for i, v := range s {
		if i > 0 {
			buf = append(buf, ',')
		}
		switch {
		case math.IsNaN(v):
			buf = append(buf, "null"...)
		case math.IsInf(v, 0):
			return nil, fmt.Errorf("series value %d is infinite", i)
		default:
			buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
		}
	}
	return append(buf, ']'), nil
}

func (s *Series) UnmarshalJSON(data []byte) error {
	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Series, len(raw))
	for i, v := range raw {
		if v == nil {
			out[i] = Gap
		} else {
			out[i] = *v
		}
	}
	*s = out
	return nil
}

// Properties is the styling shared by every trace constructor.
type Properties struct {
	Name       string
	Color      string
	Visible    bool
	ShowLegend bool
	Opacity    float64
	Width      float64
}

// DefaultProperties mirrors plotly's defaults for a freshly created trace.
func DefaultProperties() Properties {
	return Properties{
		Color:      "red",
		Visible:    true,
		ShowLegend: true,
		Opacity:    1,
	}
}

func (p Properties) Validate() error {
	if p.Color == "" {
		return fmt.Errorf("%w: empty color", ErrInvalidProperties)
	}
	if p.Opacity < 0 || p.Opacity > 1 || math.IsNaN(p.Opacity) {
		return fmt.Errorf("%w: opacity %v outside [0, 1]", ErrInvalidProperties, p.Opacity)
	}
	if p.Width < 0 || math.IsNaN(p.Width) {
		return fmt.Errorf("%w: negative width %v", ErrInvalidProperties, p.Width)
	}
	return nil
}

// Line styles a trace's polyline. Either Color or Colors is set; Colors
// holds one entry per vertex.
type Line struct {
	Color  string
	Colors []string
	Width  float64
}

func (l Line) MarshalJSON() ([]byte, error) {
	out := struct {
		Color any     `json:"color,omitempty"`
		Width float64 `json:"width,omitempty"`
	}{Width: l.Width}
	if l.Colors != nil {
		out.Color = l.Colors
	} else if l.Color != "" {
		out.Color = l.Color
	}
	return json.Marshal(out)
}

type Marker struct {
	Size  float64 `json:"size,omitempty"`
	Color string  `json:"color,omitempty"`
}
