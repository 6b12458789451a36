package trace

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	defaultMarkerSize = 3
	defaultLineWidth  = 5
)

// ScatterLine draws points as a connected 3D polyline.
func ScatterLine(points []r3.Vec, props Properties) (*Scatter3D, error) {
	if err := props.Validate(); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no points", ErrInvalidProperties)
	}
	width := props.Width
	if width == 0 {
		width = defaultLineWidth
	}
	s := &Scatter3D{
		Name:       props.Name,
		Visible:    props.Visible,
		ShowLegend: props.ShowLegend,
		Opacity:    props.Opacity,
		Line:       Line{Color: props.Color, Width: width},
		Marker:     &Marker{Size: defaultMarkerSize, Color: props.Color},
		X:          make(Series, len(points)),
		Y:          make(Series, len(points)),
		Z:          make(Series, len(points)),
	}
	for i, p := range points {
		s.X[i], s.Y[i], s.Z[i] = p.X, p.Y, p.Z
	}
	return s, nil
}

// Scatter draws points as unconnected markers.
func Scatter(points []r3.Vec, props Properties) (*Scatter3D, error) {
	s, err := ScatterLine(points, props)
	if err != nil {
		return nil, err
	}
	s.Mode = ModeMarkers
	return s, nil
}

func Point(p r3.Vec, props Properties) (*Scatter3D, error) {
	return Scatter([]r3.Vec{p}, props)
}

// Vector draws the segment from p1 to p2.
func Vector(p1, p2 r3.Vec, props Properties) (*Scatter3D, error) {
	return ScatterLine([]r3.Vec{p1, p2}, props)
}

// PlaneScatter draws markers in a 2D plot at (xs[i], ys[i]).
func PlaneScatter(xs, ys []float64, props Properties) (*ScatterGL, error) {
	if err := props.Validate(); err != nil {
		return nil, err
	}
	if len(xs) == 0 || len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d x and %d y coordinates", ErrInvalidProperties, len(xs), len(ys))
	}
	return &ScatterGL{
		Name:       props.Name,
		Mode:       ModeMarkers,
		Visible:    props.Visible,
		ShowLegend: props.ShowLegend,
		Opacity:    props.Opacity,
		Line:       Line{Color: props.Color, Width: props.Width},
		Marker:     &Marker{Size: defaultMarkerSize * 2, Color: props.Color},
		X:          append(Series(nil), xs...),
		Y:          append(Series(nil), ys...),
	}, nil
}
