// Package plane converts a plane selector ("3d", "xy", "zx", ...) into the
// camera and scene configuration of a plotly 3D scene.
//
// A 2D plane is rendered inside the 3D scene by looking down the omitted
// axis, so that the first listed axis runs left to right and the second
// runs bottom to top.
package plane

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrPlaneType  = errors.New("plane must be a string")
	ErrPlaneValue = errors.New(`plane must be "3d" or a 2-combination of x, y and z`)
)

// Plane is a sanitized plane: "xyz" for the full 3D view or two distinct
// lower-case axis labels.
type Plane string

const ThreeD Plane = "xyz"

const axes = "xyz"

// Sanitize normalizes a plane selector.
func Sanitize(s string) (Plane, error) {
	s = strings.ToLower(s)
	if s == "3d" {
		return ThreeD, nil
	}
	if len(s) != 2 {
		return "", fmt.Errorf("%w: got %q", ErrPlaneValue, s)
	}
	if !strings.ContainsRune(axes, rune(s[0])) || !strings.ContainsRune(axes, rune(s[1])) || s[0] == s[1] {
		return "", fmt.Errorf("%w: got %q", ErrPlaneValue, s)
	}
	return Plane(s), nil
}

// FromValue sanitizes a loosely typed selector, as decoded from YAML or JSON.
func FromValue(v any) (Plane, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: got %T", ErrPlaneType, v)
	}
	return Sanitize(s)
}

func (p Plane) Is3D() bool { return p == ThreeD }

// Axes returns the axis indices (0 for x, 1 for y, 2 for z) of the plane in
// listed order.
func (p Plane) Axes() []int {
	out := make([]int, len(p))
	for i, c := range p {
		out[i] = strings.IndexRune(axes, c)
	}
	return out
}

// Contains reports whether axis label c belongs to the plane.
func (p Plane) Contains(c byte) bool {
	return strings.IndexByte(string(p), c) >= 0
}

// Omitted returns the axis label a 2D plane leaves out.
func (p Plane) Omitted() byte {
	for i := 0; i < len(axes); i++ {
		if !p.Contains(axes[i]) {
			return axes[i]
		}
	}
	return 0
}

func (p Plane) String() string { return string(p) }

// Vec is a plotly {x, y, z} record.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Camera struct {
	Up     Vec `json:"up"`
	Center Vec `json:"center"`
	Eye    Vec `json:"eye"`
}

var obliqueEye = Vec{X: -1.7428, Y: 1.0707, Z: 0.7100}

const eyeDistance = 2

func unit(c byte) r3.Vec {
	switch c {
	case 'x':
		return r3.Vec{X: 1}
	case 'y':
		return r3.Vec{Y: 1}
	default:
		return r3.Vec{Z: 1}
	}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func setAxis(v *Vec, c byte, value float64) {
	switch c {
	case 'x':
		v.X = value
	case 'y':
		v.Y = value
	case 'z':
		v.Z = value
	}
}

// CameraFor returns the default camera for p.
func CameraFor(p Plane) Camera {
	var cam Camera
	if p.Is3D() {
		cam.Up = Vec{Z: 1}
		cam.Eye = obliqueEye
		return cam
	}
	cross := r3.Cross(unit(p[0]), unit(p[1]))
	s := sign(cross.X) + sign(cross.Y) + sign(cross.Z)
	setAxis(&cam.Eye, p.Omitted(), s*eyeDistance)
	setAxis(&cam.Up, p[1], 1)
	return cam
}

type Axis struct {
	GridColor       string `json:"gridcolor"`
	ZeroLineColor   string `json:"zerolinecolor"`
	ShowBackground  bool   `json:"showbackground"`
	BackgroundColor string `json:"backgroundcolor"`
	Visible         bool   `json:"visible"`
}

type Scene struct {
	XAxis      Axis   `json:"xaxis"`
	YAxis      Axis   `json:"yaxis"`
	ZAxis      Axis   `json:"zaxis"`
	AspectMode string `json:"aspectmode"`
	DragMode   string `json:"dragmode"`
	Camera     Camera `json:"camera"`
}

func defaultAxis() Axis {
	return Axis{
		GridColor:       "rgb(255, 255, 255)",
		ZeroLineColor:   "rgb(255, 255, 255)",
		ShowBackground:  true,
		BackgroundColor: "rgb(238, 238,238)",
		Visible:         true,
	}
}

// SceneFor returns the scene layout for p: 2D planes zoom, 3D turns.
func SceneFor(p Plane) Scene {
	dragMode := "zoom"
	if p.Is3D() {
		dragMode = "turntable"
	}
	return Scene{
		XAxis:      defaultAxis(),
		YAxis:      defaultAxis(),
		ZAxis:      defaultAxis(),
		AspectMode: "data",
		DragMode:   dragMode,
		Camera:     CameraFor(p),
	}
}
