package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/BlueBrain/plotly-helper/internal/figure"
	"github.com/BlueBrain/plotly-helper/internal/trace"
)

var ErrNothingToRender = errors.New("nothing to render")

const (
	DefaultPNGSize = 800

	titleBand = 32
	padding   = 16
	fontSize  = 14
	minDot    = 4
)

type polyline struct {
	x, y   trace.Series
	colors []string
	color  string
	width  float64
	// dot is the marker diameter of a markers-mode trace, zero for lines.
	dot float64
}

func markerSize(mode string, m *trace.Marker) float64 {
	if mode != trace.ModeMarkers {
		return 0
	}
	if m != nil && m.Size > 0 {
		return m.Size
	}
	return minDot
}

func polylines(fig figure.Figure) []polyline {
	var out []polyline
	for _, r := range fig.Data {
		switch t := r.(type) {
		case *trace.Scatter3D:
			if t.Visible {
				out = append(out, polyline{t.X, t.Y, t.Line.Colors, t.Line.Color, t.Line.Width, markerSize(t.Mode, t.Marker)})
			}
		case *trace.ScatterGL:
			if t.Visible {
				out = append(out, polyline{t.X, t.Y, nil, t.Line.Color, t.Line.Width, markerSize(t.Mode, t.Marker)})
			}
		}
	}
	return out
}

func (l polyline) colorAt(i int) string {
	if i < len(l.colors) {
		return l.colors[i]
	}
	return l.color
}

func drawLine(dc *gg.Context, l polyline, px, py func(float64) float64) {
	dc.SetLineWidth(math.Max(l.width, 1))
	for i := 0; i+1 < len(l.x); i++ {
		x1, y1, x2, y2 := l.x[i], l.y[i], l.x[i+1], l.y[i+1]
		if math.IsNaN(x1) || math.IsNaN(y1) || math.IsNaN(x2) || math.IsNaN(y2) {
			continue
		}
		dc.SetColor(ParseColor(l.colorAt(i)))
		dc.DrawLine(px(x1), py(y1), px(x2), py(y2))
		dc.Stroke()
	}
}

func drawDots(dc *gg.Context, l polyline, px, py func(float64) float64) {
	r := math.Max(l.dot, minDot) / 2
	for i := range l.x {
		if math.IsNaN(l.x[i]) || math.IsNaN(l.y[i]) {
			continue
		}
		dc.SetColor(ParseColor(l.colorAt(i)))
		dc.DrawCircle(px(l.x[i]), py(l.y[i]), r)
		dc.Fill()
	}
}

type bounds struct {
	minX, minY, maxX, maxY float64
	empty                  bool
}

func (b *bounds) add(x, y float64) {
	if math.IsNaN(x) || math.IsNaN(y) {
		return
	}
	if b.empty {
		*b = bounds{minX: x, maxX: x, minY: y, maxY: y}
		return
	}
	b.minX, b.maxX = math.Min(b.minX, x), math.Max(b.maxX, x)
	b.minY, b.maxY = math.Min(b.minY, y), math.Max(b.maxY, y)
}

// PNG draws a flat preview of fig, size pixels square: line traces
// projected on their first two coordinates, marker traces as dots, circle
// and line shapes and the title. Surfaces are not drawn.
func PNG(w io.Writer, fig figure.Figure, size int) error {
	if size <= 0 {
		size = DefaultPNGSize
	}
	lines := polylines(fig)

	b := bounds{empty: true}
	for _, l := range lines {
		for i := range l.x {
			b.add(l.x[i], l.y[i])
		}
	}
	for _, s := range fig.Layout.Shapes {
		b.add(s.X0, s.Y0)
		b.add(s.X1, s.Y1)
	}
	if b.empty {
		return ErrNothingToRender
	}

	// One scale for both axes keeps the morphology undistorted.
	span := math.Max(b.maxX-b.minX, b.maxY-b.minY)
	if span == 0 {
		span = 1
	}
	avail := float64(size - titleBand - 2*padding)
	if avail <= 0 {
		return fmt.Errorf("png size %d too small", size)
	}
	scale := avail / span
	px := func(x float64) float64 { return padding + (x-b.minX)*scale }
	py := func(y float64) float64 { return float64(size) - padding - (y-b.minY)*scale }

	dc := gg.NewContext(size, size)
	dc.SetColor(color.White)
	dc.Clear()

	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(ttf, &truetype.Options{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	for _, s := range fig.Layout.Shapes {
		drawShape(dc, s, px, py, scale)
	}

	for _, l := range lines {
		if l.dot > 0 {
			drawDots(dc, l, px, py)
		} else {
			drawLine(dc, l, px, py)
		}
	}

	dc.SetColor(color.Black)
	dc.DrawStringAnchored(fig.Layout.Title, float64(size)/2, titleBand/2, 0.5, 0.5)

	return dc.EncodePNG(w)
}

func drawShape(dc *gg.Context, s figure.Shape, px, py func(float64) float64, scale float64) {
	dc.SetLineWidth(math.Max(s.Line.Width, 1))
	switch s.Type {
	case "circle":
		cx, cy := px((s.X0+s.X1)/2), py((s.Y0+s.Y1)/2)
		rx, ry := math.Abs(s.X1-s.X0)/2*scale, math.Abs(s.Y1-s.Y0)/2*scale
		dc.DrawEllipse(cx, cy, rx, ry)
		if s.FillColor != "" {
			dc.SetColor(ParseColor(s.FillColor))
			dc.FillPreserve()
		}
		dc.SetColor(ParseColor(s.Line.Color))
		dc.Stroke()
	case "line":
		dc.SetColor(ParseColor(s.Line.Color))
		dc.DrawLine(px(s.X0), py(s.Y0), px(s.X1), py(s.Y1))
		dc.Stroke()
	}
}

// ParseColor reads a plotly color string: a CSS name, "#rgb", "#rrggbb",
// "rgb(r, g, b)" or "rgba(r, g, b, a)". Anything else is black.
func ParseColor(s string) color.Color {
	s = strings.TrimSpace(strings.ToLower(s))
	if c, ok := colornames.Map[s]; ok {
		return c
	}
	switch {
	case strings.HasPrefix(s, "#"):
		if c, ok := parseHex(s[1:]); ok {
			return c
		}
	case strings.HasPrefix(s, "rgb"):
		if c, ok := parseFunc(s); ok {
			return c
		}
	}
	return color.Black
}

func parseHex(h string) (color.Color, bool) {
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return nil, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return nil, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
}

func parseFunc(s string) (color.Color, bool) {
	open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return nil, false
	}
	parts := strings.Split(s[open+1:end], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return nil, false
	}
	var v [4]float64
	v[3] = 1
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, false
		}
		v[i] = f
	}
	a := math.Max(0, math.Min(1, v[3]))
	return color.NRGBA{
		R: uint8(math.Max(0, math.Min(255, v[0]))),
		G: uint8(math.Max(0, math.Min(255, v[1]))),
		B: uint8(math.Max(0, math.Min(255, v[2]))),
		A: uint8(a * 255),
	}, true
}
