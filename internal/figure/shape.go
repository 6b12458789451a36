package figure

// Shape is a background decoration drawn behind the traces.
type Shape struct {
	Type      string    `json:"type"`
	XRef      string    `json:"xref,omitempty"`
	YRef      string    `json:"yref,omitempty"`
	FillColor string    `json:"fillcolor,omitempty"`
	X0        float64   `json:"x0"`
	Y0        float64   `json:"y0"`
	X1        float64   `json:"x1"`
	Y1        float64   `json:"y1"`
	Line      ShapeLine `json:"line"`
}

type ShapeLine struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
}

const circleFill = "rgba(50, 171, 96, 0.7)"

// LineShape is a line from (x0, y0) to (x1, y1). Empty color and zero
// width fall back to plotly defaults.
func LineShape(x0, y0, x1, y1 float64, color string, width float64) Shape {
	return Shape{
		Type: "line",
		X0:   x0, Y0: y0, X1: x1, Y1: y1,
		Line: ShapeLine{Color: color, Width: width},
	}
}

// CircleShape is a filled circle of the given radius centered on (x, y).
func CircleShape(x, y, radius float64, color string, width float64) Shape {
	return Shape{
		Type:      "circle",
		XRef:      "x",
		YRef:      "y",
		FillColor: circleFill,
		X0:        x - radius,
		Y0:        y - radius,
		X1:        x + radius,
		Y1:        y + radius,
		Line:      ShapeLine{Color: color, Width: width},
	}
}
