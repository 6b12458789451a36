package figure

import (
	"encoding/json"

	"github.com/BlueBrain/plotly-helper/internal/plane"
)

type Font struct {
	Family string `json:"family"`
	Size   int    `json:"size"`
	Color  string `json:"color"`
}

type Legend struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	TraceOrder  string  `json:"traceorder"`
	Font        Font    `json:"font"`
	BgColor     string  `json:"bgcolor"`
	BorderColor string  `json:"bordercolor"`
	BorderWidth int     `json:"borderwidth"`
}

func StandardLegend() Legend {
	return Legend{
		X:           0.8,
		Y:           1,
		TraceOrder:  "normal",
		Font:        Font{Family: "sans-serif", Size: 12, Color: "#000"},
		BgColor:     "#FFFFFF",
		BorderColor: "#FFFFFF",
		BorderWidth: 2,
	}
}

// Layout is the plotly layout record. Shapes and UpdateMenus are filled by
// Finalize.
type Layout struct {
	Autosize    bool         `json:"autosize"`
	Title       string       `json:"title"`
	Legend      Legend       `json:"legend"`
	Scene       *plane.Scene `json:"scene,omitempty"`
	Height      int          `json:"height,omitempty"`
	Shapes      []Shape      `json:"shapes"`
	UpdateMenus []UpdateMenu `json:"updatemenus"`
}

func StandardLayout(title string) Layout {
	return Layout{Autosize: true, Title: title, Legend: StandardLegend()}
}

// Figure is the finalized figure handed to a rendering backend.
type Figure struct {
	Data   []Renderable `json:"data"`
	Layout Layout       `json:"layout"`
}

func (f Figure) JSON() ([]byte, error) {
	return json.Marshal(f)
}
