package trace

import (
	"encoding/json"
	"fmt"
)

// Scatter3D is a plotly scatter3d trace.
type Scatter3D struct {
	Name       string
	Mode       string
	Visible    bool
	ShowLegend bool
	Opacity    float64
	Line       Line
	Marker     *Marker
	X, Y, Z    Series
}

func (s *Scatter3D) Kind() string { return KindScatter3D }

func (s *Scatter3D) Validate() error {
	if len(s.X) != len(s.Y) || len(s.X) != len(s.Z) {
		return fmt.Errorf("%w: coordinate lengths %d/%d/%d differ", ErrInvalidProperties, len(s.X), len(s.Y), len(s.Z))
	}
	if s.Line.Colors != nil && len(s.Line.Colors) != len(s.X) {
		return fmt.Errorf("%w: %d colors for %d vertices", ErrInvalidProperties, len(s.Line.Colors), len(s.X))
	}
	if s.Opacity < 0 || s.Opacity > 1 {
		return fmt.Errorf("%w: opacity %v outside [0, 1]", ErrInvalidProperties, s.Opacity)
	}
	return nil
}

func (s *Scatter3D) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string  `json:"type"`
		Name       string  `json:"name,omitempty"`
		Mode       string  `json:"mode,omitempty"`
		Visible    bool    `json:"visible"`
		ShowLegend bool    `json:"showlegend"`
		Opacity    float64 `json:"opacity"`
		Line       Line    `json:"line"`
		Marker     *Marker `json:"marker,omitempty"`
		X          Series  `json:"x"`
		Y          Series  `json:"y"`
		Z          Series  `json:"z"`
	}{KindScatter3D, s.Name, s.Mode, s.Visible, s.ShowLegend, s.Opacity, s.Line, s.Marker, s.X, s.Y, s.Z})
}

// ScatterGL is a WebGL 2D scatter trace.
type ScatterGL struct {
	Name       string
	Mode       string
	Visible    bool
	ShowLegend bool
	Opacity    float64
	Line       Line
	Marker     *Marker
	X, Y       Series
}

func (s *ScatterGL) Kind() string { return KindScatterGL }

func (s *ScatterGL) Validate() error {
	if len(s.X) != len(s.Y) {
		return fmt.Errorf("%w: coordinate lengths %d/%d differ", ErrInvalidProperties, len(s.X), len(s.Y))
	}
	if s.Line.Colors != nil {
		return fmt.Errorf("%w: scattergl lines take a single color", ErrInvalidProperties)
	}
	if s.Opacity < 0 || s.Opacity > 1 {
		return fmt.Errorf("%w: opacity %v outside [0, 1]", ErrInvalidProperties, s.Opacity)
	}
	return nil
}

func (s *ScatterGL) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string  `json:"type"`
		Name       string  `json:"name,omitempty"`
		Mode       string  `json:"mode,omitempty"`
		Visible    bool    `json:"visible"`
		ShowLegend bool    `json:"showlegend"`
		Opacity    float64 `json:"opacity"`
		Line       Line    `json:"line"`
		Marker     *Marker `json:"marker,omitempty"`
		X          Series  `json:"x"`
		Y          Series  `json:"y"`
	}{KindScatterGL, s.Name, s.Mode, s.Visible, s.ShowLegend, s.Opacity, s.Line, s.Marker, s.X, s.Y})
}

// Surface is a plotly surface trace given as a grid of rows.
type Surface struct {
	Name         string
	X, Y, Z      [][]float64
	SurfaceColor []string
	ShowScale    bool
}

func (s *Surface) Kind() string { return KindSurface }

func (s *Surface) Validate() error {
	if len(s.X) == 0 {
		return fmt.Errorf("%w: empty surface", ErrInvalidProperties)
	}
	if len(s.X) != len(s.Y) || len(s.X) != len(s.Z) {
		return fmt.Errorf("%w: grid row counts %d/%d/%d differ", ErrInvalidProperties, len(s.X), len(s.Y), len(s.Z))
	}
	for i := range s.X {
		if len(s.X[i]) != len(s.Y[i]) || len(s.X[i]) != len(s.Z[i]) {
			return fmt.Errorf("%w: grid row %d is ragged", ErrInvalidProperties, i)
		}
	}
	return nil
}

func (s *Surface) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type         string      `json:"type"`
		Name         string      `json:"name,omitempty"`
		X            [][]float64 `json:"x"`
		Y            [][]float64 `json:"y"`
		Z            [][]float64 `json:"z"`
		CAuto        bool        `json:"cauto"`
		SurfaceColor []string    `json:"surfacecolor,omitempty"`
		ShowScale    bool        `json:"showscale"`
	}{KindSurface, s.Name, s.X, s.Y, s.Z, false, s.SurfaceColor, s.ShowScale})
}
