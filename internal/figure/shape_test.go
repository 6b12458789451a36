package figure

import (
	"encoding/json"
	"reflect"
	"testing"
)

func shapeJSON(t *testing.T, s Shape) map[string]any {
	t.Helper()
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var out map[string]any
	json.Unmarshal(data, &out)
	return out
}

func TestLineShape(t *testing.T) {
	got := shapeJSON(t, LineShape(0, 0, 1, 1, "blue", 4))
	want := map[string]any{
		"type": "line",
		"x0":   0.0, "y0": 0.0, "x1": 1.0, "y1": 1.0,
		"line": map[string]any{"color": "blue", "width": 4.0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LineShape = %v, want %v", got, want)
	}
}

func TestCircleShape(t *testing.T) {
	got := shapeJSON(t, CircleShape(0, 0, 10, "blue", 4))
	want := map[string]any{
		"type":      "circle",
		"xref":      "x",
		"yref":      "y",
		"fillcolor": "rgba(50, 171, 96, 0.7)",
		"x0":        -10.0, "y0": -10.0, "x1": 10.0, "y1": 10.0,
		"line": map[string]any{"color": "blue", "width": 4.0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CircleShape = %v, want %v", got, want)
	}
}

func TestShapeOmitsUnsetStyle(t *testing.T) {
	got := shapeJSON(t, LineShape(0, 0, 1, 1, "", 0))
	if line := got["line"].(map[string]any); len(line) != 0 {
		t.Errorf("line = %v, want empty", line)
	}
}
