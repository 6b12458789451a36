package plane

import (
	"errors"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want Plane
	}{
		{"3d", ThreeD},
		{"3D", ThreeD},
		{"xy", "xy"},
		{"YX", "yx"},
		{"zX", "zx"},
		{"yz", "yz"},
	}
	for _, tt := range tests {
		got, err := Sanitize(tt.in)
		if err != nil {
			t.Errorf("Sanitize(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeRejects(t *testing.T) {
	for _, in := range []string{"", "x", "xx", "xyz", "ab", "xa", "3dd", "zz"} {
		if _, err := Sanitize(in); !errors.Is(err, ErrPlaneValue) {
			t.Errorf("Sanitize(%q) error = %v, want ErrPlaneValue", in, err)
		}
	}
}

func TestSanitizeSameAxisSet(t *testing.T) {
	a, _ := Sanitize("xy")
	b, _ := Sanitize("YX")
	if !b.Contains(a[0]) || !b.Contains(a[1]) {
		t.Errorf("Sanitize(xy)=%q and Sanitize(YX)=%q use different axes", a, b)
	}
}

func TestFromValue(t *testing.T) {
	if _, err := FromValue(3); !errors.Is(err, ErrPlaneType) {
		t.Errorf("FromValue(3) error = %v, want ErrPlaneType", err)
	}
	if _, err := FromValue(nil); !errors.Is(err, ErrPlaneType) {
		t.Errorf("FromValue(nil) error = %v, want ErrPlaneType", err)
	}
	if _, err := FromValue("qq"); !errors.Is(err, ErrPlaneValue) {
		t.Errorf("FromValue(qq) error = %v, want ErrPlaneValue", err)
	}
	p, err := FromValue("XZ")
	if err != nil || p != "xz" {
		t.Errorf("FromValue(XZ) = %q, %v, want xz", p, err)
	}
}

func TestCameraFor(t *testing.T) {
	tests := []struct {
		plane Plane
		eye   Vec
		up    Vec
	}{
		{"xy", Vec{Z: 2}, Vec{Y: 1}},
		{"yx", Vec{Z: -2}, Vec{X: 1}},
		{"xz", Vec{Y: -2}, Vec{Z: 1}},
		{"zx", Vec{Y: 2}, Vec{X: 1}},
		{"yz", Vec{X: 2}, Vec{Z: 1}},
		{"zy", Vec{X: -2}, Vec{Y: 1}},
	}
	for _, tt := range tests {
		cam := CameraFor(tt.plane)
		if cam.Eye != tt.eye {
			t.Errorf("CameraFor(%q).Eye = %+v, want %+v", tt.plane, cam.Eye, tt.eye)
		}
		if cam.Up != tt.up {
			t.Errorf("CameraFor(%q).Up = %+v, want %+v", tt.plane, cam.Up, tt.up)
		}
		if cam.Center != (Vec{}) {
			t.Errorf("CameraFor(%q).Center = %+v, want origin", tt.plane, cam.Center)
		}
	}
}

func TestCameraFor3DIgnoresCase(t *testing.T) {
	for _, in := range []string{"3d", "3D"} {
		p, err := Sanitize(in)
		if err != nil {
			t.Fatalf("Sanitize(%q) error = %v", in, err)
		}
		cam := CameraFor(p)
		want := Vec{X: -1.7428, Y: 1.0707, Z: 0.7100}
		if cam.Eye != want {
			t.Errorf("CameraFor(%q).Eye = %+v, want %+v", in, cam.Eye, want)
		}
		if cam.Up != (Vec{Z: 1}) {
			t.Errorf("CameraFor(%q).Up = %+v, want z", in, cam.Up)
		}
	}
}

func TestSceneFor(t *testing.T) {
	s2 := SceneFor("xy")
	if s2.DragMode != "zoom" {
		t.Errorf("SceneFor(xy).DragMode = %q, want zoom", s2.DragMode)
	}
	s3 := SceneFor(ThreeD)
	if s3.DragMode != "turntable" {
		t.Errorf("SceneFor(xyz).DragMode = %q, want turntable", s3.DragMode)
	}
	if s2.AspectMode != "data" || s3.AspectMode != "data" {
		t.Errorf("AspectMode = %q/%q, want data", s2.AspectMode, s3.AspectMode)
	}
	if s2.XAxis != s3.XAxis || s2.YAxis != s2.ZAxis {
		t.Error("axis styling differs across planes or axes")
	}
	if s3.XAxis.BackgroundColor != "rgb(238, 238,238)" || !s3.XAxis.Visible {
		t.Errorf("XAxis = %+v", s3.XAxis)
	}
}

func TestPlaneHelpers(t *testing.T) {
	p := Plane("zx")
	if got := p.Axes(); len(got) != 2 || got[0] != 2 || got[1] != 0 {
		t.Errorf("Axes() = %v, want [2 0]", got)
	}
	if p.Omitted() != 'y' {
		t.Errorf("Omitted() = %c, want y", p.Omitted())
	}
	if ThreeD.Omitted() != 0 {
		t.Errorf("ThreeD.Omitted() = %c, want none", ThreeD.Omitted())
	}
	if !ThreeD.Is3D() || p.Is3D() {
		t.Error("Is3D mismatch")
	}
}
