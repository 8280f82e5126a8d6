package spotlight

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

// --- affine helpers ---

func TestMultiplyAffineIdentity(t *testing.T) {
	m := [6]float64{2, 0.5, -1, 3, 10, 20}
	assertMatrix(t, "I*m", multiplyAffine(identityTransform, m), m)
	assertMatrix(t, "m*I", multiplyAffine(m, identityTransform), m)
}

func TestInvertAffineRoundtrip(t *testing.T) {
	m := [6]float64{2, 0.5, -1, 3, 10, 20}
	assertMatrix(t, "m*inv(m)", multiplyAffine(m, invertAffine(m)), identityTransform)
}

func TestInvertAffineSingular(t *testing.T) {
	assertMatrix(t, "singular", invertAffine([6]float64{0, 0, 0, 0, 5, 5}), identityTransform)
}

func TestPlacementMatrix(t *testing.T) {
	img := Size{W: 200, H: 100}
	view := Size{W: 800, H: 600}
	m := placementMatrix(Transform{Scale: 2, TranslateX: 10, TranslateY: -20}, img, view)
	x, y := transformPoint(m, 100, 50)
	assertNear(t, "center x", x, 410)
	assertNear(t, "center y", y, 280)
	x, y = transformPoint(m, 0, 0)
	assertNear(t, "corner x", x, 210)
	assertNear(t, "corner y", y, 180)

	b := imageBounds(Transform{Scale: 2, TranslateX: 10, TranslateY: -20}, img, view)
	if b != (Rect{X: 210, Y: 180, Width: 400, Height: 200}) {
		t.Errorf("imageBounds = %+v", b)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 20}
	if !r.Contains(10, 30) {
		t.Error("edge not contained")
	}
	if r.Contains(31, 20) {
		t.Error("outside point contained")
	}
}

// --- fit ---

func TestFitScale(t *testing.T) {
	tests := []struct {
		name      string
		img, view Size
		want      float64
	}{
		{"small image on landscape", Size{400, 300}, Size{1000, 800}, 1},
		{"wide image fits in height", Size{2000, 600}, Size{1000, 800}, 1},
		{"tall image fits in width", Size{800, 1600}, Size{1000, 800}, 1},
		{"large image fits height", Size{2000, 1600}, Size{1000, 800}, 0.5},
		{"large panorama fits height", Size{4000, 1000}, Size{1000, 800}, 0.8},
		{"portrait contains", Size{800, 400}, Size{400, 800}, 0.5},
		{"portrait upscales", Size{100, 100}, Size{400, 800}, 4},
		{"portrait upscale capped", Size{10, 10}, Size{400, 800}, 8},
		{"tiny fit clamped", Size{100000, 100000}, Size{1000, 800}, 0.05},
		{"no image", Size{}, Size{1000, 800}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitScale(tt.img, tt.view, 0.05, 8)
			assertNear(t, "FitScale", got, tt.want)
		})
	}
}

// --- pan bound ---

func TestClampPan(t *testing.T) {
	img := Size{W: 1000, H: 800}
	view := Size{W: 1000, H: 800}
	got := clampPan(Transform{Scale: 1, TranslateX: 5000, TranslateY: -5000}, img, view, 0.05)
	// limit = half viewport + image * (0.5 - 0.05)
	assertNear(t, "tx", got.TranslateX, 500+450)
	assertNear(t, "ty", got.TranslateY, -(400 + 360))

	in := Transform{Scale: 1, TranslateX: 100, TranslateY: 50}
	if out := clampPan(in, img, view, 0.05); out != in {
		t.Errorf("in-bounds translate changed: %+v", out)
	}
}

// --- zoom at point ---

func TestZoomAtPointKeepsAnchor(t *testing.T) {
	img := Size{W: 2000, H: 1600}
	view := Size{W: 1000, H: 800}
	rendered := Transform{Scale: 0.6, TranslateX: 30, TranslateY: -15}
	target := Transform{Scale: 0.7, TranslateX: 40, TranslateY: -10}
	anchors := []Vec2{{0, 0}, {500, 400}, {137, 650}, {990, 12}}
	for _, a := range anchors {
		next, ok := zoomAtPoint(target, rendered, 1.3, a, img, view, 0.2, 8)
		if !ok {
			t.Fatalf("zoomAtPoint(%v) not ok", a)
		}
		assertNear(t, "scale", next.Scale, 0.91)

		// The image point under the anchor before, in rendered geometry...
		ix, iy := transformPoint(invertAffine(placementMatrix(rendered, img, view)), a.X, a.Y)
		// ...is under the anchor after, in the new target geometry.
		sx, sy := transformPoint(placementMatrix(next, img, view), ix, iy)
		if !approxEqual(sx, a.X, 1e-6) || !approxEqual(sy, a.Y, 1e-6) {
			t.Errorf("anchor %v moved to (%v, %v)", a, sx, sy)
		}
	}
}

func TestZoomAtPointCorner(t *testing.T) {
	img := Size{W: 2000, H: 1600}
	view := Size{W: 1000, H: 800}
	base := Transform{Scale: 0.5}
	next, ok := zoomAtPoint(base, base, 1.1, Vec2{0, 0}, img, view, 0.2, 8)
	if !ok {
		t.Fatal("not ok")
	}
	assertNear(t, "scale", next.Scale, 0.55)
	assertNear(t, "tx", next.TranslateX, 50)
	assertNear(t, "ty", next.TranslateY, 40)
}

func TestZoomAtPointClamps(t *testing.T) {
	img := Size{W: 100, H: 100}
	view := Size{W: 100, H: 100}
	next, _ := zoomAtPoint(Transform{Scale: 6}, Transform{Scale: 6}, 2, Vec2{50, 50}, img, view, 0.2, 8)
	assertNear(t, "scale", next.Scale, 8)
}

func TestZoomAtPointDegenerate(t *testing.T) {
	view := Size{W: 1000, H: 800}
	tr := Transform{Scale: 1, TranslateX: 3}
	cases := []struct {
		name   string
		img    Size
		factor float64
	}{
		{"no image", Size{}, 1.2},
		{"zero factor", Size{W: 10, H: 10}, 0},
		{"NaN factor", Size{W: 10, H: 10}, math.NaN()},
		{"inf factor", Size{W: 10, H: 10}, math.Inf(1)},
	}
	for _, c := range cases {
		got, ok := zoomAtPoint(tr, tr, c.factor, Vec2{1, 1}, c.img, view, 0.2, 8)
		if ok || got != tr {
			t.Errorf("%s: got %+v, %v; want unchanged, false", c.name, got, ok)
		}
	}
	if _, ok := zoomAtPoint(tr, Transform{}, 1.2, Vec2{1, 1}, Size{W: 10, H: 10}, view, 0.2, 8); ok {
		t.Error("zero rendered scale accepted")
	}
}
