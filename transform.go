package spotlight

import "math"

// Transform is the geometry of the displayed image: a uniform scale about
// the image center and a translation of that center from the viewport center.
type Transform struct {
	Scale      float64
	TranslateX float64
	TranslateY float64
}

// Vec2 is a 2D point or offset in viewport pixels.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle with its origin at the top-left.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Size is a width/height pair.
type Size struct {
	W, H float64
}

func (s Size) valid() bool { return s.W > 0 && s.H > 0 }

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine returns the inverse of m, or identity if m is singular.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// placementMatrix maps image pixels to viewport pixels:
//
//	Translate(-w/2, -h/2) -> Scale -> Translate(vw/2 + tx, vh/2 + ty)
func placementMatrix(t Transform, img, view Size) [6]float64 {
	center := [6]float64{1, 0, 0, 1, -img.W / 2, -img.H / 2}
	scale := [6]float64{t.Scale, 0, 0, t.Scale, 0, 0}
	place := [6]float64{1, 0, 0, 1, view.W/2 + t.TranslateX, view.H/2 + t.TranslateY}
	return multiplyAffine(place, multiplyAffine(scale, center))
}

// imageBounds returns the on-screen rectangle of the image under t.
func imageBounds(t Transform, img, view Size) Rect {
	w := img.W * t.Scale
	h := img.H * t.Scale
	return Rect{
		X:      view.W/2 + t.TranslateX - w/2,
		Y:      view.H/2 + t.TranslateY - h/2,
		Width:  w,
		Height: h,
	}
}

// FitScale returns the fit-to-viewport scale for an image.
//
// On a landscape viewport an image that fits in either dimension is shown at
// 100%; otherwise it is fitted to the viewport height, never above 100%. On
// a portrait viewport the image is contained and may be upscaled. The result
// is clamped to [minFit, max].
func FitScale(img, view Size, minFit, max float64) float64 {
	if !img.valid() {
		return 1
	}
	vw := math.Max(view.W, 1)
	vh := math.Max(view.H, 1)
	scaleW := vw / img.W
	scaleH := vh / img.H

	var base float64
	if vw >= vh {
		base = 1
		if img.W > vw && img.H > vh {
			base = scaleH
		}
		base = math.Min(base, 1)
	} else {
		base = math.Min(scaleW, scaleH)
	}
	return clamp(base, minFit, max)
}

// clampPan limits the translation so at least minVisible of the scaled image
// stays inside the viewport on each axis.
func clampPan(t Transform, img, view Size, minVisible float64) Transform {
	limitX := view.W/2 + img.W*t.Scale*(0.5-minVisible)
	limitY := view.H/2 + img.H*t.Scale*(0.5-minVisible)
	t.TranslateX = clamp(t.TranslateX, -limitX, limitX)
	t.TranslateY = clamp(t.TranslateY, -limitY, limitY)
	return t
}

// zoomAtPoint scales target by factor so the image point under anchor in the
// rendered geometry ends up under anchor in the new target geometry. The
// new scale is clamped to [minScale, maxScale]. ok is false for degenerate
// geometry, in which case target is returned unchanged.
func zoomAtPoint(target, rendered Transform, factor float64, anchor Vec2, img, view Size, minScale, maxScale float64) (Transform, bool) {
	if !img.valid() || !view.valid() || factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return target, false
	}
	r := imageBounds(rendered, img, view)
	if r.Width <= 0 || r.Height <= 0 {
		return target, false
	}
	relX := (anchor.X - r.X) / r.Width
	relY := (anchor.Y - r.Y) / r.Height

	scale := clamp(target.Scale*factor, minScale, maxScale)
	return Transform{
		Scale:      scale,
		TranslateX: anchor.X - view.W/2 - img.W*scale*(relX-0.5),
		TranslateY: anchor.Y - view.H/2 - img.H*scale*(relY-0.5),
	}, true
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
