package spotlight

import (
	"math"
	"time"
)

// Cursor is the pointer affordance over the image.
type Cursor uint8

const (
	CursorZoomOut Cursor = iota // at rest: a click would leave
	CursorGrab                  // zoomed or moved: the image can be dragged
)

func (c Cursor) String() string {
	if c == CursorGrab {
		return "grab"
	}
	return "zoom-out"
}

// Step advances rendered toward target by one exponential smoothing step of
// dt seconds. The factor 1-e^(-decay*dt) makes the approach independent of
// frame rate.
func Step(target, rendered Transform, dt, decay float64) Transform {
	if dt <= 0 {
		return rendered
	}
	f := 1 - math.Exp(-decay*dt)
	rendered.Scale += (target.Scale - rendered.Scale) * f
	rendered.TranslateX += (target.TranslateX - rendered.TranslateX) * f
	rendered.TranslateY += (target.TranslateY - rendered.TranslateY) * f
	return rendered
}

// Converged reports whether rendered is within the epsilons of target on
// every axis. Scale uses its own, much smaller, epsilon.
func Converged(target, rendered Transform, scaleEps, translateEps float64) bool {
	return math.Abs(target.Scale-rendered.Scale) < scaleEps &&
		math.Abs(target.TranslateX-rendered.TranslateX) < translateEps &&
		math.Abs(target.TranslateY-rendered.TranslateY) < translateEps
}

// renderLoop is the smoothing task. It is active only while rendered lags target.
type renderLoop struct {
	active bool
	last   time.Time
}

// startRender activates the loop. The first tick measures time from now.
func (v *Viewer) startRender() {
	if v.render.active {
		return
	}
	v.render.active = true
	v.render.last = v.sched.Now()
}

// tickRender runs one smoothing step at now.
func (v *Viewer) tickRender(now time.Time) {
	if !v.render.active {
		return
	}
	if !v.open {
		v.render.active = false
		return
	}
	maxDt := ms(v.cfg.Render.MaxDtMS)
	elapsed := now.Sub(v.render.last)
	if elapsed > maxDt {
		elapsed = maxDt
	}
	if elapsed < 0 {
		elapsed = 0
	}
	v.render.last = now

	v.rendered = Step(v.target, v.rendered, elapsed.Seconds(), v.cfg.Render.Decay)

	if Converged(v.target, v.rendered, v.cfg.Render.ScaleEpsilon, v.cfg.Render.TranslateEpsilon) {
		v.rendered = v.target
		v.render.active = false
		if math.Abs(v.target.TranslateY) < 1 {
			v.fadeIntent = false
		}
	}
}

// Rendering reports whether the smoothing loop is running.
func (v *Viewer) Rendering() bool { return v.render.active }

// Cursor returns the affordance for the rendered geometry.
func (v *Viewer) Cursor() Cursor {
	r := v.rendered
	rc := v.cfg.Render
	if math.Abs(r.Scale-v.base) > rc.CursorScaleThreshold ||
		math.Abs(r.TranslateX) > rc.CursorTranslateThreshold ||
		math.Abs(r.TranslateY) > rc.CursorTranslateThreshold {
		return CursorGrab
	}
	return CursorZoomOut
}

// ChromeOpacity is the opacity for the backdrop, controls and image while a
// swipe-to-close is in progress; 1 otherwise.
func (v *Viewer) ChromeOpacity() float64 {
	ty := v.rendered.TranslateY
	if !v.open || !v.fadeIntent || ty <= 0 {
		return 1
	}
	zoomedOut := math.Abs(v.target.Scale-v.base) < v.cfg.Pointer.PanThreshold
	if !zoomedOut && !v.trackpadClose {
		return 1
	}
	return 1 - math.Min(1, ty/v.cfg.Close.FadeDistance)
}

// ZoomPercent is the rendered scale as a rounded percentage.
func (v *Viewer) ZoomPercent() int {
	s := v.rendered.Scale
	if s == 0 {
		s = 1
	}
	return int(math.Round(s * 100))
}
