package spotlight

import (
	"math"
	"time"
)

// WheelMode is the interpretation of the current wheel gesture.
type WheelMode uint8

const (
	WheelModeNone WheelMode = iota
	WheelModeSwipe
	WheelModeZoom
)

func (m WheelMode) String() string {
	switch m {
	case WheelModeSwipe:
		return "swipe"
	case WheelModeZoom:
		return "zoom"
	default:
		return "none"
	}
}

// wheelSession is the disambiguation memory of a continuous wheel gesture.
// The mode itself lives in the viewer's gestureState.
type wheelSession struct {
	accum        float64   // signed horizontal delta toward a swipe commit
	locked       bool      // post-navigation lock against momentum
	lastEvent    time.Time // last trackpad wheel event
	lastAbsDX    float64
	lastNav      time.Time // last swipe navigation commit
	lastMouseNav time.Time
	resetTask    *Task
}

func (w *wheelSession) reset() {
	w.resetTask.Cancel()
	*w = wheelSession{}
}

// HandleWheel interprets one wheel event.
func (v *Viewer) HandleWheel(e WheelEvent) {
	v.advance(e.Time)
	if !v.open {
		return
	}
	now := v.sched.Now()
	src := v.classifier.Classify(e)
	trackpad := src == SourceTrackpad

	if v.calib.phase == CalibrationArmed && trackpad {
		v.beginCalibration(now)
		return
	}
	if v.calib.active() {
		if trackpad {
			v.feedCalibration(e)
		}
		return
	}
	if v.calib.inCooldown(now) {
		return
	}

	if !trackpad {
		v.noteActivity()
		if e.Ctrl {
			v.handleWheelZoom(e, false)
		} else {
			v.handleMouseWheelNav(e.DeltaY, now)
		}
		return
	}

	if v.calib.needed {
		v.beginCalibration(now)
		return
	}
	v.handleTrackpadWheel(e, now)
}

func (v *Viewer) handleTrackpadWheel(e WheelEvent, now time.Time) {
	if v.gesture.pointerOwned() {
		return
	}
	w := &v.wheel
	absDX := math.Abs(e.DeltaX)
	if w.locked {
		sinceNav := now.Sub(w.lastNav)
		sinceWheel := now.Sub(w.lastEvent)
		accelerating := absDX > w.lastAbsDX+v.cfg.Wheel.AccelerationThreshold
		if sinceNav >= ms(v.cfg.Wheel.SwipeDebounceMS) &&
			(sinceWheel > ms(v.cfg.Wheel.UnlockGapMS) || accelerating) {
			w.locked = false
			w.accum = 0
			if v.gesture.wheelOwned() && v.gesture.kind != GestureCloseDrag {
				v.gesture.to(GestureIdle, sourceNone)
			}
		}
	}
	w.lastEvent = now
	w.lastAbsDX = absDX

	v.noteActivity()
	if v.detectWheelMode(e) == WheelModeSwipe {
		v.handleSwipeWheel(e.DeltaX, now)
	} else {
		v.handleWheelZoom(e, true)
	}
	v.scheduleWheelReset()
}

// wheelMode derives the locked wheel mode from the gesture state.
func (v *Viewer) wheelMode() WheelMode {
	switch {
	case v.gesture.kind == GestureWheelSwipe:
		return WheelModeSwipe
	case v.gesture.kind == GestureWheelZoom, v.gesture.is(GestureCloseDrag, sourceWheel):
		return WheelModeZoom
	}
	return WheelModeNone
}

// nearBase reports whether the target scale is close enough to base for
// horizontal swipes to navigate.
func (v *Viewer) nearBase() bool {
	band := math.Max(v.cfg.Wheel.NearBaseBand, v.base*v.cfg.Wheel.NearBaseFactor)
	return math.Abs(v.target.Scale-v.base) <= band
}

// detectWheelMode returns the mode for e, locking it when the signal is clear.
func (v *Viewer) detectWheelMode(e WheelEvent) WheelMode {
	if m := v.wheelMode(); m != WheelModeNone {
		return m
	}
	if e.Ctrl {
		v.gesture.to(GestureWheelZoom, sourceWheel)
		return WheelModeZoom
	}
	absX, absY := math.Abs(e.DeltaX), math.Abs(e.DeltaY)
	if absX < 1 && absY < 1 {
		return WheelModeZoom
	}
	wc := v.cfg.Wheel
	horizontal := (absX > absY*wc.RatioThreshold && absX-absY > 1) ||
		(absY < wc.YThreshold && absX > wc.YThreshold)

	switch {
	case horizontal && v.nearBase():
		v.gesture.to(GestureWheelSwipe, sourceWheel)
		return WheelModeSwipe
	case absY > absX:
		v.gesture.to(GestureWheelZoom, sourceWheel)
		return WheelModeZoom
	default:
		// Ambiguous: handle as zoom without locking.
		return WheelModeZoom
	}
}

func (v *Viewer) handleSwipeWheel(deltaX float64, now time.Time) {
	w := &v.wheel
	if !w.lastNav.IsZero() && now.Sub(w.lastNav) < ms(v.cfg.Wheel.SwipeDebounceMS) {
		return
	}
	if !v.nearBase() {
		return
	}
	dx := deltaX
	if v.invertedScroll {
		dx = -dx
	}
	w.accum += dx
	switch {
	case w.accum > v.cfg.Wheel.SwipeThreshold:
		v.commitSwipe(now)
		v.Next()
	case w.accum < -v.cfg.Wheel.SwipeThreshold:
		v.commitSwipe(now)
		v.Prev()
	}
}

// commitSwipe locks the wheel to zoom so momentum after the swipe cannot
// navigate again.
func (v *Viewer) commitSwipe(now time.Time) {
	v.wheel.lastNav = now
	v.wheel.accum = 0
	v.wheel.locked = true
	v.gesture.to(GestureWheelZoom, sourceWheel)
}

func (v *Viewer) handleMouseWheelNav(deltaY float64, now time.Time) {
	w := &v.wheel
	if !w.lastMouseNav.IsZero() && now.Sub(w.lastMouseNav) < ms(v.cfg.Wheel.MouseNavDebounceMS) {
		return
	}
	if math.Abs(deltaY) < v.cfg.Wheel.MouseNavThreshold {
		return
	}
	w.lastMouseNav = now
	if deltaY > 0 {
		v.Next()
	} else {
		v.Prev()
	}
}

// handleWheelZoom handles ctrl+wheel zoom for both devices and the trackpad
// vertical swipe-to-close.
func (v *Viewer) handleWheelZoom(e WheelEvent, trackpad bool) {
	if v.gesture.kind == GesturePinching {
		return
	}
	if e.Ctrl {
		factor := 1 + (-e.DeltaY)*v.cfg.Zoom.TrackpadSensitivity*v.cfg.Zoom.PinchModeration
		v.zoomAt(factor, e.X, e.Y)
		return
	}
	if !trackpad {
		return
	}
	dy := e.DeltaY
	if v.invertedScroll {
		dy = -dy
	}
	if math.Abs(dy) <= math.Abs(e.DeltaX) {
		return
	}
	if !v.gesture.is(GestureCloseDrag, sourceWheel) && !v.gesture.to(GestureCloseDrag, sourceWheel) {
		return
	}
	v.fadeIntent = true
	v.trackpadClose = true
	v.target.TranslateY = math.Max(0, v.target.TranslateY+dy)
	v.startRender()
}

func (v *Viewer) scheduleWheelReset() {
	v.wheel.resetTask.Cancel()
	v.wheel.resetTask = v.sched.After(ms(v.cfg.Wheel.ResetDelayMS), v.endWheelGesture)
}

// endWheelGesture runs after the wheel has been quiet for the reset delay.
func (v *Viewer) endWheelGesture() {
	v.wheel.resetTask.Cancel()
	v.wheel.resetTask = nil
	if v.gesture.is(GestureCloseDrag, sourceWheel) {
		v.trackpadClose = false
		if v.target.TranslateY > v.cfg.Close.Threshold {
			v.Close()
			return
		}
		v.springBack()
		if v.wheel.locked {
			v.gesture.to(GestureWheelZoom, sourceWheel)
		} else {
			v.gesture.to(GestureIdle, sourceNone)
		}
	}
	v.wheel.accum = 0
	if !v.wheel.locked && v.gesture.wheelOwned() {
		v.gesture.to(GestureIdle, sourceNone)
	}
}

// WheelMode returns the locked wheel mode, if any.
func (v *Viewer) WheelMode() WheelMode { return v.wheelMode() }

// WheelLocked reports whether the post-navigation lock is held.
func (v *Viewer) WheelLocked() bool { return v.wheel.locked }

func (v *Viewer) beginCalibration(now time.Time) {
	if v.calib.begin(now) {
		v.logger.Debug("calibration started")
	}
}

func (v *Viewer) feedCalibration(e WheelEvent) {
	done, natural := v.calib.feed(e)
	if !done {
		return
	}
	v.invertedScroll = natural
	v.saveScrollPreference(natural)
	v.logger.Info("trackpad calibrated", "natural", natural)
	v.emit(Event{Type: EventCalibrated, Natural: natural})
	v.calib.closeTask = v.sched.After(ms(v.cfg.Calibration.CloseDelayMS), v.calib.dismiss)
}
