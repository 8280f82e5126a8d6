package spotlight

import "time"

// Inject queues a synthetic input event. Queued events are consumed one per
// Update and stamped with that frame's time, so a sequence of injections
// plays out over consecutive frames like real input.
func (v *Viewer) Inject(e InputEvent) {
	v.inject = append(v.inject, e)
}

// InjectWheel queues a pixel-mode wheel event at (x, y).
func (v *Viewer) InjectWheel(x, y, dx, dy float64, ctrl bool) {
	v.Inject(WheelEvent{X: x, Y: y, DeltaX: dx, DeltaY: dy, Mode: DeltaPixel, Ctrl: ctrl})
}

// InjectKey queues a key press.
func (v *Viewer) InjectKey(key string) {
	v.Inject(KeyEvent{Key: key})
}

// InjectDrag queues a primary pointer drag: press at from, linearly
// interpolated moves over frames-2 intermediate frames, release at to.
// The sequence consumes frames frames; the minimum is 2.
func (v *Viewer) InjectDrag(kind PointerType, from, to Vec2, frames int) {
	if frames < 2 {
		frames = 2
	}
	v.Inject(PointerEvent{Phase: PointerDown, ID: 1, Type: kind, X: from.X, Y: from.Y, Primary: true})
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		v.Inject(PointerEvent{
			Phase: PointerMove, ID: 1, Type: kind, Primary: true,
			X: from.X + (to.X-from.X)*t,
			Y: from.Y + (to.Y-from.Y)*t,
		})
	}
	v.Inject(PointerEvent{Phase: PointerUp, ID: 1, Type: kind, X: to.X, Y: to.Y, Primary: true})
}

// InjectSwipe queues a one-finger touch from from to to. Only the touch
// start and end are queued, so the swipe spans two frames.
func (v *Viewer) InjectSwipe(from, to Vec2) {
	v.Inject(TouchEvent{Phase: TouchStart, Touches: []Vec2{from}, Changed: []Vec2{from}})
	v.Inject(TouchEvent{Phase: TouchEnd, Changed: []Vec2{to}})
}

// InjectPinch queues a two-finger touch pinch about center, spreading the
// fingers from startDist to endDist apart over frames moves.
func (v *Viewer) InjectPinch(center Vec2, startDist, endDist float64, frames int) {
	if frames < 1 {
		frames = 1
	}
	at := func(d float64) (Vec2, Vec2) {
		return Vec2{X: center.X - d/2, Y: center.Y}, Vec2{X: center.X + d/2, Y: center.Y}
	}
	a, b := at(startDist)
	v.Inject(PointerEvent{Phase: PointerDown, ID: 1, Type: PointerTouch, X: a.X, Y: a.Y, Primary: true})
	v.Inject(PointerEvent{Phase: PointerDown, ID: 2, Type: PointerTouch, X: b.X, Y: b.Y})
	for i := 1; i <= frames; i++ {
		d := startDist + (endDist-startDist)*float64(i)/float64(frames)
		a, b = at(d)
		v.Inject(PointerEvent{Phase: PointerMove, ID: 1, Type: PointerTouch, X: a.X, Y: a.Y, Primary: true})
		v.Inject(PointerEvent{Phase: PointerMove, ID: 2, Type: PointerTouch, X: b.X, Y: b.Y})
	}
	v.Inject(PointerEvent{Phase: PointerUp, ID: 2, Type: PointerTouch, X: b.X, Y: b.Y})
	v.Inject(PointerEvent{Phase: PointerUp, ID: 1, Type: PointerTouch, X: a.X, Y: a.Y, Primary: true})
}

// Injected returns the number of queued synthetic events.
func (v *Viewer) Injected() int { return len(v.inject) }

// processInjected pops one queued event and dispatches it at now.
// Returns true if an event was consumed.
func (v *Viewer) processInjected(now time.Time) bool {
	if len(v.inject) == 0 {
		return false
	}
	e := v.inject[0]
	copy(v.inject, v.inject[1:])
	v.inject[len(v.inject)-1] = nil
	v.inject = v.inject[:len(v.inject)-1]

	v.Dispatch(Stamp(e, now))
	return true
}
