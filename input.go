package spotlight

import "time"

// InputEvent is any raw device event the viewer accepts through Dispatch.
type InputEvent interface {
	inputEvent()
	at() time.Time
}

// DeltaMode is the unit of a wheel delta.
type DeltaMode uint8

const (
	DeltaPixel DeltaMode = iota
	DeltaLine
	DeltaPage
)

// WheelEvent is a wheel or two-finger scroll sample in viewport coordinates.
type WheelEvent struct {
	Time           time.Time
	X, Y           float64 // pointer position
	DeltaX, DeltaY float64
	Mode           DeltaMode
	Ctrl           bool // ctrl held; trackpads also set it for pinch
}

// PointerType is the device behind a pointer event.
type PointerType uint8

const (
	PointerMouse PointerType = iota
	PointerPen
	PointerTouch
)

// PointerPhase distinguishes the pointer callbacks when events go through Dispatch.
type PointerPhase uint8

const (
	PointerDown PointerPhase = iota
	PointerMove
	PointerUp
	PointerCancel
)

// PointerEvent is a mouse, pen or touch pointer sample.
type PointerEvent struct {
	Time    time.Time
	Phase   PointerPhase
	ID      int
	Type    PointerType
	X, Y    float64
	Primary bool
}

// TouchPhase distinguishes touch start from touch end.
type TouchPhase uint8

const (
	TouchStart TouchPhase = iota
	TouchEnd
)

// TouchEvent carries the raw touch list used for discrete swipe detection.
type TouchEvent struct {
	Time    time.Time
	Phase   TouchPhase
	Touches []Vec2 // touches still on the surface
	Changed []Vec2 // touches that started or ended with this event
}

// GesturePhase distinguishes the platform pinch callbacks.
type GesturePhase uint8

const (
	GestureBegin GesturePhase = iota
	GestureChange
	GestureEnd
)

// GestureEvent is a platform pinch sample; Scale is cumulative since GestureBegin.
type GestureEvent struct {
	Time  time.Time
	Phase GesturePhase
	Scale float64
	X, Y  float64
}

// KeyEvent is a key press named like a DOM key or code ("ArrowRight", "KeyF", "+").
type KeyEvent struct {
	Time time.Time
	Key  string
}

// ResizeEvent reports new viewport dimensions.
type ResizeEvent struct {
	Time          time.Time
	Width, Height float64
}

func (WheelEvent) inputEvent()   {}
func (PointerEvent) inputEvent() {}
func (TouchEvent) inputEvent()   {}
func (GestureEvent) inputEvent() {}
func (KeyEvent) inputEvent()     {}
func (ResizeEvent) inputEvent()  {}

func (e WheelEvent) at() time.Time   { return e.Time }
func (e PointerEvent) at() time.Time { return e.Time }
func (e TouchEvent) at() time.Time   { return e.Time }
func (e GestureEvent) at() time.Time { return e.Time }
func (e KeyEvent) at() time.Time     { return e.Time }
func (e ResizeEvent) at() time.Time  { return e.Time }

// Stamp returns e with its time set to t. Unknown event types are returned
// unchanged.
func Stamp(e InputEvent, t time.Time) InputEvent {
	switch ev := e.(type) {
	case WheelEvent:
		ev.Time = t
		return ev
	case PointerEvent:
		ev.Time = t
		return ev
	case TouchEvent:
		ev.Time = t
		return ev
	case GestureEvent:
		ev.Time = t
		return ev
	case KeyEvent:
		ev.Time = t
		return ev
	case ResizeEvent:
		ev.Time = t
		return ev
	}
	return e
}

// Dispatch routes any InputEvent to its handler.
func (v *Viewer) Dispatch(e InputEvent) {
	switch ev := e.(type) {
	case WheelEvent:
		v.HandleWheel(ev)
	case PointerEvent:
		switch ev.Phase {
		case PointerDown:
			v.HandlePointerDown(ev)
		case PointerMove:
			v.HandlePointerMove(ev)
		case PointerUp:
			v.HandlePointerUp(ev)
		case PointerCancel:
			v.HandlePointerCancel(ev)
		}
	case TouchEvent:
		if ev.Phase == TouchStart {
			v.HandleTouchStart(ev)
		} else {
			v.HandleTouchEnd(ev)
		}
	case GestureEvent:
		switch ev.Phase {
		case GestureBegin:
			v.HandleGestureStart(ev)
		case GestureChange:
			v.HandleGestureChange(ev)
		case GestureEnd:
			v.HandleGestureEnd(ev)
		}
	case KeyEvent:
		v.HandleKey(ev)
	case ResizeEvent:
		v.advance(ev.Time)
		v.SetViewport(ev.Width, ev.Height)
	}
}
