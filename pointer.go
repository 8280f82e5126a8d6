package spotlight

import (
	"math"
	"time"
)

// pointerSession tracks active pointers for drag and pinch.
type pointerSession struct {
	points    map[int]Vec2
	order     []int   // pointer IDs in arrival order
	pinchDist float64 // distance between the two pointers at the previous move

	drag dragState

	gestureScale float64 // last cumulative platform pinch scale
	touchStart   *touchStart
}

type dragState struct {
	active bool
	id     int
	kind   PointerType
	start  Vec2
	last   Vec2
}

type touchStart struct {
	pos Vec2
	t   time.Time
}

func (p *pointerSession) add(id int, pos Vec2) {
	if _, ok := p.points[id]; !ok {
		p.order = append(p.order, id)
	}
	p.points[id] = pos
}

func (p *pointerSession) remove(id int) {
	if _, ok := p.points[id]; !ok {
		return
	}
	delete(p.points, id)
	for i, x := range p.order {
		if x == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// pair returns the first two pointers in arrival order.
func (p *pointerSession) pair() (Vec2, Vec2) {
	return p.points[p.order[0]], p.points[p.order[1]]
}

func (p *pointerSession) reset() {
	for id := range p.points {
		delete(p.points, id)
	}
	p.order = p.order[:0]
	p.pinchDist = 0
	p.drag = dragState{}
	p.gestureScale = 0
	p.touchStart = nil
}

func distance(a, b Vec2) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// zoomedOut reports whether the target scale is within the pan threshold of base.
func (v *Viewer) zoomedOut() bool {
	return math.Abs(v.target.Scale-v.base) < v.cfg.Pointer.PanThreshold
}

// HandlePointerDown starts a drag when the primary pointer lands on the
// image, and starts a pinch when it is the second active pointer.
func (v *Viewer) HandlePointerDown(e PointerEvent) {
	v.advance(e.Time)
	if !v.open {
		return
	}
	v.noteActivity()
	v.fadeIntent = false
	v.trackpadClose = false
	if e.Type == PointerTouch {
		v.classifier.NoteTouch(v.sched.Now())
	}
	if v.gesture.wheelOwned() {
		v.wheel.locked = false
		v.endWheelGesture()
		if !v.open {
			return
		}
	}

	pos := Vec2{X: e.X, Y: e.Y}
	p := &v.pointers
	if e.Primary && v.ImageBounds().Contains(e.X, e.Y) {
		p.drag = dragState{active: true, id: e.ID, kind: e.Type, start: pos, last: pos}
		v.gesture.to(GestureDragging, sourcePointer)
	}
	p.add(e.ID, pos)

	if len(p.points) == 2 {
		if v.gesture.is(GestureCloseDrag, sourcePointer) {
			v.springBack()
		}
		p.drag.active = false
		if v.gesture.to(GesturePinching, sourcePointer) {
			a, b := p.pair()
			p.pinchDist = distance(a, b)
		}
	}
}

// HandlePointerMove feeds pinch and drag.
func (v *Viewer) HandlePointerMove(e PointerEvent) {
	v.advance(e.Time)
	p := &v.pointers
	_, tracked := p.points[e.ID]
	dragging := p.drag.active && p.drag.id == e.ID
	if !tracked && !dragging {
		return
	}
	if !v.open {
		p.reset()
		v.gesture.reset()
		return
	}
	v.noteActivity()
	pos := Vec2{X: e.X, Y: e.Y}
	if tracked {
		p.points[e.ID] = pos
	}

	if len(p.points) == 2 && v.gesture.is(GesturePinching, sourcePointer) {
		v.pinchMove(e.Type)
	}
	if dragging {
		v.dragMove(e, pos)
	}
}

func (v *Viewer) pinchMove(kind PointerType) {
	p := &v.pointers
	a, b := p.pair()
	d := distance(a, b)
	if p.pinchDist <= 0 {
		// Pointers started on the same spot; measure from here.
		p.pinchDist = d
		return
	}
	delta := d / p.pinchDist
	p.pinchDist = d
	if delta == 1 || d == 0 {
		return
	}
	sensitivity := v.cfg.Zoom.PinchModeration
	if kind == PointerTouch {
		sensitivity = v.cfg.Zoom.TouchPinchSensitivity
	}
	v.zoomAt(1+(delta-1)*sensitivity, (a.X+b.X)/2, (a.Y+b.Y)/2)
}

func (v *Viewer) dragMove(e PointerEvent, pos Vec2) {
	p := &v.pointers
	if v.gesture.kind == GesturePinching {
		p.drag.active = false
		return
	}

	if !v.gesture.is(GestureCloseDrag, sourcePointer) && v.closeDragStarts(e, pos) {
		v.gesture.to(GestureCloseDrag, sourcePointer)
		v.fadeIntent = true
	}

	if v.gesture.is(GestureCloseDrag, sourcePointer) {
		dy := pos.Y - p.drag.last.Y
		p.drag.last = pos
		v.target.TranslateY = math.Max(0, v.target.TranslateY+dy)
		v.startRender()
		return
	}

	// Touch at base scale does not pan, so a swipe can still navigate.
	if p.drag.kind == PointerTouch && v.zoomedOut() {
		return
	}
	dx := pos.X - p.drag.last.X
	dy := pos.Y - p.drag.last.Y
	p.drag.last = pos
	v.target.TranslateX += dx
	v.target.TranslateY += dy
	v.constrain()
	v.startRender()
}

// closeDragStarts reports whether a touch drag has become a downward swipe.
func (v *Viewer) closeDragStarts(e PointerEvent, pos Vec2) bool {
	if e.Type != PointerTouch || !v.zoomedOut() {
		return false
	}
	totalDy := pos.Y - v.pointers.drag.start.Y
	totalDx := pos.X - v.pointers.drag.start.X
	return totalDy > 0 &&
		math.Abs(totalDy) > math.Abs(totalDx) &&
		totalDy > v.cfg.Pointer.SwipeThresholdPX
}

// HandlePointerUp ends a drag, committing or cancelling a close drag, and
// ends a pinch once fewer than two pointers remain.
func (v *Viewer) HandlePointerUp(e PointerEvent) {
	v.pointerEnd(e, true)
}

// HandlePointerCancel is HandlePointerUp without the close commit.
func (v *Viewer) HandlePointerCancel(e PointerEvent) {
	v.pointerEnd(e, false)
}

func (v *Viewer) pointerEnd(e PointerEvent, commit bool) {
	v.advance(e.Time)
	p := &v.pointers
	if p.drag.active && p.drag.id == e.ID {
		p.drag.active = false
		switch {
		case v.gesture.is(GestureCloseDrag, sourcePointer):
			totalDy := e.Y - p.drag.start.Y
			if commit && v.open && totalDy > v.cfg.Close.Threshold {
				v.Close()
				return
			}
			v.springBack()
			v.gesture.to(GestureIdle, sourceNone)
		case v.gesture.kind == GestureDragging:
			v.gesture.to(GestureIdle, sourceNone)
		}
	}
	p.remove(e.ID)
	if len(p.points) < 2 {
		p.pinchDist = 0
		if v.gesture.is(GesturePinching, sourcePointer) {
			v.gesture.to(GestureIdle, sourceNone)
		}
	}
}

// HandleTouchStart records the start of a potential navigate swipe.
func (v *Viewer) HandleTouchStart(e TouchEvent) {
	v.advance(e.Time)
	now := v.sched.Now()
	v.classifier.NoteTouch(now)
	if !v.open {
		return
	}
	v.noteActivity()
	if len(e.Touches) == 1 {
		v.pointers.touchStart = &touchStart{pos: e.Touches[0], t: now}
	} else {
		v.pointers.touchStart = nil
	}
}

// HandleTouchEnd navigates when the touch formed a quick horizontal swipe
// at base scale: leftward is next, rightward is previous.
func (v *Viewer) HandleTouchEnd(e TouchEvent) {
	v.advance(e.Time)
	ts := v.pointers.touchStart
	if !v.open || ts == nil {
		return
	}
	v.noteActivity()
	var end Vec2
	if len(e.Changed) > 0 {
		end = e.Changed[0]
	}
	dx := end.X - ts.pos.X
	dy := end.Y - ts.pos.Y
	dt := v.sched.Now().Sub(ts.t)
	v.pointers.touchStart = nil

	if v.validSwipe(dx, dy, dt) {
		if dx < 0 {
			v.Next()
		} else {
			v.Prev()
		}
	}
}

func (v *Viewer) validSwipe(dx, dy float64, dt time.Duration) bool {
	absDx, absDy := math.Abs(dx), math.Abs(dy)
	pc := v.cfg.Pointer
	return absDx > absDy &&
		absDx > pc.SwipeThresholdPX &&
		dt < ms(pc.SwipeTimeoutMS) &&
		math.Abs(v.target.Scale-v.base) < pc.SwipeScaleTolerance
}

// HandleGestureStart begins a platform pinch unless pointers are active.
func (v *Viewer) HandleGestureStart(e GestureEvent) {
	v.advance(e.Time)
	if !v.open || len(v.pointers.points) > 0 {
		return
	}
	v.pointers.gestureScale = 1
	v.gesture.to(GesturePinching, sourcePlatform)
}

// HandleGestureChange zooms at the gesture anchor by the scale change since
// the previous sample.
func (v *Viewer) HandleGestureChange(e GestureEvent) {
	v.advance(e.Time)
	if !v.open || len(v.pointers.points) > 0 {
		return
	}
	last := v.pointers.gestureScale
	if last <= 0 || e.Scale <= 0 {
		v.pointers.gestureScale = e.Scale
		return
	}
	delta := e.Scale / last
	v.pointers.gestureScale = e.Scale
	if delta != 1 {
		v.zoomAt(1+(delta-1)*v.cfg.Zoom.PinchModeration, e.X, e.Y)
	}
}

// HandleGestureEnd ends a platform pinch.
func (v *Viewer) HandleGestureEnd(e GestureEvent) {
	v.advance(e.Time)
	if len(v.pointers.points) > 0 {
		return
	}
	if v.gesture.is(GesturePinching, sourcePlatform) {
		v.gesture.to(GestureIdle, sourceNone)
	}
}
