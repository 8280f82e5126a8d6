package spotlight

// GestureKind names the interaction that currently owns input.
type GestureKind uint8

const (
	GestureIdle       GestureKind = iota
	GestureDragging               // single pointer pan
	GesturePinching               // two-pointer or platform pinch
	GestureCloseDrag              // vertical swipe-to-close, pointer or wheel driven
	GestureWheelSwipe             // wheel locked to horizontal navigation
	GestureWheelZoom              // wheel locked to zoom/vertical handling
)

var gestureKindNames = [...]string{
	GestureIdle:       "idle",
	GestureDragging:   "dragging",
	GesturePinching:   "pinching",
	GestureCloseDrag:  "close-drag",
	GestureWheelSwipe: "wheel-swipe",
	GestureWheelZoom:  "wheel-zoom",
}

func (k GestureKind) String() string {
	if int(k) < len(gestureKindNames) {
		return gestureKindNames[k]
	}
	return "unknown"
}

// gestureSource records which device family drives a pinch or close-drag.
type gestureSource uint8

const (
	sourceNone gestureSource = iota
	sourcePointer
	sourceWheel
	sourcePlatform
)

// legalTransitions lists, for each kind, the kinds it may move to. Every
// kind may return to idle.
var legalTransitions = [...][]GestureKind{
	GestureIdle:       {GestureDragging, GesturePinching, GestureCloseDrag, GestureWheelSwipe, GestureWheelZoom},
	GestureDragging:   {GestureIdle, GesturePinching, GestureCloseDrag},
	GesturePinching:   {GestureIdle},
	GestureCloseDrag:  {GestureIdle, GesturePinching, GestureWheelZoom},
	GestureWheelSwipe: {GestureIdle, GestureWheelZoom},
	GestureWheelZoom:  {GestureIdle, GestureCloseDrag},
}

// gestureState is the single source of truth for which gesture owns input.
type gestureState struct {
	kind   GestureKind
	source gestureSource
}

// canMove reports whether kind may move to next.
func canMove(kind, next GestureKind) bool {
	if kind == next {
		return true
	}
	for _, k := range legalTransitions[kind] {
		if k == next {
			return true
		}
	}
	return false
}

// to moves to next if the transition is legal and reports whether it did.
func (g *gestureState) to(next GestureKind, src gestureSource) bool {
	if !canMove(g.kind, next) {
		return false
	}
	g.kind = next
	g.source = src
	if next == GestureIdle {
		g.source = sourceNone
	}
	return true
}

func (g *gestureState) reset() {
	g.kind = GestureIdle
	g.source = sourceNone
}

func (g *gestureState) is(kind GestureKind, src gestureSource) bool {
	return g.kind == kind && g.source == src
}

// wheelOwned reports whether the current gesture belongs to the wheel path.
func (g *gestureState) wheelOwned() bool {
	switch g.kind {
	case GestureWheelSwipe, GestureWheelZoom:
		return true
	case GestureCloseDrag:
		return g.source == sourceWheel
	}
	return false
}

// pointerOwned reports whether pointers currently drive the gesture.
func (g *gestureState) pointerOwned() bool {
	switch g.kind {
	case GestureDragging:
		return true
	case GesturePinching, GestureCloseDrag:
		return g.source == sourcePointer || g.source == sourcePlatform
	}
	return false
}
