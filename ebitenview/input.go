package ebitenview

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/spotlight"
)

const (
	mousePointerID = 1
	touchIDBase    = 100 // touch pointers are touchIDBase + ebiten.TouchID

	// defaultPixelsPerLine converts fractional Ebitengine wheel offsets,
	// which are in lines, to pixel deltas.
	defaultPixelsPerLine = 40
)

// keyNames maps the Ebitengine keys the viewer binds to DOM key codes.
var keyNames = map[ebiten.Key]string{
	ebiten.KeyEscape:         "Escape",
	ebiten.KeyArrowRight:     "ArrowRight",
	ebiten.KeyArrowLeft:      "ArrowLeft",
	ebiten.KeyL:              "KeyL",
	ebiten.KeyH:              "KeyH",
	ebiten.KeyF:              "KeyF",
	ebiten.KeyEqual:          "Equal",
	ebiten.KeyNumpadAdd:      "NumpadAdd",
	ebiten.KeyMinus:          "Minus",
	ebiten.KeyNumpadSubtract: "NumpadSubtract",
	ebiten.KeyDigit0:         "Digit0",
	ebiten.KeyNumpad0:        "Numpad0",
}

// keyName returns the DOM code for k, or "" when k is not bound.
func keyName(k ebiten.Key) string {
	return keyNames[k]
}

// wheelEvent converts an Ebitengine wheel offset to a DOM-style wheel event.
//
// Ebitengine reports whole notches from a mouse wheel as integer offsets,
// which map to line mode. Fractional offsets come from smooth scrolling
// devices and are scaled to whole pixels, which the classifier attributes
// to a trackpad. The sign is flipped: a positive DOM delta scrolls down.
func wheelEvent(now time.Time, x, y, xoff, yoff float64, ctrl bool, pixelsPerLine float64) (spotlight.WheelEvent, bool) {
	if xoff == 0 && yoff == 0 {
		return spotlight.WheelEvent{}, false
	}
	if pixelsPerLine <= 0 {
		pixelsPerLine = defaultPixelsPerLine
	}
	e := spotlight.WheelEvent{Time: now, X: x, Y: y, Ctrl: ctrl}
	if xoff == math.Trunc(xoff) && yoff == math.Trunc(yoff) {
		e.Mode = spotlight.DeltaLine
		e.DeltaX = -xoff
		e.DeltaY = -yoff
		return e, true
	}
	e.Mode = spotlight.DeltaPixel
	e.DeltaX = math.Round(-xoff * pixelsPerLine)
	e.DeltaY = math.Round(-yoff * pixelsPerLine)
	if e.DeltaX == 0 && e.DeltaY == 0 {
		return spotlight.WheelEvent{}, false
	}
	return e, true
}

func touchPointerID(id ebiten.TouchID) int {
	return touchIDBase + int(id)
}

func ctrlPressed() bool {
	return ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
}

// poller turns one tick of Ebitengine device state into viewer input events.
type poller struct {
	pixelsPerLine float64

	mouseDown      bool
	mouseX, mouseY int

	touches    map[ebiten.TouchID]spotlight.Vec2
	primary    ebiten.TouchID
	hasPrimary bool

	keys     []ebiten.Key
	touchIDs []ebiten.TouchID
	events   []spotlight.InputEvent
}

func newPoller(pixelsPerLine float64) *poller {
	return &poller{
		pixelsPerLine: pixelsPerLine,
		touches:       make(map[ebiten.TouchID]spotlight.Vec2),
	}
}

// poll returns the events for this tick. The slice is reused by the next call.
func (p *poller) poll(now time.Time) []spotlight.InputEvent {
	p.events = p.events[:0]

	p.keys = inpututil.AppendJustPressedKeys(p.keys[:0])
	for _, k := range p.keys {
		if name := keyName(k); name != "" {
			p.events = append(p.events, spotlight.KeyEvent{Time: now, Key: name})
		}
	}

	mx, my := ebiten.CursorPosition()
	xoff, yoff := ebiten.Wheel()
	if e, ok := wheelEvent(now, float64(mx), float64(my), xoff, yoff, ctrlPressed(), p.pixelsPerLine); ok {
		p.events = append(p.events, e)
	}

	p.pollMouse(now, mx, my)
	p.pollTouches(now)
	return p.events
}

func (p *poller) pollMouse(now time.Time, mx, my int) {
	ev := spotlight.PointerEvent{
		Time:    now,
		ID:      mousePointerID,
		Type:    spotlight.PointerMouse,
		X:       float64(mx),
		Y:       float64(my),
		Primary: true,
	}
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		p.mouseDown = true
		ev.Phase = spotlight.PointerDown
		p.events = append(p.events, ev)
	case p.mouseDown && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		p.mouseDown = false
		ev.Phase = spotlight.PointerUp
		p.events = append(p.events, ev)
	case p.mouseDown && (mx != p.mouseX || my != p.mouseY):
		ev.Phase = spotlight.PointerMove
		p.events = append(p.events, ev)
	}
	p.mouseX, p.mouseY = mx, my
}

func (p *poller) pollTouches(now time.Time) {
	p.touchIDs = inpututil.AppendJustReleasedTouchIDs(p.touchIDs[:0])
	for _, id := range p.touchIDs {
		x, y := inpututil.TouchPositionInPreviousTick(id)
		pos := spotlight.Vec2{X: float64(x), Y: float64(y)}
		delete(p.touches, id)
		p.events = append(p.events, spotlight.PointerEvent{
			Time: now, Phase: spotlight.PointerUp, ID: touchPointerID(id), Type: spotlight.PointerTouch,
			X: pos.X, Y: pos.Y, Primary: p.hasPrimary && id == p.primary,
		})
		p.events = append(p.events, spotlight.TouchEvent{
			Time: now, Phase: spotlight.TouchEnd, Touches: p.activeTouches(), Changed: []spotlight.Vec2{pos},
		})
		if id == p.primary {
			p.hasPrimary = false
		}
	}

	p.touchIDs = inpututil.AppendJustPressedTouchIDs(p.touchIDs[:0])
	for _, id := range p.touchIDs {
		x, y := ebiten.TouchPosition(id)
		pos := spotlight.Vec2{X: float64(x), Y: float64(y)}
		primary := !p.hasPrimary && len(p.touches) == 0
		if primary {
			p.primary = id
			p.hasPrimary = true
		}
		p.touches[id] = pos
		p.events = append(p.events, spotlight.PointerEvent{
			Time: now, Phase: spotlight.PointerDown, ID: touchPointerID(id), Type: spotlight.PointerTouch,
			X: pos.X, Y: pos.Y, Primary: primary,
		})
		p.events = append(p.events, spotlight.TouchEvent{
			Time: now, Phase: spotlight.TouchStart, Touches: p.activeTouches(), Changed: []spotlight.Vec2{pos},
		})
	}

	p.touchIDs = ebiten.AppendTouchIDs(p.touchIDs[:0])
	for _, id := range p.touchIDs {
		prev, ok := p.touches[id]
		if !ok {
			continue
		}
		x, y := ebiten.TouchPosition(id)
		pos := spotlight.Vec2{X: float64(x), Y: float64(y)}
		if pos == prev {
			continue
		}
		p.touches[id] = pos
		p.events = append(p.events, spotlight.PointerEvent{
			Time: now, Phase: spotlight.PointerMove, ID: touchPointerID(id), Type: spotlight.PointerTouch,
			X: pos.X, Y: pos.Y, Primary: p.hasPrimary && id == p.primary,
		})
	}
}

func (p *poller) activeTouches() []spotlight.Vec2 {
	out := make([]spotlight.Vec2, 0, len(p.touches))
	for _, pos := range p.touches {
		out = append(out, pos)
	}
	return out
}
