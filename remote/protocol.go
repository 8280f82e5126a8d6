package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/phanxgames/spotlight"
)

// envelope is the wire format for both directions: {type, ts, data}.
type envelope struct {
	Type string          `json:"type"`
	Ts   *time.Time      `json:"ts,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

type outEnvelope struct {
	Type string     `json:"type"`
	Ts   *time.Time `json:"ts,omitempty"`
	Data any        `json:"data,omitempty"`
}

// eventData is the data payload of every outbound viewer event.
type eventData struct {
	Collection int  `json:"collection"`
	Item       int  `json:"item"`
	Direction  int  `json:"direction,omitempty"`
	Natural    bool `json:"natural,omitempty"`
	Fullscreen bool `json:"fullscreen,omitempty"`
}

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type wheelData struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	DX   float64 `json:"dx"`
	DY   float64 `json:"dy"`
	Mode string  `json:"mode"`
	Ctrl bool    `json:"ctrl"`
}

type pointerData struct {
	Phase   string  `json:"phase"`
	ID      int     `json:"id"`
	Pointer string  `json:"pointer"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Primary bool    `json:"primary"`
}

type touchData struct {
	Phase   string  `json:"phase"`
	Touches []point `json:"touches"`
	Changed []point `json:"changed"`
}

type gestureData struct {
	Phase string  `json:"phase"`
	Scale float64 `json:"scale"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type keyData struct {
	Key string `json:"key"`
}

type resizeData struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type actionData struct {
	Name string `json:"name"`
}

type openData struct {
	Collection int `json:"collection"`
	Item       int `json:"item"`
}

// Command is one decoded inbound message.
type Command struct {
	Type string

	// Input is set for device messages. Its time is assigned on Drain.
	Input spotlight.InputEvent
	// Action is set for "action" messages.
	Action spotlight.Action
	// Collection and Item are set for "open" messages.
	Collection, Item int
}

var errUnknownType = errors.New("unknown message type")

// decodeCommand parses an inbound envelope.
func decodeCommand(msg []byte) (Command, error) {
	var env envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return Command{}, fmt.Errorf("decode envelope: %w", err)
	}
	cmd := Command{Type: env.Type}
	var err error
	switch env.Type {
	case "wheel":
		var d wheelData
		if err = unmarshalData(env, &d); err == nil {
			var mode spotlight.DeltaMode
			if mode, err = parseDeltaMode(d.Mode); err == nil {
				cmd.Input = spotlight.WheelEvent{X: d.X, Y: d.Y, DeltaX: d.DX, DeltaY: d.DY, Mode: mode, Ctrl: d.Ctrl}
			}
		}
	case "pointer":
		var d pointerData
		if err = unmarshalData(env, &d); err == nil {
			cmd.Input, err = pointerEvent(d)
		}
	case "touch":
		var d touchData
		if err = unmarshalData(env, &d); err == nil {
			cmd.Input, err = touchEvent(d)
		}
	case "gesture":
		var d gestureData
		if err = unmarshalData(env, &d); err == nil {
			cmd.Input, err = gestureEvent(d)
		}
	case "key":
		var d keyData
		if err = unmarshalData(env, &d); err == nil {
			if d.Key == "" {
				err = errors.New("key: empty key")
			}
			cmd.Input = spotlight.KeyEvent{Key: d.Key}
		}
	case "resize":
		var d resizeData
		if err = unmarshalData(env, &d); err == nil {
			cmd.Input = spotlight.ResizeEvent{Width: d.Width, Height: d.Height}
		}
	case "action":
		var d actionData
		if err = unmarshalData(env, &d); err == nil {
			cmd.Action = spotlight.ParseAction(d.Name)
			if cmd.Action == spotlight.ActionNone {
				err = fmt.Errorf("action: unknown action %q", d.Name)
			}
		}
	case "open":
		var d openData
		if err = unmarshalData(env, &d); err == nil {
			cmd.Collection, cmd.Item = d.Collection, d.Item
		}
	default:
		err = fmt.Errorf("%w %q", errUnknownType, env.Type)
	}
	if err != nil {
		return Command{}, err
	}
	return cmd, nil
}

func unmarshalData(env envelope, v any) error {
	if len(env.Data) == 0 {
		return fmt.Errorf("%s: missing data", env.Type)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("%s: %w", env.Type, err)
	}
	return nil
}

func parseDeltaMode(s string) (spotlight.DeltaMode, error) {
	switch s {
	case "", "pixel":
		return spotlight.DeltaPixel, nil
	case "line":
		return spotlight.DeltaLine, nil
	case "page":
		return spotlight.DeltaPage, nil
	}
	return 0, fmt.Errorf("wheel: unknown mode %q", s)
}

func pointerEvent(d pointerData) (spotlight.PointerEvent, error) {
	e := spotlight.PointerEvent{ID: d.ID, X: d.X, Y: d.Y, Primary: d.Primary}
	switch d.Phase {
	case "down":
		e.Phase = spotlight.PointerDown
	case "move":
		e.Phase = spotlight.PointerMove
	case "up":
		e.Phase = spotlight.PointerUp
	case "cancel":
		e.Phase = spotlight.PointerCancel
	default:
		return e, fmt.Errorf("pointer: unknown phase %q", d.Phase)
	}
	switch d.Pointer {
	case "", "mouse":
		e.Type = spotlight.PointerMouse
	case "pen":
		e.Type = spotlight.PointerPen
	case "touch":
		e.Type = spotlight.PointerTouch
	default:
		return e, fmt.Errorf("pointer: unknown pointer type %q", d.Pointer)
	}
	return e, nil
}

func touchEvent(d touchData) (spotlight.TouchEvent, error) {
	e := spotlight.TouchEvent{Touches: vecs(d.Touches), Changed: vecs(d.Changed)}
	switch d.Phase {
	case "start":
		e.Phase = spotlight.TouchStart
	case "end":
		e.Phase = spotlight.TouchEnd
	default:
		return e, fmt.Errorf("touch: unknown phase %q", d.Phase)
	}
	return e, nil
}

func gestureEvent(d gestureData) (spotlight.GestureEvent, error) {
	e := spotlight.GestureEvent{Scale: d.Scale, X: d.X, Y: d.Y}
	switch d.Phase {
	case "begin":
		e.Phase = spotlight.GestureBegin
	case "change":
		e.Phase = spotlight.GestureChange
	case "end":
		e.Phase = spotlight.GestureEnd
	default:
		return e, fmt.Errorf("gesture: unknown phase %q", d.Phase)
	}
	return e, nil
}

func vecs(ps []point) []spotlight.Vec2 {
	if len(ps) == 0 {
		return nil
	}
	out := make([]spotlight.Vec2, len(ps))
	for i, p := range ps {
		out[i] = spotlight.Vec2{X: p.X, Y: p.Y}
	}
	return out
}

// encodeEvent serializes a viewer event as an outbound envelope.
func encodeEvent(e spotlight.Event) ([]byte, error) {
	ts := e.Time.UTC()
	return json.Marshal(outEnvelope{
		Type: e.Type.String(),
		Ts:   &ts,
		Data: eventData{
			Collection: e.CollectionIndex,
			Item:       e.ItemIndex,
			Direction:  e.Direction,
			Natural:    e.Natural,
			Fullscreen: e.Fullscreen,
		},
	})
}
