package spotlight

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in a gesture script.
type scriptStep struct {
	Action  string  `json:"action"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	DX      float64 `json:"dx,omitempty"`
	DY      float64 `json:"dy,omitempty"`
	Ctrl    bool    `json:"ctrl,omitempty"`
	Repeat  int     `json:"repeat,omitempty"`
	FromX   float64 `json:"fromX,omitempty"`
	FromY   float64 `json:"fromY,omitempty"`
	ToX     float64 `json:"toX,omitempty"`
	ToY     float64 `json:"toY,omitempty"`
	Frames  int     `json:"frames,omitempty"`
	Pointer string  `json:"pointer,omitempty"` // mouse, pen or touch
	Key     string  `json:"key,omitempty"`

	StartDist float64 `json:"startDist,omitempty"`
	EndDist   float64 `json:"endDist,omitempty"`
}

// script is the top-level JSON structure of a gesture script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner replays a JSON gesture script through the viewer's inject
// queue, one step whenever the queue is empty. Attach it with SetScript.
//
//	{"steps": [
//	  {"action": "wheel", "dx": 12, "repeat": 3},
//	  {"action": "wait", "frames": 10},
//	  {"action": "drag", "pointer": "touch", "fromX": 400, "fromY": 300, "toX": 400, "toY": 500, "frames": 8},
//	  {"action": "key", "key": "ArrowRight"}
//	]}
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON gesture script.
func LoadScript(data []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse gesture script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse gesture script: no steps")
	}
	for i, st := range s.Steps {
		switch st.Action {
		case "wheel", "drag", "swipe", "pinch", "key", "wait":
		default:
			return nil, fmt.Errorf("parse gesture script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

// SetScript attaches a runner. Its step method runs at the start of every Update.
func (v *Viewer) SetScript(r *ScriptRunner) {
	v.script = r
}

// Done reports whether every step has been executed and drained.
func (r *ScriptRunner) Done() bool {
	return r.done
}

func parsePointerType(s string) PointerType {
	switch s {
	case "touch":
		return PointerTouch
	case "pen":
		return PointerPen
	default:
		return PointerMouse
	}
}

// step advances the runner by one frame.
func (r *ScriptRunner) step(v *Viewer) {
	if r.done {
		return
	}
	if len(v.inject) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "wheel":
		n := st.Repeat
		if n < 1 {
			n = 1
		}
		for i := 0; i < n; i++ {
			v.InjectWheel(st.X, st.Y, st.DX, st.DY, st.Ctrl)
		}
	case "drag":
		v.InjectDrag(parsePointerType(st.Pointer),
			Vec2{X: st.FromX, Y: st.FromY}, Vec2{X: st.ToX, Y: st.ToY}, st.Frames)
	case "swipe":
		v.InjectSwipe(Vec2{X: st.FromX, Y: st.FromY}, Vec2{X: st.ToX, Y: st.ToY})
	case "pinch":
		v.InjectPinch(Vec2{X: st.X, Y: st.Y}, st.StartDist, st.EndDist, st.Frames)
	case "key":
		v.InjectKey(st.Key)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(v.inject) == 0 {
		r.done = true
	}
}
