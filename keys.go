package spotlight

import "strings"

// Action is a discrete viewer command, bound to keys and remote commands.
type Action uint8

const (
	ActionNone Action = iota
	ActionClose
	ActionNext
	ActionPrev
	ActionZoomIn
	ActionZoomOut
	ActionResetZoom
	ActionFullscreen
)

var actionNames = map[string]Action{
	"close":      ActionClose,
	"next":       ActionNext,
	"prev":       ActionPrev,
	"zoom_in":    ActionZoomIn,
	"zoom_out":   ActionZoomOut,
	"reset_zoom": ActionResetZoom,
	"fullscreen": ActionFullscreen,
}

// ParseAction maps a command name such as "next" or "zoom_in" to an Action.
func ParseAction(name string) Action {
	return actionNames[strings.ToLower(name)]
}

// keyActions maps DOM-style key names and codes to actions. Letter keys are
// matched case-insensitively.
var keyActions = map[string]Action{
	"escape": ActionClose, "esc": ActionClose,

	"arrowright": ActionNext, "right": ActionNext, "keyl": ActionNext, "l": ActionNext,
	"arrowleft": ActionPrev, "left": ActionPrev, "keyh": ActionPrev, "h": ActionPrev,

	"equal": ActionZoomIn, "numpadadd": ActionZoomIn, "+": ActionZoomIn, "=": ActionZoomIn,
	"minus": ActionZoomOut, "numpadsubtract": ActionZoomOut, "-": ActionZoomOut, "_": ActionZoomOut,

	"digit0": ActionResetZoom, "numpad0": ActionResetZoom, "0": ActionResetZoom, ")": ActionResetZoom,

	"keyf": ActionFullscreen, "f": ActionFullscreen,
}

// KeyAction looks up the action bound to a key name or code.
func KeyAction(key string) Action {
	return keyActions[strings.ToLower(key)]
}

// HandleKey performs the action bound to e.Key while open.
func (v *Viewer) HandleKey(e KeyEvent) {
	v.advance(e.Time)
	if !v.open {
		return
	}
	v.noteActivity()
	v.Perform(KeyAction(e.Key))
}

// Perform runs a discrete action.
func (v *Viewer) Perform(a Action) {
	switch a {
	case ActionClose:
		v.Close()
	case ActionNext:
		v.Next()
	case ActionPrev:
		v.Prev()
	case ActionZoomIn:
		v.ZoomBy(v.cfg.Zoom.Step)
	case ActionZoomOut:
		v.ZoomBy(1 / v.cfg.Zoom.Step)
	case ActionResetZoom:
		v.ResetZoom()
	case ActionFullscreen:
		v.ToggleFullscreen()
	}
}
