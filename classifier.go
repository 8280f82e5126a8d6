package spotlight

import (
	"math"
	"time"
)

// Source is the device class a wheel event is attributed to.
type Source uint8

const (
	SourceUnknown Source = iota
	SourceMouse
	SourceTrackpad
)

func (s Source) String() string {
	switch s {
	case SourceMouse:
		return "mouse"
	case SourceTrackpad:
		return "trackpad"
	default:
		return "unknown"
	}
}

// Modality is the most recently used input family, for cursor and
// affordance styling only.
type Modality uint8

const (
	ModalityMouse Modality = iota
	ModalityTrackpad
	ModalityTouch
)

func (m Modality) String() string {
	switch m {
	case ModalityTrackpad:
		return "trackpad"
	case ModalityTouch:
		return "touch"
	default:
		return "mouse"
	}
}

// Classifier attributes wheel events to a mouse or a trackpad.
//
// Pixel-mode integer deltas come from trackpads; fractional ones come from
// mouse wheels run through OS acceleration. Once a trackpad is seen the
// verdict sticks until Reset. Wheel events shortly after touch activity
// keep the previous verdict.
type Classifier struct {
	// Suppress is the window after a touch during which wheel events are
	// not reclassified.
	Suppress time.Duration
	// OnModality, if set, is called whenever the modality changes.
	OnModality func(Modality)

	source      Source
	lastTouch   time.Time
	modality    Modality
	hasTrackpad bool
}

// Classify returns the source for e and updates the sticky state.
func (c *Classifier) Classify(e WheelEvent) Source {
	if !c.lastTouch.IsZero() && e.Time.Sub(c.lastTouch) < c.Suppress {
		return c.prior()
	}
	if c.source == SourceTrackpad {
		return SourceTrackpad
	}
	verdict, ok := trackpadDelta(e)
	if !ok {
		return c.prior()
	}
	src := SourceMouse
	if verdict {
		src = SourceTrackpad
		c.hasTrackpad = true
		c.setModality(ModalityTrackpad)
	} else {
		c.setModality(ModalityMouse)
	}
	c.source = src
	return src
}

// trackpadDelta applies the delta heuristic. ok is false when deltaY is zero
// and the event says nothing about its device.
func trackpadDelta(e WheelEvent) (trackpad, ok bool) {
	if e.Mode != DeltaPixel {
		return false, true
	}
	if e.DeltaY == 0 {
		return false, false
	}
	return e.DeltaY == math.Trunc(e.DeltaY), true
}

func (c *Classifier) prior() Source {
	if c.source == SourceUnknown {
		return SourceMouse
	}
	return c.source
}

// NoteTouch records touch activity at t.
func (c *Classifier) NoteTouch(t time.Time) {
	c.lastTouch = t
	c.setModality(ModalityTouch)
}

func (c *Classifier) setModality(m Modality) {
	if c.modality == m {
		return
	}
	c.modality = m
	if c.OnModality != nil {
		c.OnModality(m)
	}
}

// Source returns the current sticky verdict.
func (c *Classifier) Source() Source { return c.source }

// Modality returns the last used input family.
func (c *Classifier) Modality() Modality { return c.modality }

// SeenTrackpad reports whether any wheel event was ever attributed to a trackpad.
func (c *Classifier) SeenTrackpad() bool { return c.hasTrackpad }

// Reset forgets the per-gesture verdict. SeenTrackpad and Modality survive.
func (c *Classifier) Reset() {
	c.source = SourceUnknown
}
