package spotlight

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// EntryFrame is the entry animation state applied on top of the rendered
// transform: a horizontal offset, a scale about the image center, an alpha.
type EntryFrame struct {
	OffsetX float64
	Scale   float64
	Alpha   float64
}

var restingFrame = EntryFrame{Scale: 1, Alpha: 1}

// EntryAnimation slides a newly loaded image in from the navigation
// direction. Call Update(dt) each frame; there is no global animation manager.
type EntryAnimation struct {
	cfg    RenderConfig
	tweens [3]*gween.Tween
	fields [3]*float64
	frame  EntryFrame
	Done   bool
}

// NewEntryAnimation returns an animation at rest.
func NewEntryAnimation(cfg RenderConfig) *EntryAnimation {
	a := &EntryAnimation{cfg: cfg, frame: restingFrame, Done: true}
	a.fields = [3]*float64{&a.frame.OffsetX, &a.frame.Scale, &a.frame.Alpha}
	return a
}

// Hide makes the image invisible until Play is called.
func (a *EntryAnimation) Hide() {
	a.frame = EntryFrame{Scale: 1}
	a.Done = true
}

// Play starts the slide-in. dir is +1 after next, -1 after prev; 0 shows
// the image at rest immediately.
func (a *EntryAnimation) Play(dir int) {
	if dir == 0 {
		a.frame = restingFrame
		a.Done = true
		return
	}
	slide := float32(a.cfg.SlideDurationMS) / 1000
	fade := float32(a.cfg.FadeInDurationMS) / 1000
	a.frame = EntryFrame{
		OffsetX: float64(dir) * a.cfg.SlideOffset,
		Scale:   a.cfg.SlideStartScale,
		Alpha:   0,
	}
	a.tweens[0] = gween.New(float32(a.frame.OffsetX), 0, slide, ease.OutQuint)
	a.tweens[1] = gween.New(float32(a.frame.Scale), 1, slide, ease.OutQuint)
	a.tweens[2] = gween.New(0, 1, fade, ease.InOutQuad)
	a.Done = false
}

// Update advances the tweens by dt seconds.
func (a *EntryAnimation) Update(dt float32) {
	if a.Done {
		return
	}
	allDone := true
	for i, tw := range a.tweens {
		val, finished := tw.Update(dt)
		*a.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	if allDone {
		a.frame = restingFrame
	}
	a.Done = allDone
}

// Frame returns the current animation state.
func (a *EntryAnimation) Frame() EntryFrame { return a.frame }
