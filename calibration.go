package spotlight

import (
	"math"
	"time"
)

// CalibrationPhase is the state of the trackpad direction measurement.
type CalibrationPhase uint8

const (
	CalibrationIdle      CalibrationPhase = iota // nothing pending
	CalibrationArmed                             // waiting for the first trackpad wheel event
	CalibrationMeasuring                         // collecting vertical deltas, step 0 or 1
	CalibrationClosing                           // result stored, UI about to disappear
)

func (p CalibrationPhase) String() string {
	switch p {
	case CalibrationArmed:
		return "armed"
	case CalibrationMeasuring:
		return "measuring"
	case CalibrationClosing:
		return "closing"
	default:
		return "idle"
	}
}

const (
	calibrationTitle     = "Trackpad Setup"
	calibrationPrompt    = "Swipe down repeatedly to calibrate."
	calibrationPromptTwo = "One more time..."
)

// CalibrationView is what a renderer needs to draw the calibration dialog.
type CalibrationView struct {
	Visible  bool
	Title    string
	Text     string
	Progress float64 // 0..1 for the current step
	Step     int
}

// calibration measures the sign of a downward two-finger swipe, twice.
// The sign of the second measurement decides natural scrolling.
type calibration struct {
	cfg CalibrationConfig

	phase    CalibrationPhase
	step     int
	accum    float64
	progress float64
	start    time.Time
	text     string

	needed        bool
	cooldownUntil time.Time
	closeTask     *Task
}

// arm waits for a trackpad if a measurement is still needed.
func (c *calibration) arm() {
	if c.needed && c.phase == CalibrationIdle {
		c.phase = CalibrationArmed
	}
}

// begin shows the dialog and starts step 0. It is a no-op unless a
// measurement is needed and none is running.
func (c *calibration) begin(now time.Time) bool {
	if !c.needed || c.active() {
		return false
	}
	c.phase = CalibrationMeasuring
	c.step = 0
	c.accum = 0
	c.progress = 0
	c.start = now
	c.text = calibrationPrompt
	return true
}

// active reports whether the dialog is on screen and owns trackpad input.
func (c *calibration) active() bool {
	return c.phase == CalibrationMeasuring || c.phase == CalibrationClosing
}

// feed consumes one wheel event. Only integer pixel deltas count, whatever
// the classifier decided. finished is true exactly once, when step 1
// completes; natural is then the measured direction.
func (c *calibration) feed(e WheelEvent) (finished, natural bool) {
	if c.phase != CalibrationMeasuring {
		return false, false
	}
	if trackpad, ok := trackpadDelta(e); !ok || !trackpad {
		return false, false
	}
	if e.Time.Sub(c.start) < ms(c.cfg.StartupDelayMS) {
		return false, false
	}
	if math.Abs(e.DeltaX) > math.Abs(e.DeltaY) {
		return false, false
	}
	c.accum += e.DeltaY
	c.progress = math.Min(math.Abs(c.accum)/c.cfg.Target, 1)
	if c.progress < 1 {
		return false, false
	}
	if c.step == 0 {
		c.step = 1
		c.accum = 0
		c.progress = 0
		c.start = e.Time
		c.text = calibrationPromptTwo
		return false, false
	}
	natural = c.accum < 0
	c.needed = false
	c.phase = CalibrationClosing
	c.cooldownUntil = e.Time.Add(ms(c.cfg.CooldownMS))
	return true, natural
}

// dismiss removes the dialog after the close delay.
func (c *calibration) dismiss() {
	c.phase = CalibrationIdle
	c.closeTask = nil
}

// inCooldown reports whether gestures are still suppressed after a measurement.
func (c *calibration) inCooldown(now time.Time) bool {
	return now.Before(c.cooldownUntil)
}

// reset abandons any running measurement. needed and the cooldown survive.
func (c *calibration) reset() {
	c.closeTask.Cancel()
	c.closeTask = nil
	c.phase = CalibrationIdle
	c.step = 0
	c.accum = 0
	c.progress = 0
	c.text = ""
}

func (c *calibration) view() CalibrationView {
	if !c.active() {
		return CalibrationView{}
	}
	return CalibrationView{
		Visible:  c.phase == CalibrationMeasuring,
		Title:    calibrationTitle,
		Text:     c.text,
		Progress: c.progress,
		Step:     c.step,
	}
}
