package spotlight

import (
	"log/slog"
	"time"
)

// Platform exposes host features the viewer can use when available.
type Platform interface {
	SetFullscreen(on bool) error
	IsFullscreen() bool
}

// Options configures New. Zero fields take defaults: DefaultConfig, no
// persistence, a discarding logger and no platform features.
type Options struct {
	Config   *Config
	Store    PreferenceStore
	Logger   *slog.Logger
	Platform Platform
}

// Viewer is the gesture interpretation and transform engine of an image
// overlay. It owns every session object; all methods must be called from
// one goroutine (the frame loop).
type Viewer struct {
	cfg      Config
	logger   *slog.Logger
	store    PreferenceStore
	platform Platform
	sink     EventSink

	// OnLoad is called whenever an item must be (re)loaded.
	OnLoad func(LoadRequest)
	// OnClose is called after the viewer closes.
	OnClose func()

	sched      Scheduler
	classifier Classifier
	calib      calibration
	gesture    gestureState
	wheel      wheelSession
	pointers   pointerSession
	render     renderLoop
	entry      *EntryAnimation
	errs       errorLog

	collections []Collection
	open        bool
	collection  int
	item        int
	pendingDir  int
	loadDir     int
	loadSeq     uint64
	imageReady  bool
	counter     string
	caption     string
	announce    string
	fullscreen  bool

	img  Size
	view Size

	target        Transform
	rendered      Transform
	base          float64
	fadeIntent    bool
	trackpadClose bool

	invertedScroll bool

	chromeVisible bool
	overChrome    bool
	hideTask      *Task

	lastFrame time.Time
	inject    []InputEvent
	script    *ScriptRunner
}

// New creates a closed viewer and reads the stored scroll preference.
func New(opts Options) *Viewer {
	cfg := DefaultConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}
	v := &Viewer{
		cfg:      cfg,
		logger:   logger,
		store:    opts.Store,
		platform: opts.Platform,
		errs:     errorLog{limit: cfg.UI.ErrorLogSize},
		target:   Transform{Scale: 1},
		rendered: Transform{Scale: 1},
		base:     1,
	}
	v.classifier.Suppress = ms(cfg.Pointer.TouchSuppressMS)
	v.calib.cfg = cfg.Calibration
	v.pointers.points = make(map[int]Vec2)
	v.entry = NewEntryAnimation(cfg.Render)
	v.loadScrollPreference()
	return v
}

// Config returns the active configuration.
func (v *Viewer) Config() Config { return v.cfg }

// advance moves the scheduler clock to t, firing due timers first.
func (v *Viewer) advance(t time.Time) {
	if t.IsZero() {
		return
	}
	v.sched.Advance(t)
}

// Update runs one frame at now: fires due timers, feeds one scripted or
// injected event, steps the entry animation and the smoothing loop.
func (v *Viewer) Update(now time.Time) {
	v.advance(now)

	if v.script != nil {
		v.script.step(v)
	}
	v.processInjected(now)

	var dt time.Duration
	if !v.lastFrame.IsZero() {
		dt = now.Sub(v.lastFrame)
	}
	v.lastFrame = now
	if maxDt := ms(v.cfg.Render.MaxDtMS); dt > maxDt {
		dt = maxDt
	}
	if dt > 0 {
		v.entry.Update(float32(dt.Seconds()))
	}

	v.tickRender(now)
}

// SetViewport records the viewport size. While open with a loaded image the
// image is refitted at once. Non-positive sizes are ignored.
func (v *Viewer) SetViewport(w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	v.view = Size{W: w, H: h}
	if v.open && v.imageReady {
		v.fit()
	}
}

// fit recomputes the base scale and snaps both transforms to it.
func (v *Viewer) fit() {
	if !v.img.valid() {
		return
	}
	v.base = FitScale(v.img, v.view, v.cfg.Zoom.MinFitScale, v.cfg.Zoom.MaxScale)
	v.target = Transform{Scale: v.base}
	v.rendered = v.target
	v.render.active = false
}

// ZoomBy multiplies the target scale by factor, clamped to the zoom bounds.
func (v *Viewer) ZoomBy(factor float64) {
	if !v.open || factor <= 0 {
		return
	}
	v.noteActivity()
	v.target.Scale = clamp(v.target.Scale*factor, v.cfg.Zoom.MinScale, v.cfg.Zoom.MaxScale)
	v.constrain()
	v.startRender()
}

// ResetZoom returns the target to the base scale, centered.
func (v *Viewer) ResetZoom() {
	if !v.open {
		return
	}
	v.noteActivity()
	v.target = Transform{Scale: v.base}
	v.startRender()
}

// zoomAt applies zoom-at-point with the anchor at viewport coordinates (x, y).
func (v *Viewer) zoomAt(factor, x, y float64) {
	v.noteActivity()
	v.fadeIntent = false
	v.trackpadClose = false
	next, ok := zoomAtPoint(v.target, v.rendered, factor, Vec2{X: x, Y: y}, v.img, v.view,
		v.cfg.Zoom.MinScale, v.cfg.Zoom.MaxScale)
	if !ok {
		return
	}
	v.target = next
	v.constrain()
	v.startRender()
}

// constrain applies the pan bound to the target.
func (v *Viewer) constrain() {
	v.target = clampPan(v.target, v.img, v.view, v.cfg.Zoom.MinVisibleRatio)
}

// springBack cancels a close drag and lets the image settle.
func (v *Viewer) springBack() {
	v.target.TranslateY = 0
	v.constrain()
	v.startRender()
}

// ToggleFullscreen flips host fullscreen when a Platform is available.
func (v *Viewer) ToggleFullscreen() {
	if !v.open {
		return
	}
	v.noteActivity()
	v.setFullscreen(!v.fullscreen)
}

func (v *Viewer) setFullscreen(on bool) {
	if v.platform == nil {
		if on {
			v.reportError("fullscreen", ErrFullscreenUnsupported)
		}
		v.fullscreen = false
		return
	}
	if err := v.platform.SetFullscreen(on); err != nil {
		v.reportError("fullscreen", err)
	}
	v.fullscreen = v.platform.IsFullscreen()
	v.emit(Event{Type: EventFullscreen, Fullscreen: v.fullscreen})
}

// Close hides the viewer. Every pending timer is canceled and every session
// (wheel, pointer, calibration) is reset before OnClose runs.
func (v *Viewer) Close() {
	if !v.open {
		return
	}
	v.open = false
	if v.fullscreen {
		v.setFullscreen(false)
	}
	v.sched.CancelAll()
	v.hideTask = nil
	v.wheel.reset()
	v.pointers.reset()
	v.gesture.reset()
	v.calib.reset()
	v.classifier.Reset()
	v.pendingDir = 0
	v.chromeVisible = false
	v.render.active = false
	v.fadeIntent = false
	v.trackpadClose = false
	v.inject = v.inject[:0]

	v.logger.Info("viewer closed", "collection", v.collection, "item", v.item)
	v.emit(Event{Type: EventClose, CollectionIndex: v.collection, ItemIndex: v.item})
	if v.OnClose != nil {
		v.OnClose()
	}
}

// noteActivity shows the chrome and restarts the auto-hide timer.
func (v *Viewer) noteActivity() {
	if !v.open {
		return
	}
	v.chromeVisible = true
	v.scheduleHide()
}

func (v *Viewer) scheduleHide() {
	v.hideTask.Cancel()
	v.hideTask = v.sched.After(ms(v.cfg.UI.HideDelayMS), func() {
		if v.overChrome {
			v.scheduleHide()
			return
		}
		v.chromeVisible = false
	})
}

// SetPointerOverChrome defers auto-hide while the pointer rests on controls.
func (v *Viewer) SetPointerOverChrome(over bool) { v.overChrome = over }

// --- read-only state ---

// IsOpen reports whether the viewer is showing an item.
func (v *Viewer) IsOpen() bool { return v.open }

// Target returns the target transform.
func (v *Viewer) Target() Transform { return v.target }

// Rendered returns the displayed transform.
func (v *Viewer) Rendered() Transform { return v.rendered }

// BaseScale returns the fit-to-viewport scale of the current image.
func (v *Viewer) BaseScale() float64 { return v.base }

// Gesture returns the gesture that currently owns input.
func (v *Viewer) Gesture() GestureKind { return v.gesture.kind }

// Modality returns the most recently used input family.
func (v *Viewer) Modality() Modality { return v.classifier.Modality() }

// InvertedScroll reports whether trackpad deltas are sign-flipped.
func (v *Viewer) InvertedScroll() bool { return v.invertedScroll }

// NeedsCalibration reports whether the scroll direction is still unknown.
func (v *Viewer) NeedsCalibration() bool { return v.calib.needed }

// Calibration returns the calibration dialog state.
func (v *Viewer) Calibration() CalibrationView { return v.calib.view() }

// CalibrationPhase returns the calibration state machine phase.
func (v *Viewer) CalibrationPhase() CalibrationPhase { return v.calib.phase }

// ChromeVisible reports whether controls are shown (auto-hide).
func (v *Viewer) ChromeVisible() bool { return v.chromeVisible }

// Fullscreen reports the last known fullscreen state.
func (v *Viewer) Fullscreen() bool { return v.fullscreen }

// Viewport returns the last viewport size.
func (v *Viewer) Viewport() Size { return v.view }

// ImageSize returns the intrinsic size of the loaded image, zero until loaded.
func (v *Viewer) ImageSize() Size { return v.img }

// ImageBounds returns the on-screen rectangle of the rendered image.
func (v *Viewer) ImageBounds() Rect { return imageBounds(v.rendered, v.img, v.view) }

// ImageMatrix returns the affine matrix [a, b, c, d, tx, ty] placing image
// pixels on screen, entry animation included.
func (v *Viewer) ImageMatrix() [6]float64 {
	m := placementMatrix(v.rendered, v.img, v.view)
	f := v.entry.Frame()
	if f.Scale == 1 && f.OffsetX == 0 {
		return m
	}
	cx, cy := v.view.W/2+v.rendered.TranslateX, v.view.H/2+v.rendered.TranslateY
	entry := multiplyAffine(
		[6]float64{1, 0, 0, 1, cx + f.OffsetX, cy},
		multiplyAffine([6]float64{f.Scale, 0, 0, f.Scale, 0, 0}, [6]float64{1, 0, 0, 1, -cx, -cy}),
	)
	return multiplyAffine(entry, m)
}

// ScreenToImage maps a viewport point to image pixel coordinates.
func (v *Viewer) ScreenToImage(x, y float64) (float64, float64) {
	return transformPoint(invertAffine(placementMatrix(v.rendered, v.img, v.view)), x, y)
}

// Entry returns the current entry animation frame.
func (v *Viewer) Entry() EntryFrame { return v.entry.Frame() }
