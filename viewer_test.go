package spotlight

import (
	"math"
	"testing"
	"time"
)

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// at returns the test clock n milliseconds after epoch.
func at(n int) time.Time { return epoch.Add(time.Duration(n) * time.Millisecond) }

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

type recordingSink struct {
	events []Event
}

func (r *recordingSink) EmitEvent(e Event) { r.events = append(r.events, e) }

func (r *recordingSink) count(t EventType) int {
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func (r *recordingSink) last() Event {
	if len(r.events) == 0 {
		return Event{}
	}
	return r.events[len(r.events)-1]
}

type fakePlatform struct {
	on  bool
	err error
}

func (p *fakePlatform) SetFullscreen(on bool) error {
	if p.err != nil {
		return p.err
	}
	p.on = on
	return nil
}

func (p *fakePlatform) IsFullscreen() bool { return p.on }

type fixture struct {
	v      *Viewer
	sink   *recordingSink
	store  *MemoryStore
	loads  []LoadRequest
	closed int
}

// newFixture opens a viewer on a three-item collection in a 1000x800
// viewport and loads a 2000x1600 image, which fits at base scale 0.5 and
// covers the whole viewport. pref is the stored natural-scrolling value;
// empty leaves the viewer uncalibrated.
func newFixture(t *testing.T, pref string) *fixture {
	t.Helper()
	f := &fixture{store: NewMemoryStore(), sink: &recordingSink{}}
	if pref != "" {
		if err := f.store.Save(DefaultConfig().UI.PreferenceKey, pref); err != nil {
			t.Fatal(err)
		}
	}
	f.v = New(Options{Store: f.store})
	f.v.SetEventSink(f.sink)
	f.v.OnLoad = func(r LoadRequest) { f.loads = append(f.loads, r) }
	f.v.OnClose = func() { f.closed++ }
	f.v.SetCollections([]Collection{{
		ID:    "album",
		Title: "Album",
		Items: []Item{
			{Src: "one.jpg", Caption: "  First  "},
			{Src: "two.jpg"},
			{Src: "three.jpg", Caption: "Third"},
		},
	}})
	f.v.SetViewport(1000, 800)
	f.v.Update(at(0))
	if err := f.v.OpenAt(0, 0); err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	f.load()
	return f
}

// load answers the latest load request with the standard image size.
func (f *fixture) load() {
	r := f.loads[len(f.loads)-1]
	f.v.ImageLoaded(r.Seq, 2000, 1600)
}

// settle runs frames 16ms apart from start until the render loop stops.
// It returns the time of the last frame.
func (f *fixture) settle(t *testing.T, start int) int {
	t.Helper()
	now := start
	for i := 0; i < 200; i++ {
		now += 16
		f.v.Update(at(now))
		if !f.v.Rendering() {
			return now
		}
	}
	t.Fatal("render loop did not converge")
	return now
}

func TestNewDefaults(t *testing.T) {
	v := New(Options{})
	if v.IsOpen() {
		t.Error("new viewer is open")
	}
	if !v.NeedsCalibration() {
		t.Error("NeedsCalibration = false without a store, want true")
	}
	if v.InvertedScroll() {
		t.Error("InvertedScroll = true without a store")
	}
	if v.Target() != (Transform{Scale: 1}) {
		t.Errorf("Target = %+v, want identity", v.Target())
	}
	if v.Config().Zoom.MaxScale != 8 {
		t.Errorf("Config().Zoom.MaxScale = %v, want 8", v.Config().Zoom.MaxScale)
	}
}

func TestOpenFitsImage(t *testing.T) {
	f := newFixture(t, "false")
	v := f.v
	if !v.IsOpen() {
		t.Fatal("viewer not open")
	}
	if v.BaseScale() != 0.5 {
		t.Errorf("BaseScale = %v, want 0.5", v.BaseScale())
	}
	if v.Target() != v.Rendered() {
		t.Errorf("Target %+v != Rendered %+v after load", v.Target(), v.Rendered())
	}
	b := v.ImageBounds()
	if b != (Rect{X: 0, Y: 0, Width: 1000, Height: 800}) {
		t.Errorf("ImageBounds = %+v, want full viewport", b)
	}
	if v.ZoomPercent() != 50 {
		t.Errorf("ZoomPercent = %d, want 50", v.ZoomPercent())
	}
}

func TestSetViewportRefits(t *testing.T) {
	f := newFixture(t, "false")
	f.v.ZoomBy(2)
	f.v.SetViewport(500, 400)
	if f.v.BaseScale() != 0.25 {
		t.Errorf("BaseScale = %v, want 0.25", f.v.BaseScale())
	}
	want := Transform{Scale: 0.25}
	if f.v.Target() != want || f.v.Rendered() != want {
		t.Errorf("Target/Rendered = %+v/%+v, want %+v", f.v.Target(), f.v.Rendered(), want)
	}
	if f.v.Rendering() {
		t.Error("render loop still active after refit")
	}
}

func TestSetViewportIgnoresDegenerate(t *testing.T) {
	f := newFixture(t, "false")
	f.v.SetViewport(0, 300)
	if f.v.Viewport() != (Size{W: 1000, H: 800}) {
		t.Errorf("Viewport = %+v, want 1000x800", f.v.Viewport())
	}
}

func TestZoomByClamps(t *testing.T) {
	f := newFixture(t, "false")
	f.v.ZoomBy(2)
	if f.v.Target().Scale != 1 {
		t.Errorf("Scale = %v, want 1", f.v.Target().Scale)
	}
	f.v.ZoomBy(100)
	if f.v.Target().Scale != 8 {
		t.Errorf("Scale = %v, want 8", f.v.Target().Scale)
	}
	f.v.ZoomBy(0.0001)
	if f.v.Target().Scale != 0.2 {
		t.Errorf("Scale = %v, want 0.2", f.v.Target().Scale)
	}
	f.v.ResetZoom()
	if f.v.Target() != (Transform{Scale: 0.5}) {
		t.Errorf("Target after reset = %+v", f.v.Target())
	}
}

func TestChromeAutoHide(t *testing.T) {
	f := newFixture(t, "false")
	v := f.v
	if !v.ChromeVisible() {
		t.Fatal("chrome hidden right after open")
	}
	v.Update(at(1400))
	if !v.ChromeVisible() {
		t.Error("chrome hidden before the idle delay")
	}
	v.Update(at(1600))
	if v.ChromeVisible() {
		t.Error("chrome still visible after the idle delay")
	}
}

func TestChromeStaysWhileOverControls(t *testing.T) {
	f := newFixture(t, "false")
	v := f.v
	v.SetPointerOverChrome(true)
	v.Update(at(1600))
	if !v.ChromeVisible() {
		t.Fatal("chrome hidden while pointer over controls")
	}
	v.SetPointerOverChrome(false)
	v.Update(at(3200))
	if v.ChromeVisible() {
		t.Error("chrome still visible after leaving controls")
	}
}

func TestCloseCancelsTimersAndResets(t *testing.T) {
	f := newFixture(t, "false")
	v := f.v
	v.HandleWheel(WheelEvent{Time: at(10), DeltaY: 30})
	if v.sched.Pending() == 0 {
		t.Fatal("expected pending timers before close")
	}
	v.Close()
	if v.IsOpen() {
		t.Fatal("still open")
	}
	if n := v.sched.Pending(); n != 0 {
		t.Errorf("Pending = %d after close, want 0", n)
	}
	if v.Gesture() != GestureIdle {
		t.Errorf("Gesture = %v after close", v.Gesture())
	}
	if v.ChromeVisible() {
		t.Error("chrome visible after close")
	}
	if f.closed != 1 {
		t.Errorf("OnClose called %d times, want 1", f.closed)
	}
	if f.sink.count(EventClose) != 1 {
		t.Errorf("close events = %d, want 1", f.sink.count(EventClose))
	}
	v.Close()
	if f.closed != 1 {
		t.Error("second Close ran OnClose again")
	}
}

func TestImageMatrixMapsCorners(t *testing.T) {
	f := newFixture(t, "false")
	m := f.v.ImageMatrix()
	x, y := transformPoint(m, 0, 0)
	if !approxEqual(x, 0, 1e-9) || !approxEqual(y, 0, 1e-9) {
		t.Errorf("top-left = (%v, %v), want (0, 0)", x, y)
	}
	x, y = transformPoint(m, 2000, 1600)
	if !approxEqual(x, 1000, 1e-9) || !approxEqual(y, 800, 1e-9) {
		t.Errorf("bottom-right = (%v, %v), want (1000, 800)", x, y)
	}
	ix, iy := f.v.ScreenToImage(500, 400)
	if !approxEqual(ix, 1000, 1e-9) || !approxEqual(iy, 800, 1e-9) {
		t.Errorf("ScreenToImage(center) = (%v, %v), want (1000, 800)", ix, iy)
	}
}

func TestFullscreenWithoutPlatform(t *testing.T) {
	f := newFixture(t, "false")
	f.v.ToggleFullscreen()
	if f.v.Fullscreen() {
		t.Error("Fullscreen = true without a platform")
	}
	errs := f.v.Errors()
	if len(errs) != 1 || errs[0].Err != ErrFullscreenUnsupported {
		t.Errorf("Errors = %+v, want ErrFullscreenUnsupported", errs)
	}
}

func TestFullscreenWithPlatform(t *testing.T) {
	p := &fakePlatform{}
	v := New(Options{Platform: p, Store: NewMemoryStore()})
	sink := &recordingSink{}
	v.SetEventSink(sink)
	v.SetCollections([]Collection{{Items: []Item{{Src: "a"}}}})
	v.Update(at(0))
	if err := v.OpenAt(0, 0); err != nil {
		t.Fatal(err)
	}
	v.ToggleFullscreen()
	if !v.Fullscreen() || !p.on {
		t.Fatal("fullscreen not entered")
	}
	if e := sink.last(); e.Type != EventFullscreen || !e.Fullscreen {
		t.Errorf("last event = %+v, want fullscreen on", e)
	}
	v.Close()
	if p.on {
		t.Error("Close left the platform fullscreen")
	}
}
