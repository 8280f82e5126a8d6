package spotlight

import (
	"errors"
	"testing"
)

func TestOpenAtValidates(t *testing.T) {
	v := New(Options{})
	v.SetCollections([]Collection{{Items: []Item{{Src: "a"}}}})
	if err := v.OpenAt(1, 0); !errors.Is(err, ErrNoCollection) {
		t.Errorf("OpenAt(1, 0) = %v, want ErrNoCollection", err)
	}
	if err := v.OpenAt(0, 3); !errors.Is(err, ErrItemOutOfRange) {
		t.Errorf("OpenAt(0, 3) = %v, want ErrItemOutOfRange", err)
	}
	if err := v.OpenAt(0, -1); !errors.Is(err, ErrItemOutOfRange) {
		t.Errorf("OpenAt(0, -1) = %v, want ErrItemOutOfRange", err)
	}
	if v.IsOpen() {
		t.Error("failed OpenAt opened the viewer")
	}
}

func TestOpenLabels(t *testing.T) {
	f := newFixture(t, "false")
	v := f.v
	if v.Counter() != "1 / 3" {
		t.Errorf("Counter = %q", v.Counter())
	}
	if v.Caption() != "First" {
		t.Errorf("Caption = %q, want trimmed", v.Caption())
	}
	if v.Announcement() != "Image 1 of 3: First" {
		t.Errorf("Announcement = %q", v.Announcement())
	}
	v.Next()
	if v.Caption() != "" {
		t.Errorf("Caption = %q for an item without one", v.Caption())
	}
	if v.Announcement() != "Image 2 of 3" {
		t.Errorf("Announcement = %q", v.Announcement())
	}
}

func TestOpenEmitsEvents(t *testing.T) {
	f := newFixture(t, "false")
	if len(f.sink.events) < 2 {
		t.Fatalf("events = %+v", f.sink.events)
	}
	if e := f.sink.events[0]; e.Type != EventOpen || e.ItemIndex != 0 || !e.Time.Equal(at(0)) {
		t.Errorf("first event = %+v, want open at item 0", e)
	}
	if e := f.sink.events[1]; e.Type != EventLoad || e.Direction != 0 {
		t.Errorf("second event = %+v, want load", e)
	}
	if len(f.loads) != 1 || f.loads[0].Item.Src != "one.jpg" || f.loads[0].SlideDir != 0 {
		t.Errorf("loads = %+v", f.loads)
	}
}

func TestNextPrevWrap(t *testing.T) {
	f := newFixture(t, "false")
	v := f.v
	v.Prev()
	if _, item := v.Position(); item != 2 {
		t.Errorf("Prev from first = %d, want 2", item)
	}
	v.Next()
	if _, item := v.Position(); item != 0 {
		t.Errorf("Next from last = %d, want 0", item)
	}
	if f.sink.count(EventNavigate) != 2 {
		t.Errorf("navigate events = %d, want 2", f.sink.count(EventNavigate))
	}
	dirs := []int{f.loads[1].SlideDir, f.loads[2].SlideDir}
	if dirs[0] != -1 || dirs[1] != 1 {
		t.Errorf("slide dirs = %v, want [-1 1]", dirs)
	}
}

func TestNavigateResetsGeometry(t *testing.T) {
	f := newFixture(t, "false")
	v := f.v
	v.ZoomBy(2)
	v.Next()
	if v.Target() != (Transform{Scale: 1}) || v.Rendered() != v.Target() {
		t.Errorf("Target/Rendered = %+v/%+v after navigation", v.Target(), v.Rendered())
	}
	if v.ImageSize() != (Size{}) {
		t.Errorf("ImageSize = %+v before the new image loads", v.ImageSize())
	}
	if v.Entry().Alpha != 0 {
		t.Errorf("Entry alpha = %v before load, want hidden", v.Entry().Alpha)
	}
	f.load()
	if v.BaseScale() != 0.5 {
		t.Errorf("BaseScale = %v after load", v.BaseScale())
	}
	if v.Entry().OffsetX != 60 {
		t.Errorf("Entry offset = %v, want slide from +60", v.Entry().OffsetX)
	}
}

func TestNavigateWhileClosed(t *testing.T) {
	f := newFixture(t, "false")
	f.v.Close()
	n := len(f.loads)
	f.v.Next()
	f.v.Prev()
	if len(f.loads) != n {
		t.Error("navigation while closed requested a load")
	}
}

func TestStaleImageLoadIgnored(t *testing.T) {
	f := newFixture(t, "false")
	v := f.v
	v.Next()
	stale := f.loads[len(f.loads)-1].Seq
	v.Next()
	v.ImageLoaded(stale, 300, 300)
	if v.ImageSize() != (Size{}) {
		t.Errorf("stale load applied: %+v", v.ImageSize())
	}
	f.load()
	if v.ImageSize() != (Size{W: 2000, H: 1600}) {
		t.Errorf("current load not applied: %+v", v.ImageSize())
	}
}

func TestImageFailed(t *testing.T) {
	f := newFixture(t, "false")
	v := f.v
	v.Next()
	seq := f.loads[len(f.loads)-1].Seq
	v.ImageFailed(seq, errors.New("404"))
	if v.Caption() != "Failed to load image" {
		t.Errorf("Caption = %q", v.Caption())
	}
	if v.Entry().Alpha != 1 {
		t.Errorf("Entry alpha = %v, want visible", v.Entry().Alpha)
	}
	errs := v.Errors()
	if len(errs) != 1 || errs[0].Op != "image.load" {
		t.Errorf("Errors = %+v", errs)
	}
	v.ClearErrors()
	if len(v.Errors()) != 0 {
		t.Error("ClearErrors kept entries")
	}
}

func TestSetCollectionsClosesRemoved(t *testing.T) {
	f := newFixture(t, "false")
	f.v.SetCollections(nil)
	if f.v.IsOpen() {
		t.Error("viewer open on a removed collection")
	}
}

func TestWrapIndex(t *testing.T) {
	tests := []struct{ i, n, want int }{
		{0, 3, 0}, {3, 3, 0}, {-1, 3, 2}, {-4, 3, 2}, {7, 3, 1},
	}
	for _, tt := range tests {
		if got := wrapIndex(tt.i, tt.n); got != tt.want {
			t.Errorf("wrapIndex(%d, %d) = %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}
