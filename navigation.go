package spotlight

import (
	"fmt"
	"strings"
)

// Item is one navigable image.
type Item struct {
	Src     string
	Caption string
}

// Collection is an ordered group of items opened together.
type Collection struct {
	ID    string
	Title string
	Items []Item
}

// LoadRequest asks the image loader for an item. Seq identifies the request;
// report the outcome with ImageLoaded or ImageFailed using the same Seq.
type LoadRequest struct {
	Seq             uint64
	CollectionIndex int
	ItemIndex       int
	Item            Item
	SlideDir        int // +1 from next, -1 from prev, 0 on open
}

const failedCaption = "Failed to load image"

// SetCollections replaces the navigable collections. An open viewer is closed
// if its collection no longer exists.
func (v *Viewer) SetCollections(cs []Collection) {
	v.collections = cs
	if v.open && (v.collection >= len(cs) || len(cs[v.collection].Items) == 0) {
		v.Close()
	}
}

// Collections returns the navigable collections.
func (v *Viewer) Collections() []Collection { return v.collections }

// OpenAt opens the viewer on an item.
func (v *Viewer) OpenAt(collection, item int) error {
	if collection < 0 || collection >= len(v.collections) {
		return fmt.Errorf("open collection %d: %w", collection, ErrNoCollection)
	}
	n := len(v.collections[collection].Items)
	if item < 0 || item >= n {
		return fmt.Errorf("open item %d of %d: %w", item, n, ErrItemOutOfRange)
	}
	v.open = true
	v.collection = collection
	v.item = item
	v.noteActivity()
	v.checkCalibration()
	v.logger.Info("viewer opened", "collection", collection, "item", item)
	v.emit(Event{Type: EventOpen, CollectionIndex: collection, ItemIndex: item})
	v.loadItem()
	return nil
}

// checkCalibration starts the measurement at once if a trackpad was already
// seen, otherwise waits for one.
func (v *Viewer) checkCalibration() {
	if !v.calib.needed || v.calib.active() {
		return
	}
	if v.classifier.SeenTrackpad() {
		v.beginCalibration(v.sched.Now())
		return
	}
	v.calib.arm()
}

// Next shows the following item, wrapping to the first.
func (v *Viewer) Next() { v.step(1) }

// Prev shows the preceding item, wrapping to the last.
func (v *Viewer) Prev() { v.step(-1) }

func (v *Viewer) step(dir int) {
	if !v.open {
		return
	}
	n := len(v.collections[v.collection].Items)
	if n == 0 {
		return
	}
	v.item = wrapIndex(v.item+dir, n)
	v.pendingDir = dir
	v.noteActivity()
	v.emit(Event{Type: EventNavigate, CollectionIndex: v.collection, ItemIndex: v.item, Direction: dir})
	v.loadItem()
}

func wrapIndex(i, n int) int {
	return (i%n + n) % n
}

// loadItem resets the geometry for the active item and asks for its image.
func (v *Viewer) loadItem() {
	c := v.collections[v.collection]
	it := c.Items[v.item]

	v.loadDir = v.pendingDir
	v.pendingDir = 0
	v.resetRenderState()

	v.counter = fmt.Sprintf("%d / %d", v.item+1, len(c.Items))
	v.setCaption(it.Caption)
	v.announce = fmt.Sprintf("Image %d of %d", v.item+1, len(c.Items))
	if v.caption != "" {
		v.announce += ": " + v.caption
	}

	v.loadSeq++
	req := LoadRequest{
		Seq:             v.loadSeq,
		CollectionIndex: v.collection,
		ItemIndex:       v.item,
		Item:            it,
		SlideDir:        v.loadDir,
	}
	v.emit(Event{Type: EventLoad, CollectionIndex: v.collection, ItemIndex: v.item, Direction: v.loadDir})
	if v.OnLoad != nil {
		v.OnLoad(req)
	}
}

func (v *Viewer) resetRenderState() {
	v.target = Transform{Scale: 1}
	v.rendered = v.target
	v.base = 1
	v.img = Size{}
	v.imageReady = false
	v.render.active = false
	v.fadeIntent = false
	v.entry.Hide()
}

func (v *Viewer) setCaption(text string) {
	v.caption = strings.TrimSpace(text)
}

// ImageLoaded reports the intrinsic size of the image for request seq. Stale
// or degenerate reports are ignored.
func (v *Viewer) ImageLoaded(seq uint64, w, h float64) {
	if !v.open || seq != v.loadSeq || w <= 0 || h <= 0 {
		return
	}
	v.img = Size{W: w, H: h}
	v.imageReady = true
	v.fit()
	v.entry.Play(v.loadDir)
}

// ImageFailed reports that request seq could not be loaded.
func (v *Viewer) ImageFailed(seq uint64, err error) {
	if seq != v.loadSeq {
		return
	}
	v.setCaption(failedCaption)
	v.entry.Play(0)
	v.reportError("image.load", err)
}

// Position returns the active collection and item indices.
func (v *Viewer) Position() (collection, item int) { return v.collection, v.item }

// Counter returns the "i / n" label.
func (v *Viewer) Counter() string { return v.counter }

// Caption returns the trimmed caption; empty means the caption is hidden.
func (v *Viewer) Caption() string { return v.caption }

// Announcement returns the live-region text for the active item.
func (v *Viewer) Announcement() string { return v.announce }
