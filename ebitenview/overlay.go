package ebitenview

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/spotlight"
)

const overlayRefresh = 0.5 // seconds between text refreshes

// overlay is a debug panel with frame rates and gesture state, redrawn
// about twice a second.
type overlay struct {
	enabled bool
	img     *ebiten.Image
	since   float64
	text    string
}

func (o *overlay) toggle() {
	o.enabled = !o.enabled
	o.since = overlayRefresh
}

func (o *overlay) update(dt float64, v *spotlight.Viewer) {
	if !o.enabled {
		return
	}
	o.since += dt
	if o.since < overlayRefresh {
		return
	}
	o.since = 0
	o.text = overlayText(v, ebiten.ActualFPS(), ebiten.ActualTPS())

	lines := strings.Count(o.text, "\n") + 1
	w, h := 6*longestLine(o.text)+8, 16*lines+4
	if o.img == nil || o.img.Bounds().Dx() != w || o.img.Bounds().Dy() != h {
		if o.img != nil {
			o.img.Deallocate()
		}
		o.img = ebiten.NewImage(w, h)
	}
	o.img.Fill(color.RGBA{0, 0, 0, 160})
	ebitenutil.DebugPrintAt(o.img, o.text, 4, 2)
}

func (o *overlay) draw(screen *ebiten.Image, x, y float64) {
	if !o.enabled || o.img == nil {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(x, y)
	screen.DrawImage(o.img, &op)
}

func overlayText(v *spotlight.Viewer, fps, tps float64) string {
	t, r := v.Target(), v.Rendered()
	var b strings.Builder
	fmt.Fprintf(&b, "FPS: %.1f  TPS: %.1f\n", fps, tps)
	fmt.Fprintf(&b, "gesture: %s  input: %s\n", v.Gesture(), v.Modality())
	fmt.Fprintf(&b, "target: %.3f %.1f,%.1f\n", t.Scale, t.TranslateX, t.TranslateY)
	fmt.Fprintf(&b, "render: %.3f %.1f,%.1f\n", r.Scale, r.TranslateX, r.TranslateY)
	fmt.Fprintf(&b, "base: %.3f  natural: %v  errors: %d", v.BaseScale(), v.InvertedScroll(), len(v.Errors()))
	return b.String()
}

func longestLine(s string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		n = max(n, len(line))
	}
	return n
}
