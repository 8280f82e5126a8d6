package ebitenview

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/spotlight"
)

const (
	chromeBarHeight = 48
	glyphW, glyphH  = 6, 16 // ebitenutil debug font cell

	panelW, panelH = 360, 120
)

var (
	backdropColor = color.NRGBA{0, 0, 0, 235}
	barColor      = color.NRGBA{0, 0, 0, 140}
	panelColor    = color.NRGBA{30, 30, 34, 245}
	trackColor    = color.NRGBA{70, 70, 78, 255}
	fillColor     = color.NRGBA{90, 160, 255, 255}
)

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	v := g.viewer
	if v.IsOpen() {
		opacity := v.ChromeOpacity()
		w, h := float32(g.width), float32(g.height)
		bd := backdropColor
		bd.A = uint8(float64(bd.A) * opacity)
		vector.DrawFilledRect(screen, 0, 0, w, h, bd, false)

		g.drawImage(screen, opacity)
		if v.ChromeVisible() {
			g.drawChrome(screen, opacity)
		}
		if cv := v.Calibration(); cv.Visible {
			drawCalibration(screen, cv, w, h)
		}
	}
	g.overlay.draw(screen, 8, chromeBarHeight+8)
	g.flushScreenshots(screen)
}

func (g *Game) drawImage(screen *ebiten.Image, opacity float64) {
	v := g.viewer
	if g.img == nil || v.ImageSize() == (spotlight.Size{}) {
		return
	}
	alpha := v.Entry().Alpha * opacity
	if alpha <= 0 {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM = geoM(v.ImageMatrix())
	op.ColorScale.ScaleAlpha(float32(alpha))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(g.img, &op)
}

// geoM converts an affine matrix [a, b, c, d, tx, ty] to an ebiten.GeoM.
func geoM(m [6]float64) ebiten.GeoM {
	var geo ebiten.GeoM
	geo.SetElement(0, 0, m[0])
	geo.SetElement(1, 0, m[1])
	geo.SetElement(0, 1, m[2])
	geo.SetElement(1, 1, m[3])
	geo.SetElement(0, 2, m[4])
	geo.SetElement(1, 2, m[5])
	return geo
}

// drawChrome renders the top bar and caption offscreen, then composites them
// with the close-drag fade applied.
func (g *Game) drawChrome(screen *ebiten.Image, opacity float64) {
	if g.width <= 0 || g.height <= 0 {
		return
	}
	if g.chrome == nil {
		g.chrome = ebiten.NewImage(g.width, g.height)
	}
	c := g.chrome
	c.Clear()

	v := g.viewer
	w := float32(g.width)
	vector.DrawFilledRect(c, 0, 0, w, chromeBarHeight, barColor, false)
	ebitenutil.DebugPrintAt(c, v.Counter(), 16, (chromeBarHeight-glyphH)/2)

	zoom := fmt.Sprintf("%d%%", v.ZoomPercent())
	ebitenutil.DebugPrintAt(c, zoom, g.width/2-len(zoom)*glyphW/2, (chromeBarHeight-glyphH)/2)

	hint := "F fullscreen  Esc close"
	ebitenutil.DebugPrintAt(c, hint, g.width-16-len(hint)*glyphW, (chromeBarHeight-glyphH)/2)

	if caption := v.Caption(); caption != "" {
		cw := len(caption)*glyphW + 24
		x := (g.width - cw) / 2
		y := g.height - glyphH - 36
		vector.DrawFilledRect(c, float32(x), float32(y-6), float32(cw), glyphH+12, barColor, false)
		ebitenutil.DebugPrintAt(c, caption, x+12, y)
	}

	var op ebiten.DrawImageOptions
	op.ColorScale.ScaleAlpha(float32(opacity))
	screen.DrawImage(c, &op)
}

func drawCalibration(screen *ebiten.Image, cv spotlight.CalibrationView, w, h float32) {
	x, y := (w-panelW)/2, (h-panelH)/2
	vector.DrawFilledRect(screen, x, y, panelW, panelH, panelColor, false)
	vector.StrokeRect(screen, x, y, panelW, panelH, 1, trackColor, false)

	ebitenutil.DebugPrintAt(screen, cv.Title, int(x)+16, int(y)+12)
	ebitenutil.DebugPrintAt(screen, cv.Text, int(x)+16, int(y)+36)

	barX, barY, barW := x+16, y+panelH-36, float32(panelW-32)
	vector.DrawFilledRect(screen, barX, barY, barW, 8, trackColor, false)
	if p := float32(max(0, min(1, cv.Progress))); p > 0 {
		vector.DrawFilledRect(screen, barX, barY, barW*p, 8, fillColor, false)
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("step %d/2", cv.Step+1), int(barX), int(barY)+12)
}
