package ebitenview

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Screenshot queues a labeled capture of the next drawn frame. The PNG lands
// in RunConfig.ScreenshotDir. Call it from the game goroutine.
func (g *Game) Screenshot(label string) {
	g.shots = append(g.shots, label)
}

// flushScreenshots writes every queued capture of screen.
func (g *Game) flushScreenshots(screen *ebiten.Image) {
	if len(g.shots) == 0 {
		return
	}
	defer func() { g.shots = g.shots[:0] }()

	dir := g.cfg.ScreenshotDir
	if dir == "" {
		dir = "screenshots"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		g.logger.Error("screenshot directory", "dir", dir, "error", err)
		return
	}

	img := readScreen(screen)
	stamp := g.now().Format("20060102_150405")
	for _, label := range g.shots {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := writePNG(path, img); err != nil {
			g.logger.Error("screenshot", "error", err)
			continue
		}
		g.logger.Info("screenshot saved", "path", path)
	}
}

// readScreen copies the premultiplied framebuffer into straight-alpha NRGBA.
func readScreen(screen *ebiten.Image) *image.NRGBA {
	b := screen.Bounds()
	pixels := make([]byte, 4*b.Dx()*b.Dy())
	screen.ReadPixels(pixels)
	img := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	unpremultiply(img.Pix, pixels)
	return img
}

func unpremultiply(dst, src []byte) {
	for i := 0; i+3 < len(src); i += 4 {
		r, g, b, a := src[i], src[i+1], src[i+2], src[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		dst[i], dst[i+1], dst[i+2], dst[i+3] = r, g, b, a
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel keeps letters, digits, '-' and '.', replacing everything
// else with '_'. An empty label becomes "frame".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "frame"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}

// screenshotLabel names an automatic capture after the visible item.
func screenshotLabel(collection, item int, at time.Time) string {
	return fmt.Sprintf("c%d-i%d-%03d", collection, item, at.Nanosecond()/int(time.Millisecond))
}
