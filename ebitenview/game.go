// Package ebitenview runs a spotlight.Viewer in an Ebitengine window. It
// polls devices into viewer input events, decodes images in the background
// and draws the viewer state every frame.
package ebitenview

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/spotlight"
)

// RunConfig configures the window and the host side of the viewer.
type RunConfig struct {
	Title         string
	Width, Height int

	// PixelsPerLine scales fractional wheel offsets to pixels. 0 means 40.
	PixelsPerLine float64
	// ExitOnClose ends the game loop when the viewer closes.
	ExitOnClose bool
	// DebugOverlay starts with the stats panel shown. F3 toggles it.
	DebugOverlay bool
	// ScreenshotDir receives F12 captures. Empty means "screenshots".
	ScreenshotDir string

	Logger *slog.Logger
	// Open reads an item source. nil opens local files.
	Open func(src string) (io.ReadCloser, error)
	// Now is the frame clock. nil means time.Now.
	Now func() time.Time
	// BeforeUpdate runs on the game goroutine at the start of each tick,
	// before device input is dispatched.
	BeforeUpdate func(v *spotlight.Viewer)
}

// Game implements ebiten.Game around a viewer.
type Game struct {
	viewer *spotlight.Viewer
	cfg    RunConfig
	logger *slog.Logger
	ctx    context.Context

	poller  *poller
	loader  *loader
	overlay overlay

	img    *ebiten.Image
	chrome *ebiten.Image

	width, height int
	lastTick      time.Time
	shots         []string
}

// NewGame wires v to Ebitengine input and a background loader. The viewer's
// OnLoad hook is taken over; a previous hook still runs.
func NewGame(v *spotlight.Viewer, cfg RunConfig) *Game {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	g := &Game{
		viewer: v,
		cfg:    cfg,
		logger: logger,
		ctx:    context.Background(),
		poller: newPoller(cfg.PixelsPerLine),
		loader: newLoader(cfg.Open),
	}
	g.overlay.enabled = cfg.DebugOverlay || v.Config().UI.DebugOverlay

	prev := v.OnLoad
	v.OnLoad = func(req spotlight.LoadRequest) {
		if prev != nil {
			prev(req)
		}
		g.logger.Debug("load requested", "seq", req.Seq, "src", req.Item.Src)
		g.loader.request(req)
	}
	return g
}

func (g *Game) now() time.Time {
	if g.cfg.Now != nil {
		return g.cfg.Now()
	}
	return time.Now()
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if err := g.ctx.Err(); err != nil {
		return ebiten.Termination
	}
	now := g.now()
	v := g.viewer

	if g.cfg.BeforeUpdate != nil {
		g.cfg.BeforeUpdate(v)
	}
	g.receiveImages()

	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.overlay.toggle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		c, i := v.Position()
		g.Screenshot(screenshotLabel(c, i, now))
	}

	mx, my := ebiten.CursorPosition()
	v.SetPointerOverChrome(v.ChromeVisible() && float64(my) < chromeBarHeight && mx >= 0)
	for _, e := range g.poller.poll(now) {
		v.Dispatch(e)
	}
	v.Update(now)

	dt := 1.0 / 60
	if !g.lastTick.IsZero() {
		dt = now.Sub(g.lastTick).Seconds()
	}
	g.lastTick = now
	g.overlay.update(dt, v)

	if v.IsOpen() {
		if v.Cursor() == spotlight.CursorGrab {
			ebiten.SetCursorShape(ebiten.CursorShapeMove)
		} else {
			ebiten.SetCursorShape(ebiten.CursorShapePointer)
		}
	} else {
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
		if g.cfg.ExitOnClose {
			return ebiten.Termination
		}
	}
	return nil
}

// receiveImages turns finished decodes into textures and reports them.
func (g *Game) receiveImages() {
	for {
		res, ok := g.loader.poll()
		if !ok {
			return
		}
		if res.err != nil {
			g.logger.Warn("image load failed", "src", res.src, "error", res.err)
			g.viewer.ImageFailed(res.seq, res.err)
			continue
		}
		if g.img != nil {
			g.img.Deallocate()
		}
		g.img = ebiten.NewImageFromImage(res.img)
		b := res.img.Bounds()
		g.viewer.ImageLoaded(res.seq, float64(b.Dx()), float64(b.Dy()))
	}
}

// Layout implements ebiten.Game. The window size is the viewport.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.viewer.SetViewport(float64(outsideWidth), float64(outsideHeight))
		if g.chrome != nil {
			g.chrome.Deallocate()
			g.chrome = nil
		}
	}
	return outsideWidth, outsideHeight
}

// Run opens a window for v and blocks until ctx is done, the window closes,
// or the viewer closes with ExitOnClose set.
func Run(ctx context.Context, v *spotlight.Viewer, cfg RunConfig) error {
	return NewGame(v, cfg).Run(ctx)
}

// Run opens the window and blocks like the package-level Run. Open the
// viewer after NewGame so the first item goes through the loader.
func (g *Game) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g.ctx = ctx
	go g.loader.run(ctx)

	title := g.cfg.Title
	if title == "" {
		title = "spotlight"
	}
	w, h := g.cfg.Width, g.cfg.Height
	if w <= 0 || h <= 0 {
		w, h = 1280, 800
	}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(g)
}

// WindowPlatform gives the viewer Ebitengine's fullscreen control.
type WindowPlatform struct{}

// SetFullscreen implements spotlight.Platform.
func (WindowPlatform) SetFullscreen(on bool) error {
	ebiten.SetFullscreen(on)
	return nil
}

// IsFullscreen implements spotlight.Platform.
func (WindowPlatform) IsFullscreen() bool { return ebiten.IsFullscreen() }
