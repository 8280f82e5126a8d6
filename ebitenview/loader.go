package ebitenview

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/phanxgames/spotlight"
)

// loadResult is a decoded image or the error that stopped it.
type loadResult struct {
	seq uint64
	src string
	img image.Image
	err error
}

// loader decodes images off the game goroutine. Textures are created from the
// results on the game goroutine, which is the only one allowed to touch GPU
// state. request and poll belong to the game goroutine.
type loader struct {
	jobs    chan spotlight.LoadRequest
	results chan loadResult
	open    func(src string) (io.ReadCloser, error)
	latest  uint64
}

func newLoader(open func(src string) (io.ReadCloser, error)) *loader {
	if open == nil {
		open = openFile
	}
	return &loader{
		jobs:    make(chan spotlight.LoadRequest, 1),
		results: make(chan loadResult, 4),
		open:    open,
	}
}

func openFile(src string) (io.ReadCloser, error) {
	return os.Open(src)
}

// run decodes requests until ctx is done.
func (l *loader) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-l.jobs:
			img, err := l.decode(req.Item.Src)
			select {
			case l.results <- loadResult{seq: req.Seq, src: req.Item.Src, img: img, err: err}:
			case <-ctx.Done():
				return
			}
		}
	}
}

// request queues req, replacing a queued request the worker has not started.
func (l *loader) request(req spotlight.LoadRequest) {
	l.latest = req.Seq
	for {
		select {
		case l.jobs <- req:
			return
		default:
		}
		select {
		case <-l.jobs:
		default:
		}
	}
}

// poll returns a finished result for the latest request without blocking.
// Results for superseded requests are dropped before any texture is made.
func (l *loader) poll() (loadResult, bool) {
	for {
		select {
		case res := <-l.results:
			if res.seq != l.latest {
				continue
			}
			return res, true
		default:
			return loadResult{}, false
		}
	}
}

func (l *loader) decode(src string) (image.Image, error) {
	r, err := l.open(src)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", src, err)
	}
	defer r.Close()
	return decodeImage(r)
}

// decodeImage decodes any registered format: png, jpeg, gif, webp or bmp.
func decodeImage(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("decode image: empty bounds %v", b)
	}
	return img, nil
}
