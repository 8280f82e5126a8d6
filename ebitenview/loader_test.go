package ebitenview

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"
	"time"

	"github.com/phanxgames/spotlight"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodeImage(t *testing.T) {
	img, err := decodeImage(bytes.NewReader(pngBytes(t, 3, 2)))
	if err != nil {
		t.Fatalf("decodeImage: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("bounds = %v", b)
	}
	if _, err := decodeImage(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("garbage decoded")
	}
}

func TestLoaderRun(t *testing.T) {
	data := pngBytes(t, 4, 4)
	missing := errors.New("missing")
	l := newLoader(func(src string) (io.ReadCloser, error) {
		if src == "ok.png" {
			return io.NopCloser(bytes.NewReader(data)), nil
		}
		return nil, missing
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.run(ctx)

	wait := func() loadResult {
		t.Helper()
		deadline := time.After(2 * time.Second)
		for {
			if res, ok := l.poll(); ok {
				return res
			}
			select {
			case <-deadline:
				t.Fatal("timed out waiting for the loader")
			case <-time.After(time.Millisecond):
			}
		}
	}

	l.request(spotlight.LoadRequest{Seq: 1, Item: spotlight.Item{Src: "ok.png"}})
	res := wait()
	if res.err != nil || res.seq != 1 || res.img.Bounds().Dx() != 4 {
		t.Errorf("result = %+v", res)
	}

	l.request(spotlight.LoadRequest{Seq: 2, Item: spotlight.Item{Src: "gone.png"}})
	res = wait()
	if res.seq != 2 || !errors.Is(res.err, missing) {
		t.Errorf("result = %+v, want seq 2 with the open error", res)
	}
}

func TestLoaderRequestReplacesQueued(t *testing.T) {
	l := newLoader(nil)
	l.request(spotlight.LoadRequest{Seq: 1})
	l.request(spotlight.LoadRequest{Seq: 2})
	if got := <-l.jobs; got.Seq != 2 {
		t.Errorf("queued seq = %d, want 2", got.Seq)
	}
}

func TestLoaderPollDropsSuperseded(t *testing.T) {
	l := newLoader(nil)
	l.request(spotlight.LoadRequest{Seq: 1, Item: spotlight.Item{Src: "a.png"}})
	l.request(spotlight.LoadRequest{Seq: 2, Item: spotlight.Item{Src: "b.png"}})

	l.results <- loadResult{seq: 1, src: "a.png"}
	l.results <- loadResult{seq: 2, src: "b.png"}
	res, ok := l.poll()
	if !ok || res.seq != 2 {
		t.Fatalf("poll = %+v, %v; want seq 2", res, ok)
	}

	l.results <- loadResult{seq: 1, src: "a.png"}
	if res, ok := l.poll(); ok {
		t.Errorf("poll returned stale result %+v", res)
	}
}
