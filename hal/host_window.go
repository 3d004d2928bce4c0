//go:build !tinygo && cgo

package hal

import (
	"context"
	"image"
	"image/color"
	"sync"

	"epclock/internal/buildinfo"
	"epclock/mono"
	"epclock/refresh"

	"github.com/hajimehoshi/ebiten/v2"
)

var _ Sink = (*Window)(nil)

// flashTicks is how many window updates a full refresh shows inverted,
// imitating the panel's flash.
const flashTicks = 6

// WindowConfig sizes the simulator window.
type WindowConfig struct {
	Width, Height int
	// Scale enlarges the window by an integer factor. Defaults to 2.
	Scale int
}

// Window shows pushed frames in a desktop window. Frames are copied under
// a lock because ebiten draws from its own goroutine.
type Window struct {
	mu    sync.Mutex
	img   *image.RGBA
	flash int

	scale int
	tex   *ebiten.Image
}

// NewWindow allocates a blank paper-white window surface.
func NewWindow(cfg WindowConfig) *Window {
	if cfg.Scale <= 0 {
		cfg.Scale = 2
	}
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return &Window{img: img, scale: cfg.Scale}
}

// PushFrame implements app.Display.
func (w *Window) PushFrame(buf *mono.Buffer, mode refresh.Mode) error {
	paper := paperView(buf, false)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !paper.Bounds().Eq(w.img.Bounds()) {
		w.img = image.NewRGBA(paper.Bounds())
	}
	dst := w.img.Pix
	for i, v := range paper.Pix {
		j := i * 4
		dst[j+0] = v
		dst[j+1] = v
		dst[j+2] = v
		dst[j+3] = 0xff
	}
	if mode == refresh.Full {
		w.flash = flashTicks
	}
	return nil
}

// Close implements Sink.
func (w *Window) Close() error { return nil }

// RunWindow opens the window and runs fn alongside it. It blocks until fn
// returns or the window is closed, in which case fn's context is
// cancelled. ebiten requires this to be called from the main goroutine.
func RunWindow(ctx context.Context, w *Window, fn func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- fn(ctx) }()

	g := &windowGame{w: w, errc: errc}
	b := w.bounds()
	ebiten.SetWindowTitle("epclock (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(b.Dx()*w.scale, b.Dy()*w.scale)
	ebiten.SetTPS(30)
	if err := ebiten.RunGame(g); err != nil {
		return err
	}
	if g.finished {
		return g.err
	}
	cancel()
	return <-errc
}

func (w *Window) bounds() image.Rectangle {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.img.Bounds()
}

type windowGame struct {
	w    *Window
	errc <-chan error

	finished bool
	err      error
}

func (g *windowGame) Update() error {
	select {
	case err := <-g.errc:
		g.finished, g.err = true, err
		return ebiten.Termination
	default:
	}
	g.w.mu.Lock()
	if g.w.flash > 0 {
		g.w.flash--
	}
	g.w.mu.Unlock()
	return nil
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	w := g.w
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.flash > 0 {
		screen.Fill(color.Black)
		return
	}
	b := w.img.Bounds()
	if w.tex == nil || !w.tex.Bounds().Eq(b) {
		if w.tex != nil {
			w.tex.Deallocate()
		}
		w.tex = ebiten.NewImage(b.Dx(), b.Dy())
	}
	w.tex.WritePixels(w.img.Pix)
	screen.DrawImage(w.tex, nil)
}

func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	b := g.w.bounds()
	return b.Dx(), b.Dy()
}
