//go:build !baremetal && cgo

package host

import (
	"context"
	"errors"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/sync/errgroup"

	"kcons/drivers/cga"
	"kcons/hal"
	"kcons/internal/buildinfo"
)

const (
	printerRows = 8
	blinkFrames = 16
)

// RunWindow opens a desktop window showing the text display above the
// printer output and forwards key presses as scan codes. COM1 stays on
// cfg.In and cfg.Out. It blocks until the window closes.
func RunWindow(newApp func(hal.HAL) func() error, cfg Config) error {
	cfg = cfg.withDefaults()

	raw, restore, err := rawTerminal(cfg.In)
	if err != nil {
		return err
	}
	defer restore()
	if raw {
		cfg.Out = crlfWriter{w: cfg.Out}
		cfg.Log = crlfWriter{w: cfg.Log}
	}

	font := defaultFont()
	printer := newPrinterPane(font, printerRows)
	s := newSession(cfg, newApp, printer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	input := make(chan []byte, 16)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return pumpInput(gctx, readInput(cfg.In), input)
	})

	game := &hostGame{
		ctx:     gctx,
		s:       s,
		input:   input,
		screen:  newTextScreen(font),
		printer: printer,
		cells:   make([]uint16, cga.Size),
	}
	w, h := game.Layout(0, 0)
	ebiten.SetWindowTitle("kcons (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(w*2, h*2)
	ebiten.SetTPS(cfg.Hz)

	runErr := ebiten.RunGame(game)
	cancel()
	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return runErr
}

type hostGame struct {
	ctx     context.Context
	s       *session
	input   <-chan []byte
	keys    hostKeyboard
	scratch []byte
	frame   int

	screen  *textScreen
	printer *printerPane
	cells   []uint16

	textImg  *ebiten.Image
	paper    *image.RGBA
	paperImg *ebiten.Image
}

func (g *hostGame) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}

drain:
	for {
		select {
		case p := <-g.input:
			g.s.m.SerialInput(p)
		default:
			break drain
		}
	}

	g.scratch = g.keys.poll(g.scratch[:0])
	if len(g.scratch) > 0 {
		g.s.m.TypeScanCodes(g.scratch...)
	}

	g.frame++
	return g.s.tick()
}

func (g *hostGame) Draw(dst *ebiten.Image) {
	text := g.screen.Image()
	if g.textImg == nil {
		g.textImg = ebiten.NewImage(text.Bounds().Dx(), text.Bounds().Dy())
		src := g.printer.d.img.Bounds()
		g.paper = image.NewRGBA(src)
		g.paperImg = ebiten.NewImage(src.Dx(), src.Dy())
		g.printer.dirty = true
	}

	cursor := g.s.m.Screen(g.cells)
	if g.screen.render(g.cells, cursor, g.frame/blinkFrames%2 == 0) {
		g.textImg.WritePixels(text.Pix)
	}
	if g.printer.dirty {
		g.printer.snapshot(g.paper)
		g.paperImg.WritePixels(g.paper.Pix)
	}

	dst.DrawImage(g.textImg, nil)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(0, float64(text.Bounds().Dy()))
	dst.DrawImage(g.paperImg, op)
}

func (g *hostGame) Layout(_, _ int) (int, int) {
	text := g.screen.Image().Bounds()
	paper := g.printer.d.img.Bounds()
	return text.Dx(), text.Dy() + paper.Dy()
}
