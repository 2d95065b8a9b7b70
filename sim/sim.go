// Package sim is an off-hardware display that renders committed frames to
// PNG files, upscaled with an optional pixel grid.
package sim

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
	"periph.io/x/conn/v3/display"

	"github.com/flavioheleno/lcdgfx/pixbuf"
)

// Opts is the configuration of a Panel.
type Opts struct {
	W, H   int          // Panel size in pixels
	Depth  pixbuf.Depth // Color depth (default: RGB565)
	Scale  int          // Output pixels per panel pixel (default: 3)
	Grid   bool         // Draw pixel boundaries, needs Scale ≥ 3
	Dir    string       // Directory for one PNG per Draw, empty to disable
	Prefix string       // File name prefix (default: "frame")
}

// Panel is a display.Drawer keeping the committed image in memory.
type Panel struct {
	opts   Opts
	fb     *pixbuf.Frame
	frames int
	halted bool
}

var _ display.Drawer = (*Panel)(nil)

// New returns a blank Panel. When opts.Dir is set it is created if needed.
func New(opts *Opts) (*Panel, error) {
	if opts == nil {
		return nil, errors.New("sim: options are required")
	}
	o := *opts
	if o.W <= 0 || o.H <= 0 {
		return nil, fmt.Errorf("sim: invalid size %dx%d", o.W, o.H)
	}
	if o.Depth == 0 {
		o.Depth = pixbuf.RGB565
	}
	if !o.Depth.Valid() {
		return nil, fmt.Errorf("sim: invalid depth %s", o.Depth)
	}
	if o.Scale == 0 {
		o.Scale = 3
	}
	if o.Scale < 1 {
		return nil, fmt.Errorf("sim: invalid scale %d", o.Scale)
	}
	if o.Prefix == "" {
		o.Prefix = "frame"
	}
	if o.Dir != "" {
		if err := os.MkdirAll(o.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("sim: %w", err)
		}
	}
	return &Panel{opts: o, fb: pixbuf.New(o.Depth, o.W, o.H)}, nil
}

// String returns a string representation of the panel.
func (p *Panel) String() string {
	return fmt.Sprintf("sim.Panel{%dx%d, %s, x%d}", p.opts.W, p.opts.H, p.opts.Depth, p.opts.Scale)
}

// Halt stops accepting frames.
func (p *Panel) Halt() error {
	p.halted = true
	return nil
}

// ColorModel returns the color model of the panel depth.
func (p *Panel) ColorModel() color.Model {
	return p.fb.ColorModel()
}

// Bounds returns the panel bounds.
func (p *Panel) Bounds() image.Rectangle {
	return p.fb.Bounds()
}

// Frames returns the number of frames drawn so far.
func (p *Panel) Frames() int {
	return p.frames
}

// Draw copies src into the panel and, when a directory is configured, writes
// the result as the next numbered PNG.
func (p *Panel) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if p.halted {
		return errors.New("sim: halted")
	}
	dst = dst.Intersect(p.fb.Bounds())
	if dst.Empty() {
		return nil
	}
	draw.Draw(p.fb, dst, src, sp, draw.Src)
	p.frames++
	if p.opts.Dir == "" {
		return nil
	}
	name := fmt.Sprintf("%s-%05d.png", p.opts.Prefix, p.frames)
	return p.SavePNG(filepath.Join(p.opts.Dir, name))
}

// Snapshot renders the current panel content, upscaled.
func (p *Panel) Snapshot() image.Image {
	return p.render().Image()
}

// SavePNG writes the current panel content, upscaled, to path.
func (p *Panel) SavePNG(path string) error {
	if err := p.render().SavePNG(path); err != nil {
		return fmt.Errorf("sim: %w", err)
	}
	return nil
}

func (p *Panel) render() *gg.Context {
	s := p.opts.Scale
	w, h := p.opts.W*s, p.opts.H*s
	im := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.NearestNeighbor.Scale(im, im.Bounds(), p.fb, p.fb.Bounds(), xdraw.Src, nil)

	dc := gg.NewContextForRGBA(im)
	if p.opts.Grid && s >= 3 {
		dc.SetRGB255(32, 32, 32)
		dc.SetLineWidth(1)
		for x := 0; x <= p.opts.W; x++ {
			fx := float64(x*s) + 0.5
			dc.DrawLine(fx, 0, fx, float64(h))
		}
		for y := 0; y <= p.opts.H; y++ {
			fy := float64(y*s) + 0.5
			dc.DrawLine(0, fy, float64(w), fy)
		}
		dc.Stroke()
	}
	return dc
}
