package lcdgfx

import (
	"fmt"
	"image"

	"periph.io/x/conn/v3/display"

	"github.com/flavioheleno/lcdgfx/fps"
	"github.com/flavioheleno/lcdgfx/pixbuf"
	"github.com/flavioheleno/lcdgfx/shape"
)

// Opts is the configuration of a Display.
type Opts struct {
	W, H        int          // Framebuffer size (default: bounds of the output)
	Depth       pixbuf.Depth // Color depth (default: RGB565)
	Color       uint32       // 24-bit draw color
	Background  uint32       // 24-bit background color
	FPSInterval uint32       // Milliseconds between rate updates (default: 1000)
	Clock       fps.Clock    // Tick source (default: fps.SystemClock())
}

// Display owns a framebuffer, the object pool drawing into it and a frame
// rate counter, and commits frames to a display.Drawer.
type Display struct {
	Frame *pixbuf.Frame
	Pool  *shape.Pool
	FPS   *fps.Counter

	out display.Drawer
}

// New returns a Display committing to out. out may be nil, in which case
// Commit does nothing.
func New(out display.Drawer, opts *Opts) (*Display, error) {
	var o Opts
	if opts != nil {
		o = *opts
	}
	if o.Depth == 0 {
		o.Depth = pixbuf.RGB565
	}
	if !o.Depth.Valid() {
		return nil, fmt.Errorf("lcdgfx: invalid depth %s", o.Depth)
	}
	if out != nil {
		sz := out.Bounds().Size()
		if o.W == 0 && o.H == 0 {
			o.W, o.H = sz.X, sz.Y
		}
		if sz != image.Pt(o.W, o.H) {
			return nil, fmt.Errorf("lcdgfx: framebuffer %dx%d does not match %s bounds %v", o.W, o.H, out, out.Bounds())
		}
	}
	if o.W <= 0 || o.H <= 0 {
		return nil, fmt.Errorf("lcdgfx: invalid size %dx%d", o.W, o.H)
	}
	if o.FPSInterval == 0 {
		o.FPSInterval = 1000
	}

	d := &Display{
		Frame: pixbuf.New(o.Depth, o.W, o.H),
		Pool:  shape.NewPool(o.Depth.Encode(o.Color), o.Depth.Encode(o.Background)),
		FPS:   fps.NewCounter(o.Clock, o.FPSInterval),
		out:   out,
	}
	d.Clear()
	return d, nil
}

// Encode converts a 24-bit color to the framebuffer encoding.
func (d *Display) Encode(rgb uint32) pixbuf.Color {
	return d.Frame.Depth.Encode(rgb)
}

// Colors returns the draw and background colors.
func (d *Display) Colors() (fg, bg pixbuf.Color) {
	return d.Pool.Foreground, d.Pool.Background
}

// SetColors changes the draw color of new objects and the background. The
// framebuffer is not redrawn.
func (d *Display) SetColors(fg, bg uint32) {
	d.Pool.Foreground = d.Encode(fg)
	d.Pool.Background = d.Encode(bg)
}

// Clear fills the framebuffer with the background color. Objects count as
// not drawn until they are drawn again.
func (d *Display) Clear() {
	d.Frame.Fill(d.Pool.Background)
	d.Pool.Invalidate()
}

// UpdateFrame clears the framebuffer and redraws every visible object.
func (d *Display) UpdateFrame() {
	d.Pool.Composite(d.Frame)
}

// Commit sends the framebuffer to the output.
func (d *Display) Commit() error {
	if d.out == nil {
		return nil
	}
	if err := d.out.Draw(d.Frame.Bounds(), d.Frame, image.Point{}); err != nil {
		return fmt.Errorf("lcdgfx: commit: %w", err)
	}
	return nil
}

// Halt halts the output, if any.
func (d *Display) Halt() error {
	if d.out == nil {
		return nil
	}
	return d.out.Halt()
}

// String returns a string representation of the display.
func (d *Display) String() string {
	return fmt.Sprintf("lcdgfx.Display{%dx%d, %s, %d objects}", d.Frame.Width(), d.Frame.Height(), d.Frame.Depth, d.Pool.Len())
}
