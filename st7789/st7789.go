package st7789

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/flavioheleno/lcdgfx/pixbuf"
)

// Controller RAM size.
const (
	ramWidth  = 240
	ramHeight = 320
)

// Commands used by the driver.
const (
	cmdSLPIN   = 0x10
	cmdSLPOUT  = 0x11
	cmdINVOFF  = 0x20
	cmdINVON   = 0x21
	cmdDISPOFF = 0x28
	cmdDISPON  = 0x29
	cmdCASET   = 0x2A
	cmdRASET   = 0x2B
	cmdRAMWR   = 0x2C
	cmdMADCTL  = 0x36
	cmdCOLMOD  = 0x3A
)

// sleep is replaced in tests.
var sleep = time.Sleep

// Orientation selects how the framebuffer maps onto the panel.
type Orientation uint8

const (
	// Normal is portrait, top to bottom and left to right.
	Normal Orientation = iota
	// Flipped is portrait mirrored on both axes.
	Flipped
	// Rotated is landscape; width and height are swapped.
	Rotated
	// RotatedFlipped is landscape mirrored on both axes.
	RotatedFlipped
)

var orientationNames = [...]string{"normal", "flipped", "rotated", "rotated-flipped"}

func (o Orientation) String() string {
	if int(o) < len(orientationNames) {
		return orientationNames[o]
	}
	return fmt.Sprintf("Orientation(%d)", uint8(o))
}

// ParseOrientation returns the Orientation named s.
func ParseOrientation(s string) (Orientation, error) {
	for i, n := range orientationNames {
		if n == s {
			return Orientation(i), nil
		}
	}
	return 0, fmt.Errorf("st7789: unknown orientation %q", s)
}

// madctl returns the memory access control value of o.
func (o Orientation) madctl() byte {
	switch o {
	case Flipped:
		return 0xC0
	case Rotated:
		return 0x70
	case RotatedFlipped:
		return 0xA0
	}
	return 0x00
}

// Opts is the configuration for the ST7789 display.
type Opts struct {
	// Panel dimensions in the Normal orientation
	W int // Width (default: 240, must be ≤240)
	H int // Height (default: 240, must be ≤320)

	Orientation Orientation

	RST gpio.PinIO  // Reset pin (optional)
	BL  gpio.PinOut // Backlight pin (optional)

	Hz physic.Frequency // SPI clock (default: 40MHz)
}

// Dev is the device handle for the ST7789 display.
type Dev struct {
	// Communication
	c     conn.Conn
	dc    gpio.PinOut
	rst   gpio.PinIO
	bl    gpio.PinOut
	maxTx int

	// Geometry
	w, h       int // Normal orientation
	rect       image.Rectangle
	orient     Orientation
	xOff, yOff int

	// Pixel buffers, RGB565 big endian
	buffer []byte        // What the panel shows
	next   *pixbuf.Frame // Lazily allocated for the slow path
	synced bool          // buffer matches the panel

	halted bool
}

var _ display.Drawer = (*Dev)(nil)

// NewSPI creates a new ST7789 device connected via SPI.
//
// The SPI port is configured in Mode0 with 8-bit words. The dc (data/command)
// pin must be provided. opts can be nil to use defaults (240x240, Normal).
func NewSPI(p spi.Port, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{}
	}
	o := *opts
	if o.W == 0 {
		o.W = ramWidth
	}
	if o.H == 0 {
		o.H = ramWidth
	}
	if o.Hz == 0 {
		o.Hz = 40 * physic.MegaHertz
	}
	if o.W < 0 || o.W > ramWidth {
		return nil, fmt.Errorf("st7789: width must be between 1 and %d", ramWidth)
	}
	if o.H < 0 || o.H > ramHeight {
		return nil, fmt.Errorf("st7789: height must be between 1 and %d", ramHeight)
	}
	if o.Orientation > RotatedFlipped {
		return nil, fmt.Errorf("st7789: invalid orientation %s", o.Orientation)
	}
	if dc == nil {
		return nil, errors.New("st7789: dc pin is required")
	}

	c, err := p.Connect(o.Hz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("st7789: %w", err)
	}

	d := &Dev{
		c:   c,
		dc:  dc,
		rst: o.RST,
		bl:  o.BL,
		w:   o.W,
		h:   o.H,
	}
	if l, ok := c.(conn.Limits); ok {
		d.maxTx = l.MaxTxSize()
	}
	if err := d.init(o.Orientation); err != nil {
		return nil, err
	}
	return d, nil
}

// init resets the controller and sends the power-on sequence.
func (d *Dev) init(orient Orientation) error {
	if d.rst != nil {
		if err := d.rst.Out(gpio.Low); err != nil {
			return fmt.Errorf("st7789: failed to pull RST low: %w", err)
		}
		sleep(10 * time.Millisecond)
		if err := d.rst.Out(gpio.High); err != nil {
			return fmt.Errorf("st7789: failed to pull RST high: %w", err)
		}
	}
	sleep(10 * time.Millisecond)

	seq := []struct {
		cmd  byte
		args []byte
	}{
		{cmdMADCTL, []byte{0x00}},
		{cmdCOLMOD, []byte{0x05}},                    // 16 bit
		{0xB2, []byte{0x0C, 0x0C, 0x00, 0x33, 0x33}}, // Porch
		{0xB7, []byte{0x35}},                         // Gate voltages
		{0xBB, []byte{0x19}},                         // VCOM
		{0xC0, []byte{0x2C}},                         // LCM control
		{0xC2, []byte{0x01}},                         // VDV and VRH from registers
		{0xC3, []byte{0x12}},                         // VRH
		{0xC4, []byte{0x20}},                         // VDV
		{0xC6, []byte{0x0F}},                         // 60Hz
		{0xD0, []byte{0xA4, 0xA1}},                   // Power control
		{0xE0, []byte{0xD0, 0x04, 0x0D, 0x11, 0x13, 0x2B, 0x3F, 0x54, 0x4C, 0x18, 0x0D, 0x0B, 0x1F, 0x23}},
		{0xE1, []byte{0xD0, 0x04, 0x0C, 0x11, 0x13, 0x2C, 0x3F, 0x44, 0x51, 0x2F, 0x1F, 0x1F, 0x20, 0x23}},
		{cmdINVON, nil}, // The panel is normally black
		{cmdSLPOUT, nil},
	}
	for _, s := range seq {
		if err := d.command(s.cmd, s.args...); err != nil {
			return err
		}
	}
	sleep(120 * time.Millisecond)
	if err := d.command(cmdDISPON); err != nil {
		return err
	}

	if err := d.SetOrientation(orient); err != nil {
		return err
	}
	if err := d.writeFullFrame(d.buffer); err != nil {
		return err
	}
	d.synced = true
	return d.SetBacklight(true)
}

// command sends cmd followed by its parameters.
func (d *Dev) command(cmd byte, args ...byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	if err := d.c.Tx([]byte{cmd}, nil); err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	return d.sendData(args)
}

// sendData sends data bytes, split to the connection's transfer limit.
func (d *Dev) sendData(data []byte) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	for len(data) > 0 {
		n := len(data)
		if d.maxTx > 0 && n > d.maxTx {
			n = d.maxTx
		}
		if err := d.c.Tx(data[:n], nil); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// writeRect writes RGB565 pixels to a rectangular region of the display.
func (d *Dev) writeRect(x, y, width, height int, pixels []byte) error {
	x0, x1 := x+d.xOff, x+width-1+d.xOff
	y0, y1 := y+d.yOff, y+height-1+d.yOff
	if err := d.command(cmdCASET, byte(x0>>8), byte(x0), byte(x1>>8), byte(x1)); err != nil {
		return err
	}
	if err := d.command(cmdRASET, byte(y0>>8), byte(y0), byte(y1>>8), byte(y1)); err != nil {
		return err
	}
	if err := d.command(cmdRAMWR); err != nil {
		return err
	}
	return d.sendData(pixels)
}

// writeFullFrame writes a whole frame to the display.
func (d *Dev) writeFullFrame(pixels []byte) error {
	return d.writeRect(0, 0, d.rect.Dx(), d.rect.Dy(), pixels)
}

// ColorModel returns the color model of the display.
func (d *Dev) ColorModel() color.Model {
	return pixbuf.RGB565.Model()
}

// Bounds returns the image bounds of the display in the current orientation.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Orientation returns the current orientation.
func (d *Dev) Orientation() Orientation {
	return d.orient
}

// SetOrientation changes the memory access order of the controller. Rotated
// orientations swap Bounds. The panel is fully rewritten on the next Draw.
func (d *Dev) SetOrientation(o Orientation) error {
	if d.halted {
		return errors.New("st7789: halted")
	}
	if o > RotatedFlipped {
		return fmt.Errorf("st7789: invalid orientation %s", o)
	}
	if err := d.command(cmdMADCTL, o.madctl()); err != nil {
		return err
	}

	d.orient = o
	d.xOff, d.yOff = 0, 0
	switch o {
	case Normal:
		d.rect = image.Rect(0, 0, d.w, d.h)
	case Flipped:
		d.rect = image.Rect(0, 0, d.w, d.h)
		d.yOff = ramHeight - d.h
	case Rotated:
		d.rect = image.Rect(0, 0, d.h, d.w)
	case RotatedFlipped:
		d.rect = image.Rect(0, 0, d.h, d.w)
		d.xOff = ramHeight - d.h
	}
	if len(d.buffer) != d.w*d.h*2 {
		d.buffer = make([]byte, d.w*d.h*2)
	}
	d.next = nil
	d.synced = false
	return nil
}

// Write writes raw RGB565 big endian pixel data to the display. The data
// must be exactly Dx() * Dy() * 2 bytes.
func (d *Dev) Write(pixels []byte) (int, error) {
	if d.halted {
		return 0, errors.New("st7789: halted")
	}
	if len(pixels) != len(d.buffer) {
		return 0, errors.New("st7789: invalid buffer size")
	}
	if err := d.writeFullFrame(pixels); err != nil {
		return 0, err
	}
	copy(d.buffer, pixels)
	if d.next != nil {
		copy(d.next.Pix, pixels)
	}
	d.synced = true
	return len(pixels), nil
}

// Draw draws an image onto the display with differential update
// optimization.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return errors.New("st7789: halted")
	}

	dst = dst.Intersect(d.rect)
	if dst.Empty() {
		return nil
	}

	// Fast path: a full-size RGB565 frame is already in wire format.
	if f, ok := src.(*pixbuf.Frame); ok && f.Depth == pixbuf.RGB565 {
		if dst == d.rect && sp == (image.Point{}) && f.Rect == d.rect {
			_, err := d.Write(f.Pix)
			return err
		}
	}

	if d.next == nil {
		d.next = pixbuf.New(pixbuf.RGB565, d.rect.Dx(), d.rect.Dy())
		copy(d.next.Pix, d.buffer)
	}
	draw.Draw(d.next, dst, src, sp, draw.Src)

	if !d.synced {
		_, err := d.Write(d.next.Pix)
		return err
	}

	r, changed := d.calculateDiff()
	if !changed {
		return nil
	}
	if err := d.writeRect(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), d.extractRegion(r)); err != nil {
		return err
	}
	copy(d.buffer, d.next.Pix)
	return nil
}

// calculateDiff returns the smallest rectangle containing every pixel that
// differs between the panel and the next frame.
func (d *Dev) calculateDiff() (image.Rectangle, bool) {
	width, height := d.rect.Dx(), d.rect.Dy()
	stride := width * 2
	minX, maxX := width, -1
	minY, maxY := height, -1

	for y := 0; y < height; y++ {
		row := y * stride
		cur, next := d.buffer[row:row+stride], d.next.Pix[row:row+stride]
		if bytes.Equal(cur, next) {
			continue
		}
		if y < minY {
			minY = y
		}
		maxY = y
		for x := 0; x < width; x++ {
			if cur[2*x] != next[2*x] || cur[2*x+1] != next[2*x+1] {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
			}
		}
	}
	if maxY < 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// extractRegion copies the pixels of r out of the next frame.
func (d *Dev) extractRegion(r image.Rectangle) []byte {
	stride := d.rect.Dx() * 2
	rowBytes := r.Dx() * 2
	out := make([]byte, 0, rowBytes*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		start := y*stride + r.Min.X*2
		out = append(out, d.next.Pix[start:start+rowBytes]...)
	}
	return out
}

// Invert inverts the display colors.
func (d *Dev) Invert(invert bool) error {
	if d.halted {
		return errors.New("st7789: halted")
	}
	// The panel needs inversion on to show colors as sent.
	if invert {
		return d.command(cmdINVOFF)
	}
	return d.command(cmdINVON)
}

// SetBacklight switches the backlight pin, if any.
func (d *Dev) SetBacklight(on bool) error {
	if d.bl == nil {
		return nil
	}
	l := gpio.Low
	if on {
		l = gpio.High
	}
	if err := d.bl.Out(l); err != nil {
		return fmt.Errorf("st7789: backlight: %w", err)
	}
	return nil
}

// Halt turns the display and backlight off and puts the controller to
// sleep. The device does not accept further drawing after Halt.
func (d *Dev) Halt() error {
	d.halted = true
	if err := d.SetBacklight(false); err != nil {
		return err
	}
	if err := d.command(cmdDISPOFF); err != nil {
		return err
	}
	return d.command(cmdSLPIN)
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("st7789.Dev{%dx%d, %s}", d.rect.Dx(), d.rect.Dy(), d.orient)
}
