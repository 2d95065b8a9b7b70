package pixbuf

import (
	"image"
	"image/color"
)

// Frame is a fixed-size framebuffer in one of the supported encodings.
// Its dimensions never change after New.
type Frame struct {
	Pix    []byte          // Pixel data
	Stride int             // Bytes per row, or per 8-row page for Mono
	Rect   image.Rectangle // Frame bounds, always anchored at (0, 0)
	Depth  Depth           // Pixel encoding
}

// New allocates a cleared w×h frame. It panics if d is not a supported
// encoding or if a dimension is not positive.
func New(d Depth, w, h int) *Frame {
	if w <= 0 || h <= 0 {
		panic("pixbuf: frame dimensions must be positive")
	}
	f := &Frame{Rect: image.Rect(0, 0, w, h), Depth: d}
	switch d {
	case Mono:
		f.Stride = w
		f.Pix = make([]byte, w*((h+7)/8))
	case RGB565:
		f.Stride = w * 2
		f.Pix = make([]byte, f.Stride*h)
	case RGB888:
		f.Stride = w * 4
		f.Pix = make([]byte, f.Stride*h)
	default:
		panic("pixbuf: unsupported depth " + d.String())
	}
	return f
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int { return f.Rect.Dx() }

// Height returns the frame height in pixels.
func (f *Frame) Height() int { return f.Rect.Dy() }

// Size returns the frame width and height in pixels.
func (f *Frame) Size() (w, h int) { return f.Rect.Dx(), f.Rect.Dy() }

// In reports whether (x, y) lies inside the frame.
func (f *Frame) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.Rect.Max.X && y < f.Rect.Max.Y
}

// SetPixel writes c at (x, y). Out-of-range coordinates are ignored. On a
// Mono frame any non-zero c lights the pixel.
func (f *Frame) SetPixel(x, y int, c Color) {
	if !f.In(x, y) {
		return
	}
	switch f.Depth {
	case Mono:
		i := (y/8)*f.Stride + x
		mask := byte(1) << uint(y%8)
		if c != Off {
			f.Pix[i] |= mask
		} else {
			f.Pix[i] &^= mask
		}
	case RGB565:
		i := y*f.Stride + x*2
		f.Pix[i] = byte(c >> 8)
		f.Pix[i+1] = byte(c)
	case RGB888:
		i := y*f.Stride + x*4
		f.Pix[i] = byte(c >> 24)
		f.Pix[i+1] = byte(c >> 16)
		f.Pix[i+2] = byte(c >> 8)
		f.Pix[i+3] = byte(c)
	}
}

// Pixel returns the value at (x, y), or Off when out of range.
func (f *Frame) Pixel(x, y int) Color {
	if !f.In(x, y) {
		return Off
	}
	switch f.Depth {
	case Mono:
		if f.Pix[(y/8)*f.Stride+x]&(1<<uint(y%8)) != 0 {
			return On
		}
	case RGB565:
		i := y*f.Stride + x*2
		return Color(f.Pix[i])<<8 | Color(f.Pix[i+1])
	case RGB888:
		i := y*f.Stride + x*4
		return Color(f.Pix[i])<<24 | Color(f.Pix[i+1])<<16 | Color(f.Pix[i+2])<<8 | Color(f.Pix[i+3])
	}
	return Off
}

// TogglePixel inverts the pixel at (x, y). It only has an effect on Mono
// frames; color frames have no meaningful inverse and are left untouched.
func (f *Frame) TogglePixel(x, y int) {
	if f.Depth != Mono || !f.In(x, y) {
		return
	}
	f.Pix[(y/8)*f.Stride+x] ^= 1 << uint(y%8)
}

// Fill sets every pixel to c.
func (f *Frame) Fill(c Color) {
	if c == Off {
		clear(f.Pix)
		return
	}
	var unit []byte
	switch f.Depth {
	case Mono:
		unit = []byte{0xFF}
	case RGB565:
		unit = []byte{byte(c >> 8), byte(c)}
	case RGB888:
		unit = []byte{byte(c >> 24), byte(c >> 16), byte(c >> 8), byte(c)}
	}
	if len(unit) == 0 {
		return
	}
	copy(f.Pix, unit)
	for n := len(unit); n < len(f.Pix); n *= 2 {
		copy(f.Pix[n:], f.Pix[:n])
	}
}

// Clear sets every pixel to Off.
func (f *Frame) Clear() {
	clear(f.Pix)
}

// ColorModel returns the color model of the frame's depth.
func (f *Frame) ColorModel() color.Model {
	return f.Depth.Model()
}

// Bounds returns the frame bounds.
func (f *Frame) Bounds() image.Rectangle {
	return f.Rect
}

// At returns the color of the pixel at (x, y).
// It implements the image.Image interface.
func (f *Frame) At(x, y int) color.Color {
	r, g, b := f.Depth.Decode(f.Pixel(x, y))
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

// Set converts c to the frame's encoding and writes it at (x, y).
// It implements the draw.Image interface.
func (f *Frame) Set(x, y int, c color.Color) {
	f.SetPixel(x, y, f.Depth.Encode(rgb24(c)))
}
