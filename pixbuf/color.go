package pixbuf

import (
	"fmt"
	"image/color"
)

// Depth is the pixel encoding of a Frame.
type Depth uint8

const (
	// Mono is 1 bit per pixel, page packed.
	Mono Depth = iota + 1
	// RGB565 is 16 bits per pixel: 5 red, 6 green, 5 blue.
	RGB565
	// RGB888 is 32 bits per pixel; colors use the low 24 bits.
	RGB888
)

// Color is a pixel value in a Frame's native encoding. Only the low
// BitsPerPixel bits of the frame's Depth are meaningful.
type Color uint32

const (
	// Off is the cleared pixel value in every encoding.
	Off Color = 0
	// On is the lit pixel value of a Mono frame.
	On Color = 1
)

// String returns the name of the depth.
func (d Depth) String() string {
	switch d {
	case Mono:
		return "mono"
	case RGB565:
		return "rgb565"
	case RGB888:
		return "rgb888"
	}
	return fmt.Sprintf("Depth(%d)", uint8(d))
}

// Valid reports whether d is one of the supported encodings.
func (d Depth) Valid() bool {
	return d >= Mono && d <= RGB888
}

// BitsPerPixel returns the number of significant bits in a Color.
func (d Depth) BitsPerPixel() int {
	switch d {
	case Mono:
		return 1
	case RGB565:
		return 16
	case RGB888:
		return 32
	}
	return 0
}

// Encode converts a 24-bit 0xRRGGBB value to the native encoding by
// discarding low bits. For Mono any non-black value is On.
func (d Depth) Encode(rgb uint32) Color {
	switch d {
	case Mono:
		if rgb&0xFFFFFF != 0 {
			return On
		}
		return Off
	case RGB565:
		r := (rgb & 0xF80000) >> 8
		g := (rgb & 0x00FC00) >> 5
		b := (rgb & 0x0000F8) >> 3
		return Color(r | g | b)
	case RGB888:
		return Color(rgb & 0xFFFFFF)
	}
	return Off
}

// Decode expands c to 8-bit channels. The low bits dropped by Encode are
// filled by replicating the high bits, so full intensity stays 0xFF.
func (d Depth) Decode(c Color) (r, g, b uint8) {
	switch d {
	case Mono:
		if c != Off {
			return 0xFF, 0xFF, 0xFF
		}
		return 0, 0, 0
	case RGB565:
		r5 := uint8(c>>11) & 0x1F
		g6 := uint8(c>>5) & 0x3F
		b5 := uint8(c) & 0x1F
		return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
	case RGB888:
		return uint8(c >> 16), uint8(c >> 8), uint8(c)
	}
	return 0, 0, 0
}

// Model returns a color.Model quantizing colors to what d can represent.
func (d Depth) Model() color.Model {
	return color.ModelFunc(func(c color.Color) color.Color {
		r, g, b := d.Decode(d.Encode(rgb24(c)))
		return color.RGBA{R: r, G: g, B: b, A: 0xFF}
	})
}

// rgb24 converts any color.Color to a 0xRRGGBB value, ignoring alpha.
func rgb24(c color.Color) uint32 {
	r, g, b, _ := c.RGBA()
	return (r>>8)<<16 | (g>>8)<<8 | b>>8
}
