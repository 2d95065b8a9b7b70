// Package font draws fixed-width bitmap text on a raster.Canvas.
//
// Glyphs are stored column-major: each column is Pages() bytes, least
// significant bit at the top. The small style is a classic 5x7 LCD font;
// medium and large are rasterised once from golang.org/x/image faces.
package font

import (
	"fmt"
	"image"
	"sync"

	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"

	"github.com/flavioheleno/lcdgfx/pixbuf"
	"github.com/flavioheleno/lcdgfx/raster"
)

// Style selects one of the built-in fonts.
type Style uint8

const (
	Small  Style = iota // 5x7
	Medium              // 6x13, from basicfont.Face7x13
	Large               // 8x16, from inconsolata.Regular8x16
)

func (s Style) String() string {
	switch s {
	case Small:
		return "small"
	case Medium:
		return "medium"
	case Large:
		return "large"
	}
	return fmt.Sprintf("Style(%d)", uint8(s))
}

// Def describes a bitmap font.
type Def struct {
	Bitmap       []byte
	Width        int  // Glyph width in pixels
	Height       int  // Glyph height in pixels
	First, Last  byte // Inclusive character range
	BytesPerChar int
}

// Pages returns the number of bytes per glyph column.
func (d *Def) Pages() int {
	return (d.Height + 7) / 8
}

// Advance returns the horizontal distance between two characters.
func (d *Def) Advance() int {
	return d.Width + 1
}

// glyph returns the bitmap of ch, or of '?' when ch is outside the font.
func (d *Def) glyph(ch byte) []byte {
	if ch < d.First || ch > d.Last {
		ch = '?'
	}
	i := int(ch-d.First) * d.BytesPerChar
	return d.Bitmap[i : i+d.BytesPerChar]
}

var (
	medium = sync.OnceValue(func() *Def { return fromFace(basicfont.Face7x13) })
	large  = sync.OnceValue(func() *Def { return fromFace(inconsolata.Regular8x16) })
)

// Get returns the font of style. Unknown styles fall back to Small.
func Get(style Style) *Def {
	switch style {
	case Medium:
		return medium()
	case Large:
		return large()
	}
	return &small
}

// fromFace packs the printable ASCII glyphs of f into a Def.
func fromFace(f *basicfont.Face) *Def {
	d := &Def{
		Width:  f.Width,
		Height: f.Height,
		First:  0x20,
		Last:   0x7E,
	}
	pages := d.Pages()
	d.BytesPerChar = d.Width * pages
	d.Bitmap = make([]byte, int(d.Last-d.First+1)*d.BytesPerChar)

	for ch := d.First; ch <= d.Last; ch++ {
		dr, mask, mp, _, ok := f.Glyph(fixed.P(0, f.Ascent), rune(ch))
		if !ok {
			continue
		}
		g := d.Bitmap[int(ch-d.First)*d.BytesPerChar:]
		for y := dr.Min.Y; y < dr.Max.Y; y++ {
			for x := dr.Min.X; x < dr.Max.X; x++ {
				if x < 0 || x >= d.Width || y < 0 || y >= d.Height {
					continue
				}
				p := mp.Add(image.Pt(x-dr.Min.X, y-dr.Min.Y))
				if _, _, _, a := mask.At(p.X, p.Y).RGBA(); a >= 0x8000 {
					g[x*pages+y/8] |= 1 << uint(y%8)
				}
			}
		}
	}
	return d
}

// DrawChar draws ch with its top-left corner at (x, y). Characters outside
// the font are drawn as '?'. Rows below the canvas are skipped.
func DrawChar(cv raster.Canvas, x, y int, ch byte, style Style, c pixbuf.Color) {
	d := Get(style)
	_, h := cv.Size()
	g := d.glyph(ch)
	pages := d.Pages()
	for col := 0; col < d.Width; col++ {
		for row := 0; row < d.Height; row++ {
			if y+row >= h {
				break
			}
			if g[col*pages+row/8]&(1<<uint(row%8)) != 0 {
				cv.SetPixel(x+col, y+row, c)
			}
		}
	}
}

// DrawString draws s byte by byte from (x, y), left to right without
// wrapping, and returns the x coordinate following the last character.
func DrawString(cv raster.Canvas, x, y int, s string, style Style, c pixbuf.Color) int {
	adv := Get(style).Advance()
	for i := 0; i < len(s); i++ {
		DrawChar(cv, x, y, s[i], style, c)
		x += adv
	}
	return x
}

// DrawUTF8String decodes s as UTF-8 and draws the ASCII code points like
// DrawString. Other code points are decoded but not drawn, and do not
// advance the cursor; the built-in fonts only cover ASCII.
func DrawUTF8String(cv raster.Canvas, x, y int, s string, style Style, c pixbuf.Color) int {
	adv := Get(style).Advance()
	var dec Decoder
	for i := 0; i < len(s); i++ {
		r, ok := dec.Feed(s[i])
		if !ok || r >= 0x80 {
			continue
		}
		DrawChar(cv, x, y, byte(r), style, c)
		x += adv
	}
	return x
}
