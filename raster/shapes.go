package raster

import (
	"image"

	"github.com/flavioheleno/lcdgfx/pixbuf"
)

// Rect draws a w×h rectangle with its top-left corner at (x, y).
func Rect(cv Canvas, x, y, w, h int, filled bool, c pixbuf.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	if filled {
		for row := y; row < y+h; row++ {
			HLine(cv, x, x+w-1, row, c)
		}
		return
	}
	HLine(cv, x, x+w-1, y, c)
	HLine(cv, x, x+w-1, y+h-1, c)
	VLine(cv, x, y, y+h-1, c)
	VLine(cv, x+w-1, y, y+h-1, c)
}

// Triangle draws the triangle p0 p1 p2. A filled triangle is scan-converted
// row by row and then outlined so that its edges match the outline form.
func Triangle(cv Canvas, p0, p1, p2 image.Point, filled bool, c pixbuf.Color) {
	if filled {
		fillTriangle(cv, [3]image.Point{p0, p1, p2}, c)
	}
	Line(cv, p0.X, p0.Y, p1.X, p1.Y, c)
	Line(cv, p1.X, p1.Y, p2.X, p2.Y, c)
	Line(cv, p2.X, p2.Y, p0.X, p0.Y, c)
}

func fillTriangle(cv Canvas, v [3]image.Point, c pixbuf.Color) {
	minY, maxY := v[0].Y, v[0].Y
	for _, p := range v[1:] {
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	for y := minY; y <= maxY; y++ {
		xa, xb, hit := 0, 0, false
		for i := range v {
			a, b := v[i], v[(i+1)%3]
			if y < min(a.Y, b.Y) || y > max(a.Y, b.Y) {
				continue
			}
			var xs []int
			if a.Y == b.Y {
				xs = []int{a.X, b.X}
			} else {
				xs = []int{a.X + (y-a.Y)*(b.X-a.X)/(b.Y-a.Y)}
			}
			for _, x := range xs {
				if !hit {
					xa, xb, hit = x, x, true
					continue
				}
				xa = min(xa, x)
				xb = max(xb, x)
			}
		}
		if hit {
			HLine(cv, xa, xb, y, c)
		}
	}
}

// Bitmap draws the set bits of a w×h monochrome bitmap with its top-left
// corner at (x, y). Rows are (w+7)/8 bytes long, least significant bit first.
// Clear bits leave the canvas untouched.
func Bitmap(cv Canvas, x, y, w, h int, bits []byte, c pixbuf.Color) {
	rowBytes := (w + 7) / 8
	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			idx := i*rowBytes + j/8
			if idx >= len(bits) {
				return
			}
			if bits[idx]&(1<<uint(j%8)) != 0 {
				cv.SetPixel(x+j, y+i, c)
			}
		}
	}
}

// ProgressBar draws an outlined bar whose interior, inset by 2 pixels, is
// filled proportionally to percent. Values above 100 are clamped.
func ProgressBar(cv Canvas, x, y, w, h, percent int, c pixbuf.Color) {
	percent = max(0, min(percent, 100))
	Rect(cv, x, y, w, h, false, c)
	if fill := percent * (w - 4) / 100; fill > 0 {
		Rect(cv, x+2, y+2, fill, h-4, true, c)
	}
}

// RoundedRect draws a w×h rectangle whose corners are quarter circles of
// radius r. The radius is reduced to fit the rectangle.
func RoundedRect(cv Canvas, x, y, w, h, r int, filled bool, c pixbuf.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	r = max(0, min(r, (w-1)/2, (h-1)/2))
	if filled {
		Rect(cv, x, y+r, w, h-2*r, true, c)
		Rect(cv, x+r, y, w-2*r, r, true, c)
		Rect(cv, x+r, y+h-r, w-2*r, r, true, c)
		Circle(cv, x+r, y+r, r, c, true)
		Circle(cv, x+w-r-1, y+r, r, c, true)
		Circle(cv, x+r, y+h-r-1, r, c, true)
		Circle(cv, x+w-r-1, y+h-r-1, r, c, true)
		return
	}
	HLine(cv, x+r, x+w-r-1, y, c)
	HLine(cv, x+r, x+w-r-1, y+h-1, c)
	VLine(cv, x, y+r, y+h-r-1, c)
	VLine(cv, x+w-1, y+r, y+h-r-1, c)
	arc(cv, x+r, y+r, r, -1, -1, c)
	arc(cv, x+w-r-1, y+r, r, 1, -1, c)
	arc(cv, x+r, y+h-r-1, r, -1, 1, c)
	arc(cv, x+w-r-1, y+h-r-1, r, 1, 1, c)
}

// arc draws one quadrant of a midpoint circle; sx and sy select the quadrant.
func arc(cv Canvas, cx, cy, r, sx, sy int, c pixbuf.Color) {
	x, y, err := r, 0, 0
	for x >= y {
		cv.SetPixel(cx+sx*x, cy+sy*y, c)
		cv.SetPixel(cx+sx*y, cy+sy*x, c)
		if err <= 0 {
			y++
			err += 2*y + 1
		}
		if err > 0 {
			x--
			err -= 2*x + 1
		}
	}
}
