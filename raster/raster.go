// Package raster draws lines, circles and other primitives onto a Canvas.
//
// All functions are stateless and clip at the pixel-write boundary: parts of a
// primitive outside the canvas are silently dropped.
package raster

import "github.com/flavioheleno/lcdgfx/pixbuf"

// Canvas is a pixel surface. *pixbuf.Frame implements it.
type Canvas interface {
	Size() (w, h int)
	SetPixel(x, y int, c pixbuf.Color)
	Pixel(x, y int) pixbuf.Color
	TogglePixel(x, y int)
	Fill(c pixbuf.Color)
}

// Line draws a line from (x0, y0) to (x1, y1) inclusive using Bresenham's
// algorithm. Swapping the endpoints yields the same pixel set.
func Line(cv Canvas, x0, y0, x1, y1 int, c pixbuf.Color) {
	// Always walk in the same direction so the error term breaks ties the
	// same way regardless of argument order.
	if x1 < x0 || (x1 == x0 && y1 < y0) {
		x0, y0, x1, y1 = x1, y1, x0, y0
	}
	dx := x1 - x0
	dy := -abs(y1 - y0)
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		cv.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0++
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// HLine fills row y from x0 to x1 inclusive, in either order.
func HLine(cv Canvas, x0, x1, y int, c pixbuf.Color) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	for x := x0; x <= x1; x++ {
		cv.SetPixel(x, y, c)
	}
}

// VLine fills column x from y0 to y1 inclusive, in either order.
func VLine(cv Canvas, x, y0, y1 int, c pixbuf.Color) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		cv.SetPixel(x, y, c)
	}
}

// Circle draws a circle centred on (cx, cy) with the midpoint algorithm.
// An outline plots the 8-way symmetric point set; a filled circle sweeps a
// horizontal span for each symmetric row pair. Radius 0 draws the centre
// pixel only; a negative radius draws nothing.
func Circle(cv Canvas, cx, cy, radius int, c pixbuf.Color, filled bool) {
	x, y, err := radius, 0, 0
	for x >= y {
		if filled {
			HLine(cv, cx-x, cx+x, cy+y, c)
			HLine(cv, cx-x, cx+x, cy-y, c)
			HLine(cv, cx-y, cx+y, cy+x, c)
			HLine(cv, cx-y, cx+y, cy-x, c)
		} else {
			cv.SetPixel(cx+x, cy+y, c)
			cv.SetPixel(cx+y, cy+x, c)
			cv.SetPixel(cx-y, cy+x, c)
			cv.SetPixel(cx-x, cy+y, c)
			cv.SetPixel(cx-x, cy-y, c)
			cv.SetPixel(cx-y, cy-x, c)
			cv.SetPixel(cx+y, cy-x, c)
			cv.SetPixel(cx+x, cy-y, c)
		}
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

// Disc calls fn for every offset (dx, dy) with dx²+dy² ≤ r², row by row.
// Iteration stops early when fn returns false.
func Disc(r int, fn func(dx, dy int) bool) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				if !fn(dx, dy) {
					return
				}
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
