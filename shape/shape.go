// Package shape manages a fixed pool of drawable objects and animates them on
// a framebuffer.
//
// Objects are addressed by Handle. Moving an object erases its old footprint
// and redraws it at the new position, after boundary and collision checks
// (see MoveOption). Pool.Composite clears the canvas and redraws every visible
// object in slot order.
//
// The pool and the canvas are not safe for concurrent use. Callers sharing
// them between goroutines must serialise whole frame ticks, since Move is an
// unsynchronised erase, check and redraw sequence.
package shape

import (
	"image"
	"math"

	"github.com/flavioheleno/lcdgfx/pixbuf"
	"github.com/flavioheleno/lcdgfx/raster"
)

// Kind identifies a shape variant.
type Kind uint8

const (
	KindCircle Kind = iota
	KindTriangle
	KindRectangle
	KindStar
	KindPointer
	KindCustom
)

var kindNames = [...]string{"circle", "triangle", "rectangle", "star", "pointer", "custom"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Shape is the geometry of an object. It is implemented only by the variants
// in this package.
type Shape interface {
	Kind() Kind
	clone() Shape
}

// Circle is a filled disc centred on the object position.
type Circle struct {
	Radius int
}

// Triangle is an outlined triangle. Vertices are offsets from the object
// position and are rotated with the object.
type Triangle struct {
	Vertices [3]image.Point
}

// Rectangle is an outlined W×H rectangle centred on the object position.
// Rotation is ignored.
type Rectangle struct {
	W, H int
}

// Star has no renderer yet; drawing it is a no-op.
type Star struct{}

// Pointer has no renderer yet; drawing it is a no-op.
type Pointer struct{}

// Custom has no renderer yet; drawing it is a no-op.
type Custom struct{}

func (Circle) Kind() Kind    { return KindCircle }
func (Triangle) Kind() Kind  { return KindTriangle }
func (Rectangle) Kind() Kind { return KindRectangle }
func (Star) Kind() Kind      { return KindStar }
func (Pointer) Kind() Kind   { return KindPointer }
func (Custom) Kind() Kind    { return KindCustom }

func (s Circle) clone() Shape    { return &s }
func (s Triangle) clone() Shape  { return &s }
func (s Rectangle) clone() Shape { return &s }
func (s Star) clone() Shape      { return &s }
func (s Pointer) clone() Shape   { return &s }
func (s Custom) clone() Shape    { return &s }

// Object is one live entry of a Pool.
type Object struct {
	Shape    Shape        // Owned geometry, never shared with another object
	Position image.Point  // Centre for circles and rectangles, origin of triangle offsets
	Rotation int          // Degrees in (-360, 360), sign preserved
	Visible  bool         // Hidden objects are never drawn
	Color    pixbuf.Color // Color the object was last drawn with

	own map[image.Point]bool // pixels this object painted and nobody painted over since
}

// draw renders o onto cv with color c. It does nothing for hidden objects
// and for variants without a renderer.
func (o *Object) draw(cv raster.Canvas, c pixbuf.Color) {
	if !o.Visible {
		return
	}
	switch s := o.Shape.(type) {
	case *Circle:
		raster.Circle(cv, o.Position.X, o.Position.Y, s.Radius, c, true)
	case *Triangle:
		v := s.rotated(o.Position, o.Rotation)
		raster.Triangle(cv, v[0], v[1], v[2], false, c)
	case *Rectangle:
		if s.W <= 0 || s.H <= 0 {
			return
		}
		raster.Rect(cv, o.Position.X-s.W/2, o.Position.Y-s.H/2, s.W, s.H, false, c)
	case *Star, *Pointer, *Custom:
	}
}

// rotated returns the absolute vertex positions after rotating the offsets
// by deg degrees around pos. Results are truncated toward zero.
func (s *Triangle) rotated(pos image.Point, deg int) [3]image.Point {
	rad := float64(deg) * math.Pi / 180
	sin, cos := math.Sincos(rad)
	var out [3]image.Point
	for i, v := range s.Vertices {
		fx, fy := float64(v.X), float64(v.Y)
		out[i] = image.Point{
			X: pos.X + int(fx*cos-fy*sin),
			Y: pos.Y + int(fx*sin+fy*cos),
		}
	}
	return out
}

// bounds returns the bounding box of the object at pos, for variants that
// know their extents. Only circles do today.
func (o *Object) bounds(pos image.Point) (image.Rectangle, bool) {
	if c, ok := o.Shape.(*Circle); ok {
		r := max(c.Radius, 0)
		return image.Rect(pos.X-r, pos.Y-r, pos.X+r+1, pos.Y+r+1), true
	}
	return image.Rectangle{}, false
}

// recorder is a Canvas that writes through to another one and remembers the
// in-range pixels it set.
type recorder struct {
	raster.Canvas
	pts map[image.Point]bool
}

func (r *recorder) SetPixel(x, y int, c pixbuf.Color) {
	r.Canvas.SetPixel(x, y, c)
	if w, h := r.Size(); x >= 0 && y >= 0 && x < w && y < h {
		r.pts[image.Point{X: x, Y: y}] = true
	}
}

// footprint calls fn for every pixel the object covers at pos, for variants
// with a known pixel footprint. Only circles do today.
func (o *Object) footprint(pos image.Point, fn func(x, y int) bool) bool {
	c, ok := o.Shape.(*Circle)
	if !ok {
		return false
	}
	raster.Disc(max(c.Radius, 0), func(dx, dy int) bool {
		return fn(pos.X+dx, pos.Y+dy)
	})
	return true
}
