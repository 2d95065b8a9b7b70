package shape

import (
	"image"

	"github.com/flavioheleno/lcdgfx/pixbuf"
	"github.com/flavioheleno/lcdgfx/raster"
)

// Edge is a set of canvas edges checked by Move.
type Edge uint8

const (
	EdgeTop Edge = 1 << iota
	EdgeBottom
	EdgeLeft
	EdgeRight

	EdgeNone      Edge = 0
	EdgeTopBottom      = EdgeTop | EdgeBottom
	EdgeLeftRight      = EdgeLeft | EdgeRight
	EdgeAll            = EdgeTopBottom | EdgeLeftRight
)

// Collision selects how Move detects contact with other content.
type Collision uint8

const (
	// CollisionNone moves without checking.
	CollisionNone Collision = iota
	// CollisionPixel tests every pixel of the new footprint against the
	// canvas.
	CollisionPixel
	// CollisionBoundingBox tests the new bounding box against the boxes of
	// the other visible objects.
	CollisionBoundingBox
)

// Overlap selects what Move does to the canvas after a pixel collision.
type Overlap uint8

const (
	// OverlapNone leaves the canvas untouched.
	OverlapNone Overlap = iota
	// OverlapToggle inverts lit pixels under the new footprint. Toggling is
	// only defined for Mono canvases; color canvases are left untouched.
	OverlapToggle
	// OverlapForceOn paints the new footprint with the move color.
	OverlapForceOn
	// OverlapForceOff paints the new footprint with the background color.
	OverlapForceOff
)

// MoveOption describes one motion step. Callers typically keep one per
// object and flip DX or DY when Move reports a collision.
type MoveOption struct {
	Boundary  Edge      // Edges the object may not cross
	Collision Collision // Collision detection mode
	Overlap   Overlap   // Pixel collision resolution
	DX, DY    int       // Displacement
}

// Move advances the object of h by (opt.DX, opt.DY) and reports whether it
// collided. On a boundary or collision hit the object stays where it is and
// is neither erased nor redrawn; a pixel collision may still alter the canvas
// according to opt.Overlap. Otherwise the object is erased at its old
// position and, if visible, drawn at the new one in color c.
//
// Boundary and collision checks only apply to variants with known extents
// (circles); other variants always move freely.
//
// The pool tracks which pixels each object painted through it. Pixels
// written directly to the canvas in the object's own color inside its
// current footprint cannot be told apart from the object and never collide;
// call Invalidate after clearing the canvas outside the pool.
func (p *Pool) Move(cv raster.Canvas, h Handle, opt *MoveOption, c pixbuf.Color) bool {
	o, ok := p.Get(h)
	if !ok || opt == nil {
		return false
	}
	next := o.Position.Add(image.Pt(opt.DX, opt.DY))

	if p.violations(cv, o, next, opt.Boundary) != EdgeNone {
		return true
	}

	switch opt.Collision {
	case CollisionPixel:
		if p.pixelCollision(cv, o, next) {
			p.resolveOverlap(cv, o, next, opt.Overlap, c)
			return true
		}
	case CollisionBoundingBox:
		if p.boxCollision(h.slot, o, next) {
			return true
		}
	}

	p.erase(cv, o)
	o.Position = next
	o.Color = c
	p.paint(cv, o, c)
	return false
}

// Violations returns the edges in mask that the object of h would cross
// after moving by (dx, dy). It is meant for bounce handling after Move
// reports a collision.
func (p *Pool) Violations(cv raster.Canvas, h Handle, dx, dy int, mask Edge) Edge {
	o, ok := p.Get(h)
	if !ok {
		return EdgeNone
	}
	return p.violations(cv, o, o.Position.Add(image.Pt(dx, dy)), mask)
}

func (p *Pool) violations(cv raster.Canvas, o *Object, pos image.Point, mask Edge) Edge {
	box, ok := o.bounds(pos)
	if !ok || mask == EdgeNone {
		return EdgeNone
	}
	w, h := cv.Size()
	var hit Edge
	if mask&EdgeLeft != 0 && box.Min.X < 0 {
		hit |= EdgeLeft
	}
	if mask&EdgeRight != 0 && box.Max.X > w {
		hit |= EdgeRight
	}
	if mask&EdgeTop != 0 && box.Min.Y < 0 {
		hit |= EdgeTop
	}
	if mask&EdgeBottom != 0 && box.Max.Y > h {
		hit |= EdgeBottom
	}
	return hit
}

// pixelCollision reports whether any in-range pixel of the footprint at pos
// differs from the background. Pixels the object painted itself, and that
// still hold its color, are skipped.
func (p *Pool) pixelCollision(cv raster.Canvas, o *Object, pos image.Point) bool {
	w, h := cv.Size()
	hit := false
	o.footprint(pos, func(x, y int) bool {
		if x < 0 || y < 0 || x >= w || y >= h {
			return true
		}
		if o.own[image.Point{X: x, Y: y}] && cv.Pixel(x, y) == o.Color {
			return true
		}
		if cv.Pixel(x, y) != p.Background {
			hit = true
			return false
		}
		return true
	})
	return hit
}

func (p *Pool) resolveOverlap(cv raster.Canvas, o *Object, pos image.Point, policy Overlap, c pixbuf.Color) {
	if policy == OverlapNone {
		return
	}
	o.footprint(pos, func(x, y int) bool {
		switch policy {
		case OverlapToggle:
			if cv.Pixel(x, y) != p.Background {
				cv.TogglePixel(x, y)
			}
		case OverlapForceOn:
			cv.SetPixel(x, y, c)
		case OverlapForceOff:
			cv.SetPixel(x, y, p.Background)
		}
		return true
	})
}

// boxCollision reports whether the box of o at pos newly intersects the box
// of another visible object. Objects already intersecting may separate.
func (p *Pool) boxCollision(self int, o *Object, pos image.Point) bool {
	next, ok := o.bounds(pos)
	if !ok {
		return false
	}
	cur, _ := o.bounds(o.Position)
	for i, other := range p.objs {
		if i == self || other == nil || !other.Visible {
			continue
		}
		box, ok := other.bounds(other.Position)
		if !ok {
			continue
		}
		if next.Overlaps(box) && !cur.Overlaps(box) {
			return true
		}
	}
	return false
}
