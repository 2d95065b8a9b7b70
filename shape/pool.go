package shape

import (
	"errors"
	"fmt"
	"image"

	"github.com/flavioheleno/lcdgfx/pixbuf"
	"github.com/flavioheleno/lcdgfx/raster"
)

// Capacity is the number of slots in a Pool.
const Capacity = 20

// ErrPoolFull is returned by Create when every slot is taken.
var ErrPoolFull = errors.New("shape: pool full")

// Handle identifies an object in a Pool. A handle is invalidated when its
// object is deleted, even if the slot is reused later. The zero Handle is
// never valid.
type Handle struct {
	slot int
	gen  uint32
}

// Slot returns the pool slot index of h.
func (h Handle) Slot() int { return h.slot }

// String returns a string representation of the handle.
func (h Handle) String() string {
	return fmt.Sprintf("shape.Handle{%d/%d}", h.slot, h.gen)
}

// Pool is a fixed-capacity arena of objects.
type Pool struct {
	Foreground pixbuf.Color // Initial color of new objects
	Background pixbuf.Color // Color used to erase and to clear the canvas

	objs [Capacity]*Object
	gens [Capacity]uint32
}

// NewPool returns an empty pool drawing new objects in fg over bg.
func NewPool(fg, bg pixbuf.Color) *Pool {
	return &Pool{Foreground: fg, Background: bg}
}

// Create stores a copy of s at position pos in the lowest free slot. The new
// object is visible with rotation 0 and is not drawn until the next
// Composite, Draw or Move. Circles with a negative radius are rejected. It
// returns ErrPoolFull when no slot is free.
func (p *Pool) Create(s Shape, pos image.Point) (Handle, error) {
	if s == nil {
		return Handle{}, errors.New("shape: nil shape")
	}
	g := s.clone()
	if c, ok := g.(*Circle); ok && c.Radius < 0 {
		return Handle{}, fmt.Errorf("shape: negative radius %d", c.Radius)
	}
	for i, o := range p.objs {
		if o != nil {
			continue
		}
		p.gens[i]++
		p.objs[i] = &Object{
			Shape:    g,
			Position: pos,
			Visible:  true,
			Color:    p.Foreground,
		}
		return Handle{slot: i, gen: p.gens[i]}, nil
	}
	return Handle{}, ErrPoolFull
}

// Delete releases the object of h and frees its slot. It reports false, and
// changes nothing, when h does not refer to a live object.
func (p *Pool) Delete(h Handle) bool {
	if _, ok := p.Get(h); !ok {
		return false
	}
	p.objs[h.slot] = nil
	p.gens[h.slot]++
	return true
}

// Get returns the object of h.
func (p *Pool) Get(h Handle) (*Object, bool) {
	if h.slot < 0 || h.slot >= Capacity || h.gen == 0 || p.gens[h.slot] != h.gen {
		return nil, false
	}
	o := p.objs[h.slot]
	return o, o != nil
}

// Len returns the number of live objects.
func (p *Pool) Len() int {
	n := 0
	for _, o := range p.objs {
		if o != nil {
			n++
		}
	}
	return n
}

// Handles returns the handles of all live objects in slot order.
func (p *Pool) Handles() []Handle {
	var hs []Handle
	for i, o := range p.objs {
		if o != nil {
			hs = append(hs, Handle{slot: i, gen: p.gens[i]})
		}
	}
	return hs
}

// Draw renders the object of h in color c, which becomes its color.
func (p *Pool) Draw(cv raster.Canvas, h Handle, c pixbuf.Color) {
	o, ok := p.Get(h)
	if !ok {
		return
	}
	o.Color = c
	p.paint(cv, o, c)
}

// paint draws o in color c and records the pixels it set. Those pixels stop
// belonging to any other object.
func (p *Pool) paint(cv raster.Canvas, o *Object, c pixbuf.Color) {
	if !o.Visible {
		o.own = nil
		return
	}
	rec := &recorder{Canvas: cv, pts: map[image.Point]bool{}}
	o.draw(rec, c)
	o.own = rec.pts
	for _, other := range p.objs {
		if other == nil || other == o {
			continue
		}
		for pt := range rec.pts {
			delete(other.own, pt)
		}
	}
}

// Erase paints the footprint of the object of h with the background color.
func (p *Pool) Erase(cv raster.Canvas, h Handle) {
	if o, ok := p.Get(h); ok {
		p.erase(cv, o)
	}
}

func (p *Pool) erase(cv raster.Canvas, o *Object) {
	o.draw(cv, p.Background)
	o.own = nil
}

// Invalidate forgets what every object has drawn. Call it after the canvas
// was cleared or overwritten outside the pool.
func (p *Pool) Invalidate() {
	for _, o := range p.objs {
		if o != nil {
			o.own = nil
		}
	}
}

// SetVisible shows or hides the object of h, erasing or drawing it at once.
func (p *Pool) SetVisible(cv raster.Canvas, h Handle, visible bool) {
	o, ok := p.Get(h)
	if !ok || o.Visible == visible {
		return
	}
	if !visible {
		p.erase(cv, o)
		o.Visible = false
		return
	}
	o.Visible = true
	p.paint(cv, o, o.Color)
}

// Rotate erases the object of h, adds degrees to its rotation modulo 360
// keeping the sign, and redraws it if visible. Only triangles change
// appearance; for other variants rotation is state only.
func (p *Pool) Rotate(cv raster.Canvas, h Handle, degrees int) {
	o, ok := p.Get(h)
	if !ok {
		return
	}
	p.erase(cv, o)
	o.Rotation = (o.Rotation + degrees) % 360
	p.paint(cv, o, o.Color)
}

// Composite clears cv to the background and draws every visible object in
// slot order, so higher slots cover lower ones.
func (p *Pool) Composite(cv raster.Canvas) {
	cv.Fill(p.Background)
	p.Invalidate()
	for _, o := range p.objs {
		if o != nil {
			p.paint(cv, o, o.Color)
		}
	}
}
