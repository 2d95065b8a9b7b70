package lcdgfx

import (
	"fmt"
	"image"

	"github.com/flavioheleno/lcdgfx/font"
	"github.com/flavioheleno/lcdgfx/pixbuf"
	"github.com/flavioheleno/lcdgfx/shape"
)

// Actor is an object moved on every Step.
type Actor struct {
	Handle shape.Handle
	Move   shape.MoveOption
	Color  pixbuf.Color
}

// Scene animates actors on a Display.
type Scene struct {
	*Display
	Actors []*Actor

	ShowFPS  bool // Draw the frame rate overlay
	FPSStyle font.Style
	FPSColor pixbuf.Color
	FPSPos   *image.Point // Top-left corner of the overlay, nil for the top right corner
}

// Step moves every actor once, in order, and returns how many collided.
// A colliding actor bounces: the displacement components pointing past a
// violated boundary are negated, and both are negated when it hit another
// object.
func (s *Scene) Step() int {
	n := 0
	for _, a := range s.Actors {
		if !s.Pool.Move(s.Frame, a.Handle, &a.Move, a.Color) {
			continue
		}
		n++
		s.bounce(a)
	}
	return n
}

func (s *Scene) bounce(a *Actor) {
	v := s.Pool.Violations(s.Frame, a.Handle, a.Move.DX, a.Move.DY, a.Move.Boundary)
	if v == shape.EdgeNone {
		a.Move.DX, a.Move.DY = -a.Move.DX, -a.Move.DY
		return
	}
	if v&shape.EdgeLeftRight != 0 {
		a.Move.DX = -a.Move.DX
	}
	if v&shape.EdgeTopBottom != 0 {
		a.Move.DY = -a.Move.DY
	}
}

// Tick renders one frame: it steps the actors, recomposites the framebuffer,
// draws the frame rate overlay if enabled, commits and updates the frame
// rate, which it returns. The overlay stays in the framebuffer and takes
// part in pixel collisions of the next Step.
func (s *Scene) Tick() (float64, error) {
	s.Step()
	s.UpdateFrame()
	if s.ShowFPS {
		s.drawFPS()
	}
	if err := s.Commit(); err != nil {
		return s.FPS.FPS(), err
	}
	return s.FPS.Update(), nil
}

func (s *Scene) drawFPS() {
	text := fmt.Sprintf("FPS: %.0f", s.FPS.FPS())
	pos := image.Pt(s.Frame.Width()-len(text)*font.Get(s.FPSStyle).Advance(), 0)
	if s.FPSPos != nil {
		pos = *s.FPSPos
	}
	font.DrawString(s.Frame, pos.X, pos.Y, text, s.FPSStyle, s.FPSColor)
}
