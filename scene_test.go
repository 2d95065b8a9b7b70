package lcdgfx

import (
	"image"
	"testing"

	"github.com/flavioheleno/lcdgfx/font"
	"github.com/flavioheleno/lcdgfx/pixbuf"
	"github.com/flavioheleno/lcdgfx/shape"
)

func newTestScene(t *testing.T, w, h int) *Scene {
	t.Helper()
	d, err := New(nil, &Opts{W: w, H: h, Depth: pixbuf.Mono, Color: 0xFFFFFF, Clock: stepClock(10)})
	if err != nil {
		t.Fatal(err)
	}
	return &Scene{Display: d}
}

func (s *Scene) addActor(t *testing.T, r int, pos image.Point, opt shape.MoveOption) *Actor {
	t.Helper()
	h, err := s.Pool.Create(shape.Circle{Radius: r}, pos)
	if err != nil {
		t.Fatal(err)
	}
	a := &Actor{Handle: h, Move: opt, Color: pixbuf.On}
	s.Actors = append(s.Actors, a)
	return a
}

func TestStepBouncesOffBoundary(t *testing.T) {
	s := newTestScene(t, 16, 16)
	a := s.addActor(t, 2, image.Pt(2, 12), shape.MoveOption{Boundary: shape.EdgeAll, DX: -1, DY: 1})
	s.UpdateFrame()

	steps := []struct {
		hits   int
		dx, dy int
		pos    image.Point
	}{
		{1, 1, 1, image.Pt(2, 12)},  // left edge
		{0, 1, 1, image.Pt(3, 13)},  // free
		{1, 1, -1, image.Pt(3, 13)}, // bottom edge
		{0, 1, -1, image.Pt(4, 12)}, // free
	}
	for i, st := range steps {
		if n := s.Step(); n != st.hits {
			t.Errorf("step %d: %d collisions, want %d", i, n, st.hits)
		}
		if a.Move.DX != st.dx || a.Move.DY != st.dy {
			t.Errorf("step %d: move = (%d, %d), want (%d, %d)", i, a.Move.DX, a.Move.DY, st.dx, st.dy)
		}
		if o, _ := s.Pool.Get(a.Handle); o.Position != st.pos {
			t.Errorf("step %d: Position = %v, want %v", i, o.Position, st.pos)
		}
	}
}

func TestStepBouncesOffObject(t *testing.T) {
	s := newTestScene(t, 32, 16)
	a := s.addActor(t, 3, image.Pt(8, 8), shape.MoveOption{Collision: shape.CollisionBoundingBox, DX: 1, DY: 1})
	if _, err := s.Pool.Create(shape.Circle{Radius: 3}, image.Pt(15, 8)); err != nil {
		t.Fatal(err)
	}
	s.UpdateFrame()

	if n := s.Step(); n != 1 {
		t.Fatalf("Step() = %d collisions, want 1", n)
	}
	if a.Move.DX != -1 || a.Move.DY != -1 {
		t.Errorf("move = (%d, %d), want both reversed", a.Move.DX, a.Move.DY)
	}
}

func TestTick(t *testing.T) {
	out := &recorder{rect: image.Rect(0, 0, 64, 16)}
	d, err := New(out, &Opts{Depth: pixbuf.Mono, Color: 0xFFFFFF, FPSInterval: 100, Clock: stepClock(25)})
	if err != nil {
		t.Fatal(err)
	}
	s := &Scene{Display: d, ShowFPS: true, FPSStyle: font.Small, FPSColor: pixbuf.On}
	s.addActor(t, 2, image.Pt(5, 8), shape.MoveOption{Boundary: shape.EdgeAll, DX: 1})

	var rate float64
	for i := 0; i < 4; i++ {
		if rate, err = s.Tick(); err != nil {
			t.Fatal(err)
		}
	}
	if out.draws != 4 {
		t.Errorf("committed %d frames, want 4", out.draws)
	}
	// Four frames in 100 ms.
	if rate != 40 {
		t.Errorf("Tick() rate = %v, want 40", rate)
	}
	if o, _ := s.Pool.Get(s.Actors[0].Handle); o.Position != image.Pt(9, 8) {
		t.Errorf("Position = %v, want (9, 8)", o.Position)
	}
	// "FPS: 0" is drawn right aligned; the stem of 'F' is its first column.
	x := 64 - len("FPS: 0")*font.Get(font.Small).Advance()
	if s.Frame.Pixel(x, 0) != pixbuf.On || s.Frame.Pixel(x, 6) != pixbuf.On {
		t.Errorf("FPS overlay missing at x=%d", x)
	}
}

func TestTickFPSPosition(t *testing.T) {
	d, err := New(nil, &Opts{W: 64, H: 16, Depth: pixbuf.Mono, Color: 0xFFFFFF, Clock: stepClock(10)})
	if err != nil {
		t.Fatal(err)
	}
	s := &Scene{Display: d, ShowFPS: true, FPSStyle: font.Small, FPSColor: pixbuf.On, FPSPos: &image.Point{X: 3, Y: 8}}
	if _, err := s.Tick(); err != nil {
		t.Fatal(err)
	}
	// The stem of 'F' is the first column of the overlay.
	if s.Frame.Pixel(3, 8) != pixbuf.On || s.Frame.Pixel(3, 14) != pixbuf.On {
		t.Error("FPS overlay missing at (3, 8)")
	}
	right := 64 - len("FPS: 0")*font.Get(font.Small).Advance()
	if s.Frame.Pixel(right, 0) != pixbuf.Off {
		t.Error("overlay still drawn in the top right corner")
	}
}
