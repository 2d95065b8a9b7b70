package lcdgfx

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/display"

	"github.com/flavioheleno/lcdgfx/font"
	"github.com/flavioheleno/lcdgfx/fps"
	"github.com/flavioheleno/lcdgfx/pixbuf"
	"github.com/flavioheleno/lcdgfx/shape"
	"github.com/flavioheleno/lcdgfx/st7789"
)

// RGB is a 24-bit 0xRRGGBB color. In YAML it is written "#RRGGBB" (quoted,
// since # starts a comment) or 0xRRGGBB.
type RGB uint32

// ParseRGB parses "#RRGGBB" or "0xRRGGBB".
func ParseRGB(s string) (RGB, error) {
	h, ok := strings.CutPrefix(s, "#")
	if !ok {
		h, ok = strings.CutPrefix(strings.ToLower(s), "0x")
	}
	if !ok || h == "" {
		return 0, fmt.Errorf("lcdgfx: color %q must start with # or 0x", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil || v > 0xFFFFFF {
		return 0, fmt.Errorf("lcdgfx: invalid 24-bit color %q", s)
	}
	return RGB(v), nil
}

func (c RGB) String() string {
	return fmt.Sprintf("#%06X", uint32(c))
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *RGB) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("lcdgfx: line %d: color must be a scalar", n.Line)
	}
	v, err := ParseRGB(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*c = v
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c RGB) MarshalYAML() (any, error) {
	return c.String(), nil
}

// Config is a scene description: panel setup, frame rate reporting and the
// initial objects with their motion.
type Config struct {
	Panel  PanelConfig   `yaml:"panel"`
	FPS    FPSConfig     `yaml:"fps"`
	Shapes []ShapeConfig `yaml:"shapes"`
}

// PanelConfig configures the framebuffer.
type PanelConfig struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Depth       string `yaml:"depth"`       // mono, rgb565 (default) or rgb888
	Orientation string `yaml:"orientation"` // normal (default), flipped, rotated or rotated-flipped
	Color       *RGB   `yaml:"color"`       // Draw color (default: #FFFFFF)
	Background  *RGB   `yaml:"background"`  // Background color (default: #000000)
}

// FPSConfig configures the frame rate counter and its overlay.
type FPSConfig struct {
	IntervalMS uint32 `yaml:"interval_ms"` // Default: 1000
	Show       bool   `yaml:"show"`
	Style      string `yaml:"style"` // small (default), medium or large
	Color      *RGB   `yaml:"color"`
	Position   []int  `yaml:"position"` // [x, y] of the top-left corner (default: top right)
}

// ShapeConfig describes one object.
type ShapeConfig struct {
	Kind     string      `yaml:"kind"`
	X        int         `yaml:"x"`
	Y        int         `yaml:"y"`
	Radius   int         `yaml:"radius"`   // circle
	Vertices [][]int     `yaml:"vertices"` // triangle, three [x, y] offsets
	Width    int         `yaml:"width"`    // rectangle
	Height   int         `yaml:"height"`   // rectangle
	Rotation int         `yaml:"rotation"`
	Hidden   bool        `yaml:"hidden"`
	Color    *RGB        `yaml:"color"`
	Move     *MoveConfig `yaml:"move"`
}

// MoveConfig is the per-frame motion of an object.
type MoveConfig struct {
	Boundary  []string `yaml:"boundary"`  // top, bottom, left, right, top-bottom, left-right, all
	Collision string   `yaml:"collision"` // none (default), pixel or bounding-box
	Overlap   string   `yaml:"overlap"`   // none (default), toggle, force-on or force-off
	DX        int      `yaml:"dx"`
	DY        int      `yaml:"dy"`
}

// LoadConfig reads and validates the YAML scene at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lcdgfx: %w", err)
	}
	c, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseConfig decodes and validates a YAML scene. Unknown fields are
// rejected.
func ParseConfig(data []byte) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("lcdgfx: decode: %w", err)
	}
	c.setDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) setDefaults() {
	if c.Panel.Depth == "" {
		c.Panel.Depth = pixbuf.RGB565.String()
	}
	if c.Panel.Orientation == "" {
		c.Panel.Orientation = st7789.Normal.String()
	}
	if c.Panel.Color == nil {
		white := RGB(0xFFFFFF)
		c.Panel.Color = &white
	}
	if c.Panel.Background == nil {
		black := RGB(0)
		c.Panel.Background = &black
	}
	if c.FPS.IntervalMS == 0 {
		c.FPS.IntervalMS = 1000
	}
	if c.FPS.Style == "" {
		c.FPS.Style = font.Small.String()
	}
}

// Validate checks the configuration after defaults have been applied.
func (c *Config) Validate() error {
	if c.Panel.Width <= 0 || c.Panel.Height <= 0 {
		return fmt.Errorf("lcdgfx: invalid panel size %dx%d", c.Panel.Width, c.Panel.Height)
	}
	if _, err := ParseDepth(c.Panel.Depth); err != nil {
		return err
	}
	if _, err := st7789.ParseOrientation(c.Panel.Orientation); err != nil {
		return fmt.Errorf("lcdgfx: %w", err)
	}
	if _, err := ParseFontStyle(c.FPS.Style); err != nil {
		return err
	}
	if p := c.FPS.Position; p != nil && len(p) != 2 {
		return fmt.Errorf("lcdgfx: fps position needs [x, y], got %d values", len(p))
	}
	if len(c.Shapes) > shape.Capacity {
		return fmt.Errorf("lcdgfx: %d shapes exceed the pool capacity of %d", len(c.Shapes), shape.Capacity)
	}
	for i := range c.Shapes {
		if _, err := c.Shapes[i].shape(); err != nil {
			return fmt.Errorf("lcdgfx: shape #%d: %w", i, err)
		}
		if m := c.Shapes[i].Move; m != nil {
			if _, err := m.option(); err != nil {
				return fmt.Errorf("lcdgfx: shape #%d: %w", i, err)
			}
		}
	}
	return nil
}

// NativeSize returns the panel size in its unrotated orientation, as
// expected by st7789.Opts.
func (p *PanelConfig) NativeSize() (w, h int) {
	o, _ := st7789.ParseOrientation(p.Orientation)
	if o == st7789.Rotated || o == st7789.RotatedFlipped {
		return p.Height, p.Width
	}
	return p.Width, p.Height
}

// shape returns the geometry described by s.
func (s *ShapeConfig) shape() (shape.Shape, error) {
	switch s.Kind {
	case "circle":
		if s.Radius < 0 {
			return nil, fmt.Errorf("negative radius %d", s.Radius)
		}
		return shape.Circle{Radius: s.Radius}, nil
	case "triangle":
		if len(s.Vertices) != 3 {
			return nil, fmt.Errorf("triangle needs 3 vertices, got %d", len(s.Vertices))
		}
		var t shape.Triangle
		for i, v := range s.Vertices {
			if len(v) != 2 {
				return nil, fmt.Errorf("vertex #%d must be [x, y]", i)
			}
			t.Vertices[i] = image.Pt(v[0], v[1])
		}
		return t, nil
	case "rectangle":
		if s.Width <= 0 || s.Height <= 0 {
			return nil, fmt.Errorf("invalid rectangle size %dx%d", s.Width, s.Height)
		}
		return shape.Rectangle{W: s.Width, H: s.Height}, nil
	case "star":
		return shape.Star{}, nil
	case "pointer":
		return shape.Pointer{}, nil
	case "custom":
		return shape.Custom{}, nil
	}
	return nil, fmt.Errorf("unknown kind %q", s.Kind)
}

// option converts m to a shape.MoveOption.
func (m *MoveConfig) option() (shape.MoveOption, error) {
	var opt shape.MoveOption
	var err error
	if opt.Boundary, err = ParseEdges(m.Boundary); err != nil {
		return opt, err
	}
	if opt.Collision, err = ParseCollision(m.Collision); err != nil {
		return opt, err
	}
	if opt.Overlap, err = ParseOverlap(m.Overlap); err != nil {
		return opt, err
	}
	opt.DX, opt.DY = m.DX, m.DY
	return opt, nil
}

// ParseDepth returns the depth named s.
func ParseDepth(s string) (pixbuf.Depth, error) {
	for _, d := range []pixbuf.Depth{pixbuf.Mono, pixbuf.RGB565, pixbuf.RGB888} {
		if d.String() == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("lcdgfx: unknown depth %q", s)
}

// ParseFontStyle returns the font style named s.
func ParseFontStyle(s string) (font.Style, error) {
	for _, st := range []font.Style{font.Small, font.Medium, font.Large} {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("lcdgfx: unknown font style %q", s)
}

var edgeNames = map[string]shape.Edge{
	"none":       shape.EdgeNone,
	"top":        shape.EdgeTop,
	"bottom":     shape.EdgeBottom,
	"left":       shape.EdgeLeft,
	"right":      shape.EdgeRight,
	"top-bottom": shape.EdgeTopBottom,
	"left-right": shape.EdgeLeftRight,
	"all":        shape.EdgeAll,
}

// ParseEdges combines the named edges into a boundary mask.
func ParseEdges(names []string) (shape.Edge, error) {
	var e shape.Edge
	for _, n := range names {
		v, ok := edgeNames[n]
		if !ok {
			return 0, fmt.Errorf("unknown boundary %q", n)
		}
		e |= v
	}
	return e, nil
}

// ParseCollision returns the collision mode named s. An empty name is
// shape.CollisionNone.
func ParseCollision(s string) (shape.Collision, error) {
	switch s {
	case "", "none":
		return shape.CollisionNone, nil
	case "pixel":
		return shape.CollisionPixel, nil
	case "bounding-box":
		return shape.CollisionBoundingBox, nil
	}
	return 0, fmt.Errorf("unknown collision %q", s)
}

// ParseOverlap returns the overlap policy named s. An empty name is
// shape.OverlapNone.
func ParseOverlap(s string) (shape.Overlap, error) {
	switch s {
	case "", "none":
		return shape.OverlapNone, nil
	case "toggle":
		return shape.OverlapToggle, nil
	case "force-on":
		return shape.OverlapForceOn, nil
	case "force-off":
		return shape.OverlapForceOff, nil
	}
	return 0, fmt.Errorf("unknown overlap %q", s)
}

// Build creates the scene described by c, committing to out. out may be
// nil to render in memory only. clock may be nil to use the system clock.
func (c *Config) Build(out display.Drawer, clock fps.Clock) (*Scene, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.Panel.Color == nil || c.Panel.Background == nil {
		return nil, errors.New("lcdgfx: colors not set, use ParseConfig or LoadConfig")
	}
	depth, _ := ParseDepth(c.Panel.Depth)
	d, err := New(out, &Opts{
		W:           c.Panel.Width,
		H:           c.Panel.Height,
		Depth:       depth,
		Color:       uint32(*c.Panel.Color),
		Background:  uint32(*c.Panel.Background),
		FPSInterval: c.FPS.IntervalMS,
		Clock:       clock,
	})
	if err != nil {
		return nil, err
	}

	s := &Scene{Display: d, ShowFPS: c.FPS.Show}
	s.FPSStyle, _ = ParseFontStyle(c.FPS.Style)
	s.FPSColor = d.Pool.Foreground
	if c.FPS.Color != nil {
		s.FPSColor = d.Encode(uint32(*c.FPS.Color))
	}
	if p := c.FPS.Position; len(p) == 2 {
		s.FPSPos = &image.Point{X: p[0], Y: p[1]}
	}

	for i := range c.Shapes {
		sc := &c.Shapes[i]
		geom, _ := sc.shape()
		h, err := d.Pool.Create(geom, image.Pt(sc.X, sc.Y))
		if err != nil {
			return nil, fmt.Errorf("lcdgfx: shape #%d: %w", i, err)
		}
		o, _ := d.Pool.Get(h)
		o.Rotation = sc.Rotation % 360
		o.Visible = !sc.Hidden
		if sc.Color != nil {
			o.Color = d.Encode(uint32(*sc.Color))
		}
		if sc.Move != nil {
			opt, _ := sc.Move.option()
			s.Actors = append(s.Actors, &Actor{Handle: h, Move: opt, Color: o.Color})
		}
	}
	d.UpdateFrame()
	return s, nil
}
