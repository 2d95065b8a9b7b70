package st7789

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/flavioheleno/lcdgfx/pixbuf"
)

func init() {
	sleep = func(time.Duration) {}
}

// tx is one recorded SPI transfer.
type tx struct {
	data bool // DC was high
	b    []byte
}

// fakeConn records transfers together with the DC level.
type fakeConn struct {
	dc    *gpiotest.Pin
	maxTx int
	txs   []tx
	err   error
}

func (f *fakeConn) String() string      { return "fakeConn" }
func (f *fakeConn) Duplex() conn.Duplex { return conn.Half }
func (f *fakeConn) MaxTxSize() int      { return f.maxTx }

func (f *fakeConn) Tx(w, r []byte) error {
	if f.err != nil {
		return f.err
	}
	f.txs = append(f.txs, tx{data: f.dc.Read() == gpio.High, b: append([]byte(nil), w...)})
	return nil
}

func (f *fakeConn) TxPackets(p []spi.Packet) error {
	return errors.New("fakeConn: TxPackets not supported")
}

type fakePort struct {
	c    *fakeConn
	hz   physic.Frequency
	mode spi.Mode
	bits int
	err  error
}

func (p *fakePort) String() string                      { return "fakePort" }
func (p *fakePort) LimitSpeed(f physic.Frequency) error { return nil }

func (p *fakePort) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.hz, p.mode, p.bits = f, mode, bits
	return p.c, nil
}

// command is a command byte with its parameters, rebuilt from transfers.
type command struct {
	cmd  byte
	args []byte
}

func (f *fakeConn) commands() []command {
	var out []command
	for _, t := range f.txs {
		if !t.data {
			for _, b := range t.b {
				out = append(out, command{cmd: b})
			}
			continue
		}
		if len(out) > 0 {
			last := &out[len(out)-1]
			last.args = append(last.args, t.b...)
		}
	}
	return out
}

func (f *fakeConn) reset() { f.txs = nil }

func newTestDev(t *testing.T, opts *Opts) (*Dev, *fakeConn, *gpiotest.Pin) {
	t.Helper()
	dc := &gpiotest.Pin{N: "DC"}
	bl := &gpiotest.Pin{N: "BL"}
	c := &fakeConn{dc: dc}
	if opts == nil {
		opts = &Opts{}
	}
	o := *opts
	o.BL = bl
	d, err := NewSPI(&fakePort{c: c}, dc, &o)
	if err != nil {
		t.Fatalf("NewSPI: %v", err)
	}
	return d, c, bl
}

func TestOptsValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    *Opts
		wantErr bool
	}{
		{"nil options (uses defaults)", nil, false},
		{"valid 240x240", &Opts{W: 240, H: 240}, false},
		{"valid 240x320", &Opts{W: 240, H: 320}, false},
		{"valid 135x240", &Opts{W: 135, H: 240}, false},
		{"width > 240", &Opts{W: 320, H: 240}, true},
		{"negative width", &Opts{W: -1, H: 240}, true},
		{"height > 320", &Opts{W: 240, H: 400}, true},
		{"bad orientation", &Opts{Orientation: 4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dc := &gpiotest.Pin{N: "DC"}
			_, err := NewSPI(&fakePort{c: &fakeConn{dc: dc}}, dc, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewSPI() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewSPIConnect(t *testing.T) {
	dc := &gpiotest.Pin{N: "DC"}
	p := &fakePort{c: &fakeConn{dc: dc}}
	if _, err := NewSPI(p, dc, nil); err != nil {
		t.Fatal(err)
	}
	if p.hz != 40*physic.MegaHertz || p.mode != spi.Mode0 || p.bits != 8 {
		t.Errorf("Connect(%s, %v, %d), want 40MHz, Mode0, 8", p.hz, p.mode, p.bits)
	}

	p = &fakePort{c: &fakeConn{dc: dc}, err: errors.New("busy")}
	if _, err := NewSPI(p, dc, nil); err == nil || !strings.Contains(err.Error(), "busy") {
		t.Errorf("NewSPI() error = %v, want wrapped connect error", err)
	}
	if _, err := NewSPI(&fakePort{c: &fakeConn{dc: dc}}, nil, nil); err == nil {
		t.Error("NewSPI() without dc pin should fail")
	}
}

func TestInitSequence(t *testing.T) {
	d, c, bl := newTestDev(t, nil)

	cmds := c.commands()
	want := []byte{cmdMADCTL, cmdCOLMOD, 0xB2, 0xB7, 0xBB, 0xC0, 0xC2, 0xC3, 0xC4, 0xC6, 0xD0, 0xE0, 0xE1,
		cmdINVON, cmdSLPOUT, cmdDISPON, cmdMADCTL, cmdCASET, cmdRASET, cmdRAMWR}
	if len(cmds) != len(want) {
		t.Fatalf("got %d commands, want %d", len(cmds), len(want))
	}
	for i, w := range want {
		if cmds[i].cmd != w {
			t.Errorf("command #%d = 0x%02X, want 0x%02X", i, cmds[i].cmd, w)
		}
	}
	if !bytes.Equal(cmds[1].args, []byte{0x05}) {
		t.Errorf("COLMOD args = % X, want 05", cmds[1].args)
	}
	if got := cmds[len(cmds)-1].args; len(got) != 240*240*2 {
		t.Errorf("RAM clear sent %d bytes, want %d", len(got), 240*240*2)
	}
	if bl.Read() != gpio.High {
		t.Error("backlight should be on after init")
	}
	if got := d.String(); got != "st7789.Dev{240x240, normal}" {
		t.Errorf("String() = %q", got)
	}
}

func TestResetPin(t *testing.T) {
	rst := &gpiotest.Pin{N: "RST", L: gpio.Low}
	newTestDev(t, &Opts{RST: rst})
	if rst.Read() != gpio.High {
		t.Error("RST should be released high after reset")
	}
}

func TestOrientation(t *testing.T) {
	tests := []struct {
		o          Orientation
		madctl     byte
		bounds     image.Rectangle
		xOff, yOff int
	}{
		{Normal, 0x00, image.Rect(0, 0, 240, 240), 0, 0},
		{Flipped, 0xC0, image.Rect(0, 0, 240, 240), 0, 80},
		{Rotated, 0x70, image.Rect(0, 0, 240, 240), 0, 0},
		{RotatedFlipped, 0xA0, image.Rect(0, 0, 240, 240), 80, 0},
	}

	for _, tt := range tests {
		t.Run(tt.o.String(), func(t *testing.T) {
			d, c, _ := newTestDev(t, nil)
			c.reset()
			if err := d.SetOrientation(tt.o); err != nil {
				t.Fatal(err)
			}
			cmds := c.commands()
			if len(cmds) != 1 || cmds[0].cmd != cmdMADCTL || !bytes.Equal(cmds[0].args, []byte{tt.madctl}) {
				t.Fatalf("commands = %+v, want MADCTL %02X", cmds, tt.madctl)
			}
			if d.Bounds() != tt.bounds || d.xOff != tt.xOff || d.yOff != tt.yOff {
				t.Errorf("bounds %v offsets (%d, %d), want %v (%d, %d)",
					d.Bounds(), d.xOff, d.yOff, tt.bounds, tt.xOff, tt.yOff)
			}
			if d.Orientation() != tt.o {
				t.Errorf("Orientation() = %v", d.Orientation())
			}
		})
	}
}

func TestRotatedSwapsBounds(t *testing.T) {
	d, _, _ := newTestDev(t, &Opts{W: 240, H: 320, Orientation: Rotated})
	if want := image.Rect(0, 0, 320, 240); d.Bounds() != want {
		t.Errorf("Bounds() = %v, want %v", d.Bounds(), want)
	}
	if err := d.SetOrientation(RotatedFlipped); err != nil {
		t.Fatal(err)
	}
	if d.xOff != 0 {
		t.Errorf("xOff = %d, a 320-row panel uses the whole RAM", d.xOff)
	}
}

func TestParseOrientation(t *testing.T) {
	for _, s := range []string{"normal", "flipped", "rotated", "rotated-flipped"} {
		o, err := ParseOrientation(s)
		if err != nil || o.String() != s {
			t.Errorf("ParseOrientation(%q) = %v, %v", s, o, err)
		}
	}
	if _, err := ParseOrientation("sideways"); err == nil {
		t.Error("ParseOrientation should reject unknown names")
	}
}

func TestDrawFastPath(t *testing.T) {
	d, c, _ := newTestDev(t, &Opts{W: 8, H: 4})
	c.reset()

	f := pixbuf.New(pixbuf.RGB565, 8, 4)
	f.Fill(0xF800)
	if err := d.Draw(d.Bounds(), f, image.Point{}); err != nil {
		t.Fatal(err)
	}
	cmds := c.commands()
	if len(cmds) != 3 {
		t.Fatalf("got %d commands, want CASET RASET RAMWR", len(cmds))
	}
	if !bytes.Equal(cmds[0].args, []byte{0, 0, 0, 7}) || !bytes.Equal(cmds[1].args, []byte{0, 0, 0, 3}) {
		t.Errorf("window = % X / % X", cmds[0].args, cmds[1].args)
	}
	if !bytes.Equal(cmds[2].args, f.Pix) {
		t.Error("RAMWR payload differs from the frame")
	}
	if !bytes.Equal(d.buffer, f.Pix) {
		t.Error("buffer not updated by the fast path")
	}
}

func TestDrawDifferential(t *testing.T) {
	d, c, _ := newTestDev(t, &Opts{W: 16, H: 8})

	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	// First slow-path draw of identical content sends nothing.
	c.reset()
	if err := d.Draw(d.Bounds(), img, image.Point{}); err != nil {
		t.Fatal(err)
	}
	if len(c.txs) != 0 {
		t.Fatalf("unchanged frame sent %d transfers", len(c.txs))
	}

	img.Set(3, 2, color.RGBA{R: 0xFF, A: 0xFF})
	img.Set(5, 4, color.RGBA{B: 0xFF, A: 0xFF})
	if err := d.Draw(d.Bounds(), img, image.Point{}); err != nil {
		t.Fatal(err)
	}
	cmds := c.commands()
	if len(cmds) != 3 {
		t.Fatalf("got %d commands, want 3", len(cmds))
	}
	if !bytes.Equal(cmds[0].args, []byte{0, 3, 0, 5}) {
		t.Errorf("CASET = % X, want 00 03 00 05", cmds[0].args)
	}
	if !bytes.Equal(cmds[1].args, []byte{0, 2, 0, 4}) {
		t.Errorf("RASET = % X, want 00 02 00 04", cmds[1].args)
	}
	px := cmds[2].args
	if len(px) != 3*3*2 {
		t.Fatalf("RAMWR sent %d bytes, want 18", len(px))
	}
	if px[0] != 0xF8 || px[1] != 0x00 {
		t.Errorf("first pixel = %02X%02X, want F800", px[0], px[1])
	}
	if last := px[len(px)-2:]; last[0] != 0x00 || last[1] != 0x1F {
		t.Errorf("last pixel = % X, want 00 1F", last)
	}
}

func TestDrawAfterOrientationWritesFullFrame(t *testing.T) {
	d, c, _ := newTestDev(t, &Opts{W: 8, H: 4})
	if err := d.SetOrientation(Flipped); err != nil {
		t.Fatal(err)
	}
	c.reset()
	img := image.NewGray(image.Rect(0, 0, 8, 4))
	if err := d.Draw(d.Bounds(), img, image.Point{}); err != nil {
		t.Fatal(err)
	}
	cmds := c.commands()
	if len(cmds) != 3 || len(cmds[2].args) != 8*4*2 {
		t.Fatalf("expected a full frame after SetOrientation, got %+v", cmds)
	}
	// Row offset 320-4.
	if !bytes.Equal(cmds[1].args, []byte{0x01, 0x3C, 0x01, 0x3F}) {
		t.Errorf("RASET = % X, want 01 3C 01 3F", cmds[1].args)
	}
}

func TestSendDataChunks(t *testing.T) {
	dc := &gpiotest.Pin{N: "DC"}
	c := &fakeConn{dc: dc, maxTx: 64}
	d, err := NewSPI(&fakePort{c: c}, dc, &Opts{W: 10, H: 10})
	if err != nil {
		t.Fatal(err)
	}
	c.reset()
	if _, err := d.Write(make([]byte, 200)); err != nil {
		t.Fatal(err)
	}
	var sizes []int
	for _, x := range c.txs {
		if x.data && len(x.b) > 4 {
			sizes = append(sizes, len(x.b))
		}
	}
	if len(sizes) != 4 || sizes[0] != 64 || sizes[3] != 8 {
		t.Errorf("chunks = %v, want [64 64 64 8]", sizes)
	}
}

func TestWrite(t *testing.T) {
	d, _, _ := newTestDev(t, &Opts{W: 4, H: 4})
	if _, err := d.Write(make([]byte, 3)); err == nil {
		t.Error("Write with a short buffer should fail")
	}
	n, err := d.Write(bytes.Repeat([]byte{0xAB}, 32))
	if err != nil || n != 32 {
		t.Errorf("Write() = %d, %v", n, err)
	}
}

func TestHalt(t *testing.T) {
	d, c, bl := newTestDev(t, nil)
	c.reset()
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if bl.Read() != gpio.Low {
		t.Error("backlight should be off after Halt")
	}
	cmds := c.commands()
	if len(cmds) != 2 || cmds[0].cmd != cmdDISPOFF || cmds[1].cmd != cmdSLPIN {
		t.Errorf("Halt commands = %+v", cmds)
	}

	if err := d.Draw(d.Bounds(), image.NewRGBA(d.Bounds()), image.Point{}); err == nil {
		t.Error("Draw after Halt should fail")
	}
	if _, err := d.Write(nil); err == nil {
		t.Error("Write after Halt should fail")
	}
	if err := d.Invert(true); err == nil {
		t.Error("Invert after Halt should fail")
	}
	if err := d.SetOrientation(Normal); err == nil {
		t.Error("SetOrientation after Halt should fail")
	}
}

func TestInvert(t *testing.T) {
	d, c, _ := newTestDev(t, nil)
	c.reset()
	d.Invert(true)
	d.Invert(false)
	cmds := c.commands()
	if len(cmds) != 2 || cmds[0].cmd != cmdINVOFF || cmds[1].cmd != cmdINVON {
		t.Errorf("Invert commands = %+v", cmds)
	}
}

func TestDevColorModel(t *testing.T) {
	d, _, _ := newTestDev(t, nil)
	got := d.ColorModel().Convert(color.RGBA{R: 0xFF, G: 0x84, B: 0x07, A: 0xFF})
	r, g, b, _ := got.RGBA()
	if r>>8 != 0xFF || g>>8 != 0x86 || b>>8 != 0x00 {
		t.Errorf("Convert() = %02X %02X %02X, want FF 86 00", r>>8, g>>8, b>>8)
	}
}

func TestTxError(t *testing.T) {
	d, c, _ := newTestDev(t, nil)
	c.err = errors.New("bus fault")
	if err := d.Invert(true); err == nil {
		t.Error("Tx errors should propagate")
	}
}
