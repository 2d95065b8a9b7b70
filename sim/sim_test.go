package sim

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/flavioheleno/lcdgfx/pixbuf"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    *Opts
		wantErr bool
	}{
		{"nil options", nil, true},
		{"zero size", &Opts{}, true},
		{"defaults", &Opts{W: 8, H: 8}, false},
		{"mono", &Opts{W: 8, H: 8, Depth: pixbuf.Mono}, false},
		{"bad depth", &Opts{W: 8, H: 8, Depth: 7}, true},
		{"negative scale", &Opts{W: 8, H: 8, Scale: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSnapshotScalesPixels(t *testing.T) {
	p, err := New(&Opts{W: 4, H: 3, Scale: 4, Grid: true})
	if err != nil {
		t.Fatal(err)
	}
	f := pixbuf.New(pixbuf.RGB565, 4, 3)
	f.SetPixel(1, 2, pixbuf.RGB565.Encode(0xFF0000))
	if err := p.Draw(p.Bounds(), f, image.Point{}); err != nil {
		t.Fatal(err)
	}

	img := p.Snapshot()
	if got := img.Bounds(); got != image.Rect(0, 0, 16, 12) {
		t.Fatalf("Bounds() = %v, want 16x12", got)
	}
	r, g, b, _ := img.At(1*4+2, 2*4+2).RGBA()
	if r>>8 != 0xFF || g != 0 || b != 0 {
		t.Errorf("scaled pixel = %02X %02X %02X, want red", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = img.At(2, 2).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("background pixel = %02X %02X %02X, want black", r>>8, g>>8, b>>8)
	}
	if r, _, _, _ := img.At(1*4, 2*4+2).RGBA(); r>>8 == 0xFF {
		t.Error("grid line missing on the pixel boundary")
	}
}

func TestDrawWritesNumberedPNGs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	p, err := New(&Opts{W: 5, H: 2, Depth: pixbuf.Mono, Scale: 2, Dir: dir, Prefix: "bounce"})
	if err != nil {
		t.Fatal(err)
	}
	src := image.NewGray(image.Rect(0, 0, 5, 2))
	src.SetGray(4, 1, color.Gray{Y: 0xFF})
	for i := 0; i < 2; i++ {
		if err := p.Draw(p.Bounds(), src, image.Point{}); err != nil {
			t.Fatal(err)
		}
	}
	if p.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", p.Frames())
	}

	fh, err := os.Open(filepath.Join(dir, "bounce-00002.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer fh.Close()
	img, err := png.Decode(fh)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 10 || img.Bounds().Dy() != 4 {
		t.Errorf("PNG size = %v, want 10x4", img.Bounds())
	}
	if r, _, _, _ := img.At(9, 3).RGBA(); r>>8 != 0xFF {
		t.Error("lit mono pixel should render white")
	}
}

func TestHalt(t *testing.T) {
	p, _ := New(&Opts{W: 2, H: 2})
	p.Halt()
	if err := p.Draw(p.Bounds(), image.NewRGBA(p.Bounds()), image.Point{}); err == nil {
		t.Error("Draw after Halt should fail")
	}
	if got := p.String(); got != "sim.Panel{2x2, rgb565, x3}" {
		t.Errorf("String() = %q", got)
	}
}
