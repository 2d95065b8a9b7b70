// Package lcdgfx draws and animates simple shapes on small LCD panels.
//
// A Display owns a framebuffer, a fixed pool of up to 20 objects and a
// frame rate counter. Each frame the objects are moved, the framebuffer is
// recomposited and the result is committed to any periph.io display.Drawer,
// such as the ST7789 driver in package st7789 or the PNG simulator in
// package sim.
//
// # Packages
//
//	pixbuf  framebuffer in Mono, RGB565 or RGB888
//	raster  lines, circles, rectangles, triangles, bitmaps, progress bars
//	shape   object pool, rotation, motion and collision detection
//	font    bitmap fonts and UTF-8 text
//	fps     frame rate counter
//	st7789  SPI driver for ST7789 panels
//	sim     off-hardware panel writing PNG frames
//
// # Color Depths
//
// The framebuffer depth is picked when the Display is created:
//
//	Mono    1 bit per pixel, 8 vertical pixels per byte
//	RGB565  2 bytes per pixel, big-endian as sent to the panel
//	RGB888  4 bytes per pixel, 0x00RRGGBB big-endian
//
// Colors are given as 24-bit 0xRRGGBB values and converted with
// Display.Encode. Mono maps any non-black color to lit.
//
// # Basic Usage
//
// Example of bouncing a circle on an ST7789:
//
//	package main
//
//	import (
//		"image"
//
//		"github.com/flavioheleno/lcdgfx"
//		"github.com/flavioheleno/lcdgfx/shape"
//		"github.com/flavioheleno/lcdgfx/st7789"
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/conn/v3/spi/spireg"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		host.Init()
//		b, _ := spireg.Open("")
//		dev, _ := st7789.NewSPI(b, gpioreg.ByName("GPIO25"), &st7789.Opts{W: 240, H: 240})
//
//		d, _ := lcdgfx.New(dev, &lcdgfx.Opts{Color: 0xFFFFFF})
//		defer d.Halt()
//
//		h, _ := d.Pool.Create(shape.Circle{Radius: 18}, image.Pt(20, 20))
//		opt := shape.MoveOption{Boundary: shape.EdgeLeftRight, DX: 2}
//		for {
//			if d.Pool.Move(d.Frame, h, &opt, d.Encode(0xFF0000)) {
//				opt.DX = -opt.DX
//			}
//			d.Commit()
//			d.FPS.Update()
//		}
//	}
//
// # Scenes
//
// A Scene adds actors, objects moved on every Tick that bounce off the
// edges and objects they collide with, and an optional frame rate overlay.
// Scenes are usually described in YAML and built with Config.Build:
//
//	panel:
//	  width: 240
//	  height: 240
//	  depth: rgb565
//	fps:
//	  show: true
//	  style: medium
//	shapes:
//	  - kind: circle
//	    x: 20
//	    y: 20
//	    radius: 18
//	    color: "#FF0000"
//	    move:
//	      boundary: [left-right]
//	      collision: bounding-box
//	      dx: 2
//
// Colors are written as "#RRGGBB" (quoted) or 0xRRGGBB. Unknown fields are
// rejected.
//
// # Collisions
//
// Move refuses a step that crosses one of the boundary edges or, depending
// on the collision mode, lands on lit pixels (pixel) or newly overlaps the
// bounding box of another visible object (bounding-box). After a pixel
// collision the overlap policy may toggle, light or clear the pixels under
// the refused footprint.
//
// The frame rate overlay is drawn into the framebuffer, so objects using
// pixel collision bounce off it.
//
// # Concurrency
//
// Display, Scene and the object pool are not safe for concurrent use.
// Serialise whole ticks when sharing them between goroutines.
package lcdgfx
