// Package pixbuf provides the in-memory framebuffer mirrored onto an LCD or
// OLED panel.
//
// Three pixel encodings are supported, fixed when the Frame is created:
//
//   - Mono: 1 bit per pixel, page packed. Each byte holds 8 vertically
//     adjacent pixels of one column; bit 0 is the top pixel of the page.
//   - RGB565: 16 bits per pixel, stored MSB first so that Pix can be sent
//     to the panel as is.
//   - RGB888: 32 bits per pixel, stored MSB first. Depth.Encode produces
//     0x00RRGGBB; the top byte is kept but ignored when decoding.
//
// Memory layout example for a 2x9 Mono frame (two pages):
//
//	Pix[0] Pix[1]   page 0, rows 0-7, columns 0 and 1
//	Pix[2] Pix[3]   page 1, row 8 in bit 0
//
// Colors are opaque Color values in the frame's encoding. Use Depth.Encode to
// convert a 24-bit 0xRRGGBB value:
//
//	f := pixbuf.New(pixbuf.RGB565, 240, 240)
//	red := f.Depth.Encode(0xFF0000) // 0xF800
//	f.SetPixel(10, 20, red)
//
// Coordinates outside the frame are ignored on write and read back as zero.
// Frame also implements draw.Image so that it can be handed to image/draw and
// to periph.io display.Drawer implementations.
package pixbuf
