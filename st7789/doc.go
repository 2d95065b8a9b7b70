// Package st7789 controls a ST7789 TFT LCD controller via SPI.
//
// The ST7789 drives panels of up to 240x320 pixels in 16-bit RGB565. The
// common 240x240 modules only use part of the controller RAM, which is why
// some orientations need a RAM offset (see Orientation).
//
// Dev implements periph's display.Drawer. Drawing a full-size RGB565
// *pixbuf.Frame is sent as is; any other image is converted into an internal
// frame and only the rectangle that changed since the previous Draw is
// transferred.
//
// A typical setup on a Raspberry Pi:
//
//	if _, err := host.Init(); err != nil {
//		log.Fatal(err)
//	}
//	p, err := spireg.Open("")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer p.Close()
//	dev, err := st7789.NewSPI(p, gpioreg.ByName("GPIO25"), &st7789.Opts{
//		W: 240, H: 240,
//		RST: gpioreg.ByName("GPIO27"),
//		BL:  gpioreg.ByName("GPIO24"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer dev.Halt()
//
//	frame := pixbuf.New(pixbuf.RGB565, 240, 240)
//	frame.Fill(pixbuf.RGB565.Encode(0x0000FF))
//	dev.Draw(dev.Bounds(), frame, image.Point{})
package st7789
