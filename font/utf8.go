package font

// Decoder is an incremental UTF-8 decoder fed one byte at a time.
//
// Lead bytes 0xC2-0xDF, 0xE0-0xEF and 0xF0-0xF4 start sequences of two,
// three and four bytes. Invalid lead bytes are dropped. A byte that is not a
// continuation byte inside a sequence aborts it and is dropped as well.
// The zero Decoder is ready to use.
type Decoder struct {
	pending int
	code    rune
}

// Feed consumes b and returns the code point it completes, if any.
func (d *Decoder) Feed(b byte) (rune, bool) {
	if d.pending == 0 {
		switch {
		case b < 0x80:
			return rune(b), true
		case b >= 0xC2 && b <= 0xDF:
			d.pending, d.code = 1, rune(b&0x1F)
		case b >= 0xE0 && b <= 0xEF:
			d.pending, d.code = 2, rune(b&0x0F)
		case b >= 0xF0 && b <= 0xF4:
			d.pending, d.code = 3, rune(b&0x07)
		}
		return 0, false
	}
	if b < 0x80 || b > 0xBF {
		d.Reset()
		return 0, false
	}
	d.code = d.code<<6 | rune(b&0x3F)
	d.pending--
	return d.code, d.pending == 0
}

// Pending reports whether a multi-byte sequence is in progress.
func (d *Decoder) Pending() bool {
	return d.pending != 0
}

// Reset drops any partial sequence.
func (d *Decoder) Reset() {
	d.pending, d.code = 0, 0
}
