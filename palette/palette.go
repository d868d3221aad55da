// Package palette reads 16-bit-per-entry palettes in the layouts used by the
// supported games, and decides which palette applies to a given image.
//
// Index 0 of every palette is transparent.
package palette

import (
	"encoding/binary"
	"image/color"
	"io"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritecodec/bufptr"
)

// Entries is an ordered list of colours. Entries[0] is transparent.
type Entries []color.NRGBA

// Color returns the entries as a color.Palette for image.Paletted.
func (e Entries) Color() color.Palette {
	p := make(color.Palette, len(e))
	for i, c := range e {
		p[i] = c
	}
	return p
}

// Full returns a 256 entry color.Palette: the entries, padded with the dummy
// ramp, so that any byte-sized index is in range for the image encoders.
func (e Entries) Full() color.Palette {
	p := make(color.Palette, 256)
	d := Dummy()
	for i := range p {
		switch {
		case i < len(e):
			p[i] = e[i]
		case i < len(d):
			p[i] = d[i]
		default:
			p[i] = rampEntry(i)
		}
	}
	return p
}

// DummySize is how many entries Dummy returns.
const DummySize = 255

func rampEntry(i int) color.NRGBA {
	v := uint8((i * 4) % 256)
	a := uint8(0xff)
	if i == 0 {
		a = 0
	}
	return color.NRGBA{R: v, G: v, B: v, A: a}
}

// Dummy is a visible grey ramp used whenever the real palette is unknown.
func Dummy() Entries {
	e := make(Entries, DummySize)
	for i := range e {
		e[i] = rampEntry(i)
	}
	return e
}

// DummyN64 returns raw palette data for a 256 entry grey ramp, as big endian
// words the way N64 palettes are stored.
func DummyN64() []byte {
	b := make([]byte, 512)
	for i := 0; i < len(b); i += 2 {
		m := uint16(i % 32)
		binary.BigEndian.PutUint16(b[i:], m|m<<5|m<<10)
	}
	return b
}

// Extend pads a short palette to DummySize entries with the dummy ramp.
func Extend(e Entries) Entries {
	out := make(Entries, len(e), DummySize)
	copy(out, e)
	if len(out) < DummySize {
		out = append(out, Dummy()[len(out):]...)
	}
	return out
}

// ReadCounted reads a little endian entry count followed by that many little
// endian entries.
func ReadCounted(p *bufptr.Ptr, f Format) (Entries, error) {
	n, err := p.GetAndIncU16LE()
	if err != nil {
		return nil, errors.Wrap(err, "palette size")
	}
	e := make(Entries, 0, n)
	for i := 0; i < int(n); i++ {
		c, err := p.GetAndIncU16LE()
		if err != nil {
			return nil, errors.Wrapf(err, "palette entry %d of %d", i, n)
		}
		e = append(e, EntryToRGB(c, f))
	}
	return transparentZero(e), nil
}

// ReadWithSize reads n entries in the cursor's default byte order.
func ReadWithSize(p *bufptr.Ptr, n int, f Format) (Entries, error) {
	e := make(Entries, 0, n)
	for i := 0; i < n; i++ {
		c, err := p.GetAndIncU16()
		if err != nil {
			return nil, errors.Wrapf(err, "palette entry %d of %d", i, n)
		}
		e = append(e, EntryToRGB(c, f))
	}
	return transparentZero(e), nil
}

// ReadPC reads an MKT PC palette: a little endian count and little endian
// entries with red in the low bits.
func ReadPC(p *bufptr.Ptr) (Entries, error) {
	return ReadCounted(p, XBGR1555)
}

// FromBytes decodes raw palette words in the passed byte order.
func FromBytes(b []byte, order binary.ByteOrder, f Format) Entries {
	e, _ := ReadWithSize(bufptr.NewWithOrder(b, 0, order), len(b)/2, f)
	return e
}

func transparentZero(e Entries) Entries {
	if len(e) > 0 {
		e[0].A = 0
	}
	return e
}

// WriteACT writes e as an Adobe colour table: 256 RGB triplets, then the
// entry count and the (unset) transparent index.
func WriteACT(w io.Writer, e Entries) error {
	buf := make([]byte, 256*3+4)
	for i, c := range e {
		if i >= 256 {
			break
		}
		buf[i*3], buf[i*3+1], buf[i*3+2] = c.R, c.G, c.B
	}
	buf[256*3] = byte(len(e) & 0xff)
	_, err := w.Write(buf)
	return errors.Wrap(err, "writing act palette")
}
