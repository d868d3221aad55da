// Package bitbuf reads bit-granular codes out of byte buffers.
//
// Two orientations exist and they are deliberately separate types:
// MSBReader serves the MKT PC and N64 formats (codes are taken from the top
// of little-endian words), LSBReader serves the arcade ROM graphics (codes are
// taken from the bottom of each byte upwards).
package bitbuf

import (
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritecodec/bufptr"
)

// MSBReader reads most-significant-bit-first codes out of a stream of
// little-endian words of 8, 16 or 32 bits. It keeps the current word and one
// word of lookahead.
//
// Words past the end of the input load as zero, since the formats pad their
// final word. Once a read needs bits from a word that lies entirely past the
// end of the input, ReadBits reports bufptr.ErrBufferUnderrun so callers can
// stop.
type MSBReader struct {
	buf  []byte
	off  int
	unit uint
	mask uint64

	curr, next uint64
	bitNum     uint

	total    int
	consumed int
}

// NewMSBReader primes a reader at buf[off:] with the given unit size in bits.
func NewMSBReader(buf []byte, off int, unit int) (*MSBReader, error) {
	switch unit {
	case 8, 16, 32:
	default:
		return nil, errors.Errorf("bitbuf: unsupported unit size %d", unit)
	}
	r := &MSBReader{
		buf:  buf,
		off:  off,
		unit: uint(unit),
		mask: 1<<uint(unit) - 1,
	}
	if off < len(buf) && off >= 0 {
		bytesPerUnit := unit / 8
		words := (len(buf) - off + bytesPerUnit - 1) / bytesPerUnit
		r.total = words * unit
	}
	r.curr = r.load()
	r.next = r.load()
	r.bitNum = r.unit
	return r, nil
}

// load assembles the next little-endian word, zero filling bytes past the end.
func (r *MSBReader) load() uint64 {
	var w uint64
	for i := uint(0); i < r.unit/8; i++ {
		at := r.off + int(i)
		if at >= 0 && at < len(r.buf) {
			w |= uint64(r.buf[at]) << (8 * i)
		}
	}
	r.off += int(r.unit / 8)
	return w
}

// ReadBits returns the next n (0..32) bits of the stream.
func (r *MSBReader) ReadBits(n int) (uint32, error) {
	if n < 0 || n > 32 {
		return 0, errors.Errorf("bitbuf: cannot read %d bits", n)
	}
	var code uint64
	pull := uint(n)
	for pull > 0 {
		if r.bitNum == 0 {
			r.curr = r.next
			r.next = r.load()
			r.bitNum = r.unit
		}
		take := pull
		if take > r.bitNum {
			take = r.bitNum
		}
		code = code<<take | r.curr>>(r.unit-take)
		r.curr = (r.curr << take) & r.mask
		r.bitNum -= take
		pull -= take
	}
	r.consumed += n
	if r.consumed > r.total {
		return uint32(code), errors.Wrapf(bufptr.ErrBufferUnderrun, "bit %d of %d", r.consumed, r.total)
	}
	return uint32(code), nil
}

// TopBit peeks at the top bit of the current word. Once a word is used up
// the next one is only loaded by ReadBits, so at a word boundary TopBit is
// false whatever the next bit of the stream is.
func (r *MSBReader) TopBit() bool {
	return r.curr&(1<<(r.unit-1)) != 0
}

// Consumed reports how many bits have been read so far.
func (r *MSBReader) Consumed() int { return r.consumed }
