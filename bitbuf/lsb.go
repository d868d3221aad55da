package bitbuf

import (
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritecodec/bufptr"
)

// LSBReader reads least-significant-bit-first codes out of a byte stream, as
// laid out in the arcade graphics ROMs: the first bit of a code is bit 0 of
// the current byte, and codes continue into the low bits of the next byte.
type LSBReader struct {
	buf []byte
	off int

	acc  uint64
	have uint

	total    int
	consumed int
}

func NewLSBReader(buf []byte, off int) *LSBReader {
	r := &LSBReader{buf: buf, off: off}
	if off >= 0 && off < len(buf) {
		r.total = (len(buf) - off) * 8
	}
	return r
}

// ReadBits returns the next n (0..32) bits. Bits past the end of the buffer
// read as zero and the read reports bufptr.ErrBufferUnderrun.
func (r *LSBReader) ReadBits(n int) (uint32, error) {
	if n < 0 || n > 32 {
		return 0, errors.Errorf("bitbuf: cannot read %d bits", n)
	}
	for r.have < uint(n) {
		var b uint64
		if r.off >= 0 && r.off < len(r.buf) {
			b = uint64(r.buf[r.off])
		}
		r.off++
		r.acc |= b << r.have
		r.have += 8
	}
	v := r.acc & (1<<uint(n) - 1)
	r.acc >>= uint(n)
	r.have -= uint(n)
	r.consumed += n
	if r.consumed > r.total {
		return uint32(v), errors.Wrapf(bufptr.ErrBufferUnderrun, "bit %d of %d", r.consumed, r.total)
	}
	return uint32(v), nil
}

// Skip discards n bits.
func (r *LSBReader) Skip(n int) error {
	for n > 32 {
		if _, err := r.ReadBits(32); err != nil {
			return err
		}
		n -= 32
	}
	_, err := r.ReadBits(n)
	return err
}
