// Package bufptr implements a cursor over a borrowed byte slice.
//
// Most of the formats handled by this module were written by C code that walks
// a pointer through a buffer (`v = *p++`). A Ptr bundles the slice, the current
// offset and a default byte order, and exposes the same read-then-advance
// pattern with bounds checks. Files routinely mix big and little endian
// fields, so every multi-byte read has an explicit-order variant as well.
package bufptr

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// ErrBufferUnderrun is returned when a read would go past the end (or before
// the start) of the underlying buffer. Callers decide whether it is fatal
// (corrupt data) or expected (optimistic size headers).
var ErrBufferUnderrun = errors.New("buffer underrun")

// Ptr is a read/write cursor over a byte slice it does not own.
type Ptr struct {
	buf   []byte
	off   int
	order binary.ByteOrder
}

// New returns a little-endian Ptr positioned at off.
func New(buf []byte, off int) *Ptr {
	return &Ptr{buf: buf, off: off, order: binary.LittleEndian}
}

// NewBE returns a big-endian Ptr positioned at off.
func NewBE(buf []byte, off int) *Ptr {
	return &Ptr{buf: buf, off: off, order: binary.BigEndian}
}

// NewWithOrder returns a Ptr with the passed default byte order.
func NewWithOrder(buf []byte, off int, order binary.ByteOrder) *Ptr {
	return &Ptr{buf: buf, off: off, order: order}
}

func (p *Ptr) Bytes() []byte           { return p.buf }
func (p *Ptr) Len() int                { return len(p.buf) }
func (p *Ptr) Offset() int             { return p.off }
func (p *Ptr) Order() binary.ByteOrder { return p.order }

// Seek moves the cursor to an absolute offset. Out of range offsets are
// allowed; the next read reports the underrun.
func (p *Ptr) Seek(off int) { p.off = off }

// Skip moves the cursor by n bytes (n may be negative).
func (p *Ptr) Skip(n int) { p.off += n }

// Remaining reports how many bytes are left from the current offset.
func (p *Ptr) Remaining() int {
	if p.off < 0 || p.off >= len(p.buf) {
		return 0
	}
	return len(p.buf) - p.off
}

// AtEnd reports whether the cursor is outside the buffer.
func (p *Ptr) AtEnd() bool {
	return p.off < 0 || p.off >= len(p.buf)
}

// Clone returns an independent cursor over the same buffer.
func (p *Ptr) Clone() *Ptr {
	c := *p
	return &c
}

func (p *Ptr) window(at, n int) ([]byte, error) {
	if at < 0 || n < 0 || at+n > len(p.buf) {
		return nil, errors.Wrapf(ErrBufferUnderrun, "reading %d bytes at 0x%x of 0x%x", n, at, len(p.buf))
	}
	return p.buf[at : at+n], nil
}

// Slice returns the next n bytes as a sub-slice without advancing. The slice
// aliases the buffer; nested decoders must only read from it.
func (p *Ptr) Slice(n int) ([]byte, error) {
	return p.window(p.off, n)
}

// GetAndIncSlice returns the next n bytes and advances past them.
func (p *Ptr) GetAndIncSlice(n int) ([]byte, error) {
	b, err := p.window(p.off, n)
	if err != nil {
		return nil, err
	}
	p.off += n
	return b, nil
}

// U8 reads the byte at the cursor.
func (p *Ptr) U8() (uint8, error) {
	b, err := p.window(p.off, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (p *Ptr) S8() (int8, error) {
	v, err := p.U8()
	return int8(v), err
}

func (p *Ptr) U16() (uint16, error) { return p.U16With(p.order) }
func (p *Ptr) U32() (uint32, error) { return p.U32With(p.order) }
func (p *Ptr) U64() (uint64, error) { return p.U64With(p.order) }

func (p *Ptr) S16() (int16, error) {
	v, err := p.U16()
	return int16(v), err
}

func (p *Ptr) S32() (int32, error) {
	v, err := p.U32()
	return int32(v), err
}

func (p *Ptr) F32() (float32, error) {
	v, err := p.U32()
	return math.Float32frombits(v), err
}

// U16With reads a 16-bit word at the cursor in the passed byte order.
func (p *Ptr) U16With(order binary.ByteOrder) (uint16, error) {
	b, err := p.window(p.off, 2)
	if err != nil {
		return 0, err
	}
	return order.Uint16(b), nil
}

func (p *Ptr) U32With(order binary.ByteOrder) (uint32, error) {
	b, err := p.window(p.off, 4)
	if err != nil {
		return 0, err
	}
	return order.Uint32(b), nil
}

func (p *Ptr) U64With(order binary.ByteOrder) (uint64, error) {
	b, err := p.window(p.off, 8)
	if err != nil {
		return 0, err
	}
	return order.Uint64(b), nil
}

func (p *Ptr) U16LE() (uint16, error) { return p.U16With(binary.LittleEndian) }
func (p *Ptr) U16BE() (uint16, error) { return p.U16With(binary.BigEndian) }
func (p *Ptr) U32LE() (uint32, error) { return p.U32With(binary.LittleEndian) }
func (p *Ptr) U32BE() (uint32, error) { return p.U32With(binary.BigEndian) }
