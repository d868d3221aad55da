package mktpc

import (
	"badc0de.net/pkg/go-spritecodec/bufptr"
)

// canvas is a width*height output buffer. Writes outside it are dropped.
type canvas struct {
	pix []byte
	off int
}

func newCanvas(w, h int) *canvas {
	if w < 0 || h < 0 {
		w, h = 0, 0
	}
	return &canvas{pix: make([]byte, w*h)}
}

func (c *canvas) put(v byte) {
	if c.off >= 0 && c.off < len(c.pix) {
		c.pix[c.off] = v
	}
	c.off++
}

func (c *canvas) fill(v byte, n int) {
	for ; n > 0; n-- {
		c.put(v)
	}
}

func (c *canvas) full() bool { return c.off >= len(c.pix) }

// window returns up to n bytes of buf starting at start, clipped to buf.
func window(buf []byte, start, n int) []byte {
	if start < 0 || start >= len(buf) || n <= 0 {
		return nil
	}
	end := start + n
	if end > len(buf) || end < start {
		end = len(buf)
	}
	return buf[start:end]
}

func u16At(buf []byte, at int) (uint16, error) { return bufptr.New(buf, at).U16LE() }

func s16At(buf []byte, at int) (int16, error) { return bufptr.New(buf, at).S16() }

func u32At(buf []byte, at int) (uint32, error) { return bufptr.New(buf, at).U32LE() }
