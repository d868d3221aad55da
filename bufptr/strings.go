package bufptr

import (
	"bytes"

	"github.com/pkg/errors"
)

// FixedString reads a NUL-padded string of exactly n bytes. The string ends
// at the first NUL, but the cursor always advances by n.
func (p *Ptr) FixedString(n int) (string, error) {
	b, err := p.window(p.off, n)
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	p.off += n
	return string(b), nil
}

// CString reads a NUL-terminated string and advances past the terminator.
func (p *Ptr) CString() (string, error) {
	if p.AtEnd() {
		return "", errors.Wrapf(ErrBufferUnderrun, "reading c string at 0x%x", p.off)
	}
	rest := p.buf[p.off:]
	i := bytes.IndexByte(rest, 0)
	if i < 0 {
		return "", errors.Wrapf(ErrBufferUnderrun, "unterminated c string at 0x%x", p.off)
	}
	p.off += i + 1
	return string(rest[:i]), nil
}

// PascalString reads a length-prefixed string (one length byte).
func (p *Ptr) PascalString() (string, error) {
	n, err := p.U8()
	if err != nil {
		return "", err
	}
	b, err := p.window(p.off+1, int(n))
	if err != nil {
		return "", err
	}
	p.off += 1 + int(n)
	return string(b), nil
}
