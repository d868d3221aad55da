package mktpc

import (
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritecodec/bitbuf"
	"badc0de.net/pkg/go-spritecodec/bufptr"
)

const (
	bqHeaderSize      = 4
	bqGroupHeaderSize = 0x28
	bqZeroClass       = 7
)

type bqHeader struct {
	ySize  int
	groups int
}

type bqGroupHeader struct {
	vectorOffset int
	bpp          int
	codeBits     [7]int
	codeOffset   [7]int
	zeroBits     [2]int
}

func readBQGroupHeader(buf []byte, at int) (bqGroupHeader, error) {
	var g bqGroupHeader
	p := bufptr.New(buf, at)
	vo, err := p.GetAndIncU32()
	if err != nil {
		return g, err
	}
	g.vectorOffset = int(vo)
	next := func() int {
		if err != nil {
			return 0
		}
		var v uint16
		v, err = p.GetAndIncU16()
		return int(v)
	}
	g.bpp = next()
	for i := range g.codeBits {
		g.codeBits[i] = next()
	}
	for i := range g.codeOffset {
		g.codeOffset[i] = next()
	}
	for i := range g.zeroBits {
		g.zeroBits[i] = next()
	}
	return g, err
}

// POVBQDecode decodes a w*h vector quantized image. tablesBuf starts with the
// little endian offset of the codebook section; input is the image's bit
// stream.
//
// The image is cut into blocks four pixels wide and two rows high, stored
// left to right. A 6 bit code first selects the group header for the whole
// image. Every block then starts with a 3 bit class: class 7 is a run of
// empty blocks, any other class reads an index into the group's vector table,
// and the vector holds the block's eight pixels packed at the group's bits
// per pixel.
//
// Decoding stops at the end of the input; the pixels decoded so far are
// returned with the error.
func POVBQDecode(tablesBuf, input []byte, w, h int) ([]byte, error) {
	out := newCanvas(w, h)

	base, err := u32At(tablesBuf, 0)
	if err != nil {
		return out.pix, errors.Wrap(err, "povbq: tables offset")
	}
	hp := bufptr.New(tablesBuf, int(base))
	ys, err1 := hp.GetAndIncU16()
	gs, err2 := hp.GetAndIncU16()
	if err1 != nil || err2 != nil {
		return out.pix, errors.Errorf("povbq: header at 0x%x past end 0x%x", base, len(tablesBuf))
	}
	hdr := bqHeader{ySize: int(ys), groups: int(gs)}
	if hdr.ySize == 0 {
		return out.pix, errors.New("povbq: zero block height")
	}

	in, err := bitbuf.NewMSBReader(input, 0, 32)
	if err != nil {
		return out.pix, err
	}
	nGroup, err := in.ReadBits(6)
	if err != nil {
		return out.pix, errors.Wrap(err, "povbq: group")
	}
	groupAt := int(base) + bqHeaderSize + int(nGroup)*bqGroupHeaderSize
	g, err := readBQGroupHeader(tablesBuf, groupAt)
	if err != nil {
		return out.pix, errors.Wrapf(err, "povbq: group %d header", nGroup)
	}

	// the vector section is counted from the header itself, not from the
	// end of it
	vectors := int(base) + hdr.groups*bqGroupHeaderSize + g.vectorOffset
	vectorSize := hdr.ySize * 4 * g.bpp / 8

	cols := w / 4
	if cols == 0 {
		return out.pix, nil
	}
	row := w
	blocksLeft := (w*h + 4*hdr.ySize - 1) / (4 * hdr.ySize)

	pos, col := 0, 0
	advance := func() {
		pos += 4
		col++
		if col == cols {
			pos += row
			col = 0
		}
		blocksLeft--
	}

	for blocksLeft > 0 {
		class, err := in.ReadBits(3)
		if err != nil {
			return out.pix, errors.Wrapf(err, "povbq: %d blocks left", blocksLeft)
		}

		if class == bqZeroClass {
			zi, err := in.ReadBits(1)
			if err != nil {
				return out.pix, errors.Wrap(err, "povbq: zero run width")
			}
			n, err := in.ReadBits(g.zeroBits[zi])
			if err != nil {
				return out.pix, errors.Wrap(err, "povbq: zero run")
			}
			// the run covers n+1 blocks; the canvas starts out zeroed
			for i := 0; i <= int(n); i++ {
				advance()
			}
			continue
		}

		code, err := in.ReadBits(g.codeBits[class])
		if err != nil {
			return out.pix, errors.Wrapf(err, "povbq: class %d code", class)
		}
		at := vectors + (int(code)+g.codeOffset[class])*vectorSize
		vec, err := bitbuf.NewMSBReader(tablesBuf, at, 8)
		if err != nil {
			return out.pix, err
		}
		for i := 0; i < 8; i++ {
			v, err := vec.ReadBits(g.bpp)
			if err != nil {
				return out.pix, errors.Wrapf(err, "povbq: vector at 0x%x", at)
			}
			dst := pos + i
			if i >= 4 {
				dst = pos + row + i - 4
			}
			out.off = dst
			out.put(byte(v))
		}
		advance()
	}
	return out.pix, nil
}
