package mktpc

import (
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritecodec/bitbuf"
)

// huffmanTables are the five parallel tables of the Huffman scheme, as
// offsets into the rebased table data. Every table is indexed by level*2.
type huffmanTables struct {
	data []byte

	nColors, half int
	matchupCount  int
	bitgrabCount  int

	terminator, offset, matchup, bitgrab, graboff int
}

func readHuffmanTables(tablesBuf []byte) (*huffmanTables, error) {
	base, err := u32At(tablesBuf, 0)
	if err != nil {
		return nil, errors.Wrap(err, "huffman: tables offset")
	}
	if int(base) > len(tablesBuf) {
		return nil, errors.Errorf("huffman: tables offset 0x%x past end 0x%x", base, len(tablesBuf))
	}
	t := &huffmanTables{data: tablesBuf[base:]}
	var hdr [4]uint16
	for i := range hdr {
		if hdr[i], err = u16At(t.data, i*2); err != nil {
			return nil, errors.Wrap(err, "huffman: table header")
		}
	}
	nTerm := int(hdr[0])
	t.matchupCount = int(hdr[1])
	t.nColors = int(hdr[2])
	t.bitgrabCount = int(hdr[3])
	t.half = t.nColors >> 1
	if t.matchupCount == 0 || t.bitgrabCount == 0 {
		return nil, errors.Errorf("huffman: empty tables (matchup %d, bitgrab %d)", t.matchupCount, t.bitgrabCount)
	}

	t.terminator = 8
	t.offset = t.terminator + nTerm*2
	t.matchup = t.offset + nTerm*2
	t.bitgrab = t.matchup + t.matchupCount*2
	t.graboff = t.bitgrab + t.bitgrabCount*2
	return t, nil
}

func (t *huffmanTables) u16(table, idx int) (int, error) {
	v, err := u16At(t.data, table+idx*2)
	return int(v), err
}

func (t *huffmanTables) s16(table, idx int) (int, error) {
	v, err := s16At(t.data, table+idx*2)
	return int(v), err
}

// level reads the terminator, offset and grab offset at a tree level.
func (t *huffmanTables) level(l int) (term, match, grab int, err error) {
	if term, err = t.u16(t.terminator, l); err != nil {
		return
	}
	if match, err = t.s16(t.offset, l); err != nil {
		return
	}
	grab, err = t.s16(t.graboff, l)
	return
}

// HuffmanDecode decodes a w*h delta-coded image. tablesBuf starts with the
// little endian offset of the tables; input is the image's bit stream.
//
// The stream is not canonical Huffman. Codes are resolved by growing a node
// number a few bits at a time, as the bitgrab table says, until it drops below
// the terminator of the level reached. The matchup byte found is a delta from
// the previous pixel, and a zero pixel announces that the next value is the
// length of a zero run.
//
// Malformed streams can index outside the matchup and bitgrab tables; those
// indexes wrap. Decoding stops at the end of the input or at a table read
// outside the table data; the pixels decoded so far are returned with the
// error.
func HuffmanDecode(tablesBuf, input []byte, w, h int) ([]byte, error) {
	out := newCanvas(w, h)
	t, err := readHuffmanTables(tablesBuf)
	if err != nil {
		return out.pix, err
	}
	in, err := bitbuf.NewMSBReader(input, 0, 32)
	if err != nil {
		return out.pix, err
	}

	prev := 0
	doRun := false
	for left := w * h; left > 0; {
		lvl, err := t.u16(t.bitgrab, 0)
		if err != nil {
			return out.pix, errors.Wrap(err, "huffman: first bitgrab")
		}

		var match int
		if lvl == 1 && in.TopBit() {
			if match, err = t.s16(t.offset, 1); err != nil {
				return out.pix, errors.Wrap(err, "huffman: level 1 offset")
			}
			match += 3
			if _, err := in.ReadBits(1); err != nil {
				return out.pix, errors.Wrapf(err, "huffman: pixel %d", out.off)
			}
		} else {
			term, m, grab, err := t.level(lvl)
			if err != nil {
				return out.pix, errors.Wrapf(err, "huffman: level %d", lvl)
			}
			bits, err := in.ReadBits(lvl)
			if err != nil {
				return out.pix, errors.Wrapf(err, "huffman: pixel %d", out.off)
			}
			node := 1<<uint(lvl) | int(bits)
			match = m
			for node < term {
				grab += node
				gi := grab
				if gi < 0 {
					gi = -gi
				}
				shift, err := t.u16(t.bitgrab, gi%t.bitgrabCount)
				if err != nil {
					return out.pix, errors.Wrap(err, "huffman: bitgrab")
				}
				if shift == 0 || lvl+shift > 32 {
					return out.pix, errors.Errorf("huffman: bad bit grab %d at level %d", shift, lvl)
				}
				lvl += shift
				bits, err := in.ReadBits(shift)
				if err != nil {
					return out.pix, errors.Wrapf(err, "huffman: pixel %d", out.off)
				}
				node = node<<uint(shift) | int(bits)
				if term, match, grab, err = t.level(lvl); err != nil {
					return out.pix, errors.Wrapf(err, "huffman: level %d", lvl)
				}
			}
			match += node
		}

		idx := match % t.matchupCount
		if idx < 0 {
			idx += t.matchupCount
		}
		if t.matchup+idx*2 >= len(t.data) {
			return out.pix, errors.Errorf("huffman: matchup %d outside table data", idx)
		}
		v := prev - (int(t.data[t.matchup+idx*2]) - t.half)
		if v < 0 {
			v += t.nColors
		} else if v >= t.nColors {
			v -= t.nColors
		}

		switch {
		case doRun:
			doRun = false
			prev = v
			left -= v
			out.fill(0, v)
		case v == 0:
			prev = 0
			doRun = true
		default:
			prev = v
			out.put(byte(v))
			left--
		}
	}
	return out.pix, nil
}
