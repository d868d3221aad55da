// Package arcade finds and decodes sprites in arcade board ROM dumps.
//
// Sprite headers live in the main CPU program ROM and point, by bit address,
// into the graphics ROM. Nothing marks a header as such; Scan finds them by
// looking for words that are valid graphics ROM bit addresses and checking
// that the words around them look like a sprite header.
package arcade

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritecodec/bufptr"
)

const (
	// Palette pointers above paletteBase are bit addresses into the main
	// CPU ROM.
	paletteBase = 0xff800000
	// The first game addresses its graphics ROM from mk1GfxBase.
	mk1GfxBase = 0x02000000

	maxDim    = 300
	maxOffset = 100
)

// Ctrl is the decoded control word of a sprite header.
type Ctrl struct {
	// ZeroCompressed rows start with a byte of lead and trail zero counts.
	ZeroCompressed bool `json:"zcom"`
	BPP            int  `json:"bpp"`
	// LeadShift and TrailShift scale the lead and trail counts.
	LeadShift  int `json:"lmult"`
	TrailShift int `json:"tmult"`
}

func ParseCtrl(ctrl uint16) Ctrl {
	return Ctrl{
		ZeroCompressed: ctrl&0x80 != 0,
		LeadShift:      int(ctrl&0x300) >> 8,
		TrailShift:     int(ctrl&0xc00) >> 10,
		BPP:            int(ctrl&0x7000) >> 12,
	}
}

// Sprite is a sprite header found in the main CPU ROM.
type Sprite struct {
	Ctrl
	// MetaAddr is the header's offset in the main CPU ROM.
	MetaAddr    int `json:"metaAddr"`
	Width       int `json:"width"`
	PaddedWidth int `json:"paddedWidth"`
	Height      int `json:"height"`
	XOffset     int `json:"xOffset"`
	YOffset     int `json:"yOffset"`
	// Pointer is the bit address of the pixels in the graphics ROM.
	Pointer int `json:"pointer"`
	// PaletteAddr is the byte offset of the sprite's palette in the main CPU
	// ROM, or 0.
	PaletteAddr int `json:"paletteAddr,omitempty"`
}

// MetaAt reads the header whose graphics pointer is at off. The header's
// size and offsets are the 8 bytes before the pointer; the control word and
// palette pointer follow it. MK1 headers have no control word: everything is
// 6 bits per pixel and uncompressed.
func MetaAt(maincpu []byte, off int, mk1 bool) (Sprite, error) {
	p := bufptr.New(maincpu, off-8)
	var s Sprite
	w, err := p.GetAndIncU16()
	if err != nil {
		return s, errors.Wrapf(err, "sprite header at 0x%x", off)
	}
	h, _ := p.GetAndIncU16()
	x, _ := p.GetAndIncS16()
	y, err := p.GetAndIncS16()
	if err != nil {
		return s, errors.Wrapf(err, "sprite header at 0x%x", off)
	}
	s = Sprite{
		MetaAddr:    off - 8,
		Width:       int(w),
		PaddedWidth: (int(w) + 3) &^ 3,
		Height:      (int(h) + 3) &^ 3,
		XOffset:     int(x),
		YOffset:     int(y),
	}

	palAt := off + 4
	if mk1 {
		s.Ctrl = Ctrl{BPP: 6}
	} else {
		p.Seek(off + 4)
		ctrl, err := p.GetAndIncU16()
		if err != nil {
			return s, errors.Wrapf(err, "control word at 0x%x", off+4)
		}
		s.Ctrl = ParseCtrl(ctrl)
		palAt += 2
	}

	p.Seek(palAt)
	pal, err := p.U32()
	if err != nil {
		return s, errors.Wrapf(err, "palette pointer at 0x%x", palAt)
	}
	if pal > paletteBase {
		bits := int(pal - paletteBase)
		if bits%8 != 0 {
			glog.V(2).Infof("sprite 0x%x: palette 0x%x not on a byte boundary", s.MetaAddr, bits)
		}
		s.PaletteAddr = bits / 8
	}
	return s, nil
}

func (s Sprite) plausible() bool {
	return s.Width > 0 && s.Width < maxDim &&
		s.Height > 0 && s.Height < maxDim &&
		abs(s.XOffset) < maxOffset && abs(s.YOffset) < maxOffset
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Scan looks for sprite headers in maincpu whose pointer falls within
// gfxLenBits bits of start.
func Scan(maincpu []byte, start, gfxLenBits int, mk1 bool) []Sprite {
	var rv []Sprite
	end := start + gfxLenBits
	p := bufptr.New(maincpu, 0)
	for i := 8; i < len(maincpu)-4; i++ {
		p.Seek(i)
		v, err := p.U32()
		if err != nil {
			break
		}
		if int(v) < start || int(v) > end {
			continue
		}
		s, err := MetaAt(maincpu, i, mk1)
		if err != nil {
			glog.V(3).Infof("candidate at 0x%x: %v", i, err)
			continue
		}
		if !s.plausible() {
			continue
		}
		s.Pointer = int(v) - start
		rv = append(rv, s)
	}
	glog.V(1).Infof("found %d sprite headers in %d bytes", len(rv), len(maincpu))
	return rv
}

// ScanROM scans maincpu for sprites stored in gfxrom.
func ScanROM(maincpu, gfxrom []byte, mk1 bool) []Sprite {
	start := 0
	if mk1 {
		start = mk1GfxBase
	}
	return Scan(maincpu, start, len(gfxrom)*8, mk1)
}

// Name is a file name for the sprite, without extension.
func (s Sprite) Name() string {
	return fmt.Sprintf("%s-%s-%dx%d", hex(s.MetaAddr), hex(s.Pointer), s.PaddedWidth, s.Height)
}

// hex formats n as 0x0000_0000, with an underscore before the last four
// digits.
func hex(n int) string {
	neg := ""
	if n < 0 {
		neg, n = "-", -n
	}
	s := fmt.Sprintf("%08x", n)
	return fmt.Sprintf("%s0x%s_%s", neg, s[:len(s)-4], s[len(s)-4:])
}
