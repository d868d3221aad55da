package arcade

import (
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritecodec/bitbuf"
	"badc0de.net/pkg/go-spritecodec/bufptr"
	"badc0de.net/pkg/go-spritecodec/palette"
	"badc0de.net/pkg/go-spritecodec/sprite"
)

type rowWriter struct {
	pix []byte
	off int
}

func (w *rowWriter) put(v byte) {
	if w.off >= 0 && w.off < len(w.pix) {
		w.pix[w.off] = v
	}
	w.off++
}

// Decode reads the sprite's pixels out of gfxrom. Rows are padded to
// PaddedWidth with zeros.
func Decode(s Sprite, gfxrom []byte) (*sprite.Block, error) {
	if s.PaddedWidth < 0 || s.Height < 0 {
		return nil, errors.Errorf("sprite %s: bad size", s.Name())
	}
	in := bitbuf.NewLSBReader(gfxrom, s.Pointer/8)
	if err := in.Skip(s.Pointer % 8); err != nil {
		return nil, errors.Wrapf(err, "sprite %s", s.Name())
	}
	out := &rowWriter{pix: make([]byte, s.PaddedWidth*s.Height)}
	padding := s.PaddedWidth - s.Width

	var err error
	if s.ZeroCompressed {
		err = decodeZcom(s, in, out, padding)
	} else {
		err = unpack(s, in, out, padding)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "sprite %s", s.Name())
	}
	return &sprite.Block{Pix: out.pix, Width: s.Width, PaddedWidth: s.PaddedWidth, Height: s.Height}, nil
}

// decodeZcom expands zero compressed rows: a byte whose low nibble is the
// lead zero count and high nibble the trail zero count, each shifted left by
// the header's multipliers, then the pixels in between.
func decodeZcom(s Sprite, in *bitbuf.LSBReader, out *rowWriter, padding int) error {
	for row := 0; row < s.Height; row++ {
		lt, err := in.ReadBits(8)
		if err != nil {
			return err
		}
		lead := int(lt&0xf) << uint(s.LeadShift)
		trail := int(lt>>4) << uint(s.TrailShift)
		for i := 0; i < lead; i++ {
			out.put(0)
		}
		for n := s.Width - (lead + trail); n > 0; n-- {
			v, err := in.ReadBits(s.BPP)
			if err != nil {
				return err
			}
			out.put(byte(v))
		}
		for i := 0; i < trail+padding; i++ {
			out.put(0)
		}
	}
	return nil
}

func unpack(s Sprite, in *bitbuf.LSBReader, out *rowWriter, padding int) error {
	for row := 0; row < s.Height; row++ {
		for i := 0; i < s.Width; i++ {
			v, err := in.ReadBits(s.BPP)
			if err != nil {
				return err
			}
			out.put(byte(v))
		}
		for i := 0; i < padding; i++ {
			out.put(0)
		}
	}
	return nil
}

// Palette reads the sprite's own palette: a counted XRGB1555 palette of fewer
// than 255 entries, extended with the dummy ramp.
func (s Sprite) Palette(maincpu []byte) (palette.Entries, bool) {
	if s.PaletteAddr == 0 {
		return nil, false
	}
	e, err := palette.ReadCounted(bufptr.New(maincpu, s.PaletteAddr), palette.XRGB1555)
	if err != nil || len(e) == 0 || len(e) >= palette.DummySize {
		return nil, false
	}
	return palette.Extend(e), true
}

// Palettes returns a palette for every sprite. Sprites without a palette of
// their own use the last palette seen before them, or the dummy ramp.
func Palettes(maincpu []byte, sprites []Sprite) []palette.Entries {
	rv := make([]palette.Entries, len(sprites))
	last := palette.Dummy()
	for i, s := range sprites {
		if p, ok := s.Palette(maincpu); ok {
			last = p
		}
		rv[i] = last
	}
	return rv
}

// IsBlank reports whether every pixel of b is zero.
func IsBlank(b *sprite.Block) bool {
	for _, v := range b.Pix {
		if v != 0 {
			return false
		}
	}
	return true
}
