package n64rom

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritecodec/bufptr"
	"badc0de.net/pkg/go-spritecodec/codec"
	"badc0de.net/pkg/go-spritecodec/palette"
	"badc0de.net/pkg/go-spritecodec/sprite"
)

const (
	// romBase is where the ROM is mapped in RDRAM.
	romBase        = 0x8000_0000
	maxPaletteAddr = romBase + 0x40_0000

	paletteTableSize = NumCharacters * 4
)

// PaletteKind says where a palette reference came from.
type PaletteKind int

const (
	// Character1 is the character's primary palette.
	Character1 PaletteKind = iota
	// Character2 is the character's alternate ("ugly") palette.
	Character2
	// FromAni palettes are pointed at by a subframe.
	FromAni
)

func (k PaletteKind) String() string {
	switch k {
	case Character1:
		return "character1"
	case Character2:
		return "character2"
	default:
		return "from-ani"
	}
}

// PaletteRef locates a palette by file offset.
type PaletteRef struct {
	FileOffset int         `json:"fileOffset"`
	Kind       PaletteKind `json:"kind"`
	// AnitabIndex is the animation that referenced a FromAni palette.
	AnitabIndex int `json:"anitabIndex,omitempty"`
}

// Name labels the palette for listings.
func (r PaletteRef) Name() string {
	switch r.Kind {
	case Character1:
		return fmt.Sprintf("Primary 0x%x", r.FileOffset)
	case Character2:
		return fmt.Sprintf("Ugly 0x%x", r.FileOffset)
	}
	return fmt.Sprintf("0x%x", r.FileOffset)
}

// ValidPaletteAddr reports whether addr is an RDRAM address within the
// mapped ROM.
func ValidPaletteAddr(addr uint32) bool {
	return addr >= romBase && addr <= maxPaletteAddr
}

// PaletteFileOffset converts an RDRAM palette address to a file offset.
func PaletteFileOffset(addr uint32) int {
	return int(addr - romBase)
}

func characterPalette(file []byte, table, charID int) (int, error) {
	v, err := bufptr.NewBE(file, table+4*charID).U32()
	if err != nil {
		return 0, err
	}
	return int(v) - romBase, nil
}

// CharacterPalettes lists the palettes of a character: its primary and
// alternate palettes from the ROM's tables first, then the palettes found
// by Reconstruct in offset order.
func CharacterPalettes(file []byte, info RomInfo, charID int, found map[int]PaletteRef) ([]PaletteRef, error) {
	primary, err := characterPalette(file, info.CharacterPalettes, charID)
	if err != nil {
		return nil, errors.Wrapf(err, "primary palette of character %d", charID)
	}
	ugly, err := characterPalette(file, info.CharacterPalettes+paletteTableSize, charID)
	if err != nil {
		return nil, errors.Wrapf(err, "alternate palette of character %d", charID)
	}

	rv := []PaletteRef{{FileOffset: primary, Kind: Character1}}
	if ugly != primary {
		rv = append(rv, PaletteRef{FileOffset: ugly, Kind: Character2})
	}
	offs := make([]int, 0, len(found))
	for o := range found {
		if o != primary && o != ugly {
			offs = append(offs, o)
		}
	}
	sort.Ints(offs)
	for _, o := range offs {
		rv = append(rv, found[o])
	}
	return rv, nil
}

// ReadPalette reads the palette at a file offset: a big-endian entry count
// followed by RGBX5551 entries.
func ReadPalette(file []byte, fileOffset int) (palette.Entries, error) {
	p := bufptr.NewBE(file, fileOffset)
	n, err := p.GetAndIncU32()
	if err != nil {
		return nil, errors.Wrapf(err, "palette size at 0x%x", fileOffset)
	}
	if n > 0x10000 {
		return nil, errors.Errorf("palette at 0x%x has %d entries", fileOffset, n)
	}
	return palette.ReadWithSize(p, int(n), palette.RGBX5551)
}

// Name labels an image by its offset.
func (sf *Subframe) Name() string {
	return fmt.Sprintf("0x%x", sf.ImgOffset)
}

// Meta is the declared metadata of the subframe's image.
func (sf *Subframe) Meta() sprite.Meta {
	return sprite.Meta{Name: sf.Name(), Width: sf.Width, Height: sf.Height}
}

// DecodeImage decodes the image of an ImgObject, or a subframe's image, with
// the character's dictionary.
func (g *Graph) DecodeImage(sf *Subframe, dict []byte) (*sprite.Block, error) {
	if sf.Img == nil {
		return nil, errors.Errorf("subframe at 0x%x has no image", sf.SubOffset)
	}
	b, err := codec.Decode(sf.Img, dict, sf.Meta())
	if err != nil {
		return nil, err
	}
	b.Width = sf.Width - sf.Padding
	return b, nil
}

// Dict returns the bytes of a dictionary segment.
func Dict(file []byte, dict Segment) []byte {
	return dict.Bytes(file)
}
