package n64rom

import (
	"context"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritecodec/palette"
	"badc0de.net/pkg/go-spritecodec/sprite"
)

// Character is one reconstructed character segment together with its
// dictionary and palettes.
type Character struct {
	ID       int
	Info     RomInfo
	Segment  Segment
	Graph    *Graph
	Dict     []byte
	Palettes []PaletteRef

	file []byte
}

// LoadCharacter reconstructs character id of a ROM identified by info.
func LoadCharacter(ctx context.Context, file []byte, info RomInfo, id int) (*Character, error) {
	if id < 0 || id >= NumCharacters {
		return nil, errors.Errorf("character %d out of range", id)
	}
	chars, dicts, err := Segments(file, info)
	if err != nil {
		return nil, err
	}
	return newCharacter(ctx, file, info, id, chars[id], dicts[id])
}

func newCharacter(ctx context.Context, file []byte, info RomInfo, id int, seg, dict Segment) (*Character, error) {
	g, err := Reconstruct(ctx, file, seg)
	if err != nil {
		return nil, errors.Wrapf(err, "character %d", id)
	}
	c := &Character{
		ID:      id,
		Info:    info,
		Segment: seg,
		Graph:   g,
		file:    file,
	}
	if dict.Size > 0 {
		c.Dict = Dict(file, dict)
	}
	c.Palettes, err = CharacterPalettes(file, info, id, g.Palettes)
	if err != nil {
		glog.Warningf("character %d: %v", id, err)
	}
	return c, nil
}

// Image returns the subframe of the image object at a segment offset.
func (c *Character) Image(off int) (*Subframe, bool) {
	o, ok := c.Graph.Objects[off]
	if !ok || o.Kind != ImgObject || o.Subframe == nil {
		return nil, false
	}
	return o.Subframe, true
}

// Resolver resolves palettes of this character's images. Addresses are
// either RDRAM addresses of the mapped ROM or file offsets; the
// character's first palette is the default.
func (c *Character) Resolver() *palette.Resolver {
	return &palette.Resolver{
		ByAddress: func(addr int) (palette.Entries, error) {
			off := addr
			if uint32(addr) >= romBase {
				if !ValidPaletteAddr(uint32(addr)) {
					return nil, errors.Errorf("palette address 0x%x is outside the ROM", uint32(addr))
				}
				off = PaletteFileOffset(uint32(addr))
			}
			return ReadPalette(c.file, off)
		},
		Default: func() (palette.Entries, bool) {
			if len(c.Palettes) == 0 {
				return nil, false
			}
			e, err := c.ReadPalette(c.Palettes[0])
			return e, err == nil
		},
	}
}

// PaletteRequest describes sf to a palette.Resolver.
func (sf *Subframe) PaletteRequest() palette.Request {
	return palette.Request{
		Name:      sf.Name(),
		Explicit:  int(sf.Palette),
		Suggested: sf.SuggestedPalette,
	}
}

// ReadPalette reads one of the character's palettes.
func (c *Character) ReadPalette(ref PaletteRef) (palette.Entries, error) {
	return ReadPalette(c.file, ref.FileOffset)
}

// Decode decodes the image of sf and resolves its palette.
func (c *Character) Decode(sf *Subframe) (*sprite.Block, palette.Entries, palette.Source, error) {
	b, err := c.Graph.DecodeImage(sf, c.Dict)
	if err != nil {
		return nil, nil, palette.SourceDummy, err
	}
	pal, src := c.Resolver().Resolve(sf.PaletteRequest())
	return b, pal, src, nil
}
