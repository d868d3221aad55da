package asm

import (
	"encoding/binary"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritecodec/codec"
	"badc0de.net/pkg/go-spritecodec/palette"
	"badc0de.net/pkg/go-spritecodec/sprite"
)

// Library is everything loaded from one directory of disassembled source.
type Library struct {
	Images   []LiteralDataEntry
	Meta     map[string]ImageMeta
	Palettes map[string]LiteralDataEntry
	// PaletteOrder keeps palette labels in file order; the first is the
	// fallback palette.
	PaletteOrder []string
	Dict         []byte
	Labels       *LabelGraph
	Format       palette.Format
}

// LoadLibrary categorizes files by extension and parses each kind.
func LoadLibrary(files []File, format palette.Format) *Library {
	lib := &Library{
		Meta:     make(map[string]ImageMeta),
		Palettes: make(map[string]LiteralDataEntry),
		Format:   format,
	}
	var anims, pals []File
	for _, f := range files {
		switch Categorize(f.Name) {
		case KindImageData:
			lib.Images = append(lib.Images, ParseImageFile(f)...)
		case KindAnimation:
			anims = append(anims, f)
		case KindPalette:
			pals = append(pals, f)
		case KindDictionary:
			if d, ok := ParseDictionary(f); ok {
				lib.Dict = d.Data
			}
		}
	}
	lib.Meta = ExtractImageMetaDataAll(anims)
	for _, pf := range ParsePaletteFiles(pals) {
		for _, p := range pf.Palettes {
			if _, dup := lib.Palettes[p.Label]; !dup {
				lib.PaletteOrder = append(lib.PaletteOrder, p.Label)
			}
			lib.Palettes[p.Label] = p
		}
	}
	lib.Labels = BuildLabelGraph(append(append([]File(nil), anims...), pals...))
	lib.Labels.MarkPalettes(lib.PaletteOrder...)
	glog.V(1).Infof("loaded %d images, %d image sizes, %d palettes, dictionary %d bytes",
		len(lib.Images), len(lib.Meta), len(lib.Palettes), len(lib.Dict))
	return lib
}

// MetaFor returns the declared metadata of an image, or a guess from its
// decoded length.
func (lib *Library) MetaFor(img LiteralDataEntry) ImageMeta {
	if m, ok := lib.Meta[img.Label]; ok {
		return m
	}
	n := codec.Info(img.Data).Size
	if n <= 0 {
		n = len(img.Data)
	}
	return GuessMetaData(img.Label, n)
}

// PaletteEntries decodes the palette stored under label.
func (lib *Library) PaletteEntries(label string) (palette.Entries, bool) {
	p, ok := lib.Palettes[label]
	if !ok || len(p.Data) < 2 {
		return nil, false
	}
	return palette.FromBytes(p.Data, binary.BigEndian, lib.Format), true
}

// Resolver returns a palette resolver using the library's label graph, with
// the first palette as the default.
func (lib *Library) Resolver() *palette.Resolver {
	return &palette.Resolver{
		Labels:  lib.Labels,
		ByLabel: lib.PaletteEntries,
		Default: func() (palette.Entries, bool) {
			if len(lib.PaletteOrder) == 0 {
				return nil, false
			}
			return lib.PaletteEntries(lib.PaletteOrder[0])
		},
	}
}

// Decode decompresses an image and resolves its palette. The block is cut
// to the declared width*height.
func (lib *Library) Decode(img LiteralDataEntry) (*sprite.Block, palette.Entries, error) {
	meta := lib.MetaFor(img)
	blk, err := codec.Decode(img.Data, lib.Dict, meta.Meta)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "decoding %s", img.Label)
	}
	if n := meta.Size(); len(blk.Pix) > n {
		blk.Pix = blk.Pix[:n]
	}
	pal, src := lib.Resolver().Resolve(palette.Request{Name: img.Label, Label: img.Label})
	glog.V(2).Infof("%s: %dx%d, palette from %s", img.Label, meta.Width, meta.Height, src)
	return blk, pal, nil
}
