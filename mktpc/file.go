package mktpc

import (
	"fmt"
	"strconv"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritecodec/bufptr"
	"badc0de.net/pkg/go-spritecodec/palette"
	"badc0de.net/pkg/go-spritecodec/sprite"
)

const (
	imageHeaderSize = 12
	floorWidth      = 0x3c0
)

// Image is one image header of a file, and its pixels once decoded.
type Image struct {
	ID          string
	DataOffset  int
	Type        int
	FileID      int
	Width       int
	Height      int
	XOffset     int
	YOffset     int
	PaletteID   int
	Compression Compression
	Floor       bool

	Pix []byte
}

// Meta returns the image's name and size.
func (img *Image) Meta() sprite.Meta {
	return sprite.Meta{Name: img.ID, Width: img.Width, Height: img.Height}
}

// Palette is one of a file's palettes.
type Palette struct {
	ID      string
	Entries palette.Entries
}

// File is a parsed `.dat` file.
type File struct {
	Name     string
	Images   []*Image
	Palettes []Palette
	// Tables is set when the file carries the shared RLE parameters.
	Tables    Tables
	HasTables bool
}

// ParseFile parses a `.dat` file and decodes every image in it.
//
// Regular files start with the palette offset and the decoder tables offset,
// followed by the image headers. Files whose tables offset is out of range are
// backgrounds or stages: their headers describe tiles, and they carry one or
// two floors with palettes of their own.
//
// An image that fails to decode is kept with whatever pixels were recovered,
// and a warning is logged.
func ParseFile(name string, buf []byte) (*File, error) {
	in := bufptr.New(buf, 0)
	paletteOffset, err := in.GetAndIncU32()
	if err != nil {
		return nil, errors.Wrapf(err, "%s: palette offset", name)
	}
	tablesOffset, err := in.GetAndIncU32()
	if err != nil {
		return nil, errors.Wrapf(err, "%s: tables offset", name)
	}

	f := &File{Name: name}
	palOff := int(paletteOffset)
	var (
		headers     []byte
		floors      []*Image
		floorPals   []Palette
		tileMode    bool
		floorFailed error
	)

	addFloor := func(at, size int, palAt int, optional bool) error {
		p, err := palette.ReadPC(bufptr.New(buf, palAt))
		if err != nil {
			if optional {
				floorFailed = err
				return nil
			}
			return errors.Wrapf(err, "%s: floor palette at 0x%x", name, palAt)
		}
		id := fmt.Sprintf("floor-%d", len(floorPals))
		floorPals = append(floorPals, Palette{ID: id, Entries: p})
		floors = append(floors, &Image{
			ID:          id,
			DataOffset:  at,
			Width:       floorWidth,
			Height:      size / floorWidth,
			PaletteID:   len(floorPals) - 1,
			Compression: Raw,
			Floor:       true,
		})
		return nil
	}

	if int(tablesOffset) < 16 || int(tablesOffset) > len(buf) {
		tileMode = true
		in.Skip(4)
		endOfHeaders, err := in.GetAndIncU32()
		if err != nil {
			return nil, errors.Wrapf(err, "%s: end of image headers", name)
		}

		if int(endOfHeaders) < palOff {
			// the last header slot is not a real header
			if headers, err = in.Slice(int(endOfHeaders) - imageHeaderSize); err != nil {
				return nil, errors.Wrapf(err, "%s: image headers", name)
			}
			in.Seek(palOff + 4)
			mainSize, err := in.GetAndIncU32()
			if err != nil {
				return nil, errors.Wrapf(err, "%s: main palette size", name)
			}
			in.Skip(int(mainSize))
			floorSize, err := in.GetAndIncU32()
			if err != nil {
				return nil, errors.Wrapf(err, "%s: floor size", name)
			}
			floorAt := in.Offset()
			// a missing floor palette means a background without a floor
			if err := addFloor(floorAt, int(floorSize), floorAt+int(floorSize)+4, true); err != nil {
				return nil, err
			}
		} else {
			// backgrounds come in two halves; the first starts with the
			// offset to the image headers instead of the palette offset
			headersAt := palOff + 4
			in.Seek(headersAt)
			next, err := in.GetAndIncU32()
			if err != nil {
				return nil, errors.Wrapf(err, "%s: next headers", name)
			}
			in.Skip(int(next))
			realPalettes, err := in.GetAndIncU32()
			if err != nil {
				return nil, errors.Wrapf(err, "%s: palette offset", name)
			}
			palOff = in.Offset() + int(realPalettes) - 4
			in.Skip(8)
			headersLen, err := in.GetAndIncU32()
			if err != nil {
				return nil, errors.Wrapf(err, "%s: image headers length", name)
			}
			if headers, err = in.Slice(int(headersLen) - imageHeaderSize); err != nil {
				return nil, errors.Wrapf(err, "%s: image headers", name)
			}

			if err := addFloor(4, headersAt, headersAt+4, false); err != nil {
				return nil, err
			}

			in.Seek(palOff + 4)
			mainSize, err := in.GetAndIncU32()
			if err != nil {
				return nil, errors.Wrapf(err, "%s: main palette size", name)
			}
			in.Skip(int(mainSize))
			nextPalette, err := in.GetAndIncU32()
			if err != nil {
				return nil, errors.Wrapf(err, "%s: second floor size", name)
			}
			floorAt := in.Offset()
			if err := addFloor(floorAt, int(nextPalette), floorAt+int(nextPalette)+4, false); err != nil {
				return nil, err
			}
		}
	} else {
		headers = window(buf, 8, int(tablesOffset)-4)
	}
	if floorFailed != nil {
		glog.V(1).Infof("%s: no floor: %v", name, floorFailed)
	}

	f.Images = parseImageHeaders(name, headers, tileMode, len(buf))
	f.Images = append(f.Images, floors...)
	fixupAliases(f.Images)

	if palOff > len(buf) {
		return nil, errors.Errorf("%s: palette offset 0x%x past end 0x%x", name, palOff, len(buf))
	}
	f.Palettes = readPalettes(name, buf[palOff:])
	for _, fl := range floors {
		fl.PaletteID += len(f.Palettes)
	}
	f.Palettes = append(f.Palettes, floorPals...)

	tp := bufptr.New(buf, int(tablesOffset)+4)
	bpp, err1 := tp.GetAndIncU16()
	run, err2 := tp.GetAndIncU16()
	if err1 == nil && err2 == nil {
		f.Tables = Tables{BitsPerPixel: int(bpp), RunBits: int(run)}
		f.HasTables = true
	}

	for _, img := range f.Images {
		pix, err := f.decode(buf, img)
		if err != nil {
			glog.Warningf("%s: image %s (%s, %dx%d): %v", name, img.ID, img.Compression, img.Width, img.Height, err)
		}
		img.Pix = pix
	}
	return f, nil
}

// parseImageHeaders reads 12 byte image headers until the end of buf. In
// tile mode the widths are not padded, and one extra image covering the
// whole tile area is added.
func parseImageHeaders(name string, buf []byte, tileMode bool, fileLen int) []*Image {
	var rv []*Image
	p := bufptr.New(buf, 0)
	for p.Remaining() >= imageHeaderSize {
		first, _ := p.GetAndIncU32()
		w, _ := p.GetAndInc()
		h, _ := p.GetAndInc()
		x, _ := p.GetAndIncS16()
		y, _ := p.GetAndIncS16()
		pal, _ := p.GetAndIncU16()

		typ := int(int32(first) >> 24)
		img := &Image{
			ID:         strconv.Itoa(len(rv)),
			DataOffset: int(first & 0xffffff),
			Type:       typ,
			FileID:     typ & 0x1f,
			Width:      int(w),
			Height:     int(h),
			XOffset:    int(x),
			YOffset:    int(y),
			PaletteID:  int(pal),
		}
		if !tileMode {
			img.Width = (img.Width + 3) &^ 3
		}
		img.Compression = CompressionFor(img.FileID, img.Type)
		rv = append(rv, img)
	}
	if p.Remaining() > 0 {
		glog.V(1).Infof("%s: %d trailing header bytes after %d headers", name, p.Remaining(), len(rv))
	}

	if tileMode && len(rv) > 0 {
		typ := rv[0].Type
		h := fileLen / tileSide
		if typ == packedTileType {
			h *= 2
		}
		rv = append(rv, &Image{
			ID:          "tile",
			Type:        typ,
			Width:       tileSide,
			Height:      h,
			Compression: Raw,
		})
	}
	return rv
}

// fixupAliases gives headers that share their data with the following
// header that header's size and palette.
func fixupAliases(images []*Image) {
	for j := len(images) - 2; j >= 0; j-- {
		img, next := images[j], images[j+1]
		if img.DataOffset == next.DataOffset {
			img.Width = next.Width
			img.Height = next.Height
			img.PaletteID = next.PaletteID
		}
	}
}

// readPalettes reads counted palettes, starting 8 bytes into buf, until an
// empty one.
func readPalettes(name string, buf []byte) []Palette {
	var rv []Palette
	p := bufptr.New(buf, 8)
	for !p.AtEnd() {
		e, err := palette.ReadPC(p)
		if err != nil {
			glog.Warningf("%s: palette %d: %v", name, len(rv), err)
			break
		}
		if len(e) == 0 {
			break
		}
		rv = append(rv, Palette{ID: strconv.Itoa(len(rv)), Entries: e})
	}
	return rv
}

func (f *File) decode(buf []byte, img *Image) ([]byte, error) {
	if img.Compression == Raw {
		return TilesDecode(buf, img)
	}
	var input []byte
	if at := 4 + img.DataOffset; at <= len(buf) {
		input = buf[at:]
	}
	switch img.Compression {
	case RLE:
		if !f.HasTables {
			return newCanvas(img.Width, img.Height).pix, errors.New("no RLE tables")
		}
		return RLEDecode(f.Tables, input, img.Width*img.Height)
	case POVBQ, BQ:
		return POVBQDecode(buf[4:], input, img.Width, img.Height)
	case Huffman:
		return HuffmanDecode(buf[4:], input, img.Width, img.Height)
	}
	return newCanvas(img.Width, img.Height).pix, errors.Errorf("unsupported compression %s", img.Compression)
}

// PaletteFor returns the palette an image's header names, or nil.
func (f *File) PaletteFor(img *Image) palette.Entries {
	if img.PaletteID < 0 || img.PaletteID >= len(f.Palettes) {
		return nil
	}
	return f.Palettes[img.PaletteID].Entries
}
