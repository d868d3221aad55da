package mktpc

import (
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritecodec/bufptr"
)

const (
	tileSide       = 0x100
	packedTileSide = 0x80
	packedTileType = -64
)

// endOfImageHeaders returns where tile data starts. The field at 12 holds
// it, except in background files where it is out of range and the header
// chain has to be walked instead.
func endOfImageHeaders(buf []byte) (int, error) {
	end, err := u32At(buf, 12)
	if err != nil {
		return 0, errors.Wrap(err, "tiles: end of image headers")
	}
	if int(end) <= len(buf) {
		return int(end), nil
	}

	p := bufptr.New(buf, 0)
	first, err := p.U32()
	if err != nil {
		return 0, err
	}
	headers := int(first) + 4
	p.Seek(headers)
	next, err := p.GetAndIncU32()
	if err != nil {
		return 0, errors.Wrap(err, "tiles: next headers")
	}
	// palette offset, then two constant words
	p.Skip(int(next) + 12)
	imageHeadersLen, err := p.GetAndIncU32()
	if err != nil {
		return 0, errors.Wrap(err, "tiles: image headers length")
	}
	return 4 + int(imageHeadersLen) + int(next) + headers, nil
}

// TilesDecode copies an uncompressed image out of the tiled data area of
// buf, the whole file. The image's data offset addresses a tile in its top
// 8 bits, a column in the next 8 and a row in the low 8; images wider than a
// tile continue in the following tiles. Type -64 images use half-width tiles
// packing two 4 bit pixels per byte, low nibble first.
func TilesDecode(buf []byte, img *Image) ([]byte, error) {
	if img.Floor {
		return FloorDecode(buf, img), nil
	}
	out := newCanvas(img.Width, img.Height)
	start, err := endOfImageHeaders(buf)
	if err != nil {
		return out.pix, err
	}

	tileW := tileSide
	if img.Type == packedTileType {
		tileW = packedTileSide
	}
	tile := img.DataOffset >> 16
	row := img.DataOffset & 0xff
	col := (img.DataOffset >> 8) & 0xff
	in := 4 + start + tile*tileW*tileSide + row*tileW + col

	if img.Type == packedTileType {
		for r := 0; r < img.Height; r++ {
			for _, b := range window(buf, in, img.Width/2) {
				out.put(b & 0xf)
				out.put(b >> 4)
			}
			in += tileW
		}
		return out.pix, nil
	}

	blockW := img.Width
	if blockW > tileW {
		blockW = tileW
	}
	for r := 0; r < img.Height; r++ {
		left := img.Width
		for block := 0; left > 0; block++ {
			n := blockW
			if n > left {
				n = left
			}
			if out.off < len(out.pix) {
				copy(out.pix[out.off:], window(buf, in+block*tileW*tileSide, n))
			}
			left -= n
			out.off += n
		}
		in += tileW
	}
	return out.pix, nil
}

// FloorDecode copies a floor image, stored as plain rows at its data offset.
func FloorDecode(buf []byte, img *Image) []byte {
	out := newCanvas(img.Width, img.Height)
	copy(out.pix, window(buf, img.DataOffset, len(out.pix)))
	return out.pix
}
