// Package mktpc decodes the sprite containers of the PC release: `.dat`
// files holding image headers, palettes, shared decoder tables and image
// data compressed with one of a handful of schemes.
package mktpc

import "fmt"

// Compression is the scheme an image's data is stored with.
type Compression int

const (
	Raw Compression = iota
	Huffman
	POVBQ
	BQ
	RLE
)

func (c Compression) String() string {
	switch c {
	case Raw:
		return "Raw"
	case Huffman:
		return "Huffman"
	case POVBQ:
		return "POVBQ"
	case BQ:
		return "BQ"
	case RLE:
		return "RLE"
	}
	return fmt.Sprintf("Compression(%d)", int(c))
}

// CompressionFor picks the scheme from an image header's file id and signed
// type byte.
func CompressionFor(fileID, typ int) Compression {
	if fileID == 0x1f || fileID == 0 || typ == 0x81 || typ == -0x7f {
		return Raw
	}
	if typ&0x20 != 0 {
		return RLE
	}
	if typ&0x40 == 0 {
		return Huffman
	}
	if fileID != 0x1e {
		return POVBQ
	}
	// packed 8 to 4
	return BQ
}
