// Package sprite holds the types shared by every decoder: the metadata a
// caller declares for a compressed block, and the indexed pixel buffer that
// comes out of decoding it.
package sprite

import (
	"image"
	"image/color"
)

// Meta is what the caller knows about a block before decoding it. Width and
// Height may be guesses; decoders size their output from them when the block
// does not say otherwise.
type Meta struct {
	Name   string
	Width  int
	Height int
}

// Size is Width*Height, clamped to zero for nonsense metadata.
func (m Meta) Size() int {
	if m.Width <= 0 || m.Height <= 0 {
		return 0
	}
	return m.Width * m.Height
}

// Block is a decoded image: one palette index per pixel, rows of PaddedWidth.
// Pix may hold more bytes than PaddedWidth*Height when a block's declared size
// overshoots; renderers only look at the first PaddedWidth*Height bytes.
type Block struct {
	Pix         []byte
	Width       int
	PaddedWidth int
	Height      int
}

// NewBlock wraps pix with the dimensions from meta. Widths are not padded.
func NewBlock(pix []byte, meta Meta) *Block {
	return &Block{
		Pix:         pix,
		Width:       meta.Width,
		PaddedWidth: meta.Width,
		Height:      meta.Height,
	}
}

// Stride returns the row length in bytes.
func (b *Block) Stride() int {
	if b.PaddedWidth > 0 {
		return b.PaddedWidth
	}
	return b.Width
}

// Paletted returns an image.Paletted sharing nothing with the block. Missing
// trailing pixels stay at index 0. Index values beyond the palette are left
// as-is; image/png and image/gif reject those, so callers should pass a full
// palette (see palette.Extend).
func (b *Block) Paletted(p color.Palette) *image.Paletted {
	w := b.Stride()
	img := image.NewPaletted(image.Rect(0, 0, w, b.Height), p)
	copy(img.Pix, b.Pix)
	return img
}
