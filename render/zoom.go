package render

import (
	"image"

	"golang.org/x/image/draw"
)

// Zoom scales img up by an integer factor without smoothing. Paletted
// images stay paletted.
func Zoom(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	r := image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor)

	var dst draw.Image
	if p, ok := img.(*image.Paletted); ok {
		dst = image.NewPaletted(r, p.Palette)
	} else {
		dst = image.NewNRGBA(r)
	}
	draw.NearestNeighbor.Scale(dst, r, img, b, draw.Src, nil)
	return dst
}
