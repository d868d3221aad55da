package render

import (
	"image"
	"image/color"
	"image/gif"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// Frame is one image of an animation, placed at X, Y.
type Frame struct {
	Image *image.Paletted
	X, Y  int
}

// Animate lays the frames out on a canvas covering all of them and returns
// them as a looping GIF. delay is in hundredths of a second.
//
// When the frames do not share one palette, a common palette is computed
// from all of them with index 0 kept transparent.
func Animate(frames []Frame, delay int) (*gif.GIF, error) {
	if len(frames) == 0 {
		return nil, errors.New("animation has no frames")
	}
	bounds := union(frames)
	if bounds.Empty() {
		return nil, errors.New("animation frames are empty")
	}

	pal := frames[0].Image.Palette
	for _, f := range frames[1:] {
		if !samePalette(pal, f.Image.Palette) {
			pal = commonPalette(frames, bounds)
			break
		}
	}

	g := &gif.GIF{LoopCount: 0}
	canvas := bounds.Sub(bounds.Min)
	for _, f := range frames {
		dst := image.NewPaletted(canvas, pal)
		at := image.Pt(f.X, f.Y).Sub(bounds.Min)
		r := image.Rectangle{Min: at, Max: at.Add(f.Image.Bounds().Size())}
		if samePalette(pal, f.Image.Palette) {
			blit(dst, at, f.Image)
		} else {
			draw.Draw(dst, r, f.Image, f.Image.Bounds().Min, draw.Over)
		}
		g.Image = append(g.Image, dst)
		g.Delay = append(g.Delay, delay)
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
	}
	return g, nil
}

// Composite draws parts onto one image covering all of them, using the
// palette of the first part. The result is placed at the top left corner
// of the union.
func Composite(parts []Frame) (Frame, error) {
	if len(parts) == 0 {
		return Frame{}, errors.New("nothing to composite")
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	bounds := union(parts)
	pal := parts[0].Image.Palette
	dst := image.NewPaletted(bounds.Sub(bounds.Min), pal)
	for _, f := range parts {
		at := image.Pt(f.X, f.Y).Sub(bounds.Min)
		if samePalette(pal, f.Image.Palette) {
			blitOver(dst, at, f.Image)
			continue
		}
		r := image.Rectangle{Min: at, Max: at.Add(f.Image.Bounds().Size())}
		draw.Draw(dst, r, f.Image, f.Image.Bounds().Min, draw.Over)
	}
	return Frame{Image: dst, X: bounds.Min.X, Y: bounds.Min.Y}, nil
}

func union(frames []Frame) image.Rectangle {
	var bounds image.Rectangle
	for i, f := range frames {
		r := f.Image.Bounds().Sub(f.Image.Bounds().Min).Add(image.Pt(f.X, f.Y))
		if i == 0 {
			bounds = r
		} else {
			bounds = bounds.Union(r)
		}
	}
	return bounds
}

func samePalette(a, b color.Palette) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		r1, g1, b1, a1 := a[i].RGBA()
		r2, g2, b2, a2 := b[i].RGBA()
		if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
			return false
		}
	}
	return true
}

// commonPalette quantizes every frame, drawn side by side, to 255 colours
// and puts transparency first.
func commonPalette(frames []Frame, bounds image.Rectangle) color.Palette {
	w := bounds.Dx()
	all := image.NewNRGBA(image.Rect(0, 0, w*len(frames), bounds.Dy()))
	for i, f := range frames {
		at := image.Pt(i*w, 0).Add(image.Pt(f.X, f.Y).Sub(bounds.Min))
		r := image.Rectangle{Min: at, Max: at.Add(f.Image.Bounds().Size())}
		draw.Draw(all, r, f.Image, f.Image.Bounds().Min, draw.Src)
	}
	q := quantize.MedianCutQuantizer{}
	pal := q.Quantize(make(color.Palette, 0, 255), all)
	return append(color.Palette{color.Transparent}, pal...)
}

// blit copies the palette indices of src into dst at at.
func blit(dst *image.Paletted, at image.Point, src *image.Paletted) {
	sb := src.Bounds()
	for y := 0; y < sb.Dy(); y++ {
		s := src.PixOffset(sb.Min.X, sb.Min.Y+y)
		d := dst.PixOffset(at.X, at.Y+y)
		copy(dst.Pix[d:d+sb.Dx()], src.Pix[s:s+sb.Dx()])
	}
}

// blitOver is blit that leaves dst alone where src has index 0.
func blitOver(dst *image.Paletted, at image.Point, src *image.Paletted) {
	sb := src.Bounds()
	for y := 0; y < sb.Dy(); y++ {
		s := src.PixOffset(sb.Min.X, sb.Min.Y+y)
		d := dst.PixOffset(at.X, at.Y+y)
		for x, v := range src.Pix[s : s+sb.Dx()] {
			if v != 0 {
				dst.Pix[d+x] = v
			}
		}
	}
}
