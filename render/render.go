// Package render turns decoded blocks into images and writes them out in
// the supported container formats.
package render

import (
	"image"
	"image/gif"
	"image/png"
	"io"
	"strings"

	"github.com/gen2brain/webp"
	"github.com/pkg/errors"
	"github.com/xfmoulet/qoi"

	"badc0de.net/pkg/go-spritecodec/palette"
	"badc0de.net/pkg/go-spritecodec/sprite"
)

// Image returns b as a paletted image, padding columns included. Palettes
// shorter than 256 entries are padded so every index is valid.
func Image(b *sprite.Block, pal palette.Entries) *image.Paletted {
	if pal == nil {
		pal = palette.Dummy()
	}
	return b.Paletted(pal.Full())
}

// Cropped is Image without the padding columns.
func Cropped(b *sprite.Block, pal palette.Entries) *image.Paletted {
	img := Image(b, pal)
	if b.Width <= 0 || b.Width >= img.Rect.Dx() {
		return img
	}
	return img.SubImage(image.Rect(0, 0, b.Width, b.Height)).(*image.Paletted)
}

// Format is an output container format.
type Format int

const (
	PNG Format = iota
	GIF
	WebP
	QOI
)

var formats = []struct {
	f         Format
	ext, mime string
}{
	{PNG, "png", "image/png"},
	{GIF, "gif", "image/gif"},
	{WebP, "webp", "image/webp"},
	{QOI, "qoi", "image/x-qoi"},
}

// Formats lists every supported format.
func Formats() []Format { return []Format{PNG, GIF, WebP, QOI} }

// Ext returns the file extension, without a dot.
func (f Format) Ext() string {
	for _, d := range formats {
		if d.f == f {
			return d.ext
		}
	}
	return ""
}

func (f Format) String() string { return f.Ext() }

// MIME returns the content type of the format.
func (f Format) MIME() string {
	for _, d := range formats {
		if d.f == f {
			return d.mime
		}
	}
	return "application/octet-stream"
}

// ParseFormat accepts an extension, with or without the dot.
func ParseFormat(ext string) (Format, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, d := range formats {
		if d.ext == ext {
			return d.f, nil
		}
	}
	return PNG, errors.Errorf("unsupported image format %q", ext)
}

// Set implements flag.Value.
func (f *Format) Set(s string) error {
	v, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Encode writes img to w in format f. WebP output is lossless.
func Encode(w io.Writer, img image.Image, f Format) error {
	var err error
	switch f {
	case PNG:
		enc := &png.Encoder{CompressionLevel: png.BestCompression}
		err = enc.Encode(w, img)
	case GIF:
		err = gif.Encode(w, img, &gif.Options{NumColors: 256})
	case WebP:
		err = webp.Encode(w, img, webp.Options{Lossless: true})
	case QOI:
		err = qoi.Encode(w, img)
	default:
		err = errors.Errorf("unsupported image format %d", int(f))
	}
	return errors.Wrapf(err, "encode %s", f)
}
