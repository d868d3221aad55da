// Package imageprint prints decoded sprites on a terminal.
//
// This package has an API with no stability guarantees.
package imageprint

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	ic "image/color"
	"image/png"
	"io"

	"github.com/gookit/color"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritecodec/palette"
	"badc0de.net/pkg/go-spritecodec/render"
	"badc0de.net/pkg/go-spritecodec/sprite"
)

// Mode selects how pixels reach the terminal.
type Mode int

const (
	// TrueColor sets the background with 24 bit escape sequences.
	TrueColor Mode = iota
	// Color256 lets gookit/color pick the closest colour the terminal has.
	Color256
	// NoColor prints shades only. Only makes sense with Blanks unset.
	NoColor
	// ITerm uses iTerm2's inline image escape code.
	ITerm
	// RasTerm uses whatever graphics protocol rasterm detects.
	RasTerm
)

// Printer draws images on W, two characters per pixel.
type Printer struct {
	W      io.Writer
	Mode   Mode
	Blanks bool
}

// Print draws img. name is only used by the iTerm protocol.
func (p *Printer) Print(img image.Image, name string) error {
	switch p.Mode {
	case ITerm:
		if !isTermItermWez() {
			return errors.New("terminal does not speak the iTerm image protocol")
		}
		return writeITerm(p.W, img, name)
	case RasTerm:
		return printRasTerm(p.W, img)
	}
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y++ {
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			p.shade(img.At(x, y))
		}
		if p.Mode != NoColor {
			fmt.Fprint(p.W, "\x1b[0m")
		}
		fmt.Fprint(p.W, "\n")
	}
	return nil
}

// PrintBlock draws a decoded block without its padding columns.
func (p *Printer) PrintBlock(b *sprite.Block, pal palette.Entries) error {
	return p.Print(render.Cropped(b, pal), "sprite.png")
}

func (p *Printer) shade(col ic.Color) {
	cR, cG, cB, cA := col.RGBA()
	if cA == 0 {
		if p.Mode == NoColor {
			fmt.Fprint(p.W, "  ")
		} else {
			fmt.Fprint(p.W, "\x1b[0m  ")
		}
		return
	}

	s := "  "
	if !p.Blanks {
		switch a := ((cR + cG + cB) / 3) >> 8; {
		case a < 32:
			s = ".."
		case a < 64:
			s = "--"
		case a < 128:
			s = "=="
		default:
			s = "##"
		}
	}

	r, g, b := uint8(cR>>8), uint8(cG>>8), uint8(cB>>8)
	switch p.Mode {
	case NoColor:
		fmt.Fprint(p.W, s)
	case Color256:
		fmt.Fprint(p.W, color.RGB(r, g, b, true).Sprint(s))
	default:
		fmt.Fprintf(p.W, "\x1b[48;2;%d;%d;%dm%s\x1b[0m", r, g, b, s)
	}
}

// writeITerm draws img using iTerm2's escape sequences.
//
// https://www.iterm2.com/documentation-images.html
func writeITerm(w io.Writer, img image.Image, name string) error {
	b := &bytes.Buffer{}
	enc := base64.NewEncoder(base64.StdEncoding, b)
	if err := png.Encode(enc, img); err != nil {
		return errors.Wrap(err, "iterm image")
	}
	enc.Close()
	sz := img.Bounds().Size()
	_, err := fmt.Fprintf(w, "\n\033]1337;File=name=%s;inline=1;size=%d,width=%dpx;height=%dpx:%s\a\n",
		base64.StdEncoding.EncodeToString([]byte(name)), b.Len(), sz.X, sz.Y, b.String())
	return err
}
