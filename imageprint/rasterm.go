//go:build !windows

package imageprint

import (
	"fmt"
	"image"
	"io"

	"github.com/BourgeoisBear/rasterm"
	"github.com/andybons/gogif"
	"github.com/pkg/errors"
)

func isTermItermWez() bool {
	return rasterm.IsTermItermWez()
}

// printRasTerm draws an image using the RasTerm library, which covers
// kitty and sixel terminals on top of iTerm.
func printRasTerm(w io.Writer, img image.Image) error {
	var err error
	switch {
	case rasterm.IsTermKitty():
		err = rasterm.Settings{}.KittyWriteImage(w, img)
	case rasterm.IsTermItermWez():
		err = rasterm.Settings{}.ItermWriteImage(w, img)
	default:
		if capable, cerr := rasterm.IsSixelCapable(); !capable || cerr != nil {
			return errors.New("terminal has no image protocol rasterm knows")
		}
		pi, ok := img.(*image.Paletted)
		if !ok {
			pi = image.NewPaletted(img.Bounds(), nil)
			quantizer := gogif.MedianCutQuantizer{NumColor: 64}
			quantizer.Quantize(pi, img.Bounds(), img, image.Point{})
		}
		err = rasterm.Settings{}.SixelWriteImage(w, pi)
	}
	if err != nil {
		return errors.Wrap(err, "rasterm")
	}
	fmt.Fprint(w, "\n")
	return nil
}
