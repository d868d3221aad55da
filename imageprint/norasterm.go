//go:build windows

package imageprint

import (
	"flag"
	"image"
	"io"

	"github.com/pkg/errors"
)

var forceITerm = flag.Bool("force_iterm", false, "value to force iterm detection to take (implementation variant: no rasterm)")

func isTermItermWez() bool {
	return *forceITerm
}

func printRasTerm(w io.Writer, img image.Image) error {
	return errors.New("rasterm not supported on windows")
}
