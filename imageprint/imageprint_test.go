package imageprint

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"badc0de.net/pkg/go-spritecodec/palette"
	"badc0de.net/pkg/go-spritecodec/sprite"
	"badc0de.net/pkg/go-spritecodec/ttesting"
)

func twoPixels() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	return img
}

func TestPrint(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mode   Mode
		blanks bool
		want   string
	}{
		{"shades", NoColor, false, "##  \n"},
		{"truecolor", TrueColor, true, "\x1b[48;2;255;255;255m  \x1b[0m\x1b[0m  \x1b[0m\n"},
		{"truecolor shades", TrueColor, false, "\x1b[48;2;255;255;255m##\x1b[0m\x1b[0m  \x1b[0m\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := &Printer{W: &buf, Mode: tc.mode, Blanks: tc.blanks}
			ttesting.AssertNoError(t, "print", p.Print(twoPixels(), "x.png"))
			ttesting.AssertEqualString(t, "output", buf.String(), tc.want)
		})
	}
}

func TestPrintBlockCrops(t *testing.T) {
	b := &sprite.Block{Pix: []byte{1, 0, 0, 0}, Width: 1, PaddedWidth: 4, Height: 1}
	pal := palette.Entries{{}, {R: 0xff, G: 0xff, B: 0xff, A: 0xff}}
	var buf bytes.Buffer
	p := &Printer{W: &buf, Mode: NoColor}
	ttesting.AssertNoError(t, "print", p.PrintBlock(b, pal))
	ttesting.AssertEqualString(t, "output", buf.String(), "##\n")
}

func TestWriteITerm(t *testing.T) {
	var buf bytes.Buffer
	ttesting.AssertNoError(t, "iterm", writeITerm(&buf, twoPixels(), "a.png"))
	ttesting.AssertEqualBool(t, "escape", strings.HasPrefix(buf.String(), "\n\x1b]1337;File=name=YS5wbmc=;inline=1;"), true)
	ttesting.AssertEqualBool(t, "size", strings.Contains(buf.String(), "width=2px;height=1px:"), true)
}
