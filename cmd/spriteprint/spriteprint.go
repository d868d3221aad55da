// Command spriteprint prints sprites of N64 ROMs, arcade ROM sets and MKT
// PC data files on the terminal.
package main

import (
	"encoding/binary"
	"flag"
	"os"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"

	"badc0de.net/pkg/go-spritecodec/palette"
	"badc0de.net/pkg/go-spritecodec/paths"
)

var (
	charID  = flag.Int("char", -1, "N64 character whose images to print")
	imgOff  = flag.String("img", "", "segment offset of the N64 image to print; all images of -char if empty")
	aniIdx  = flag.Int("ani", -1, "N64 animation table entry to print frame by frame")
	mk1     = flag.Bool("mk1", false, "whether the arcade ROM set uses the MK1 layout")
	spriteN = flag.Int("sprite", -1, "index of the arcade sprite to print")
	imageN  = flag.Int("image", -1, "index of the MKT PC image to print; all images if negative")

	palettePath      = flag.String("palette", "", "raw palette file overriding the resolved palette")
	paletteFormat    = palette.RGBX5551
	paletteBigEndian = flag.Bool("palette_big_endian", true, "whether -palette words are big endian")

	col      = flag.Bool("col", true, "whether to use color")
	col256   = flag.Bool("col256", false, "whether to use 256 col instead of 24 bit")
	iterm    = flag.Bool("iterm", false, "whether to print with iterm escape code instead of 24 bit")
	rasterm  = flag.Bool("rasterm", false, "whether to print with rasterm (kitty, iterm, sixel)")
	blanks   = flag.Bool("blanks", true, "whether to just use colored blanks instead of some bad ascii art")
	downsize = flag.Bool("downsize", false, "whether to shrink images to fit the terminal")
	zoom     = flag.Int("zoom", 1, "integer zoom factor applied before printing")

	n64romPath  string
	maincpuPath string
	gfxromPath  string
	mktpcPath   string
)

func setupFilePathFlags() {
	paths.SetupFilePathFlag("mkt.n64", "n64rom", &n64romPath)
	paths.SetupFilePathFlag("maincpu.bin", "maincpu", &maincpuPath)
	paths.SetupFilePathFlag("gfxrom.bin", "gfxrom", &gfxromPath)
	flag.StringVar(&mktpcPath, "mktpc", "", "Path to an MKT PC .dat file")
	flag.Var(&paletteFormat, "palette_format", "format of -palette entries")
}

// overridePalette reads -palette, if set.
func overridePalette() (palette.Entries, bool) {
	if *palettePath == "" {
		return nil, false
	}
	b, err := paths.ReadFile(*palettePath)
	if err != nil {
		glog.Errorf("reading palette: %v", err)
		return nil, false
	}
	var order binary.ByteOrder = binary.LittleEndian
	if *paletteBigEndian {
		order = binary.BigEndian
	}
	return palette.FromBytes(b, order, paletteFormat), true
}

func main() {
	setupFilePathFlags()
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	ok := true
	switch {
	case *charID >= 0:
		ok = n64Handler()
	case *spriteN >= 0:
		ok = arcadeHandler(*spriteN)
	case mktpcPath != "":
		ok = mktpcHandler(*imageN)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if !ok {
		os.Exit(1)
	}
}
