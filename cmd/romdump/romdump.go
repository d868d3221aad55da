// Command romdump writes every sprite of a ROM to a directory, along with a
// meta.json describing them.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/common-nighthawk/go-figure"
	"github.com/golang/glog"

	"badc0de.net/pkg/go-spritecodec/paths"
	"badc0de.net/pkg/go-spritecodec/render"
)

var (
	outDir     = flag.String("out", "dump", "directory to write into")
	workers    = flag.Int("workers", 0, "decoder goroutines; GOMAXPROCS if 0")
	zoom       = flag.Int("zoom", 1, "integer zoom factor of written images")
	raw        = flag.Bool("raw", false, "whether to also write zstd compressed palette indices")
	animations = flag.Bool("animations", true, "whether to write N64 animations as GIFs")
	mk1        = flag.Bool("mk1", false, "whether the arcade ROM set uses the MK1 layout")
	mktpcGlob  = flag.String("mktpc", "", "glob of MKT PC .dat files to dump")
	quiet      = flag.Bool("quiet", false, "whether to skip the banner")

	format = render.PNG

	n64romPath  string
	maincpuPath string
	gfxromPath  string
)

func setupFlags() {
	paths.SetupFilePathFlag("mkt.n64", "n64rom", &n64romPath)
	paths.SetupFilePathFlag("maincpu.bin", "maincpu", &maincpuPath)
	paths.SetupFilePathFlag("gfxrom.bin", "gfxrom", &gfxromPath)
	flag.Var(&format, "format", fmt.Sprintf("image format, one of %v", render.Formats()))
}

func main() {
	setupFlags()
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	if !*quiet {
		fmt.Fprintln(os.Stderr, figure.NewFigure("romdump", "", true).String())
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	d := &dumper{
		dir:     *outDir,
		format:  format,
		zoom:    *zoom,
		raw:     *raw,
		workers: *workers,
	}
	did := false
	if n64romPath != "" {
		did = true
		if err := d.n64(ctx, n64romPath); err != nil {
			glog.Errorf("%s: %v", n64romPath, err)
		}
	}
	if maincpuPath != "" && gfxromPath != "" {
		did = true
		if err := d.arcade(maincpuPath, gfxromPath, *mk1); err != nil {
			glog.Errorf("arcade: %v", err)
		}
	}
	if *mktpcGlob != "" {
		did = true
		files, err := filepath.Glob(*mktpcGlob)
		if err != nil {
			glog.Fatalf("bad -mktpc: %v", err)
		}
		for _, f := range files {
			if err := d.mktpc(f); err != nil {
				glog.Errorf("%s: %v", f, err)
			}
		}
	}
	if !did {
		flag.Usage()
		os.Exit(2)
	}
	if err := d.writeMeta(); err != nil {
		glog.Fatal(err)
	}
	glog.Infof("wrote %d images, %d failed", d.written, d.failed)
}
