package main

import (
	"fmt"
	"path/filepath"

	"github.com/golang/glog"

	"badc0de.net/pkg/go-spritecodec/mktpc"
	"badc0de.net/pkg/go-spritecodec/paths"
	"badc0de.net/pkg/go-spritecodec/render"
	"badc0de.net/pkg/go-spritecodec/sprite"
)

func mktpcHandler(idx int) bool {
	buf, err := paths.ReadFile(mktpcPath)
	if err != nil {
		glog.Errorf("reading %s: %v", mktpcPath, err)
		return false
	}
	f, err := mktpc.ParseFile(filepath.Base(mktpcPath), buf)
	if err != nil {
		glog.Errorf("parsing %s: %v", mktpcPath, err)
		return false
	}

	images := f.Images
	if idx >= 0 {
		if idx >= len(images) {
			glog.Errorf("%s has %d images", mktpcPath, len(images))
			return false
		}
		images = images[idx : idx+1]
	}
	override, overridden := overridePalette()
	for _, img := range images {
		pal := f.PaletteFor(img)
		if overridden {
			pal = override
		}
		fmt.Printf("%s %dx%d (%s)\n", img.ID, img.Width, img.Height, img.Compression)
		out(render.Cropped(sprite.NewBlock(img.Pix, img.Meta()), pal))
	}
	return true
}
