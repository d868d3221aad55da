package main

import (
	"fmt"

	"github.com/golang/glog"

	"badc0de.net/pkg/go-spritecodec/arcade"
	"badc0de.net/pkg/go-spritecodec/paths"
	"badc0de.net/pkg/go-spritecodec/render"
)

func arcadeHandler(idx int) bool {
	maincpu, err := paths.ReadFile(maincpuPath)
	if err != nil {
		glog.Errorf("reading maincpu: %v", err)
		return false
	}
	gfxrom, err := paths.ReadFile(gfxromPath)
	if err != nil {
		glog.Errorf("reading gfxrom: %v", err)
		return false
	}

	sprites := arcade.ScanROM(maincpu, gfxrom, *mk1)
	if idx >= len(sprites) {
		glog.Errorf("found %d sprites, no sprite %d", len(sprites), idx)
		return false
	}
	s := sprites[idx]
	b, err := arcade.Decode(s, gfxrom)
	if err != nil {
		glog.Errorf("error decoding %s: %v", s.Name(), err)
		return false
	}
	pal := arcade.Palettes(maincpu, sprites)[idx]
	if p, ok := overridePalette(); ok {
		pal = p
	}
	fmt.Printf("%s at %d,%d\n", s.Name(), s.XOffset, s.YOffset)
	out(render.Cropped(b, pal))
	return true
}
