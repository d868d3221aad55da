package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/golang/glog"

	"badc0de.net/pkg/go-spritecodec/n64rom"
	"badc0de.net/pkg/go-spritecodec/paths"
	"badc0de.net/pkg/go-spritecodec/render"
)

func n64Handler() bool {
	rom, err := paths.ReadFile(n64romPath)
	if err != nil {
		glog.Errorf("reading N64 ROM: %v", err)
		return false
	}
	info, err := n64rom.RomInfoFor(rom)
	if err != nil {
		glog.Errorf("%s: %v", n64romPath, err)
		return false
	}
	c, err := n64rom.LoadCharacter(context.Background(), rom, info, *charID)
	if err != nil {
		glog.Errorf("%v", err)
		return false
	}

	if *aniIdx >= 0 {
		return n64AniHandler(c, *aniIdx)
	}

	subframes := []*n64rom.Subframe{}
	if *imgOff != "" {
		off, err := strconv.ParseInt(*imgOff, 0, 0)
		if err != nil {
			glog.Errorf("bad -img: %v", err)
			return false
		}
		sf, ok := c.Image(int(off))
		if !ok {
			glog.Errorf("character %d has no image at 0x%x", c.ID, off)
			return false
		}
		subframes = append(subframes, sf)
	} else {
		for _, o := range c.Graph.Images() {
			subframes = append(subframes, o.Subframe)
		}
	}

	override, overridden := overridePalette()
	for _, sf := range subframes {
		b, pal, src, err := c.Decode(sf)
		if err != nil {
			glog.Errorf("error decoding %s: %v", sf.Name(), err)
			continue
		}
		if overridden {
			pal = override
		}
		fmt.Printf("%s %dx%d (palette: %s)\n", sf.Name(), b.Width, b.Height, src)
		out(render.Cropped(b, pal))
	}
	return true
}

func n64AniHandler(c *n64rom.Character, idx int) bool {
	if idx >= len(c.Graph.Anitab) {
		glog.Errorf("character %d has %d animations", c.ID, len(c.Graph.Anitab))
		return false
	}
	for i, fr := range c.Graph.Anitab[idx].Frames {
		f, err := c.Frame(fr)
		if err != nil {
			glog.Errorf("frame %d: %v", i, err)
			continue
		}
		fmt.Printf("frame %d at %d,%d\n", i, f.X, f.Y)
		out(f.Image)
	}
	return true
}
