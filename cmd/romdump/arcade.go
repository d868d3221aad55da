package main

import (
	"github.com/golang/glog"

	"badc0de.net/pkg/go-spritecodec/arcade"
	"badc0de.net/pkg/go-spritecodec/paths"
)

func (d *dumper) arcade(maincpuPath, gfxromPath string, mk1 bool) error {
	maincpu, err := paths.ReadFile(maincpuPath)
	if err != nil {
		return err
	}
	gfxrom, err := paths.ReadFile(gfxromPath)
	if err != nil {
		return err
	}
	sprites := arcade.ScanROM(maincpu, gfxrom, mk1)
	glog.Infof("arcade: %d sprites", len(sprites))
	d.arcadeSprites(maincpu, gfxrom, sprites)
	return nil
}

func (d *dumper) arcadeSprites(maincpu, gfxrom []byte, sprites []arcade.Sprite) {
	pals := arcade.Palettes(maincpu, sprites)
	for i, s := range sprites {
		e := Entry{Source: "arcade", Name: s.Name(), XOffset: s.XOffset, YOffset: s.YOffset}
		b, err := arcade.Decode(s, gfxrom)
		if err != nil {
			d.fail(e, err)
			continue
		}
		if arcade.IsBlank(b) {
			glog.V(2).Infof("arcade: %s is blank", s.Name())
			continue
		}
		if _, ok := s.Palette(maincpu); ok {
			e.Palette = "own"
		} else {
			e.Palette = "carried"
		}
		d.block("arcade/"+s.Name(), b, pals[i], e)
	}
}
