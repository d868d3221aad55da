package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"badc0de.net/pkg/go-spritecodec/mktpc"
	"badc0de.net/pkg/go-spritecodec/paths"
	"badc0de.net/pkg/go-spritecodec/sprite"
)

func (d *dumper) mktpc(path string) error {
	buf, err := paths.ReadFile(path)
	if err != nil {
		return err
	}
	name := filepath.Base(path)
	f, err := mktpc.ParseFile(name, buf)
	if err != nil {
		return err
	}
	d.mktpcFile(f)
	return nil
}

func (d *dumper) mktpcFile(f *mktpc.File) {
	dir := "mktpc/" + strings.TrimSuffix(f.Name, filepath.Ext(f.Name))
	for _, img := range f.Images {
		e := Entry{
			Source:  "mktpc " + f.Name,
			Name:    img.ID,
			XOffset: img.XOffset,
			YOffset: img.YOffset,
			Palette: fmt.Sprint(img.PaletteID),
		}
		if len(img.Pix) == 0 {
			d.fail(e, fmt.Errorf("%s compression produced no pixels", img.Compression))
			continue
		}
		d.block(dir+"/"+img.ID, sprite.NewBlock(img.Pix, img.Meta()), f.PaletteFor(img), e)
	}
	for _, p := range f.Palettes {
		d.palette(fmt.Sprintf("%s/palette-%s.act", dir, p.ID), p.Entries)
	}
}
