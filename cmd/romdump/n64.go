package main

import (
	"context"
	"fmt"
	"image/gif"

	"github.com/golang/glog"

	"badc0de.net/pkg/go-spritecodec/codec"
	"badc0de.net/pkg/go-spritecodec/n64rom"
	"badc0de.net/pkg/go-spritecodec/paths"
)

func (d *dumper) n64(ctx context.Context, path string) error {
	rom, err := paths.ReadFile(path)
	if err != nil {
		return err
	}
	info, err := n64rom.RomInfoFor(rom)
	if err != nil {
		return err
	}
	glog.Infof("%s: %s", path, info.Name)
	for id := 0; id < n64rom.NumCharacters; id++ {
		c, err := n64rom.LoadCharacter(ctx, rom, info, id)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			glog.Warningf("character %d: %v", id, err)
			continue
		}
		if err := d.character(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (d *dumper) character(ctx context.Context, c *n64rom.Character) error {
	dir := fmt.Sprintf("n64/char%02d", c.ID)
	source := fmt.Sprintf("n64 character %d", c.ID)

	imgs := c.Graph.Images()
	jobs := make([]codec.Job, len(imgs))
	for i, o := range imgs {
		jobs[i] = codec.Job{Buf: o.Subframe.Img, Dict: c.Dict, Meta: o.Subframe.Meta()}
	}
	results, err := codec.DecodeAll(ctx, jobs, d.workers)
	if err != nil {
		return err
	}

	resolver := c.Resolver()
	for i, o := range imgs {
		sf := o.Subframe
		e := Entry{Source: source, Name: sf.Name(), XOffset: sf.XOffset, YOffset: sf.YOffset}
		if results[i].Err != nil {
			d.fail(e, results[i].Err)
			continue
		}
		b := results[i].Block
		b.Width = sf.Width - sf.Padding
		pal, src := resolver.Resolve(sf.PaletteRequest())
		e.Palette = src.String()
		d.block(fmt.Sprintf("%s/%s", dir, sf.Name()), b, pal, e)
	}

	for _, ref := range c.Palettes {
		pal, err := c.ReadPalette(ref)
		if err != nil {
			glog.V(1).Infof("%s: palette %s: %v", source, ref.Name(), err)
			continue
		}
		d.palette(fmt.Sprintf("%s/palette-0x%x.act", dir, ref.FileOffset), pal)
	}

	if !*animations {
		return nil
	}
	for _, a := range c.Graph.Anitab {
		if len(a.Frames) == 0 {
			continue
		}
		g, err := c.Animate(a.Index, 10)
		if err != nil {
			glog.V(1).Infof("%s: %v", source, err)
			continue
		}
		if err := d.gif(fmt.Sprintf("%s/ani%03d.gif", dir, a.Index), g); err != nil {
			glog.Warningf("%s: animation %d: %v", source, a.Index, err)
		}
	}
	return nil
}

func (d *dumper) gif(rel string, g *gif.GIF) error {
	f, err := d.create(rel)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
