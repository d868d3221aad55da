package main

import (
	"encoding/json"
	"image"
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritecodec/palette"
	"badc0de.net/pkg/go-spritecodec/render"
	"badc0de.net/pkg/go-spritecodec/sprite"
)

// Entry describes one written image in meta.json.
type Entry struct {
	File    string `json:"file"`
	Source  string `json:"source"`
	Name    string `json:"name"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	XOffset int    `json:"xOffset"`
	YOffset int    `json:"yOffset"`
	Palette string `json:"palette,omitempty"`
	Raw     string `json:"raw,omitempty"`
	Error   string `json:"error,omitempty"`
}

type dumper struct {
	dir     string
	format  render.Format
	zoom    int
	raw     bool
	workers int

	entries         []Entry
	written, failed int
}

func (d *dumper) create(rel string) (*os.File, error) {
	path := filepath.Join(d.dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "output directory")
	}
	f, err := os.Create(path)
	return f, errors.Wrap(err, "output file")
}

// block writes b under rel, without its extension, and records e.
func (d *dumper) block(rel string, b *sprite.Block, pal palette.Entries, e Entry) {
	e.Width, e.Height = b.Width, b.Height
	e.File = rel + "." + d.format.Ext()
	if err := d.image(e.File, render.Cropped(b, pal)); err != nil {
		d.fail(e, err)
		return
	}
	if d.raw {
		e.Raw = rel + ".spix.zst"
		if err := d.rawDump(e.Raw, b); err != nil {
			glog.Warningf("%s: %v", e.Raw, err)
			e.Raw = ""
		}
	}
	d.entries = append(d.entries, e)
	d.written++
}

func (d *dumper) image(rel string, img image.Image) error {
	f, err := d.create(rel)
	if err != nil {
		return err
	}
	if err := render.Encode(f, render.Zoom(img, d.zoom), d.format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (d *dumper) rawDump(rel string, b *sprite.Block) error {
	f, err := d.create(rel)
	if err != nil {
		return err
	}
	if err := render.WriteRaw(f, b); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (d *dumper) fail(e Entry, err error) {
	glog.Warningf("%s %s: %v", e.Source, e.Name, err)
	e.File = ""
	e.Error = err.Error()
	d.entries = append(d.entries, e)
	d.failed++
}

// palette writes a palette as an .act file.
func (d *dumper) palette(rel string, pal palette.Entries) {
	f, err := d.create(rel)
	if err != nil {
		glog.Warningf("%s: %v", rel, err)
		return
	}
	if err := palette.WriteACT(f, pal); err != nil {
		glog.Warningf("%s: %v", rel, err)
	}
	f.Close()
}

func (d *dumper) writeMeta() error {
	f, err := d.create("meta.json")
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d.entries); err != nil {
		f.Close()
		return errors.Wrap(err, "meta.json")
	}
	return f.Close()
}
