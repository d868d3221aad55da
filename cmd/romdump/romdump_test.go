package main

import (
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"badc0de.net/pkg/go-spritecodec/mktpc"
	"badc0de.net/pkg/go-spritecodec/palette"
	"badc0de.net/pkg/go-spritecodec/render"
	"badc0de.net/pkg/go-spritecodec/sprite"
	"badc0de.net/pkg/go-spritecodec/ttesting"
)

func TestDumpBlock(t *testing.T) {
	d := &dumper{dir: t.TempDir(), format: render.PNG, zoom: 2, raw: true}
	b := &sprite.Block{Pix: []byte{1, 2, 0, 0}, Width: 2, PaddedWidth: 4, Height: 1}
	pal := palette.Entries{{}, {R: 0xff, A: 0xff}, {G: 0xff, A: 0xff}}
	d.block("test/one", b, pal, Entry{Source: "test", Name: "one"})

	ttesting.AssertEqualInt(t, "written", d.written, 1)
	f, err := os.Open(filepath.Join(d.dir, "test/one.png"))
	ttesting.AssertNoError(t, "open", err)
	defer f.Close()
	img, err := png.Decode(f)
	ttesting.AssertNoError(t, "decode", err)
	ttesting.AssertEqualInt(t, "zoomed cropped width", img.Bounds().Dx(), 4)

	rf, err := os.Open(filepath.Join(d.dir, "test/one.spix.zst"))
	ttesting.AssertNoError(t, "open raw", err)
	defer rf.Close()
	rb, err := render.ReadRaw(rf)
	ttesting.AssertNoError(t, "read raw", err)
	ttesting.AssertEqualBytes(t, "raw pixels", rb.Pix, b.Pix)
}

func TestDumpMktpcAndMeta(t *testing.T) {
	d := &dumper{dir: t.TempDir(), format: render.QOI, zoom: 1}
	f := &mktpc.File{
		Name: "SC.DAT",
		Images: []*mktpc.Image{
			{ID: "0", Width: 2, Height: 1, Pix: []byte{1, 1}},
			{ID: "1", Width: 2, Height: 1},
		},
		Palettes: []mktpc.Palette{{ID: "0", Entries: palette.Dummy()}},
	}
	d.mktpcFile(f)
	ttesting.AssertEqualInt(t, "written", d.written, 1)
	ttesting.AssertEqualInt(t, "failed", d.failed, 1)
	_, err := os.Stat(filepath.Join(d.dir, "mktpc/SC/0.qoi"))
	ttesting.AssertNoError(t, "image", err)
	_, err = os.Stat(filepath.Join(d.dir, "mktpc/SC/palette-0.act"))
	ttesting.AssertNoError(t, "palette", err)

	ttesting.AssertNoError(t, "meta", d.writeMeta())
	b, err := os.ReadFile(filepath.Join(d.dir, "meta.json"))
	ttesting.AssertNoError(t, "read meta", err)
	var entries []Entry
	ttesting.AssertNoError(t, "parse meta", json.Unmarshal(b, &entries))
	ttesting.AssertEqualInt(t, "entries", len(entries), 2)
	ttesting.AssertEqualString(t, "file", entries[0].File, "mktpc/SC/0.qoi")
	ttesting.AssertEqualString(t, "error recorded", entries[1].File, "")
}
