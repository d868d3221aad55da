package palette

import (
	"bytes"
	"encoding/binary"
	"image/color"
	"testing"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritecodec/bufptr"
	"badc0de.net/pkg/go-spritecodec/ttesting"
)

func TestEntryToRGB(t *testing.T) {
	tests := []struct {
		word uint16
		f    Format
		want color.NRGBA
	}{
		{0x7c00, XRGB1555, color.NRGBA{0xf8, 0, 0, 0xff}},
		{0x7c00, XBGR1555, color.NRGBA{0, 0, 0xf8, 0xff}},
		{0xf800, RGBX5551, color.NRGBA{0xf8, 0, 0, 0xff}},
		{0x003e, RGBX5551, color.NRGBA{0, 0, 0xf8, 0xff}},
		{0x07e0, RGB565, color.NRGBA{0, 0xfc, 0, 0xff}},
		{0x07e0, BGR565, color.NRGBA{0, 0xfc, 0, 0xff}},
		{0xfc00, RGB655, color.NRGBA{0xfc, 0, 0, 0xff}},
		{0x003f, RGB556, color.NRGBA{0, 0, 0xfc, 0xff}},
		{0x003f, BGR556, color.NRGBA{0xfc, 0, 0, 0xff}},
		{0x001f, BGR655, color.NRGBA{0xf8, 0, 0, 0xff}},
		{0x0002, BGRX5551, color.NRGBA{0x08, 0, 0, 0xff}},
	}
	for _, tt := range tests {
		got := EntryToRGB(tt.word, tt.f)
		if got != tt.want {
			t.Errorf("%s 0x%04x: got %v; want %v", tt.f, tt.word, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats() {
		got, err := ParseFormat(f.String())
		ttesting.AssertNoError(t, f.String(), err)
		ttesting.AssertEqualInt(t, f.String(), int(got), int(f))
	}
	f, err := ParseFormat("xrgb1555")
	ttesting.AssertNoError(t, "lower case", err)
	ttesting.AssertEqualString(t, "lower case", f.String(), "XRGB1555")
	if _, err := ParseFormat("RGB888"); err == nil {
		t.Errorf("RGB888 accepted")
	}
}

func TestReadCounted(t *testing.T) {
	buf := []byte{0x02, 0x00, 0x1f, 0x00, 0xe0, 0x03, 0xff}
	e, err := ReadCounted(bufptr.New(buf, 0), XRGB1555)
	ttesting.AssertNoError(t, "read", err)
	ttesting.AssertEqualInt(t, "entries", len(e), 2)
	ttesting.AssertEqualInt(t, "index 0 transparent", int(e[0].A), 0)
	ttesting.AssertEqualInt(t, "index 0 blue", int(e[0].B), 0xf8)
	ttesting.AssertEqualInt(t, "index 1 green", int(e[1].G), 0xf8)
	ttesting.AssertEqualInt(t, "index 1 opaque", int(e[1].A), 0xff)

	_, err = ReadCounted(bufptr.New([]byte{0x03, 0x00, 0x00, 0x00}, 0), XRGB1555)
	ttesting.AssertErrorIs(t, "short palette", err, bufptr.ErrBufferUnderrun)

	e, err = ReadCounted(bufptr.New([]byte{0x00, 0x00}, 0), XRGB1555)
	ttesting.AssertNoError(t, "empty", err)
	ttesting.AssertEqualInt(t, "empty entries", len(e), 0)
}

func TestReadPC(t *testing.T) {
	e, err := ReadPC(bufptr.New([]byte{0x01, 0x00, 0x1f, 0x00}, 0))
	ttesting.AssertNoError(t, "read", err)
	ttesting.AssertEqualInt(t, "red in low bits", int(e[0].R), 0xf8)
}

func TestDummies(t *testing.T) {
	d := Dummy()
	ttesting.AssertEqualInt(t, "dummy size", len(d), DummySize)
	ttesting.AssertEqualInt(t, "dummy transparent", int(d[0].A), 0)
	ttesting.AssertEqualInt(t, "dummy ramp", int(d[3].R), 12)
	ttesting.AssertEqualInt(t, "dummy wraps", int(d[65].G), 4)

	n := DummyN64()
	ttesting.AssertEqualInt(t, "n64 dummy bytes", len(n), 512)
	ttesting.AssertEqualInt(t, "n64 word 1", int(binary.BigEndian.Uint16(n[2:])), 2|2<<5|2<<10)
	ttesting.AssertEqualInt(t, "n64 word 16 wraps", int(binary.BigEndian.Uint16(n[32:])), 0)

	ext := Extend(Entries{{R: 1, A: 0}, {R: 2, A: 0xff}})
	ttesting.AssertEqualInt(t, "extended size", len(ext), DummySize)
	ttesting.AssertEqualInt(t, "kept entry", int(ext[1].R), 2)
	ttesting.AssertEqualInt(t, "filled entry", int(ext[2].R), 8)

	ttesting.AssertEqualInt(t, "full palette", len(Entries{}.Full()), 256)
}

func TestWriteACT(t *testing.T) {
	var buf bytes.Buffer
	err := WriteACT(&buf, Entries{{R: 1, G: 2, B: 3}, {R: 4, G: 5, B: 6}})
	ttesting.AssertNoError(t, "write", err)
	b := buf.Bytes()
	ttesting.AssertEqualInt(t, "act size", len(b), 772)
	ttesting.AssertEqualBytes(t, "first entries", b[:6], []byte{1, 2, 3, 4, 5, 6})
	ttesting.AssertEqualInt(t, "count byte", int(b[768]), 2)
}

type fakeLabels map[string]string

func (f fakeLabels) PaletteFor(label string) (string, bool) {
	p, ok := f[label]
	return p, ok
}

func TestResolverOrder(t *testing.T) {
	red := Entries{{R: 0xff}}
	green := Entries{{G: 0xff}}
	blue := Entries{{B: 0xff}}
	grey := Entries{{R: 0x80, G: 0x80, B: 0x80}}

	r := &Resolver{
		ByAddress: func(addr int) (Entries, error) {
			switch addr {
			case 0x100:
				return red, nil
			case 0x200:
				return green, nil
			}
			return nil, errors.Errorf("no palette at 0x%x", addr)
		},
		Labels: fakeLabels{"HEAD_IMG": "HEAD_P"},
		ByLabel: func(label string) (Entries, bool) {
			if label == "HEAD_P" {
				return blue, true
			}
			return nil, false
		},
		Default: func() (Entries, bool) { return grey, true },
	}

	tests := []struct {
		name string
		req  Request
		want Source
		r    uint8
	}{
		{"explicit wins", Request{Explicit: 0x100, Suggested: 0x200, Label: "HEAD_IMG"}, SourceExplicit, 0xff},
		{"broken explicit falls to suggested", Request{Explicit: 0x999, Suggested: 0x200}, SourceSuggested, 0},
		{"label", Request{Label: "HEAD_IMG"}, SourceLabel, 0},
		{"unknown label falls to default", Request{Label: "TAIL_IMG"}, SourceDefault, 0x80},
	}
	for _, tt := range tests {
		e, src := r.Resolve(tt.req)
		ttesting.AssertEqualString(t, tt.name+" source", src.String(), tt.want.String())
		ttesting.AssertEqualInt(t, tt.name+" red", int(e[0].R), int(tt.r))
	}
}

func TestResolverFallsBackToDummy(t *testing.T) {
	var r Resolver
	e, src := r.Resolve(Request{Name: "orphan"})
	ttesting.AssertEqualString(t, "source", src.String(), "dummy")
	ttesting.AssertEqualInt(t, "dummy palette", len(e), DummySize)

	r.Default = func() (Entries, bool) { return nil, false }
	_, src = r.Resolve(Request{Explicit: 0x10})
	ttesting.AssertEqualString(t, "empty default", src.String(), "dummy")
}
