package asm

import (
	"strings"
	"testing"

	"badc0de.net/pkg/go-spritecodec/palette"
	"badc0de.net/pkg/go-spritecodec/ttesting"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Line
	}{
		{"label by itself", "MY_IMG:", Line{Label: "MY_IMG"}},
		{"label with other stuff", "MY_IMG\t.long\tOTHER_LABEL,0", Line{Label: "MY_IMG", Instruction: ".long", Args: "OTHER_LABEL,0"}},
		{".long without a label", "\t.long\tOTHER_LABEL,0", Line{Instruction: ".long", Args: "OTHER_LABEL,0"}},
		{"inline comment", "\t.byte\t1,2 ; two bytes", Line{Instruction: ".byte", Args: "1,2 ", Comment: "; two bytes"}},
		{"whole line comment", "  ; just words", Line{Comment: "  ; just words"}},
		{"star comment", "* old style", Line{Comment: "* old style"}},
		{"blank", "   \t", Line{}},
	}
	for _, tt := range tests {
		got := ParseLine(tt.line, "example.asm", 1)
		ttesting.AssertEqualString(t, tt.name+" label", got.Label, tt.want.Label)
		ttesting.AssertEqualString(t, tt.name+" instruction", got.Instruction, tt.want.Instruction)
		ttesting.AssertEqualString(t, tt.name+" args", strings.TrimSpace(got.Args), strings.TrimSpace(tt.want.Args))
		ttesting.AssertEqualString(t, tt.name+" comment", got.Comment, tt.want.Comment)
	}
}

const someBytes = `; This IMG is really cool
SOME_IMG:
	.byte	0x08,0x00,0x00,0x08,0x65,0x04,0,0
	.byte	1,2,3,4,5,6,7,8
	.byte	-1, 0x10, 16 , 17
	.byte	9,10,11,12, 13,14,15,16
OTHER_IMG: ; second
	.align	4
	.byte	1,2
`

func TestParseLiteralDataEntries(t *testing.T) {
	entries := ParseLiteralDataEntries(strings.Split(someBytes, "\n"), "someBytes.asm")
	ttesting.AssertEqualInt(t, "entries", len(entries), 2)
	ttesting.AssertEqualString(t, "label", entries[0].Label, "SOME_IMG")
	ttesting.AssertEqualString(t, "comment", entries[0].Comment, "; This IMG is really cool")
	ttesting.AssertEqualInt(t, "data length", len(entries[0].Data), 28)
	ttesting.AssertEqualBytes(t, "signed and hex bytes", entries[0].Data[16:20], []byte{0xff, 0x10, 16, 17})

	ttesting.AssertEqualString(t, "second label", entries[1].Label, "OTHER_IMG")
	ttesting.AssertEqualString(t, "inline comment", entries[1].Comment, "; second")
	ttesting.AssertEqualBytes(t, "aligned data", entries[1].Data, []byte{1, 2, 0, 0})
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12", 12, true},
		{"-5", -5, true},
		{"0x1F", 31, true},
		{"12abc", 12, true},
		{"$1F", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseInt(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseInt(%q): got %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

const animation = `HEAD_ANI:
	.word	HEAD1_IMG
	.half	41, 37, -3, 5
	.word	HEAD2_IMG
	.half	10 10 0 0
`

func TestExtractImageMetaData(t *testing.T) {
	meta := ExtractImageMetaData(File{Name: "head.atd", Text: animation})
	ttesting.AssertEqualInt(t, "images", len(meta), 2)
	m := meta["HEAD1_IMG"]
	ttesting.AssertEqualInt(t, "padded width", m.Width, 40)
	ttesting.AssertEqualInt(t, "height", m.Height, 41)
	ttesting.AssertEqualInt(t, "x", m.XOffset, 5)
	ttesting.AssertEqualInt(t, "y", m.YOffset, -3)
	ttesting.AssertEqualInt(t, "space separated width", meta["HEAD2_IMG"].Width, 12)
}

func TestGuessMetaData(t *testing.T) {
	m := GuessMetaData("X_IMG", 64*16)
	ttesting.AssertEqualInt(t, "width", m.Width, 16)
	ttesting.AssertEqualInt(t, "height", m.Height, 64)

	m = GuessMetaData("EMPTY_IMG", 0)
	ttesting.AssertEqualInt(t, "default width", m.Width, 150)
	ttesting.AssertEqualInt(t, "default height", m.Height, 150)
}

func TestCategorize(t *testing.T) {
	ttesting.AssertEqualInt(t, ".ATT", int(Categorize("dir/HEAD.ATT")), int(KindImageData))
	ttesting.AssertEqualInt(t, ".s", int(Categorize("x.s")), int(KindAnimation))
	ttesting.AssertEqualInt(t, ".mas", int(Categorize("x.mas")), int(KindPalette))
	ttesting.AssertEqualInt(t, ".dct", int(Categorize("x.dct")), int(KindDictionary))
	ttesting.AssertEqualInt(t, ".txt", int(Categorize("x.txt")), int(KindUnknown))

	others := []File{{Name: "a/x.pal"}, {Name: "a/b/y.pal"}, {Name: "c/z.pal"}}
	got := SameDirectory(File{Name: "a/main.att"}, others)
	ttesting.AssertEqualInt(t, "same directory", len(got), 1)
	ttesting.AssertEqualString(t, "same directory file", got[0].Name, "a/x.pal")
}

func TestParsePaletteFilesDropsTables(t *testing.T) {
	pal := File{Name: "head.pal", Text: "HEAD_CLT:\n\t.byte 1,2\nHEAD_P:\n\t.byte 0,0,0x7c,0\n"}
	files := ParsePaletteFiles([]File{pal, {Name: "empty.pal"}})
	ttesting.AssertEqualInt(t, "files", len(files), 1)
	ttesting.AssertEqualInt(t, "palettes", len(files[0].Palettes), 1)
	ttesting.AssertEqualString(t, "palette", files[0].Palettes[0].Label, "HEAD_P")

	d, ok := ParseDictionary(File{Name: "x.dct", Text: "\t.byte 1,2,3,4\n"})
	ttesting.AssertEqualBool(t, "dictionary", ok, true)
	ttesting.AssertEqualString(t, "dictionary label", d.Label, "dict")
	ttesting.AssertEqualInt(t, "dictionary bytes", len(d.Data), 4)
}

const graphSource = `FIGHTER_ANI:
	.long	HEAD_FRM, BODY_FRM
	.word	FIGHTER_P
HEAD_FRM:
	.long	HEAD1_IMG
BODY_FRM:
	.long	BODY1_IMG
SHARED_FRM:
	.long	SHARED_IMG
RED_ANI:
	.long	SHARED_FRM, RED_P
BLUE_ANI:
	.long	SHARED_FRM, BLUE_P
`

func TestLabelGraphPaletteFor(t *testing.T) {
	g := BuildLabelGraph([]File{{Name: "fighter.atd", Text: graphSource}})
	g.MarkPalettes("FIGHTER_P", "RED_P", "BLUE_P")

	p, ok := g.PaletteFor("HEAD1_IMG")
	ttesting.AssertEqualBool(t, "unique ancestor palette found", ok, true)
	ttesting.AssertEqualString(t, "unique ancestor palette", p, "FIGHTER_P")

	_, ok = g.PaletteFor("SHARED_IMG")
	ttesting.AssertEqualBool(t, "ambiguous ancestors", ok, false)

	_, ok = g.PaletteFor("ORPHAN_IMG")
	ttesting.AssertEqualBool(t, "no parents", ok, false)

	ttesting.AssertEqualInt(t, "parents", len(g.Parents("SHARED_FRM")), 2)
}

func TestLibraryDecode(t *testing.T) {
	files := []File{
		{Name: "lib/fighter.att", Text: "HEAD1_IMG:\n\t.byte 0x08,0x00,0x00,0x08,0x65,0x04\n"},
		{Name: "lib/fighter.atd", Text: "FIGHTER_ANI:\n\t.long HEAD1_IMG, FIGHTER_P\n\t.word\tHEAD1_IMG\n\t.half 1,4,0,0\n"},
		{Name: "lib/fighter.pal", Text: "OTHER_P:\n\t.byte 0,0,0,0\nFIGHTER_P:\n\t.byte 0,0,0xf8,0,0,0x3e\n"},
	}
	lib := LoadLibrary(files, palette.RGBX5551)
	ttesting.AssertEqualInt(t, "images", len(lib.Images), 1)

	blk, pal, err := lib.Decode(lib.Images[0])
	ttesting.AssertNoError(t, "decode", err)
	ttesting.AssertEqualBytes(t, "pixels", blk.Pix, []byte{5, 5, 5, 5})
	ttesting.AssertEqualInt(t, "palette from label", len(pal), 3)
	ttesting.AssertEqualInt(t, "red entry", int(pal[1].R), 0xf8)
	ttesting.AssertEqualInt(t, "blue entry", int(pal[2].B), 0xf8)
}
