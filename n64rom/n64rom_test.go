package n64rom

import (
	"context"
	"encoding/binary"
	"testing"

	"badc0de.net/pkg/go-spritecodec/bufptr"
	"badc0de.net/pkg/go-spritecodec/ttesting"
)

func be32(b []byte, at int, v uint32) { binary.BigEndian.PutUint32(b[at:], v) }
func be16(b []byte, at int, v int) { binary.BigEndian.PutUint16(b[at:], uint16(int16(v))) }

const (
	segStart      = 0x10
	paletteOffset = 0x100
)

// putSubframe writes a 4x2 subframe record with a palette at paletteOffset.
func putSubframe(b []byte, at, imgOffset int) {
	be32(b, at, uint32(imgOffset))
	be16(b, at+4, 2)    // height
	be16(b, at+6, 4)    // width
	be16(b, at+8, 5)    // y
	be16(b, at+10, -10) // x
	be32(b, at+12, romBase+paletteOffset)
}

// putImage writes a raw block of 8 pixels.
func putImage(b []byte, at int) {
	be32(b, at, 8)
	for i := 0; i < 8; i++ {
		b[at+4+i] = byte(i + 1)
	}
}

// graphFixture is a segment with one animation of one frame command and an
// end command. The animation is in entry animIndex of a two entry table.
func graphFixture(animIndex int) ([]byte, Segment) {
	b := make([]byte, 0x300)
	s := b[segStart:]
	be32(s, 4*animIndex, 0x08)
	be32(s, 0x08, 0x10) // frame
	be32(s, 0x0c, 0)    // end
	be32(s, 0x10, 0x18) // subframe list
	putSubframe(s, 0x18, 0x28)
	putImage(s, 0x28)

	be32(b, paletteOffset, 2)
	be16(b, paletteOffset+6, 0xf800)
	return b, NewSegment(segStart, segStart+0x34)
}

func TestReconstruct(t *testing.T) {
	file, seg := graphFixture(0)
	g, err := Reconstruct(context.Background(), file, seg)
	ttesting.AssertNoError(t, "reconstruct", err)

	ttesting.AssertEqualInt(t, "animation table", len(g.Anitab), 2)
	ttesting.AssertEqualInt(t, "commands", len(g.Anitab[0].Cmds), 2)
	ttesting.AssertEqualInt(t, "frames", g.Count(FrameObject), 1)
	ttesting.AssertEqualInt(t, "subframes", g.Count(SubframeObject), 1)
	ttesting.AssertEqualInt(t, "images", g.Count(ImgObject), 1)
	ttesting.AssertEqualInt(t, "segment end", g.Count(SegmentEnd), 1)

	imgs := g.Images()
	ttesting.AssertEqualInt(t, "image list", len(imgs), 1)
	sf := imgs[0].Subframe
	ttesting.AssertEqualInt(t, "image offset", imgs[0].Offset, 0x28)
	ttesting.AssertEqualInt(t, "clipped length", len(sf.Img), seg.Size-0x28)
	ttesting.AssertEqualInt(t, "width", sf.Width, 4)
	ttesting.AssertEqualInt(t, "x", sf.XOffset, -10)
	ttesting.AssertEqualInt(t, "y", sf.YOffset, 5)
	ttesting.AssertEqualInt(t, "no suggestion for the first animation", sf.SuggestedPalette, 0)

	ref, ok := g.Palettes[paletteOffset]
	ttesting.AssertEqualBool(t, "palette collected", ok, true)
	ttesting.AssertEqualString(t, "palette kind", ref.Kind.String(), "from-ani")

	b, err := g.DecodeImage(sf, nil)
	ttesting.AssertNoError(t, "decode", err)
	ttesting.AssertEqualBytes(t, "pixels", b.Pix, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	ttesting.AssertEqualInt(t, "stride", b.Stride(), 4)
}

func TestReconstructSuggestsPalette(t *testing.T) {
	file, seg := graphFixture(1)
	g, err := Reconstruct(context.Background(), file, seg)
	ttesting.AssertNoError(t, "reconstruct", err)
	ttesting.AssertEqualInt(t, "empty entry", len(g.Anitab[0].Cmds), 0)
	sf := g.Images()[0].Subframe
	ttesting.AssertEqualInt(t, "suggested", sf.SuggestedPalette, paletteOffset)
	ttesting.AssertEqualInt(t, "anitab index", sf.AniCmd.AnitabIndex, 1)
}

func TestReconstructRescansGaps(t *testing.T) {
	b := make([]byte, 0x300)
	s := b[segStart:]
	be32(s, 0x00, 0x08)
	be32(s, 0x04, 0x10)
	be32(s, 0x08, 0)    // end of the first animation
	be32(s, 0x0c, 0x18) // missed by the first pass
	be32(s, 0x10, 0x18) // second animation
	be32(s, 0x14, 0)
	be32(s, 0x18, 0x20)
	putSubframe(s, 0x20, 0x30)
	putImage(s, 0x30)
	seg := NewSegment(segStart, segStart+0x3c)

	g, err := Reconstruct(context.Background(), b, seg)
	ttesting.AssertNoError(t, "reconstruct", err)

	obj, ok := g.Objects[0x0c]
	ttesting.AssertEqualBool(t, "command found in gap", ok, true)
	ttesting.AssertEqualString(t, "gap object", obj.Kind.String(), "aniCmd")
	ttesting.AssertEqualString(t, "gap command", obj.AniCmd.Kind.String(), "frame")
	ttesting.AssertEqualInt(t, "commands of first animation", len(g.Anitab[0].Cmds), 4)
	ttesting.AssertEqualInt(t, "frames of first animation", len(g.Anitab[0].Frames), 2)
	ttesting.AssertEqualInt(t, "frames", g.Count(FrameObject), 1)
	ttesting.AssertEqualInt(t, "images", g.Count(ImgObject), 1)
	ttesting.AssertEqualInt(t, "suggested palette kept", g.Images()[0].Subframe.SuggestedPalette, paletteOffset)
}

func TestReconstructCancelled(t *testing.T) {
	file, seg := graphFixture(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g, err := Reconstruct(ctx, file, seg)
	ttesting.AssertErrorIs(t, "cancelled", err, context.Canceled)
	ttesting.AssertEqualInt(t, "partial graph", len(g.Anitab), 0)
}

func TestReconstructBadSegment(t *testing.T) {
	_, err := Reconstruct(context.Background(), make([]byte, 16), NewSegment(32, 64))
	if err == nil {
		t.Errorf("no error for segment outside the file")
	}
}

func TestValidateSubframe(t *testing.T) {
	seg := NewSegment(0, 0x800)
	tests := []struct {
		name string
		seg  Segment
		sf   RawSubframe
		want SubframeValidity
	}{
		{"plausible", seg, RawSubframe{ImgOffset: 0x10, Width: 64, Height: 64, XOffset: -10, YOffset: 5}, SubframeValid},
		{"too wide", seg, RawSubframe{ImgOffset: 0x10, Width: 9999, Height: 64}, WidthTooBig},
		{"too tall", seg, RawSubframe{Width: 4, Height: 513}, HeightTooBig},
		{"x", seg, RawSubframe{Width: 4, Height: 4, XOffset: 256}, XOffsetOutOfRange},
		{"y", seg, RawSubframe{Width: 4, Height: 4, YOffset: -257}, YOffsetOutOfRange},
		{"past segment", seg, RawSubframe{ImgOffset: 0x801}, ImgOffsetPastSegmentEnd},
		{"past file", NewSegment(0xf00, 0x1700), RawSubframe{ImgOffset: 0x200}, ImgOffsetPastFileEnd},
	}
	for _, tt := range tests {
		got := ValidateSubframe(0x1000, tt.seg, tt.sf)
		ttesting.AssertEqualString(t, tt.name, string(got), string(tt.want))
	}
}

func TestValidateImg(t *testing.T) {
	seg := NewSegment(0, 16)
	tests := []struct {
		name   string
		header []byte
		off    int
		want   ImgValidity
	}{
		{"valid", []byte{0x07, 0x00, 0x01, 0x00}, 0, ImgValid},
		{"type", []byte{0x1a, 0x00, 0x00, 0x08}, 0, ImgTypeOutOfRange},
		{"too big", []byte{0x07, 0x05, 0x00, 0x00}, 0, ImgSizeTooBig},
		{"too small", []byte{0x07, 0x00, 0x00, 0x02}, 0, ImgSizeTooSmall},
		{"outside segment", []byte{0x07, 0x00, 0x01, 0x00}, 16, InvalidImgOffset},
	}
	for _, tt := range tests {
		file := make([]byte, 32)
		copy(file, tt.header)
		got := ValidateImg(file, seg, tt.off)
		ttesting.AssertEqualString(t, tt.name, string(got), string(tt.want))
	}
}

func TestParseAniCmd(t *testing.T) {
	// two bytes of something else, adjustxy 3 5, ochar_jump, a frame, and
	// a truncated jump
	buf := []byte{
		0xff, 0xff,
		0, 0, 0, 4, 0, 3, 0, 5,
		0, 0, 0, 8, 0, 0, 0, 1, 0, 0, 0, 0x40,
		0, 0, 0, 0x10,
		0, 0, 0, 1, 0,
	}
	p := bufptr.NewBE(buf, 2)

	c, err := ParseAniCmd(p, 2, 7)
	ttesting.AssertNoError(t, "adjustxy", err)
	ttesting.AssertEqualString(t, "adjustxy kind", c.Kind.String(), "adjustxy")
	ttesting.AssertEqualInt(t, "adjustxy size", c.Size, 8)
	ttesting.AssertEqualInt(t, "x", c.X, 3)
	ttesting.AssertEqualInt(t, "y", c.Y, 5)
	ttesting.AssertEqualInt(t, "address", c.AniAddr, 0)
	ttesting.AssertEqualInt(t, "anitab index", c.AnitabIndex, 7)

	c, err = ParseAniCmd(p, 2, 7)
	ttesting.AssertNoError(t, "ochar_jump", err)
	ttesting.AssertEqualInt(t, "ochar_jump size", c.Size, 12)
	ttesting.AssertEqualUint32(t, "ochar", c.OChar, 1)
	ttesting.AssertEqualUint32(t, "next frame", c.NextFrame, 0x40)

	c, err = ParseAniCmd(p, 2, 7)
	ttesting.AssertNoError(t, "frame", err)
	ttesting.AssertEqualString(t, "frame kind", c.Kind.String(), "frame")
	ttesting.AssertEqualInt(t, "frame offset", c.FrameOffset, 0x10)
	ttesting.AssertEqualInt(t, "frame address", c.AniAddr, 20)
	ttesting.AssertEqualBool(t, "frame has frame", c.Kind.HasFrame(), true)

	_, err = ParseAniCmd(p, 2, 7)
	ttesting.AssertErrorIs(t, "truncated", err, bufptr.ErrBufferUnderrun)
}

func TestParseAniCmdSlaves(t *testing.T) {
	tests := []struct {
		name         string
		word         uint32
		wantKind     string
		wantHasFrame bool
		wantFrame    int
		wantPalette  uint32
	}{
		{"sladd", 11, "sladd", true, 0x40, 0},
		{"slani", 12, "slani", true, 0x40, 0},
		{"swpal", 13, "swpal", false, 0, 0x40},
		{"slani_sleep", 14, "slani_sleep", true, 0x40, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, 8)
			be32(buf, 0, tt.word)
			be32(buf, 4, 0x40)
			c, err := ParseAniCmd(bufptr.NewBE(buf, 0), 0, 0)
			ttesting.AssertNoError(t, "parse", err)
			ttesting.AssertEqualString(t, "kind", c.Kind.String(), tt.wantKind)
			ttesting.AssertEqualBool(t, "has frame", c.Kind.HasFrame(), tt.wantHasFrame)
			ttesting.AssertEqualInt(t, "frame offset", c.FrameOffset, tt.wantFrame)
			ttesting.AssertEqualUint32(t, "palette frame", c.PaletteFrame, tt.wantPalette)
			ttesting.AssertEqualInt(t, "size", c.Size, 8)
		})
	}
}

// A swpal whose palette word lies past the segment, then a slani_sleep
// pointing at a one subframe frame.
func TestReconstructSlaveAnimation(t *testing.T) {
	b := make([]byte, 0x300)
	s := b[segStart:]
	be32(s, 0x00, 0x08)
	be32(s, 0x08, 13) // swpal
	be32(s, 0x0c, 0x2000)
	be32(s, 0x10, 14) // slani_sleep
	be32(s, 0x14, 0x1c)
	be32(s, 0x18, 0) // end
	be32(s, 0x1c, 0x24)
	putSubframe(s, 0x24, 0x34)
	putImage(s, 0x34)
	be32(b, paletteOffset, 2)
	seg := NewSegment(segStart, segStart+0x40)

	g, err := Reconstruct(context.Background(), b, seg)
	ttesting.AssertNoError(t, "reconstruct", err)

	a := g.Anitab[0]
	ttesting.AssertEqualInt(t, "commands", len(a.Cmds), 3)
	ttesting.AssertEqualString(t, "first command", a.Cmds[0].Kind.String(), "swpal")
	ttesting.AssertEqualUint32(t, "palette word", a.Cmds[0].PaletteFrame, 0x2000)
	ttesting.AssertEqualInt(t, "primary frames", len(a.Frames), 0)
	ttesting.AssertEqualInt(t, "slave animations", len(a.Secondary), 1)
	ttesting.AssertEqualInt(t, "slave frames", len(a.Secondary[0]), 1)
	ttesting.AssertEqualInt(t, "slave image", a.Secondary[0][0][0].ImgOffset, 0x34)
	ttesting.AssertEqualInt(t, "images", g.Count(ImgObject), 1)
	_, ok := g.Objects[0x2000]
	ttesting.AssertEqualBool(t, "palette word not an object", ok, false)
	_, ok = g.Palettes[paletteOffset]
	ttesting.AssertEqualBool(t, "slave palette collected", ok, true)
}

func TestReconstructSlaveOffsetPastSegment(t *testing.T) {
	b := make([]byte, 0x300)
	s := b[segStart:]
	be32(s, 0x00, 0x08)
	be32(s, 0x08, 12) // slani
	be32(s, 0x0c, 0x200)
	be32(s, 0x10, 0)
	seg := NewSegment(segStart, segStart+0x14)

	g, err := Reconstruct(context.Background(), b, seg)
	ttesting.AssertNoError(t, "reconstruct", err)
	ttesting.AssertEqualInt(t, "slave animations", len(g.Anitab[0].Secondary), 0)
	_, ok := g.Objects[0x200]
	ttesting.AssertEqualBool(t, "offset not followed", ok, false)
}

func romFixture() []byte {
	info := Releases[0]
	b := make([]byte, info.CharacterPalettes+2*paletteTableSize)
	be32(b, 0, Magic)
	be32(b, 0xc, info.ReleaseOffset)
	be32(b, info.CharacterTextures, info.FirstCharacterTextureSegment)
	be32(b, info.CharacterTextures+4, info.FirstCharacterTextureSegment+0x100)
	be32(b, info.CharacterDict+8, 0x200)
	be32(b, info.CharacterDict+12, 0x300)
	be32(b, info.CharacterPalettes+4, romBase+0x120)
	be32(b, info.CharacterPalettes+paletteTableSize+4, romBase+0x140)
	return b
}

func TestRomInfoFor(t *testing.T) {
	b := romFixture()
	info, err := RomInfoFor(b)
	ttesting.AssertNoError(t, "known release", err)
	ttesting.AssertEqualString(t, "name", info.Name, "April 1st, 1996")

	chars, dicts, err := Segments(b, info)
	ttesting.AssertNoError(t, "segments", err)
	ttesting.AssertEqualInt(t, "characters", len(chars), NumCharacters)
	ttesting.AssertEqualInt(t, "first start", chars[0].Start, int(info.FirstCharacterTextureSegment))
	ttesting.AssertEqualInt(t, "first size", chars[0].Size, 0x100)
	ttesting.AssertEqualInt(t, "second dict size", dicts[1].Size, 0x100)

	be32(b, 0xc, 0x9999)
	_, err = RomInfoFor(b)
	ttesting.AssertErrorIs(t, "unknown release", err, ErrUnknownROM)

	_, err = RomInfoFor(b[:0x100])
	ttesting.AssertErrorIs(t, "too short", err, ErrUnknownROM)
}

func TestCharacterPalettes(t *testing.T) {
	b := romFixture()
	found := map[int]PaletteRef{
		0x180: {FileOffset: 0x180, Kind: FromAni, AnitabIndex: 3},
		0x140: {FileOffset: 0x140, Kind: FromAni, AnitabIndex: 2},
		0x160: {FileOffset: 0x160, Kind: FromAni, AnitabIndex: 1},
	}
	refs, err := CharacterPalettes(b, Releases[0], 1, found)
	ttesting.AssertNoError(t, "palettes", err)
	ttesting.AssertEqualInt(t, "deduplicated", len(refs), 4)
	ttesting.AssertEqualString(t, "primary", refs[0].Name(), "Primary 0x120")
	ttesting.AssertEqualString(t, "ugly", refs[1].Name(), "Ugly 0x140")
	ttesting.AssertEqualInt(t, "found in order", refs[2].FileOffset, 0x160)
	ttesting.AssertEqualInt(t, "found anitab", refs[3].AnitabIndex, 3)
}

func TestReadPalette(t *testing.T) {
	file, _ := graphFixture(0)
	p, err := ReadPalette(file, paletteOffset)
	ttesting.AssertNoError(t, "read", err)
	ttesting.AssertEqualInt(t, "entries", len(p), 2)
	ttesting.AssertEqualInt(t, "transparent", int(p[0].A), 0)
	ttesting.AssertEqualInt(t, "red", int(p[1].R), 0xf8)

	_, err = ReadPalette(file, len(file)-2)
	ttesting.AssertErrorIs(t, "short", err, bufptr.ErrBufferUnderrun)
}

func TestCharacter(t *testing.T) {
	file, seg := graphFixture(0)
	info := RomInfo{CharacterPalettes: 0x200}
	be32(file, 0x200, romBase+paletteOffset)
	be32(file, 0x200+paletteTableSize, romBase+paletteOffset)

	c, err := newCharacter(context.Background(), file, info, 0, seg, Segment{})
	ttesting.AssertNoError(t, "load", err)
	ttesting.AssertEqualInt(t, "palettes", len(c.Palettes), 1)

	_, ok := c.Image(0x00)
	ttesting.AssertEqualBool(t, "not an image", ok, false)
	sf, ok := c.Image(0x28)
	ttesting.AssertEqualBool(t, "image", ok, true)

	b, pal, src, err := c.Decode(sf)
	ttesting.AssertNoError(t, "decode", err)
	ttesting.AssertEqualString(t, "source", src.String(), "explicit")
	ttesting.AssertEqualInt(t, "red", int(pal[1].R), 0xf8)
	ttesting.AssertEqualBytes(t, "pixels", b.Pix, []byte{1, 2, 3, 4, 5, 6, 7, 8})

	sf.Palette = 0x9000_0000
	_, _, src, err = c.Decode(sf)
	ttesting.AssertNoError(t, "decode", err)
	ttesting.AssertEqualString(t, "bad address falls back", src.String(), "default")

	_, err = LoadCharacter(context.Background(), file, info, NumCharacters)
	if err == nil {
		t.Errorf("no error for character %d", NumCharacters)
	}
}

func TestCharacterAnimate(t *testing.T) {
	file, seg := graphFixture(0)
	c, err := newCharacter(context.Background(), file, RomInfo{CharacterPalettes: 0x200}, 0, seg, Segment{})
	ttesting.AssertNoError(t, "load", err)

	g, err := c.Animate(0, 8)
	ttesting.AssertNoError(t, "animate", err)
	ttesting.AssertEqualInt(t, "frames", len(g.Image), 1)
	ttesting.AssertEqualInt(t, "width", g.Image[0].Rect.Dx(), 4)
	ttesting.AssertEqualInt(t, "height", g.Image[0].Rect.Dy(), 2)
	ttesting.AssertEqualInt(t, "first pixel", int(g.Image[0].ColorIndexAt(0, 0)), 1)

	_, err = c.Animate(1, 8)
	if err == nil {
		t.Errorf("no error for an empty animation")
	}
	_, err = c.Animate(5, 8)
	if err == nil {
		t.Errorf("no error for a missing animation")
	}
}
