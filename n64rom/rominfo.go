// Package n64rom rebuilds the animation graph of a character segment in an
// MK Trilogy N64 ROM.
//
// A character segment starts with a table of animation pointers. Each
// animation is a stream of commands, some of which point at frames; frames
// are lists of subframes, and subframes point at compressed image blocks.
// None of these carry a length, so Reconstruct records every object by its
// offset in the segment and infers lengths from the next known offset.
package n64rom

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritecodec/bufptr"
)

// Magic is the first big-endian word of a byte-swapped (z64) N64 ROM.
const Magic = 0x80371240

// minROMSize rules out files too small to hold the tables.
const minROMSize = 0xffff

// ErrUnknownROM is returned when no known release matches a ROM.
var ErrUnknownROM = errors.New("unknown N64 ROM")

// RomInfo locates the character tables of one release.
type RomInfo struct {
	Name string
	// ReleaseOffset is compared against the word at 0xc of the ROM header.
	ReleaseOffset uint32
	// CharacterTextures is a table of 32 (start, end) segment pairs.
	CharacterTextures int
	// CharacterDict is a table of 32 (start, end) dictionary pairs.
	CharacterDict int
	// CharacterPalettes is the primary palette pointer table; the "ugly"
	// table follows it.
	CharacterPalettes int
	// FirstCharacterTextureSegment tells releases with the same
	// ReleaseOffset apart.
	FirstCharacterTextureSegment uint32
}

// Releases lists the known ROM releases.
var Releases = []RomInfo{
	{
		Name:                         "April 1st, 1996",
		ReleaseOffset:                0x1443,
		CharacterTextures:            0x8_6440,
		CharacterDict:                0x8_6540,
		CharacterPalettes:            0x8_7270,
		FirstCharacterTextureSegment: 0x4b_35c0,
	},
	{
		Name:                         "May 13th, 1996",
		ReleaseOffset:                0x1444,
		CharacterTextures:            0x9_74e0,
		CharacterDict:                0x9_75e0,
		CharacterPalettes:            0x9_84c0,
		FirstCharacterTextureSegment: 0x4c_4c40,
	},
	{
		Name:                         "July 29th, 1996",
		ReleaseOffset:                0x1444,
		CharacterTextures:            0xa_166c,
		CharacterDict:                0xa_176c,
		CharacterPalettes:            0xa_2850,
		FirstCharacterTextureSegment: 0x43_d3c0,
	},
	{
		Name:                         "MKTPAL.ROM - July 29th, 1996",
		ReleaseOffset:                0x1444,
		CharacterTextures:            0xa_15ec,
		CharacterDict:                0xa_16ec,
		CharacterPalettes:            0xa_27d0,
		FirstCharacterTextureSegment: 0x43_d340,
	},
	{
		Name:                         "Rev 1.2",
		ReleaseOffset:                0x1444,
		CharacterTextures:            0xa_247c,
		CharacterDict:                0xa_257c,
		CharacterPalettes:            0xa_3660,
		FirstCharacterTextureSegment: 0x43_df80,
	},
}

// IsROM reports whether file looks like an N64 ROM at all.
func IsROM(file []byte) bool {
	if len(file) < minROMSize {
		return false
	}
	m, err := bufptr.NewBE(file, 0).U32()
	return err == nil && m == Magic
}

// RomInfoFor identifies the release of file.
func RomInfoFor(file []byte) (RomInfo, error) {
	if !IsROM(file) {
		return RomInfo{}, errors.Wrap(ErrUnknownROM, "bad magic")
	}
	p := bufptr.NewBE(file, 0xc)
	release, err := p.U32()
	if err != nil {
		return RomInfo{}, errors.Wrap(err, "release offset")
	}
	for _, r := range Releases {
		if r.ReleaseOffset != release {
			continue
		}
		if r.CharacterTextures > len(file) {
			glog.Warningf("%s: character textures at 0x%x are past the end of a 0x%x byte file", r.Name, r.CharacterTextures, len(file))
			continue
		}
		p.Seek(r.CharacterTextures)
		first, err := p.U32()
		if err != nil {
			continue
		}
		if first == r.FirstCharacterTextureSegment {
			return r, nil
		}
	}
	return RomInfo{}, errors.Wrapf(ErrUnknownROM, "release 0x%x", release)
}

// Segment is a byte range of the ROM. Offsets inside a segment are relative
// to Start.
type Segment struct {
	Start int
	End   int
	Size  int
}

// NewSegment returns the segment [start, end).
func NewSegment(start, end int) Segment {
	return Segment{Start: start, End: end, Size: end - start}
}

// NumCharacters is the number of entries in each character table.
const NumCharacters = 32

// Segments reads the character segments and their dictionaries.
func Segments(file []byte, info RomInfo) (chars, dicts []Segment, err error) {
	read := func(table, i int) (Segment, error) {
		p := bufptr.NewBE(file, table+i*8)
		start, err := p.GetAndIncU32()
		if err != nil {
			return Segment{}, err
		}
		end, err := p.GetAndIncU32()
		if err != nil {
			return Segment{}, err
		}
		return NewSegment(int(start), int(end)), nil
	}
	for i := 0; i < NumCharacters; i++ {
		c, err := read(info.CharacterTextures, i)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "character segment %d", i)
		}
		d, err := read(info.CharacterDict, i)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "character dictionary %d", i)
		}
		chars = append(chars, c)
		dicts = append(dicts, d)
	}
	return chars, dicts, nil
}

// Bytes returns the segment's bytes, clipped to file.
func (s Segment) Bytes(file []byte) []byte {
	start, end := s.Start, s.End
	if start < 0 {
		start = 0
	}
	if end > len(file) {
		end = len(file)
	}
	if start >= end {
		return nil
	}
	return file[start:end]
}
