package asm

import (
	"math"
	"path"
	"regexp"
	"strings"

	"github.com/golang/glog"

	"badc0de.net/pkg/go-spritecodec/sprite"
)

// Kind is what a source file holds, by extension.
type Kind int

const (
	KindUnknown Kind = iota
	KindImageData
	KindAnimation
	KindPalette
	KindDictionary
)

// File is a source file already loaded by the caller.
type File struct {
	Name string
	Text string
}

func (f File) lines() []string { return strings.Split(f.Text, "\n") }

// Categorize maps a file name to its Kind.
func Categorize(name string) Kind {
	switch strings.ToLower(path.Ext(name)) {
	case ".att":
		return KindImageData
	case ".atd", ".s":
		return KindAnimation
	case ".pal", ".rgb", ".mas":
		return KindPalette
	case ".dct":
		return KindDictionary
	}
	return KindUnknown
}

// SameDirectory keeps the files from others that live directly in main's
// directory. A main file without a directory keeps everything.
func SameDirectory(main File, others []File) []File {
	dir := path.Dir(main.Name)
	if !strings.Contains(main.Name, "/") {
		return others
	}
	var rv []File
	for _, f := range others {
		if path.Dir(f.Name) == dir && strings.HasPrefix(f.Name, dir+"/") {
			rv = append(rv, f)
		}
	}
	return rv
}

// ParseImageFile returns the compressed images of an .att file.
func ParseImageFile(f File) []LiteralDataEntry {
	return ParseLiteralDataEntries(f.lines(), f.Name)
}

// PaletteFile is the palettes found in one file.
type PaletteFile struct {
	Name     string
	Palettes []LiteralDataEntry
}

// ParsePaletteFiles returns the palettes of each file that has any. Palette
// tables (labels ending in _CLT) hold pointers, not colours, and are dropped.
func ParsePaletteFiles(files []File) []PaletteFile {
	var rv []PaletteFile
	for _, f := range files {
		var pals []LiteralDataEntry
		for _, e := range ParseLiteralDataEntries(f.lines(), f.Name) {
			if strings.HasSuffix(e.Label, "_CLT") {
				continue
			}
			pals = append(pals, e)
		}
		if len(pals) > 0 {
			rv = append(rv, PaletteFile{Name: f.Name, Palettes: pals})
		}
	}
	return rv
}

// ParseDictionary reads a .dct file. Dictionaries have no label of their own,
// so the data is collected under "dict".
func ParseDictionary(f File) (LiteralDataEntry, bool) {
	lines := append([]string{"dict:"}, f.lines()...)
	entries := ParseLiteralDataEntries(lines, f.Name)
	if len(entries) == 0 {
		return LiteralDataEntry{}, false
	}
	return entries[0], true
}

// ImageMeta is an image's size and placement as declared in an animation
// file.
type ImageMeta struct {
	sprite.Meta
	XOffset int
	YOffset int
}

var (
	imageLabelRe = regexp.MustCompile(`\s+.word\s+(?P<name>[A-Za-z0-9_]+_IMG)`)
	imageHalfRe  = regexp.MustCompile(`\s+[.]half\s+(?P<height>[0-9+-]+)(?:(?:,\s*)|\s+)(?P<width>[0-9+-]+)(?:(?:,\s*)|\s+)(?P<yOffset>[0-9+-]+)(?:(?:,\s*)|\s+)(?P<xOffset>[0-9+-]+)`)
)

// ExtractImageMetaData scans an animation file for `.word NAME_IMG` lines
// followed by `.half height, width, y, x`. Widths are padded to 4.
func ExtractImageMetaData(f File) map[string]ImageMeta {
	rv := make(map[string]ImageMeta)
	name := ""
	for _, line := range f.lines() {
		if name == "" {
			if m := imageLabelRe.FindStringSubmatch(line); m != nil {
				name = m[1]
			}
			continue
		}
		m := imageHalfRe.FindStringSubmatch(line)
		if m == nil {
			if strings.Contains(line, "half") {
				glog.Warningf("%s: line has \"half\" but no image metadata: %q", f.Name, line)
			}
			continue
		}
		h, _ := parseInt(m[1])
		w, _ := parseInt(m[2])
		y, _ := parseInt(m[3])
		x, _ := parseInt(m[4])
		rv[name] = ImageMeta{
			Meta:    sprite.Meta{Name: name, Width: int((w + 3) & 0xfffc), Height: int(h)},
			XOffset: int(x),
			YOffset: int(y),
		}
		name = ""
	}
	return rv
}

// ExtractImageMetaDataAll merges the metadata of several animation files.
// Later files win.
func ExtractImageMetaDataAll(files []File) map[string]ImageMeta {
	rv := make(map[string]ImageMeta)
	for _, f := range files {
		for k, v := range ExtractImageMetaData(f) {
			rv[k] = v
		}
	}
	return rv
}

// GuessMetaData picks dimensions for an image of length pixels when no
// animation file describes it: the first width from sqrt(length)/2 upwards
// that divides length, or 150x150 when there is none.
func GuessMetaData(name string, length int) ImageMeta {
	m := ImageMeta{Meta: sprite.Meta{Name: name, Width: 150, Height: 150}}
	start := int(math.Sqrt(float64(length)) / 2)
	if start < 1 {
		start = 1
	}
	for w := start; w < length; w++ {
		if length%w == 0 {
			m.Width = w
			m.Height = length / w
			break
		}
	}
	return m
}
