package arcade

import "strings"

// ROM names the two dumps a game's sprites are read from.
type ROM struct {
	Name    string
	CPUFile string
	GFXFile string
	MK1     bool
}

// SupportedROMs lists the games whose sprite headers Scan understands.
// The Wavenet release shares its graphics ROM with UMK3.
var SupportedROMs = []ROM{
	{Name: "MK1", CPUFile: "mkr4.maincpu", GFXFile: "mk.gfxrom", MK1: true},
	{Name: "MK2", CPUFile: "mk2.maincpu", GFXFile: "mk2.gfxrom"},
	{Name: "MK3", CPUFile: "mk3.maincpu", GFXFile: "mk3.gfxrom"},
	{Name: "UMK3", CPUFile: "umk3.maincpu", GFXFile: "umk3.gfxrom"},
	{Name: "UMK3 Wavenet", CPUFile: "umk3w.maincpu", GFXFile: "umk3.gfxrom"},
}

// ROMByName finds a supported ROM by name, ignoring case.
func ROMByName(name string) (ROM, bool) {
	for _, r := range SupportedROMs {
		if strings.EqualFold(r.Name, name) {
			return r, true
		}
	}
	return ROM{}, false
}

// ROMForFiles finds the supported ROM whose CPU file is among names.
func ROMForFiles(names []string) (ROM, bool) {
	for _, r := range SupportedROMs {
		for _, n := range names {
			if strings.EqualFold(n, r.CPUFile) {
				return r, true
			}
		}
	}
	return ROM{}, false
}
